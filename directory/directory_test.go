package directory_test

import (
	"context"
	"errors"
	"fieldops/apiclient"
	"fieldops/common"
	"fieldops/directory"
	"fieldops/domain"
	"fieldops/session"
	"testing"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func TestPersonnel(t *testing.T) {
	RegisterTestingT(t)

	t.Run("merges the three listings tagged by role", func(t *testing.T) {
		directory.ListTechniciansFunc = func(ctx context.Context) ([]domain.Person, error) {
			return []domain.Person{{ID: 1, Username: "tec1"}}, nil
		}
		directory.ListSupervisorsFunc = func(ctx context.Context) ([]domain.Person, error) {
			return []domain.Person{{ID: 2, Username: "sup1"}, {ID: 3, Username: "sup2"}}, nil
		}
		directory.ListClientsFunc = func(ctx context.Context) ([]domain.Person, error) {
			return []domain.Person{{ID: 4, Username: "cli1"}}, nil
		}

		members, err := directory.Personnel(context.Background(), &session.Session{AccessToken: "at"})
		Expect(err).To(BeNil())
		Expect(members).To(HaveLen(4))
		Expect(members[0].Role).To(Equal(session.RoleTecnico))
		Expect(members[1].Role).To(Equal(session.RoleSupervisor))
		Expect(members[2].Role).To(Equal(session.RoleSupervisor))
		Expect(members[3].Role).To(Equal(session.RoleCliente))
		Expect(members[3].Username).To(Equal("cli1"))
	})

	t.Run("a failed listing aborts the merge", func(t *testing.T) {
		directory.ListTechniciansFunc = func(ctx context.Context) ([]domain.Person, error) {
			return nil, errors.New("unexpected network error")
		}

		_, err := directory.Personnel(context.Background(), &session.Session{AccessToken: "at"})
		Expect(err).ToNot(BeNil())
	})
}

func TestQuickCreateClient(t *testing.T) {
	RegisterTestingT(t)

	origin := directory.NextIdFunc
	defer func() { directory.NextIdFunc = origin }()
	var nextId types.ID = 1000
	directory.NextIdFunc = func() types.ID { nextId++; return nextId }

	t.Run("derives a unique username from the display name", func(t *testing.T) {
		var got *apiclient.ClientCreation
		directory.CreateClientFunc = func(ctx context.Context, creation *apiclient.ClientCreation) (*domain.Person, error) {
			got = creation
			return &domain.Person{ID: 9, Username: creation.Username}, nil
		}

		person, err := directory.QuickCreateClient(context.Background(), &session.Session{AccessToken: "at"},
			directory.QuickClient{Name: "  María Pérez ", Email: "maria@example.com"})
		Expect(err).To(BeNil())
		Expect(person.ID).To(Equal(int64(9)))
		Expect(got.FirstName).To(Equal("María Pérez"))
		Expect(got.Email).To(Equal("maria@example.com"))
		Expect(got.Username).To(MatchRegexp(`^maría\.pérez-\d+$`))
	})

	t.Run("two creations with the same name get different usernames", func(t *testing.T) {
		usernames := map[string]bool{}
		directory.CreateClientFunc = func(ctx context.Context, creation *apiclient.ClientCreation) (*domain.Person, error) {
			usernames[creation.Username] = true
			return &domain.Person{Username: creation.Username}, nil
		}

		secCtx := &session.Session{AccessToken: "at"}
		_, err := directory.QuickCreateClient(context.Background(), secCtx, directory.QuickClient{Name: "Acme"})
		Expect(err).To(BeNil())
		_, err = directory.QuickCreateClient(context.Background(), secCtx, directory.QuickClient{Name: "Acme"})
		Expect(err).To(BeNil())
		Expect(usernames).To(HaveLen(2))
	})

	t.Run("an empty name is rejected before any call", func(t *testing.T) {
		called := false
		directory.CreateClientFunc = func(ctx context.Context, creation *apiclient.ClientCreation) (*domain.Person, error) {
			called = true
			return nil, nil
		}

		_, err := directory.QuickCreateClient(context.Background(), &session.Session{AccessToken: "at"}, directory.QuickClient{Name: "  "})
		Expect(err).ToNot(BeNil())
		badParam := &common.ErrBadParam{}
		Expect(errors.As(err, &badParam)).To(BeTrue())
		Expect(called).To(BeFalse())
	})

	t.Run("a malformed email is rejected", func(t *testing.T) {
		_, err := directory.QuickCreateClient(context.Background(), &session.Session{AccessToken: "at"},
			directory.QuickClient{Name: "Acme", Email: "not-an-email"})
		Expect(err).ToNot(BeNil())
	})
}

func TestProvisionUser(t *testing.T) {
	RegisterTestingT(t)

	valid := directory.UserDraft{
		Username: "jlopez", FirstName: "Juan", LastName: "López",
		Email: "juan@example.com", Password: "s3cret-pass", Role: "Tecnico",
	}

	t.Run("posts the provisioning payload", func(t *testing.T) {
		var got *apiclient.UserProvision
		directory.ProvisionUserFunc = func(ctx context.Context, provision *apiclient.UserProvision) error {
			got = provision
			return nil
		}

		Expect(directory.ProvisionUser(context.Background(), &session.Session{AccessToken: "at"}, valid)).To(BeNil())
		Expect(got.Username).To(Equal("jlopez"))
		Expect(got.Rol).To(Equal("Tecnico"))
	})

	t.Run("only technician and supervisor roles are accepted", func(t *testing.T) {
		called := false
		directory.ProvisionUserFunc = func(ctx context.Context, provision *apiclient.UserProvision) error {
			called = true
			return nil
		}

		draft := valid
		draft.Role = "Administrador"
		err := directory.ProvisionUser(context.Background(), &session.Session{AccessToken: "at"}, draft)
		Expect(err).ToNot(BeNil())
		Expect(called).To(BeFalse())

		draft.Role = "Supervisor"
		Expect(directory.ProvisionUser(context.Background(), &session.Session{AccessToken: "at"}, draft)).To(BeNil())
	})

	t.Run("a short password is rejected", func(t *testing.T) {
		draft := valid
		draft.Password = "short"
		Expect(directory.ProvisionUser(context.Background(), &session.Session{AccessToken: "at"}, draft)).ToNot(BeNil())
	})
}
