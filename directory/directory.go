package directory

import (
	"context"
	"fieldops/apiclient"
	"fieldops/common"
	"fieldops/domain"
	"fieldops/session"
	"fmt"
	"strings"
	"unicode"

	"github.com/fundwit/go-commons/types"
	"github.com/go-playground/validator/v10"
)

// Member is a directory row: a person plus the role list the upstream API
// served them under.
type Member struct {
	domain.Person
	Role session.Role `json:"rol"`
}

var (
	ListClientsFunc     = func(ctx context.Context) ([]domain.Person, error) { return apiclient.ActiveClient.ListClients(ctx) }
	ListTechniciansFunc = func(ctx context.Context) ([]domain.Person, error) { return apiclient.ActiveClient.ListTechnicians(ctx) }
	ListSupervisorsFunc = func(ctx context.Context) ([]domain.Person, error) { return apiclient.ActiveClient.ListSupervisors(ctx) }
	CreateClientFunc    = func(ctx context.Context, creation *apiclient.ClientCreation) (*domain.Person, error) {
		return apiclient.ActiveClient.CreateClient(ctx, creation)
	}
	ProvisionUserFunc = func(ctx context.Context, provision *apiclient.UserProvision) error {
		return apiclient.ActiveClient.ProvisionUser(ctx, provision)
	}
	NextIdFunc = func() types.ID { return common.NextId(common.IdWorker) }
)

func authCtx(ctx context.Context, secCtx *session.Session) context.Context {
	return apiclient.ContextWithToken(ctx, secCtx.AccessToken)
}

// Personnel merges the three role listings into one directory, technicians
// first, then supervisors, then clients, each tagged with its role.
func Personnel(ctx context.Context, secCtx *session.Session) ([]Member, error) {
	ctx = authCtx(ctx, secCtx)
	technicians, err := ListTechniciansFunc(ctx)
	if err != nil {
		return nil, err
	}
	supervisors, err := ListSupervisorsFunc(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := ListClientsFunc(ctx)
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(technicians)+len(supervisors)+len(clients))
	for _, p := range technicians {
		members = append(members, Member{Person: p, Role: session.RoleTecnico})
	}
	for _, p := range supervisors {
		members = append(members, Member{Person: p, Role: session.RoleSupervisor})
	}
	for _, p := range clients {
		members = append(members, Member{Person: p, Role: session.RoleCliente})
	}
	return members, nil
}

// QuickClient is the order form's inline client creation: only a display name
// and an optional email, the rest is derived.
type QuickClient struct {
	Name  string `validate:"required"`
	Email string `validate:"omitempty,email"`
}

// QuickCreateClient derives a unique username from the display name plus an
// id-worker suffix and registers the client, returning the created person so
// the form can select it immediately.
func QuickCreateClient(ctx context.Context, secCtx *session.Session, quick QuickClient) (*domain.Person, error) {
	quick.Name = strings.TrimSpace(quick.Name)
	if err := validator.New().Struct(quick); err != nil {
		return nil, &common.ErrBadParam{Cause: err}
	}

	username := fmt.Sprintf("%s-%d", slugify(quick.Name), NextIdFunc())
	creation := &apiclient.ClientCreation{Username: username, FirstName: quick.Name, Email: quick.Email}
	return CreateClientFunc(authCtx(ctx, secCtx), creation)
}

// UserDraft is the admin console's provisioning form. Only technician and
// supervisor accounts are created this way; clients come in through the
// order form.
type UserDraft struct {
	Username  string `validate:"required,min=3"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
	Role      string `validate:"required,oneof=Tecnico Supervisor"`
}

func ProvisionUser(ctx context.Context, secCtx *session.Session, draft UserDraft) error {
	if err := validator.New().Struct(draft); err != nil {
		return &common.ErrBadParam{Cause: err}
	}
	provision := &apiclient.UserProvision{
		Username:  draft.Username,
		FirstName: draft.FirstName,
		LastName:  draft.LastName,
		Email:     draft.Email,
		Password:  draft.Password,
		Rol:       draft.Role,
	}
	return ProvisionUserFunc(authCtx(ctx, secCtx), provision)
}

// slugify lowercases the name and keeps letters and digits, joining words
// with dots, so "María Pérez" becomes "maría.pérez".
func slugify(name string) string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "cliente"
	}
	return strings.Join(words, ".")
}
