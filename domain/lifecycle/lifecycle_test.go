package lifecycle_test

import (
	"context"
	"errors"
	"fieldops/apiclient"
	"fieldops/bizerror"
	"fieldops/domain"
	"fieldops/domain/lifecycle"
	"fieldops/domain/status"
	"fieldops/session"
	"testing"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func intp(v int64) *int64 { return &v }

func orderWith(statusName string, tecnico, supervisor *int64) *domain.Order {
	order := &domain.Order{ID: 40, Titulo: "Reparación bomba", Tecnico: tecnico, Supervisor: supervisor}
	if statusName != "" {
		order.EstadoData = &status.Estado{ID: 9, Nombre: statusName, Color: "#FFC107"}
	}
	return order
}

func secCtxWith(role session.Role, id uint64) *session.Session {
	return &session.Session{Token: "t", Identity: session.Identity{ID: types.ID(id), Name: "u", Role: role}}
}

func fullCatalog() status.Catalog {
	return status.NewCatalog([]status.Estado{
		{ID: 1, Nombre: "Pendiente"},
		{ID: 2, Nombre: "En Progreso"},
		{ID: 3, Nombre: "En Revisión"},
		{ID: 4, Nombre: "Finalizado"},
	})
}

func TestCanTechnicianAct(t *testing.T) {
	RegisterTestingT(t)

	order := orderWith("Pendiente", intp(5), nil)

	t.Run("true only for the assigned technician", func(t *testing.T) {
		Expect(lifecycle.CanTechnicianAct(secCtxWith(session.RoleTecnico, 5), order)).To(BeTrue())
	})

	t.Run("false for every other combination", func(t *testing.T) {
		otherTech := orderWith("Pendiente", intp(99), nil)
		unassigned := orderWith("Pendiente", nil, nil)

		Expect(lifecycle.CanTechnicianAct(secCtxWith(session.RoleTecnico, 5), otherTech)).To(BeFalse())
		Expect(lifecycle.CanTechnicianAct(secCtxWith(session.RoleTecnico, 5), unassigned)).To(BeFalse())
		Expect(lifecycle.CanTechnicianAct(secCtxWith(session.RoleAdministrador, 5), order)).To(BeFalse())
		Expect(lifecycle.CanTechnicianAct(secCtxWith(session.RoleSupervisor, 5), order)).To(BeFalse())
		Expect(lifecycle.CanTechnicianAct(secCtxWith(session.RoleCliente, 5), order)).To(BeFalse())
		Expect(lifecycle.CanTechnicianAct(nil, order)).To(BeFalse())
	})
}

func TestCanSupervisorAct(t *testing.T) {
	RegisterTestingT(t)

	t.Run("administrators act on any order", func(t *testing.T) {
		Expect(lifecycle.CanSupervisorAct(secCtxWith(session.RoleAdministrador, 5), orderWith("En Revisión", nil, nil))).To(BeTrue())
		Expect(lifecycle.CanSupervisorAct(secCtxWith(session.RoleAdministrador, 5), orderWith("En Revisión", nil, intp(99)))).To(BeTrue())
	})

	t.Run("supervisors act only on their own orders", func(t *testing.T) {
		Expect(lifecycle.CanSupervisorAct(secCtxWith(session.RoleSupervisor, 5), orderWith("En Revisión", nil, intp(5)))).To(BeTrue())
		Expect(lifecycle.CanSupervisorAct(secCtxWith(session.RoleSupervisor, 5), orderWith("En Revisión", nil, intp(99)))).To(BeFalse())
		Expect(lifecycle.CanSupervisorAct(secCtxWith(session.RoleSupervisor, 5), orderWith("En Revisión", nil, nil))).To(BeFalse())
	})

	t.Run("other roles never act", func(t *testing.T) {
		Expect(lifecycle.CanSupervisorAct(secCtxWith(session.RoleTecnico, 5), orderWith("En Revisión", nil, intp(5)))).To(BeFalse())
		Expect(lifecycle.CanSupervisorAct(secCtxWith(session.RoleCliente, 5), orderWith("En Revisión", nil, intp(5)))).To(BeFalse())
		Expect(lifecycle.CanSupervisorAct(nil, orderWith("En Revisión", nil, intp(5)))).To(BeFalse())
	})
}

func TestAvailableActions(t *testing.T) {
	RegisterTestingT(t)

	t.Run("pendiente offers only start, to the assigned technician", func(t *testing.T) {
		actions := lifecycle.AvailableActions(secCtxWith(session.RoleTecnico, 5), orderWith("Pendiente", intp(5), nil))
		Expect(actions).To(HaveLen(1))
		Expect(actions[0].Action).To(Equal(lifecycle.ActionIniciar))
		Expect(actions[0].NeedsReason).To(BeFalse())
	})

	t.Run("en revisión offers approve and reject to the assigned supervisor", func(t *testing.T) {
		actions := lifecycle.AvailableActions(secCtxWith(session.RoleSupervisor, 5), orderWith("En Revisión", nil, intp(5)))
		Expect(actions).To(HaveLen(2))
		Expect(actions[0].Action).To(Equal(lifecycle.ActionAprobar))
		Expect(actions[1].Action).To(Equal(lifecycle.ActionRechazar))
		Expect(actions[1].NeedsReason).To(BeTrue())
	})

	t.Run("finalizado is terminal for everyone", func(t *testing.T) {
		Expect(lifecycle.AvailableActions(secCtxWith(session.RoleAdministrador, 5), orderWith("Finalizado", intp(5), intp(5)))).To(BeEmpty())
	})

	t.Run("an order without status offers nothing", func(t *testing.T) {
		Expect(lifecycle.AvailableActions(secCtxWith(session.RoleAdministrador, 5), orderWith("", intp(5), intp(5)))).To(BeEmpty())
	})

	t.Run("a technician gets nothing on someone else's order", func(t *testing.T) {
		Expect(lifecycle.AvailableActions(secCtxWith(session.RoleTecnico, 5), orderWith("Pendiente", intp(99), nil))).To(BeEmpty())
	})
}

func TestTransit(t *testing.T) {
	RegisterTestingT(t)

	var patches []map[string]interface{}
	var logs []*apiclient.Form
	beforeEach := func() {
		patches = nil
		logs = nil
		lifecycle.PatchOrderFunc = func(ctx context.Context, id int64, fields map[string]interface{}) (*domain.Order, error) {
			patches = append(patches, fields)
			return &domain.Order{ID: id}, nil
		}
		lifecycle.AppendWorkLogFunc = func(ctx context.Context, form *apiclient.Form) (*domain.Avance, error) {
			logs = append(logs, form)
			return &domain.Avance{ID: 1}, nil
		}
	}

	t.Run("start patches to En Progreso and appends the fixed log line", func(t *testing.T) {
		beforeEach()
		order := orderWith("Pendiente", intp(5), nil)
		_, err := lifecycle.Transit(context.Background(), secCtxWith(session.RoleTecnico, 5), order, fullCatalog(), lifecycle.ActionIniciar, "")
		Expect(err).To(BeNil())
		Expect(patches).To(HaveLen(1))
		Expect(patches[0]).To(Equal(map[string]interface{}{"estado": int64(2)}))
		Expect(logs).To(HaveLen(1))
		Expect(logs[0].Fields["orden"]).To(Equal("40"))
		Expect(logs[0].Fields["contenido"]).To(Equal("Trabajo iniciado por el técnico."))
	})

	t.Run("approve stamps the end timestamp", func(t *testing.T) {
		beforeEach()
		order := orderWith("En Revisión", nil, intp(5))
		_, err := lifecycle.Transit(context.Background(), secCtxWith(session.RoleSupervisor, 5), order, fullCatalog(), lifecycle.ActionAprobar, "")
		Expect(err).To(BeNil())
		Expect(patches[0]["estado"]).To(Equal(int64(4)))
		Expect(patches[0]).To(HaveKey("fecha_fin"))
	})

	t.Run("reject requires a reason before any call goes out", func(t *testing.T) {
		beforeEach()
		order := orderWith("En Revisión", nil, intp(5))
		_, err := lifecycle.Transit(context.Background(), secCtxWith(session.RoleSupervisor, 5), order, fullCatalog(), lifecycle.ActionRechazar, "   ")
		Expect(errors.Is(err, bizerror.ErrEmptyReason)).To(BeTrue())
		Expect(patches).To(BeEmpty())
		Expect(logs).To(BeEmpty())
	})

	t.Run("reject patches back to En Progreso and logs the reason", func(t *testing.T) {
		beforeEach()
		order := orderWith("En Revisión", nil, intp(5))
		_, err := lifecycle.Transit(context.Background(), secCtxWith(session.RoleSupervisor, 5), order, fullCatalog(), lifecycle.ActionRechazar, "faltan fotos")
		Expect(err).To(BeNil())
		Expect(patches[0]["estado"]).To(Equal(int64(2)))
		Expect(logs[0].Fields["contenido"]).To(ContainSubstring("faltan fotos"))
	})

	t.Run("a catalog miss aborts before any call and keeps the prior status", func(t *testing.T) {
		beforeEach()
		order := orderWith("Pendiente", intp(5), nil)
		empty := status.NewCatalog(nil)
		_, err := lifecycle.Transit(context.Background(), secCtxWith(session.RoleTecnico, 5), order, empty, lifecycle.ActionIniciar, "")
		Expect(errors.Is(err, bizerror.ErrUnknownStatus)).To(BeTrue())
		Expect(patches).To(BeEmpty())
		Expect(order.StatusName()).To(Equal("Pendiente"))
	})

	t.Run("an actor outside the table is rejected", func(t *testing.T) {
		beforeEach()
		order := orderWith("Pendiente", intp(5), nil)
		_, err := lifecycle.Transit(context.Background(), secCtxWith(session.RoleSupervisor, 5), order, fullCatalog(), lifecycle.ActionIniciar, "")
		Expect(errors.Is(err, bizerror.ErrForbidden)).To(BeTrue())
		Expect(patches).To(BeEmpty())
	})

	t.Run("a transition that does not match the current status is invalid", func(t *testing.T) {
		beforeEach()
		order := orderWith("Finalizado", intp(5), intp(5))
		_, err := lifecycle.Transit(context.Background(), secCtxWith(session.RoleAdministrador, 5), order, fullCatalog(), lifecycle.ActionAprobar, "")
		Expect(errors.Is(err, bizerror.ErrInvalidTransition)).To(BeTrue())
	})

	t.Run("a failed log append compensates the status patch", func(t *testing.T) {
		beforeEach()
		lifecycle.AppendWorkLogFunc = func(ctx context.Context, form *apiclient.Form) (*domain.Avance, error) {
			return nil, errors.New("avances down")
		}
		order := orderWith("Pendiente", intp(5), nil)
		_, err := lifecycle.Transit(context.Background(), secCtxWith(session.RoleTecnico, 5), order, fullCatalog(), lifecycle.ActionIniciar, "")
		Expect(err).ToNot(BeNil())
		Expect(patches).To(HaveLen(2))
		Expect(patches[1]["estado"]).To(Equal(int64(9))) // prior catalog id of the order
	})

	t.Run("a failed compensation flags manual reconciliation", func(t *testing.T) {
		beforeEach()
		lifecycle.AppendWorkLogFunc = func(ctx context.Context, form *apiclient.Form) (*domain.Avance, error) {
			return nil, errors.New("avances down")
		}
		calls := 0
		lifecycle.PatchOrderFunc = func(ctx context.Context, id int64, fields map[string]interface{}) (*domain.Order, error) {
			calls++
			if calls > 1 {
				return nil, errors.New("ordenes down")
			}
			return &domain.Order{ID: id}, nil
		}
		order := orderWith("En Revisión", nil, intp(5))
		_, err := lifecycle.Transit(context.Background(), secCtxWith(session.RoleSupervisor, 5), order, fullCatalog(), lifecycle.ActionAprobar, "")
		Expect(errors.Is(err, bizerror.ErrNeedsReconciliation)).To(BeTrue())
	})
}
