package lifecycle

import (
	"context"
	"fieldops/apiclient"
	"fieldops/bizerror"
	"fieldops/domain"
	"fieldops/domain/status"
	"fieldops/session"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fundwit/go-commons/types"
)

type Action string

const (
	ActionIniciar           Action = "iniciar"
	ActionSolicitarRevision Action = "solicitar_revision"
	ActionAprobar           Action = "aprobar"
	ActionRechazar          Action = "rechazar"
)

var (
	statePendiente  = status.State{Name: "Pendiente", Kind: status.Pendiente}
	stateEnProgreso = status.State{Name: "En Progreso", Kind: status.EnProgreso}
	stateEnRevision = status.State{Name: "En Revisión", Kind: status.EnRevision}
	stateFinalizado = status.State{Name: "Finalizado", Kind: status.Finalizado}
)

// Machine is the order lifecycle: a linear Pendiente → En Progreso →
// En Revisión → Finalizado chain with one reverse edge for rejection.
// Finalizado is terminal.
var Machine = status.NewStateMachine(
	[]status.State{statePendiente, stateEnProgreso, stateEnRevision, stateFinalizado},
	[]status.Transition{
		{Name: string(ActionIniciar), From: statePendiente, To: stateEnProgreso},
		{Name: string(ActionSolicitarRevision), From: stateEnProgreso, To: stateEnRevision},
		{Name: string(ActionAprobar), From: stateEnRevision, To: stateFinalizado},
		{Name: string(ActionRechazar), From: stateEnRevision, To: stateEnProgreso},
	})

// CanTechnicianAct: only the order's own assigned technician advances it.
func CanTechnicianAct(secCtx *session.Session, order *domain.Order) bool {
	if secCtx == nil || !secCtx.HasRole(session.RoleTecnico) {
		return false
	}
	return order.Tecnico != nil && types.ID(*order.Tecnico) == secCtx.Identity.ID
}

// CanSupervisorAct: administrators act on any order, supervisors only on
// orders assigned to them.
func CanSupervisorAct(secCtx *session.Session, order *domain.Order) bool {
	if secCtx == nil {
		return false
	}
	if secCtx.HasRole(session.RoleAdministrador) {
		return true
	}
	if !secCtx.HasRole(session.RoleSupervisor) {
		return false
	}
	return order.Supervisor != nil && types.ID(*order.Supervisor) == secCtx.Identity.ID
}

func actorAllowed(action Action, secCtx *session.Session, order *domain.Order) bool {
	switch action {
	case ActionIniciar, ActionSolicitarRevision:
		return CanTechnicianAct(secCtx, order)
	case ActionAprobar, ActionRechazar:
		return CanSupervisorAct(secCtx, order)
	}
	return false
}

// ActionView is what the detail screen renders as a button.
type ActionView struct {
	Action      Action
	Label       string
	NeedsReason bool
}

var actionLabels = map[Action]string{
	ActionIniciar:           "Iniciar Trabajo",
	ActionSolicitarRevision: "Enviar a Revisión",
	ActionAprobar:           "Aprobar y Finalizar",
	ActionRechazar:          "Rechazar",
}

// AvailableActions computes the transition buttons the current user gets on
// one order. Authorization here is rendering-only; the upstream API is the
// authority.
func AvailableActions(secCtx *session.Session, order *domain.Order) []ActionView {
	views := []ActionView{}
	for _, transition := range Machine.AvailableTransitions(order.StatusKind()) {
		action := Action(transition.Name)
		if !actorAllowed(action, secCtx, order) {
			continue
		}
		views = append(views, ActionView{
			Action:      action,
			Label:       actionLabels[action],
			NeedsReason: action == ActionRechazar,
		})
	}
	return views
}

func transitionMessage(action Action, reason string) string {
	switch action {
	case ActionIniciar:
		return "Trabajo iniciado por el técnico."
	case ActionSolicitarRevision:
		return "Trabajo enviado a revisión por el técnico."
	case ActionAprobar:
		return "Trabajo aprobado y finalizado por supervisión."
	case ActionRechazar:
		return "Trabajo rechazado por supervisión. Motivo: " + reason
	}
	return ""
}

// indirections over the gateway client, swappable in tests
var (
	PatchOrderFunc = func(ctx context.Context, id int64, fields map[string]interface{}) (*domain.Order, error) {
		return apiclient.ActiveClient.PatchOrder(ctx, id, fields)
	}
	AppendWorkLogFunc = func(ctx context.Context, form *apiclient.Form) (*domain.Avance, error) {
		return apiclient.ActiveClient.AppendWorkLog(ctx, form)
	}

	TransitFunc = Transit
)

// Transit performs one lifecycle transition as a single logical operation:
// patch the order's status, then append the transition's bitácora line. The
// two upstream calls are not atomic; when the log append fails the status
// patch is compensated, and if the compensation fails too the order is
// flagged for manual reconciliation.
func Transit(ctx context.Context, secCtx *session.Session, order *domain.Order, catalog status.Catalog, action Action, reason string) (*domain.Order, error) {
	transition, found := Machine.FindTransition(string(action))
	if !found || transition.From.Kind != order.StatusKind() {
		return nil, bizerror.ErrInvalidTransition
	}
	if !actorAllowed(action, secCtx, order) {
		return nil, bizerror.ErrForbidden
	}
	if action == ActionRechazar && strings.TrimSpace(reason) == "" {
		return nil, bizerror.ErrEmptyReason
	}

	target, found := catalog.Find(transition.To.Kind)
	if !found {
		// the order keeps its prior status; nothing was sent upstream
		return nil, bizerror.ErrUnknownStatus
	}

	fields := map[string]interface{}{"estado": target.ID}
	if action == ActionAprobar {
		fields["fecha_fin"] = time.Now().UTC().Format(time.RFC3339)
	}

	updated, err := PatchOrderFunc(ctx, order.ID, fields)
	if err != nil {
		return nil, err
	}

	form := &apiclient.Form{Fields: map[string]string{
		"orden":     strconv.FormatInt(order.ID, 10),
		"contenido": transitionMessage(action, strings.TrimSpace(reason)),
	}}
	if _, logErr := AppendWorkLogFunc(ctx, form); logErr != nil {
		revert := map[string]interface{}{"estado": order.EstadoData.ID}
		if action == ActionAprobar {
			revert["fecha_fin"] = nil
		}
		if _, compErr := PatchOrderFunc(ctx, order.ID, revert); compErr != nil {
			return nil, fmt.Errorf("%w: log append failed (%v) and status revert failed (%v)", bizerror.ErrNeedsReconciliation, logErr, compErr)
		}
		return nil, logErr
	}

	return updated, nil
}
