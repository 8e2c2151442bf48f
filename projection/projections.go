package projection

import (
	"fieldops/domain"
	"fieldops/domain/status"
	"fieldops/session"
	"sort"
	"strings"
	"time"

	"github.com/fundwit/go-commons/types"
)

// The whole order collection is fetched and projected in memory; the upstream
// API offers neither filtering nor pagination and the datasets stay small.

// FilterTodos is the status dropdown's catch-all choice.
const FilterTodos = "Todos"

type DashboardStats struct {
	Total       int `json:"total"`
	Pendientes  int `json:"pendientes"`
	EnProgreso  int `json:"enProgreso"`
	EnRevision  int `json:"enRevision"`
	Finalizados int `json:"finalizados"`
	SinEstado   int `json:"sinEstado"`
}

// DashboardCounts aggregates the tiles. The "En Revisión" tile is scoped to
// the supervisor's own orders; administrators see the global count.
func DashboardCounts(orders []domain.Order, secCtx *session.Session) DashboardStats {
	stats := DashboardStats{Total: len(orders)}
	for i := range orders {
		order := &orders[i]
		switch order.StatusKind() {
		case status.Pendiente:
			stats.Pendientes++
		case status.EnProgreso:
			stats.EnProgreso++
		case status.EnRevision:
			if supervisorScoped(secCtx) && !ownedBySupervisor(order, secCtx) {
				continue
			}
			stats.EnRevision++
		case status.Finalizado:
			stats.Finalizados++
		default:
			stats.SinEstado++
		}
	}
	return stats
}

func supervisorScoped(secCtx *session.Session) bool {
	return secCtx != nil && secCtx.HasRole(session.RoleSupervisor)
}

func ownedBySupervisor(order *domain.Order, secCtx *session.Session) bool {
	return order.Supervisor != nil && types.ID(*order.Supervisor) == secCtx.Identity.ID
}

// FilterOrders combines a case-insensitive substring search over title and
// client name with an exact, case-sensitive status-name match. "Todos" (or an
// empty selection) disables the status filter; orders without a status never
// match a named filter.
func FilterOrders(orders []domain.Order, query, statusName string) []domain.Order {
	query = strings.ToLower(strings.TrimSpace(query))
	filtered := []domain.Order{}
	for _, order := range orders {
		if query != "" &&
			!strings.Contains(strings.ToLower(order.Titulo), query) &&
			!strings.Contains(strings.ToLower(order.ClienteNombre), query) {
			continue
		}
		if statusName != "" && statusName != FilterTodos {
			if order.EstadoData == nil || order.EstadoData.Nombre != statusName {
				continue
			}
		}
		filtered = append(filtered, order)
	}
	return filtered
}

// SortNewestFirst returns a copy ordered by id descending, the list screen's
// display order.
func SortNewestFirst(orders []domain.Order) []domain.Order {
	sorted := append([]domain.Order{}, orders...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })
	return sorted
}

type JobsSplit struct {
	Active  []domain.Order
	History []domain.Order
}

// MyJobs selects the technician's own orders and splits them into the active
// tab and the finished history tab.
func MyJobs(orders []domain.Order, technicianID types.ID) JobsSplit {
	split := JobsSplit{Active: []domain.Order{}, History: []domain.Order{}}
	for _, order := range orders {
		if order.Tecnico == nil || types.ID(*order.Tecnico) != technicianID {
			continue
		}
		if order.StatusKind() == status.Finalizado {
			split.History = append(split.History, order)
		} else {
			split.Active = append(split.Active, order)
		}
	}
	return split
}

// EventDuration is the fixed display length of calendar events; the order
// model has no duration field.
const EventDuration = time.Hour

type CalendarEvent struct {
	OrderID   int64     `json:"orderId"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Color     string    `json:"color"`
	Estado    string    `json:"estado"`
	Cliente   string    `json:"cliente"`
	Tecnico   string    `json:"tecnico"`
	Direccion string    `json:"direccion"`
}

// CalendarEvents projects scheduled orders onto the calendar. Orders without
// a start timestamp are not shown.
func CalendarEvents(orders []domain.Order) []CalendarEvent {
	events := []CalendarEvent{}
	for i := range orders {
		order := &orders[i]
		if order.FechaInicio == nil {
			continue
		}
		events = append(events, CalendarEvent{
			OrderID:   order.ID,
			Title:     order.Titulo,
			Start:     *order.FechaInicio,
			End:       order.FechaInicio.Add(EventDuration),
			Color:     order.StatusColor(),
			Estado:    order.StatusName(),
			Cliente:   order.ClienteNombre,
			Tecnico:   order.TecnicoNombre,
			Direccion: order.Direccion,
		})
	}
	return events
}

// SupervisorQueue selects the supervisor's own orders (administrators see
// all) with the ones awaiting review first, otherwise keeping list order.
func SupervisorQueue(orders []domain.Order, secCtx *session.Session) []domain.Order {
	queue := []domain.Order{}
	for _, order := range orders {
		if secCtx != nil && secCtx.HasRole(session.RoleAdministrador) {
			queue = append(queue, order)
			continue
		}
		if supervisorScoped(secCtx) && ownedBySupervisor(&order, secCtx) {
			queue = append(queue, order)
		}
	}
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].StatusKind() == status.EnRevision && queue[j].StatusKind() != status.EnRevision
	})
	return queue
}
