package servehttp

import (
	"context"
	"fieldops/apiclient"
	"fieldops/bizerror"
	"fieldops/domain"
	"fieldops/domain/status"
	"fieldops/projection"
	"fieldops/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ListOrdersFunc = func(ctx context.Context) ([]domain.Order, error) {
		return apiclient.ActiveClient.ListOrders(ctx)
	}
	FetchStatusCatalogFunc = func(ctx context.Context) (status.Catalog, error) {
		return apiclient.ActiveClient.FetchStatusCatalog(ctx)
	}
)

func RegisterConsoleHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/", middleWares...)

	handler := &consoleHandler{}

	g.GET("", handler.handleHome)
	g.GET("dashboard", handler.handleDashboard)
	g.GET("calendario", handler.handleCalendar)
	g.GET("ordenes", handler.handleList)
	g.GET("mis-trabajos", handler.handleMyJobs)
	g.GET("panel-supervisor", handler.handleSupervisorPanel)
}

type consoleHandler struct {
}

// mustSession panics into the error middleware when the filter did not leave
// a session behind.
func mustSession(c *gin.Context) *session.Session {
	secCtx := session.ExtractSessionFromGinContext(c)
	if secCtx == nil {
		panic(bizerror.ErrUnauthenticated)
	}
	return secCtx
}

func authedCtx(c *gin.Context, secCtx *session.Session) context.Context {
	return apiclient.ContextWithToken(c.Request.Context(), secCtx.AccessToken)
}

func (h *consoleHandler) handleHome(c *gin.Context) {
	secCtx := mustSession(c)
	c.Redirect(http.StatusFound, secCtx.HomePath())
}

func (h *consoleHandler) handleDashboard(c *gin.Context) {
	secCtx := mustSession(c)
	orders, err := ListOrdersFunc(authedCtx(c, secCtx))
	if err != nil {
		panic(err)
	}

	c.HTML(http.StatusOK, "dashboard.tmpl", gin.H{
		"Title":   "Dashboard",
		"Session": secCtx,
		"Stats":   projection.DashboardCounts(orders, secCtx),
		"Recent":  projection.SortNewestFirst(orders),
	})
}

func (h *consoleHandler) handleCalendar(c *gin.Context) {
	secCtx := mustSession(c)
	orders, err := ListOrdersFunc(authedCtx(c, secCtx))
	if err != nil {
		panic(err)
	}

	events := projection.CalendarEvents(orders)
	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, events)
		return
	}
	c.HTML(http.StatusOK, "calendario.tmpl", gin.H{"Title": "Calendario", "Session": secCtx, "Events": events})
}

func (h *consoleHandler) handleList(c *gin.Context) {
	secCtx := mustSession(c)
	if secCtx.HasRole(session.RoleTecnico) {
		c.Redirect(http.StatusFound, "/calendario")
		return
	}
	ctx := authedCtx(c, secCtx)
	orders, err := ListOrdersFunc(ctx)
	if err != nil {
		panic(err)
	}
	catalog, err := FetchStatusCatalogFunc(ctx)
	if err != nil {
		panic(err)
	}

	query := c.Query("q")
	statusName := c.DefaultQuery("estado", projection.FilterTodos)
	filtered := projection.SortNewestFirst(projection.FilterOrders(orders, query, statusName))

	c.HTML(http.StatusOK, "lista.tmpl", gin.H{
		"Title":    "Órdenes",
		"Session":  secCtx,
		"Orders":   filtered,
		"Statuses": catalog.All(),
		"Query":    query,
		"Estado":   statusName,
	})
}

func (h *consoleHandler) handleMyJobs(c *gin.Context) {
	secCtx := mustSession(c)
	orders, err := ListOrdersFunc(authedCtx(c, secCtx))
	if err != nil {
		panic(err)
	}

	split := projection.MyJobs(orders, secCtx.Identity.ID)
	c.HTML(http.StatusOK, "mis_trabajos.tmpl", gin.H{
		"Title":   "Mis trabajos",
		"Session": secCtx,
		"Active":  split.Active,
		"History": split.History,
	})
}

func (h *consoleHandler) handleSupervisorPanel(c *gin.Context) {
	secCtx := mustSession(c)
	if !secCtx.HasRole(session.RoleSupervisor) && !secCtx.HasRole(session.RoleAdministrador) {
		panic(bizerror.ErrForbidden)
	}

	orders, err := ListOrdersFunc(authedCtx(c, secCtx))
	if err != nil {
		panic(err)
	}

	c.HTML(http.StatusOK, "panel_supervisor.tmpl", gin.H{
		"Title":   "Panel de supervisión",
		"Session": secCtx,
		"Queue":   projection.SupervisorQueue(orders, secCtx),
	})
}
