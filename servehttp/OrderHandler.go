package servehttp

import (
	"context"
	"fieldops/apiclient"
	"fieldops/bizerror"
	"fieldops/common"
	"fieldops/domain"
	"fieldops/domain/lifecycle"
	"fieldops/orderform"
	"fieldops/session"
	"fieldops/worklog"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	GetOrderFunc = func(ctx context.Context, id int64) (*domain.Order, error) {
		return apiclient.ActiveClient.GetOrder(ctx, id)
	}
	ListWorkLogsFunc = func(ctx context.Context, orderID int64) ([]domain.Avance, error) {
		return apiclient.ActiveClient.ListWorkLogs(ctx, orderID)
	}
	OrderPDFFunc = func(ctx context.Context, id int64) (io.ReadCloser, string, error) {
		return apiclient.ActiveClient.OrderPDF(ctx, id)
	}
	TransitFunc     = lifecycle.Transit
	AppendEntryFunc = worklog.Append
	CreateOrderFunc = orderform.Create
)

func RegisterOrderHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/ordenes", middleWares...)

	handler := &orderHandler{}

	g.GET("/nueva", handler.handleNewOrderPage)
	g.POST("", handler.handleCreateOrder)
	g.GET("/:id", handler.handleDetail)
	g.POST("/:id/avances", handler.handleAppendEntry)
	g.POST("/:id/transiciones", handler.handleTransition)
	g.GET("/:id/pdf", handler.handlePDF)
}

type orderHandler struct {
}

func parseOrderID(c *gin.Context) int64 {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		panic(&common.ErrBadParam{Cause: fmt.Errorf("identificador de orden inválido")})
	}
	return id
}

// handleDetail renders the order page: header, map link, action buttons for
// the viewer's role, the bitácora feed and the photo gallery.
func (h *orderHandler) handleDetail(c *gin.Context) {
	secCtx := mustSession(c)
	ctx := authedCtx(c, secCtx)
	id := parseOrderID(c)

	order, err := GetOrderFunc(ctx, id)
	if err != nil {
		panic(err)
	}
	entries, err := ListWorkLogsFunc(ctx, id)
	if err != nil {
		panic(err)
	}

	c.HTML(http.StatusOK, "detalle.tmpl", gin.H{
		"Title":   order.Titulo,
		"Session": secCtx,
		"Order":   order,
		"Entries": entries,
		"Actions": lifecycle.AvailableActions(secCtx, order),
		"Gallery": worklog.Gallery(order, entries),
		"CanLog":  lifecycle.CanTechnicianAct(secCtx, order),
		"Flash":   c.Query("ok"),
	})
}

func (h *orderHandler) handleAppendEntry(c *gin.Context) {
	secCtx := mustSession(c)
	id := parseOrderID(c)

	draft := worklog.EntryDraft{Orden: id, Contenido: c.PostForm("contenido")}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, header := range form.File["imagenes"] {
			file, err := header.Open()
			if err != nil {
				panic(&common.ErrBadParam{Cause: err})
			}
			defer file.Close()
			draft.Photos = append(draft.Photos, worklog.Photo{Name: header.Filename, Content: file})
		}
	}

	if _, err := AppendEntryFunc(c.Request.Context(), secCtx, draft); err != nil {
		panic(err)
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/ordenes/%d?ok=avance", id))
}

// handleTransition runs one lifecycle action and lands back on a freshly
// fetched detail page, so the UI always shows upstream truth.
func (h *orderHandler) handleTransition(c *gin.Context) {
	secCtx := mustSession(c)
	ctx := authedCtx(c, secCtx)
	id := parseOrderID(c)

	action := lifecycle.Action(c.PostForm("accion"))
	reason := c.PostForm("motivo")

	order, err := GetOrderFunc(ctx, id)
	if err != nil {
		panic(err)
	}
	catalog, err := FetchStatusCatalogFunc(ctx)
	if err != nil {
		panic(err)
	}

	if _, err := TransitFunc(ctx, secCtx, order, catalog, action, reason); err != nil {
		panic(err)
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/ordenes/%d?ok=transicion", id))
}

func (h *orderHandler) handlePDF(c *gin.Context) {
	secCtx := mustSession(c)
	id := parseOrderID(c)

	body, contentType, err := OrderPDFFunc(authedCtx(c, secCtx), id)
	if err != nil {
		panic(err)
	}
	defer body.Close()

	if contentType == "" {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="orden-%d.pdf"`, id))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, body)
}

func (h *orderHandler) handleNewOrderPage(c *gin.Context) {
	secCtx := mustSession(c)
	if secCtx.HasRole(session.RoleTecnico) {
		panic(bizerror.ErrForbidden)
	}

	members, err := PersonnelFunc(c.Request.Context(), secCtx)
	if err != nil {
		panic(err)
	}

	c.HTML(http.StatusOK, "nueva_orden.tmpl", gin.H{
		"Title":     "Nueva orden",
		"Session":   secCtx,
		"Members":   members,
		"TimeSlots": orderform.TimeSlots(),
	})
}

func (h *orderHandler) handleCreateOrder(c *gin.Context) {
	secCtx := mustSession(c)
	if secCtx.HasRole(session.RoleTecnico) {
		panic(bizerror.ErrForbidden)
	}

	creation := orderform.OrderCreation{
		Titulo:      c.PostForm("titulo"),
		Descripcion: c.PostForm("descripcion"),
		Direccion:   c.PostForm("direccion"),
		Cliente:     formInt(c, "cliente"),
		Tecnico:     formInt(c, "tecnico"),
	}
	// supervisors author orders for themselves; the upstream assigns them.
	// administrators may also leave the choice to the upstream.
	if secCtx.HasRole(session.RoleAdministrador) && c.PostForm("supervisor") != "" {
		creation.Supervisor = formInt(c, "supervisor")
	}

	start, err := orderform.ParseSchedule(c.PostForm("fecha"), c.PostForm("hora"), time.UTC)
	if err != nil {
		panic(err)
	}
	creation.FechaInicio = start

	if lat := c.PostForm("latitud"); lat != "" {
		creation.Latitud = formFloat(c, "latitud")
	}
	if lng := c.PostForm("longitud"); lng != "" {
		creation.Longitud = formFloat(c, "longitud")
	}

	if header, err := c.FormFile("foto_referencia"); err == nil && header != nil {
		file, err := header.Open()
		if err != nil {
			panic(&common.ErrBadParam{Cause: err})
		}
		defer file.Close()
		creation.Photo = &orderform.Photo{Name: header.Filename, Content: file}
	}

	order, err := CreateOrderFunc(c.Request.Context(), secCtx, creation)
	if err != nil {
		panic(err)
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/ordenes/%d?ok=creada", order.ID))
}

func formInt(c *gin.Context, field string) int64 {
	value, err := strconv.ParseInt(c.PostForm(field), 10, 64)
	if err != nil {
		panic(&common.ErrBadParam{Cause: fmt.Errorf("campo %s inválido", field)})
	}
	return value
}

func formFloat(c *gin.Context, field string) *float64 {
	value, err := strconv.ParseFloat(c.PostForm(field), 64)
	if err != nil {
		panic(&common.ErrBadParam{Cause: fmt.Errorf("campo %s inválido", field)})
	}
	return &value
}
