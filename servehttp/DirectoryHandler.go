package servehttp

import (
	"fieldops/bizerror"
	"fieldops/directory"
	"fieldops/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	PersonnelFunc         = directory.Personnel
	ProvisionUserFunc     = directory.ProvisionUser
	QuickCreateClientFunc = directory.QuickCreateClient
)

func RegisterDirectoryHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/usuarios", middleWares...)

	handler := &directoryHandler{}

	g.GET("", handler.handleDirectoryPage)
	g.POST("", handler.handleProvisionUser)

	r.POST("/clientes/rapido", append(middleWares, handler.handleQuickCreateClient)...)
}

type directoryHandler struct {
}

func mustPersonnelManager(c *gin.Context) *session.Session {
	secCtx := mustSession(c)
	if !secCtx.HasRole(session.RoleAdministrador) && !secCtx.HasRole(session.RoleSupervisor) {
		panic(bizerror.ErrForbidden)
	}
	return secCtx
}

func (h *directoryHandler) handleDirectoryPage(c *gin.Context) {
	secCtx := mustPersonnelManager(c)

	members, err := PersonnelFunc(c.Request.Context(), secCtx)
	if err != nil {
		panic(err)
	}
	c.HTML(http.StatusOK, "usuarios.tmpl", gin.H{
		"Title":   "Usuarios",
		"Session": secCtx,
		"Members": members,
		"Flash":   c.Query("ok"),
	})
}

func (h *directoryHandler) handleProvisionUser(c *gin.Context) {
	secCtx := mustPersonnelManager(c)

	draft := directory.UserDraft{
		Username:  c.PostForm("username"),
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
		Email:     c.PostForm("email"),
		Password:  c.PostForm("password"),
		Role:      c.PostForm("rol"),
	}
	if err := ProvisionUserFunc(c.Request.Context(), secCtx, draft); err != nil {
		panic(err)
	}
	c.Redirect(http.StatusFound, "/usuarios?ok=creado")
}

// handleQuickCreateClient backs the order form's inline dialog; it answers
// JSON so the form can select the new client without a reload.
func (h *directoryHandler) handleQuickCreateClient(c *gin.Context) {
	secCtx := mustSession(c)
	if secCtx.HasRole(session.RoleTecnico) {
		panic(bizerror.ErrForbidden)
	}

	quick := directory.QuickClient{Name: c.PostForm("nombre"), Email: c.PostForm("email")}
	person, err := QuickCreateClientFunc(c.Request.Context(), secCtx, quick)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, person)
}
