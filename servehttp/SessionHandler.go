package servehttp

import (
	"context"
	"fieldops/apiclient"
	"fieldops/common"
	"fieldops/session"
	"net/http"
	"sync"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var (
	ObtainTokenFunc = func(ctx context.Context, username, password string) (*apiclient.TokenResponse, error) {
		return apiclient.ActiveClient.ObtainToken(ctx, username, password)
	}
	SignFunc    = session.Sign
	DestroyFunc = session.Destroy
)

func RegisterSessionHandler(r *gin.Engine) {
	handler := &sessionHandler{limiters: map[string]*rate.Limiter{}}

	r.GET("/login", handler.handleLoginPage)
	r.POST("/login", handler.handleLogin)
	r.POST("/logout", handler.handleLogout)
}

type sessionHandler struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// limiter throttles credential guessing per client address.
func (h *sessionHandler) limiter(ip string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.limiters[ip]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Second), 5)
		h.limiters[ip] = l
	}
	return l
}

func (h *sessionHandler) handleLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.tmpl", gin.H{})
}

func (h *sessionHandler) handleLogin(c *gin.Context) {
	if !h.limiter(c.ClientIP()).Allow() {
		c.HTML(http.StatusTooManyRequests, "login.tmpl", gin.H{"Error": "Demasiados intentos, espere un momento."})
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.HTML(http.StatusBadRequest, "login.tmpl", gin.H{"Error": "Usuario y contraseña son obligatorios."})
		return
	}

	token, err := ObtainTokenFunc(c.Request.Context(), username, password)
	if err == apiclient.ErrBadCredentials {
		common.Log.WithField("username", username).Info("rejected login")
		c.HTML(http.StatusUnauthorized, "login.tmpl", gin.H{"Error": "Credenciales incorrectas."})
		return
	}
	if err != nil {
		panic(err)
	}

	identity := session.Identity{ID: types.ID(token.UserID), Name: token.NombreCompleto, Role: session.Role(token.Rol)}
	secCtx, err := SignFunc(identity, token.Access, token.Refresh)
	if err != nil {
		panic(err)
	}

	c.SetCookie(session.KeySecToken, secCtx.Token, int(session.TokenExpiration/time.Second), "/", "", false, true)
	c.Redirect(http.StatusFound, secCtx.LandingPath())
}

func (h *sessionHandler) handleLogout(c *gin.Context) {
	if token, err := c.Cookie(session.KeySecToken); err == nil && token != "" {
		DestroyFunc(token)
	}
	c.SetCookie(session.KeySecToken, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}
