package testinfra

import (
	"fieldops/session"
	"net/http"
	"net/http/httptest"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExecuteRequest drives one request through the router and collects the
// recorded response.
func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, http.Header) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code, w.Body.String(), w.Header()
}

// BuildSecCtx builds a signed-in session for tests.
func BuildSecCtx(uid types.ID, name string, role session.Role) *session.Session {
	return &session.Session{
		Token:       uuid.New().String(),
		Identity:    session.Identity{ID: uid, Name: name, Role: role},
		AccessToken: "access-" + uuid.New().String(),
	}
}

// SignIn caches the session and returns the cookie that points at it, so a
// request can pass the auth filter without touching the record store.
func SignIn(secCtx *session.Session) *http.Cookie {
	session.TokenCache.Set(secCtx.Token, secCtx, session.TokenExpiration)
	return &http.Cookie{Name: session.KeySecToken, Value: secCtx.Token}
}
