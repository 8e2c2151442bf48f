package apiclient

import (
	"context"
	"errors"
	"fieldops/bizerror"
	"net/http"
)

// ErrBadCredentials is surfaced inline on the login form, never as a redirect.
var ErrBadCredentials = errors.New("credenciales incorrectas")

// TokenResponse is the answer of the upstream `token/` exchange.
type TokenResponse struct {
	Access         string `json:"access"`
	Refresh        string `json:"refresh"`
	Rol            string `json:"rol"`
	UserID         int64  `json:"user_id"`
	NombreCompleto string `json:"nombre_completo"`
	Username       string `json:"username"`
	Email          string `json:"email"`
}

// ObtainToken exchanges credentials for tokens plus the identity fields the
// console keeps in its session store.
func (c *Client) ObtainToken(ctx context.Context, username, password string) (*TokenResponse, error) {
	payload := map[string]string{"username": username, "password": password}
	token := TokenResponse{}
	err := c.doJSON(ctx, http.MethodPost, "/token/", payload, &token)
	if err != nil {
		var remote *ErrRemote
		if errors.As(err, &remote) && remote.StatusCode == http.StatusBadRequest {
			return nil, ErrBadCredentials
		}
		if errors.Is(err, bizerror.ErrUnauthenticated) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	return &token, nil
}
