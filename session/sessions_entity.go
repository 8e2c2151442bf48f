package session

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

// Role is the closed set every authorization decision keys on.
type Role string

const (
	RoleAdministrador Role = "Administrador"
	RoleSupervisor    Role = "Supervisor"
	RoleTecnico       Role = "Tecnico"
	RoleCliente       Role = "Cliente"
)

// Session is the console-side identity: who is signed in, plus the upstream
// bearer tokens the gateway client attaches to every API call.
type Session struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`

	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`

	SigningTime time.Time `json:"-"`
}

type Identity struct {
	ID   types.ID `json:"id"`
	Name string   `json:"name"`
	Role Role     `json:"role"`
}

func (s *Session) HasRole(role Role) bool {
	return s.Identity.Role == role
}

// Role predicates for the templates, which cannot build a typed Role value.
func (s *Session) IsAdministrador() bool { return s.HasRole(RoleAdministrador) }
func (s *Session) IsSupervisor() bool    { return s.HasRole(RoleSupervisor) }
func (s *Session) IsTecnico() bool       { return s.HasRole(RoleTecnico) }
func (s *Session) IsCliente() bool       { return s.HasRole(RoleCliente) }

// LandingPath resolves the role-appropriate landing route after login and
// after creating an order: supervisors land on their panel, everyone else on
// the calendar.
func (s *Session) LandingPath() string {
	if s.Identity.Role == RoleSupervisor {
		return "/panel-supervisor"
	}
	return "/calendario"
}

// HomePath resolves the root redirect: technicians live in the calendar,
// everyone else starts at the dashboard.
func (s *Session) HomePath() string {
	if s.Identity.Role == RoleTecnico {
		return "/calendario"
	}
	return "/dashboard"
}
