package shared

import (
	"github.com/google/uuid"
)

// Role is the access level carried by an authenticated principal.
type Role string

const (
	RoleReader Role = "reader"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// Principal is the typed identity every service call receives. Anonymous
// requests use the zero value (Authenticated == false); authorization is a
// pure function over this value and the target entity, never over ambient
// middleware state.
type Principal struct {
	ID            uuid.UUID
	Role          Role
	Authenticated bool
}

// Anonymous is the principal for unauthenticated requests.
func Anonymous() Principal {
	return Principal{}
}

func (p Principal) IsAdmin() bool {
	return p.Authenticated && p.Role == RoleAdmin
}

// PrincipalContextKey is the gin context key set by the auth middleware.
const PrincipalContextKey = "principal"
