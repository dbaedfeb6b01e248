package domain

// RoleAdmin is the principal role allowed to moderate comments and sellers.
const RoleAdmin = "admin"

// Principal is an authenticated account, usually the owner of a seller page
// or an administrator.
type Principal struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Actor is the caller of a request, resolved once by the HTTP layer.
// Principal is nil for unauthenticated visitors. AnonymousToken is the
// opaque identity token and may be empty when none was available.
type Actor struct {
	Principal      *Principal
	AnonymousToken string
}

// HasPrincipal reports whether the actor is authenticated.
func (a Actor) HasPrincipal() bool {
	return a.Principal != nil
}
