package auth

import (
	"github.com/labstack/echo/v4"

	apperrors "shopgate/internal/errors"
	"shopgate/internal/model"
)

const principalContextKey = "principal"

// Principal is the resolved identity attached to an authenticated request:
// the user plus the permissions of its role, empty if it has none. Both
// credential kinds resolve to the same shape so downstream permission logic
// is credential-agnostic.
type Principal struct {
	User        *model.User
	Permissions model.PermissionSet
}

// RequirePermission fails with a PermissionError unless the principal's
// permission set explicitly grants the named permission. Missing principal,
// role or key all deny.
func RequirePermission(p *Principal, permission string) error {
	if p == nil || !p.Permissions.Allows(permission) {
		return apperrors.NewPermissionError(permission)
	}
	return nil
}

// SetPrincipal attaches the principal to the request context.
func SetPrincipal(c echo.Context, p *Principal) {
	c.Set(principalContextKey, p)
}

// PrincipalFrom returns the principal attached by the middleware, or nil on
// an unauthenticated (public) request.
func PrincipalFrom(c echo.Context) *Principal {
	p, _ := c.Get(principalContextKey).(*Principal)
	return p
}
