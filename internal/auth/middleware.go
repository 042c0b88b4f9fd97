package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	apperrors "shopgate/internal/errors"
	"shopgate/internal/model"
	"shopgate/internal/repository"
)

// HeaderAPIKey is the header carrying an API key credential.
const HeaderAPIKey = "x-api-key"

const bearerPrefix = "Bearer "

// PublicRoutePrefixes lists route prefixes that skip authentication. Webhooks
// authenticate by HMAC signature instead of a principal.
var PublicRoutePrefixes = []string{
	"/login",
	"/register",
	"/health",
	"/get_products",
	"/all-products",
	"/docs",
	"/openapi.json",
	"/webhooks",
}

// Middleware authenticates inbound requests. It classifies the route as
// public or protected, resolves the caller through one of two credential
// kinds and attaches the resulting principal to the request context. An API
// key takes precedence over a bearer token when both are present.
type Middleware struct {
	users  repository.UserRepository
	roles  repository.RoleRepository
	keys   repository.APIKeyRepository
	tokens *TokenService
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(
	users repository.UserRepository,
	roles repository.RoleRepository,
	keys repository.APIKeyRepository,
	tokens *TokenService,
) *Middleware {
	return &Middleware{
		users:  users,
		roles:  roles,
		keys:   keys,
		tokens: tokens,
	}
}

// Authenticate is the echo middleware entry point. Authentication failures
// short-circuit with a domain error mapped to 401/403 by the error handler;
// store failures surface as 503, never as a credential problem. Errors from
// the downstream handler pass through untouched.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if IsPublicRoute(c.Request().URL.Path) {
			return next(c)
		}

		ctx := c.Request().Context()

		var user *model.User
		var err error
		switch {
		case c.Request().Header.Get(HeaderAPIKey) != "":
			user, err = m.resolveAPIKey(ctx, c.Request().Header.Get(HeaderAPIKey))
		case strings.HasPrefix(c.Request().Header.Get(echo.HeaderAuthorization), bearerPrefix):
			token := strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), bearerPrefix)
			user, err = m.resolveToken(ctx, token)
		default:
			err = apperrors.ErrNotAuthenticated
		}
		if err != nil {
			return err
		}

		permissions, err := m.resolvePermissions(ctx, user)
		if err != nil {
			return err
		}

		SetPrincipal(c, &Principal{User: user, Permissions: permissions})
		return next(c)
	}
}

// IsPublicRoute reports whether the path matches a public route prefix.
func IsPublicRoute(path string) bool {
	for _, prefix := range PublicRoutePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (m *Middleware) resolveAPIKey(ctx context.Context, key string) (*model.User, error) {
	apiKey, err := m.keys.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAPIKeyInvalid
		}
		return nil, apperrors.ErrStoreUnavailable
	}

	user, err := m.users.FindByID(ctx, apiKey.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrStoreUnavailable
	}
	return user, nil
}

func (m *Middleware) resolveToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := m.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := m.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrStoreUnavailable
	}

	// A password change invalidates every token issued before it.
	if user.PasswordChangedAt != nil && claims.IssuedAt != nil &&
		claims.IssuedAt.Unix() < *user.PasswordChangedAt {
		return nil, apperrors.ErrTokenStale
	}
	return user, nil
}

// resolvePermissions loads the user's role into a permission set. No role or
// a role lookup miss yields an empty set, which denies everything.
func (m *Middleware) resolvePermissions(ctx context.Context, user *model.User) (model.PermissionSet, error) {
	if user.RoleID == nil {
		return model.PermissionSet{}, nil
	}

	role, err := m.roles.FindByID(ctx, *user.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.PermissionSet{}, nil
		}
		return nil, apperrors.ErrStoreUnavailable
	}
	if role.Permissions == nil {
		return model.PermissionSet{}, nil
	}
	return role.Permissions, nil
}
