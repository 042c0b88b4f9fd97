package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "shopgate/internal/errors"
	"shopgate/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, email, passwordHash string, changedAt int64) error {
	args := m.Called(ctx, email, passwordHash, changedAt)
	return args.Error(0)
}

// MockRoleRepository is a mock implementation of repository.RoleRepository.
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) Create(ctx context.Context, role *model.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) Update(ctx context.Context, role *model.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

// MockAPIKeyRepository is a mock implementation of repository.APIKeyRepository.
type MockAPIKeyRepository struct {
	mock.Mock
}

func (m *MockAPIKeyRepository) Create(ctx context.Context, key *model.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockAPIKeyRepository) FindByKey(ctx context.Context, key string) (*model.APIKey, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) FindByOwnerAndName(ctx context.Context, ownerID uint, name string) (*model.APIKey, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.APIKey, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) Delete(ctx context.Context, id uuid.UUID, ownerID uint) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

type middlewareFixture struct {
	users  *MockUserRepository
	roles  *MockRoleRepository
	keys   *MockAPIKeyRepository
	tokens *TokenService
	mw     *Middleware
}

func newMiddlewareFixture() *middlewareFixture {
	users := new(MockUserRepository)
	roles := new(MockRoleRepository)
	keys := new(MockAPIKeyRepository)
	tokens := NewTokenService("test-secret")
	return &middlewareFixture{
		users:  users,
		roles:  roles,
		keys:   keys,
		tokens: tokens,
		mw:     NewMiddleware(users, roles, keys, tokens),
	}
}

func newTestContext(path string, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func nextCapture(called *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		*called = true
		return nil
	}
}

func TestMiddleware_PublicRouteSkipsAuth(t *testing.T) {
	f := newMiddlewareFixture()

	for _, path := range []string{"/login", "/register", "/health", "/get_products", "/all-products", "/docs/index.html", "/webhooks/shopify-sales"} {
		c, _ := newTestContext(path, nil)
		called := false

		err := f.mw.Authenticate(nextCapture(&called))(c)

		require.NoError(t, err, path)
		assert.True(t, called, path)
		assert.Nil(t, PrincipalFrom(c), path)
	}

	f.users.AssertExpectations(t)
	f.keys.AssertExpectations(t)
}

func TestMiddleware_NoCredentials(t *testing.T) {
	f := newMiddlewareFixture()
	c, _ := newTestContext("/my-user", nil)
	called := false

	err := f.mw.Authenticate(nextCapture(&called))(c)

	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	assert.False(t, called)
}

func TestMiddleware_APIKeyPath(t *testing.T) {
	f := newMiddlewareFixture()
	user := &model.User{ID: 7, Email: "machine@example.com"}
	f.keys.On("FindByKey", mock.Anything, "secret-key").
		Return(&model.APIKey{UserID: 7, Name: "ci"}, nil)
	f.users.On("FindByID", mock.Anything, uint(7)).Return(user, nil)

	c, _ := newTestContext("/my-products", map[string]string{HeaderAPIKey: "secret-key"})
	called := false

	err := f.mw.Authenticate(nextCapture(&called))(c)

	require.NoError(t, err)
	assert.True(t, called)
	p := PrincipalFrom(c)
	require.NotNil(t, p)
	assert.Equal(t, user, p.User)
	assert.Empty(t, p.Permissions)
	f.keys.AssertExpectations(t)
	f.users.AssertExpectations(t)
}

func TestMiddleware_APIKeyInvalid(t *testing.T) {
	f := newMiddlewareFixture()
	f.keys.On("FindByKey", mock.Anything, "bogus").Return(nil, gorm.ErrRecordNotFound)

	c, _ := newTestContext("/my-products", map[string]string{HeaderAPIKey: "bogus"})
	called := false

	err := f.mw.Authenticate(nextCapture(&called))(c)

	assert.ErrorIs(t, err, apperrors.ErrAPIKeyInvalid)
	assert.False(t, called)
}

func TestMiddleware_APIKeyStoreUnavailable(t *testing.T) {
	f := newMiddlewareFixture()
	f.keys.On("FindByKey", mock.Anything, "secret-key").Return(nil, errors.New("dial tcp: connection refused"))

	c, _ := newTestContext("/my-products", map[string]string{HeaderAPIKey: "secret-key"})

	err := f.mw.Authenticate(nextCapture(new(bool)))(c)

	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}

func TestMiddleware_BearerPath(t *testing.T) {
	f := newMiddlewareFixture()
	roleID := uint(3)
	user := &model.User{ID: 1, Email: "alice@example.com", RoleID: &roleID}
	role := &model.Role{ID: 3, Name: "USER", Permissions: model.PermissionSet{model.PermGetMyUser: true}}
	f.users.On("FindByEmail", mock.Anything, "alice@example.com").Return(user, nil)
	f.roles.On("FindByID", mock.Anything, roleID).Return(role, nil)

	token, err := f.tokens.Issue("alice@example.com")
	require.NoError(t, err)

	c, _ := newTestContext("/my-user", map[string]string{echo.HeaderAuthorization: "Bearer " + token})
	called := false

	err = f.mw.Authenticate(nextCapture(&called))(c)

	require.NoError(t, err)
	assert.True(t, called)
	p := PrincipalFrom(c)
	require.NotNil(t, p)
	assert.True(t, p.Permissions.Allows(model.PermGetMyUser))
	f.roles.AssertExpectations(t)
}

func TestMiddleware_BearerInvalidToken(t *testing.T) {
	f := newMiddlewareFixture()

	c, _ := newTestContext("/my-user", map[string]string{echo.HeaderAuthorization: "Bearer not-a-token"})

	err := f.mw.Authenticate(nextCapture(new(bool)))(c)

	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestMiddleware_BearerStaleAfterPasswordChange(t *testing.T) {
	f := newMiddlewareFixture()

	token, err := f.tokens.Issue("alice@example.com")
	require.NoError(t, err)

	// Password changed after the token was issued.
	changedAt := time.Now().Add(time.Minute).Unix()
	user := &model.User{ID: 1, Email: "alice@example.com", PasswordChangedAt: &changedAt}
	f.users.On("FindByEmail", mock.Anything, "alice@example.com").Return(user, nil)

	c, _ := newTestContext("/my-user", map[string]string{echo.HeaderAuthorization: "Bearer " + token})
	called := false

	err = f.mw.Authenticate(nextCapture(&called))(c)

	assert.ErrorIs(t, err, apperrors.ErrTokenStale)
	assert.False(t, called)
}

func TestMiddleware_BearerUserNotFound(t *testing.T) {
	f := newMiddlewareFixture()
	f.users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	token, err := f.tokens.Issue("ghost@example.com")
	require.NoError(t, err)

	c, _ := newTestContext("/my-user", map[string]string{echo.HeaderAuthorization: "Bearer " + token})

	err = f.mw.Authenticate(nextCapture(new(bool)))(c)

	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestMiddleware_APIKeyTakesPrecedenceOverBearer(t *testing.T) {
	f := newMiddlewareFixture()
	user := &model.User{ID: 7, Email: "machine@example.com"}
	f.keys.On("FindByKey", mock.Anything, "secret-key").
		Return(&model.APIKey{UserID: 7, Name: "ci"}, nil)
	f.users.On("FindByID", mock.Anything, uint(7)).Return(user, nil)

	token, err := f.tokens.Issue("alice@example.com")
	require.NoError(t, err)

	// Both credentials present: the API key wins and the token subject is
	// never looked up.
	c, _ := newTestContext("/my-user", map[string]string{
		HeaderAPIKey:             "secret-key",
		echo.HeaderAuthorization: "Bearer " + token,
	})
	called := false

	err = f.mw.Authenticate(nextCapture(&called))(c)

	require.NoError(t, err)
	assert.True(t, called)
	p := PrincipalFrom(c)
	require.NotNil(t, p)
	assert.Equal(t, "machine@example.com", p.User.Email)
	f.users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestMiddleware_RoleMissYieldsEmptyPermissions(t *testing.T) {
	f := newMiddlewareFixture()
	roleID := uint(99)
	user := &model.User{ID: 1, Email: "alice@example.com", RoleID: &roleID}
	f.users.On("FindByEmail", mock.Anything, "alice@example.com").Return(user, nil)
	f.roles.On("FindByID", mock.Anything, roleID).Return(nil, gorm.ErrRecordNotFound)

	token, err := f.tokens.Issue("alice@example.com")
	require.NoError(t, err)

	c, _ := newTestContext("/my-user", map[string]string{echo.HeaderAuthorization: "Bearer " + token})
	called := false

	err = f.mw.Authenticate(nextCapture(&called))(c)

	require.NoError(t, err)
	assert.True(t, called)
	p := PrincipalFrom(c)
	require.NotNil(t, p)
	assert.False(t, p.Permissions.Allows(model.PermGetMyUser))
}
