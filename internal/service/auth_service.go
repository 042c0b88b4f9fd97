package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"shopgate/internal/auth"
	apperrors "shopgate/internal/errors"
	"shopgate/internal/model"
	"shopgate/internal/repository"
)

const bcryptCost = 10

// DefaultRoleName is assigned to newly registered users when it exists.
const DefaultRoleName = "USER"

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering with an email already in use.
	ErrEmailTaken = errors.New("email already in use")
)

// AuthService handles registration, login and password changes.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, err error)
	ChangePassword(ctx context.Context, email, newPassword string) error
}

type authService struct {
	users    repository.UserRepository
	roles    repository.RoleRepository
	tokens   *auth.TokenService
	throttle *auth.LoginThrottle
	now      func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	tokens *auth.TokenService,
	throttle *auth.LoginThrottle,
) AuthService {
	return &authService{
		users:    users,
		roles:    roles,
		tokens:   tokens,
		throttle: throttle,
		now:      time.Now,
	}
}

// Register creates a new user with a hashed password and the default role
// when one is configured.
func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrStoreUnavailable
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var roleID *uint
	if role, err := s.roles.FindByName(ctx, DefaultRoleName); err == nil {
		roleID = &role.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrStoreUnavailable
	}

	changedAt := s.now().Unix()
	user := &model.User{
		Name:              name,
		Email:             email,
		PasswordHash:      string(hashed),
		RoleID:            roleID,
		PasswordChangedAt: &changedAt,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}

	return user, nil
}

// Login authenticates a user and returns a signed token. The throttle gate
// runs first so failed lookups still consume the attempt. Role permission is
// checked before the password, matching the route's fail-closed contract:
// a user whose role does not grant login never gets a credential hint.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	if !s.throttle.CheckAndRecord(email, s.now()) {
		return "", apperrors.ErrLoginThrottled
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", apperrors.ErrStoreUnavailable
	}

	permissions, err := s.loginPermissions(ctx, user)
	if err != nil {
		return "", err
	}
	if !permissions.Allows(model.PermPostLogin) {
		return "", apperrors.NewPermissionError(model.PermPostLogin)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// ChangePassword rehashes and stamps the change time, which invalidates all
// previously issued tokens for the user.
func (s *authService) ChangePassword(ctx context.Context, email, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, email, string(hashed), s.now().Unix()); err != nil {
		return apperrors.ErrStoreUnavailable
	}
	return nil
}

func (s *authService) loginPermissions(ctx context.Context, user *model.User) (model.PermissionSet, error) {
	if user.RoleID == nil {
		return model.PermissionSet{}, nil
	}
	role, err := s.roles.FindByID(ctx, *user.RoleID)
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
