package service

import (
	"context"

	apperrors "shopgate/internal/errors"
	"shopgate/internal/model"
	"shopgate/internal/repository"
)

// UserService exposes user directory operations.
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}
	return users, nil
}
