package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "shopgate/internal/errors"
	"shopgate/internal/model"
	"shopgate/internal/repository"
)

const apiKeyBytes = 32

// ErrAPIKeyNameTaken is returned when the owner already has a key by that name.
var ErrAPIKeyNameTaken = errors.New("api key name already in use")

// APIKeyService manages long-lived API key credentials.
type APIKeyService interface {
	Create(ctx context.Context, ownerID uint, name string) (*model.APIKey, error)
	List(ctx context.Context, ownerID uint) ([]model.APIKey, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID uint) error
}

type apiKeyService struct {
	keys repository.APIKeyRepository
}

// NewAPIKeyService creates a new API key service.
func NewAPIKeyService(keys repository.APIKeyRepository) APIKeyService {
	return &apiKeyService{keys: keys}
}

// Create generates a new key for the owner. Names are unique per owner. The
// returned model carries the key value; it is the only time it leaves the
// service.
func (s *apiKeyService) Create(ctx context.Context, ownerID uint, name string) (*model.APIKey, error) {
	existing, err := s.keys.FindByOwnerAndName(ctx, ownerID, name)
	if err == nil && existing != nil {
		return nil, ErrAPIKeyNameTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrStoreUnavailable
	}

	secret, err := generateKey()
	if err != nil {
		return nil, fmt.Errorf("generate api key: %w", err)
	}

	key := &model.APIKey{
		UserID: ownerID,
		Name:   name,
		Key:    secret,
	}
	if err := s.keys.Create(ctx, key); err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}
	return key, nil
}

// List returns the owner's keys. Callers must not expose key values.
func (s *apiKeyService) List(ctx context.Context, ownerID uint) ([]model.APIKey, error) {
	keys, err := s.keys.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}
	return keys, nil
}

// Delete removes a key owned by ownerID. Deleting someone else's key is a
// silent no-op, same as a missing id.
func (s *apiKeyService) Delete(ctx context.Context, id uuid.UUID, ownerID uint) error {
	if err := s.keys.Delete(ctx, id, ownerID); err != nil {
		return apperrors.ErrStoreUnavailable
	}
	return nil
}

// generateKey returns 32 bytes of url-safe random key material.
func generateKey() (string, error) {
	buf := make([]byte, apiKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
