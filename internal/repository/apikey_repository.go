package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopgate/internal/model"
)

// APIKeyRepository defines API key persistence operations.
type APIKeyRepository interface {
	Create(ctx context.Context, key *model.APIKey) error
	FindByKey(ctx context.Context, key string) (*model.APIKey, error)
	FindByOwnerAndName(ctx context.Context, ownerID uint, name string) (*model.APIKey, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.APIKey, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID uint) error
}

type apiKeyRepository struct {
	db *gorm.DB
}

// NewAPIKeyRepository builds a GORM-backed repository.
func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) Create(ctx context.Context, key *model.APIKey) error {
	return r.db.WithContext(ctx).Create(key).Error
}

func (r *apiKeyRepository) FindByKey(ctx context.Context, key string) (*model.APIKey, error) {
	var apiKey model.APIKey
	if err := r.db.WithContext(ctx).Where("`key` = ?", key).First(&apiKey).Error; err != nil {
		return nil, err
	}
	return &apiKey, nil
}

func (r *apiKeyRepository) FindByOwnerAndName(ctx context.Context, ownerID uint, name string) (*model.APIKey, error) {
	var apiKey model.APIKey
	if err := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", ownerID, name).First(&apiKey).Error; err != nil {
		return nil, err
	}
	return &apiKey, nil
}

func (r *apiKeyRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.APIKey, error) {
	var keys []model.APIKey
	if err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// Delete removes a key scoped by owner so users can only delete their own keys.
func (r *apiKeyRepository) Delete(ctx context.Context, id uuid.UUID, ownerID uint) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&model.APIKey{}).Error
}
