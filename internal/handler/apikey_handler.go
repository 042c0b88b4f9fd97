package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"shopgate/internal/auth"
	apperrors "shopgate/internal/errors"
	"shopgate/internal/service"
)

// APIKeyHandler handles API key management endpoints.
type APIKeyHandler struct {
	apiKeyService service.APIKeyService
}

// NewAPIKeyHandler creates a new API key handler.
func NewAPIKeyHandler(apiKeyService service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{apiKeyService: apiKeyService}
}

// CreateAPIKeyRequest represents an API key creation request.
type CreateAPIKeyRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateAPIKeyResponse returns the key value once, at creation.
type CreateAPIKeyResponse struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// APIKeySummary omits the key value for listings.
type APIKeySummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Create godoc
// @Summary Create an API key
// @Tags api-keys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAPIKeyRequest true "Key name"
// @Success 201 {object} CreateAPIKeyResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api-keys [post]
func (h *APIKeyHandler) Create(c echo.Context) error {
	p := auth.PrincipalFrom(c)
	if p == nil {
		return apperrors.ErrNotAuthenticated
	}

	var req CreateAPIKeyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	key, err := h.apiKeyService.Create(c.Request().Context(), p.User.ID, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrAPIKeyNameTaken) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusCreated, CreateAPIKeyResponse{
		Name: key.Name,
		Key:  key.Key,
	})
}

// List godoc
// @Summary List the caller's API keys
// @Tags api-keys
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]APIKeySummary
// @Failure 401 {object} errors.ErrorResponse
// @Router /api-keys [get]
func (h *APIKeyHandler) List(c echo.Context) error {
	p := auth.PrincipalFrom(c)
	if p == nil {
		return apperrors.ErrNotAuthenticated
	}

	keys, err := h.apiKeyService.List(c.Request().Context(), p.User.ID)
	if err != nil {
		return err
	}

	summaries := make([]APIKeySummary, 0, len(keys))
	for _, k := range keys {
		summaries = append(summaries, APIKeySummary{
			ID:        k.ID,
			Name:      k.Name,
			CreatedAt: k.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, map[string][]APIKeySummary{"api_keys": summaries})
}

// Delete godoc
// @Summary Delete one of the caller's API keys
// @Tags api-keys
// @Produce json
// @Security BearerAuth
// @Param id path string true "Key ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api-keys/{id} [delete]
func (h *APIKeyHandler) Delete(c echo.Context) error {
	p := auth.PrincipalFrom(c)
	if p == nil {
		return apperrors.ErrNotAuthenticated
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid key id")
	}

	if err := h.apiKeyService.Delete(c.Request().Context(), id, p.User.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "api key deleted"})
}
