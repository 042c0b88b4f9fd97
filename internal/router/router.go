package router

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"shopgate/internal/auth"
	apperrors "shopgate/internal/errors"
	"shopgate/internal/handler"
)

// Register wires routes and middleware. The authentication middleware runs on
// every request and skips the public route prefixes itself.
func Register(
	e *echo.Echo,
	authMiddleware *auth.Middleware,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	apiKeyHandler *handler.APIKeyHandler,
	productHandler *handler.ProductHandler,
	webhookHandler *handler.WebhookHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Use(authMiddleware.Authenticate)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/docs/*", echoSwagger.WrapHandler)

	// Public
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/all-products", productHandler.ListAll)
	e.GET("/get_products", productHandler.ListAll)
	e.POST("/webhooks/shopify-sales", webhookHandler.ShopifySales)

	// Protected
	e.GET("/my-user", userHandler.MyUser)
	e.GET("/users", userHandler.ListUsers)
	e.PATCH("/change-password", userHandler.ChangePassword)

	e.POST("/api-keys", apiKeyHandler.Create)
	e.GET("/api-keys", apiKeyHandler.List)
	e.DELETE("/api-keys/:id", apiKeyHandler.Delete)

	e.GET("/my-products", productHandler.ListMine)
	e.POST("/products", productHandler.Create)
	e.GET("/my-bestsellers", productHandler.Bestsellers)
	e.POST("/create-order", productHandler.CreateOrder)
}

// HTTPErrorHandler renders domain errors as {"detail": ...} bodies with the
// status from the error taxonomy. Echo HTTP errors pass through with their
// own status, so a failing downstream handler is never misreported as an
// authentication failure.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if he, ok := err.(*echo.HTTPError); ok {
		_ = c.JSON(he.Code, apperrors.ErrorResponse{Detail: fmt.Sprintf("%v", he.Message)})
		return
	}

	httpErr := apperrors.MapErrorToHTTP(err)
	_ = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
