package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"feedhub/internal/auth"
	"feedhub/internal/config"
	apperrors "feedhub/internal/errors"
	"feedhub/internal/handler"
)

// Register wires routes and middleware. Every route declares its own auth
// requirement: REST routes that need a caller use the Required gate and fail
// with 401 up front, while /graphql sits behind the Optional gate and lets
// resolvers enforce authentication per operation.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.SugaredLogger,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
	imageHandler *handler.ImageHandler,
	graphqlHandler *handler.GraphQLHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = newHTTPErrorHandler(log)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/signup", authHandler.Signup)
	e.POST("/login", authHandler.Login)
	e.GET("/images/:name", imageHandler.Serve)

	// Authenticated REST routes
	required := auth.Required(cfg.JWTSecret)
	e.GET("/status", userHandler.GetStatus, required)
	e.PATCH("/status", userHandler.UpdateStatus, required)
	e.GET("/posts", postHandler.List, required)
	e.POST("/post", postHandler.Create, required)
	e.GET("/post/:id", postHandler.Get, required)
	e.PUT("/post/:id", postHandler.Update, required)
	e.DELETE("/post/:id", postHandler.Delete, required)
	e.PUT("/image", imageHandler.Upload, required)

	// GraphQL endpoint; auth is enforced by resolvers
	e.POST("/graphql", graphqlHandler.Query, auth.Optional(cfg.JWTSecret))
}

// CustomValidator wraps validator for Echo and converts violations into the
// application's 422 field-error shape.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		data := make([]apperrors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			data = append(data, apperrors.FieldError{
				Field:   strings.ToLower(fe.Field()),
				Message: validationMessage(fe),
			})
		}
		return apperrors.ValidationFailed("Validation Failed!", data...)
	}
	return err
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "email":
		return "Email is not valid."
	case "min":
		return fmt.Sprintf("%s needs %s min length.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}

// newHTTPErrorHandler maps application errors to the JSON error body
// {message, data?} with the status code from the error taxonomy.
func newHTTPErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			_ = c.JSON(appErr.StatusCode, apperrors.ErrorResponse{
				Message: appErr.Message,
				Data:    appErr.Data,
			})
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			_ = c.JSON(httpErr.Code, apperrors.ErrorResponse{
				Message: fmt.Sprintf("%v", httpErr.Message),
			})
			return
		}

		log.Errorw("unhandled error", "path", c.Path(), "error", err)
		_ = c.JSON(http.StatusInternalServerError, apperrors.ErrorResponse{
			Message: "internal server error",
		})
	}
}
