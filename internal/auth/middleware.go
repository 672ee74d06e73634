package auth

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// identityKey is the echo context key under which the request identity is stored.
const identityKey = "auth.identity"

type ctxKey struct{}

// Identity is the authenticated caller attached to a request by the gate.
// IsAuth is false for anonymous requests passing through the Optional gate.
type Identity struct {
	UserID uuid.UUID
	Email  string
	IsAuth bool
}

// Required verifies the Authorization bearer token and rejects the request
// with 401 when the token is missing or invalid. REST routes use this gate.
func Required(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return &Claims{}
		},
		SuccessHandler: attachIdentity,
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated.")
		},
	})
}

// Optional verifies a bearer token when one is present but never rejects the
// request; anonymous callers continue with an unauthenticated identity.
// Downstream operations decide whether authentication is required. The
// GraphQL endpoint uses this gate.
func Optional(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return &Claims{}
		},
		SuccessHandler:         attachIdentity,
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			setIdentity(c, Identity{})
			return nil
		},
	})
}

func attachIdentity(c echo.Context) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		setIdentity(c, Identity{})
		return
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		setIdentity(c, Identity{})
		return
	}
	setIdentity(c, Identity{UserID: claims.UserID, Email: claims.Email, IsAuth: true})
}

func setIdentity(c echo.Context, id Identity) {
	c.Set(identityKey, id)
	c.SetRequest(c.Request().WithContext(ContextWithIdentity(c.Request().Context(), id)))
}

// ContextWithIdentity returns a context carrying the given identity.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFrom returns the identity attached to the echo context by the gate.
func IdentityFrom(c echo.Context) Identity {
	id, _ := c.Get(identityKey).(Identity)
	return id
}

// IdentityFromContext returns the identity stored on a request context.
// GraphQL resolvers read the caller through this.
func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}
