package http

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"lastmile/internal/core/domain/model/kernel"
)

const (
	actorIDContextKey   = "actorID"
	actorRoleContextKey = "actorRole"
)

// Claims is the token payload issued by the identity service. Subject carries
// the actor's UUID; Role is one of the order actor roles.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and stores the actor's identity
// and role on the request context for the handlers.
func AuthMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				return unauthorized(ctx, "missing bearer token")
			}

			claims := &Claims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !parsed.Valid {
				return unauthorized(ctx, "invalid token")
			}

			actorID, err := kernel.UUIDFromString(claims.Subject)
			if err != nil {
				return unauthorized(ctx, "invalid token subject")
			}

			ctx.Set(actorIDContextKey, actorID)
			ctx.Set(actorRoleContextKey, claims.Role)
			return next(ctx)
		}
	}
}

// actorFromContext returns the authenticated actor's ID and role.
func actorFromContext(ctx echo.Context) (kernel.UUID, string) {
	actorID, _ := ctx.Get(actorIDContextKey).(kernel.UUID)
	role, _ := ctx.Get(actorRoleContextKey).(string)
	return actorID, role
}

func unauthorized(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusUnauthorized, Error{
		Code:    http.StatusUnauthorized,
		Message: message,
	})
}
