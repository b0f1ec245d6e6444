package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jobboard/job-board-api/internal/core/domain"
	"github.com/jobboard/job-board-api/internal/core/ports"
)

const identityKey = "identity"

// Auth validates the JWT, rejects revoked tokens and injects the caller's
// identity into the context.
func Auth(jwtSecret string, revoked ports.TokenRevoker, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			}, jwt.WithExpirationRequired())
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			who, ok := identityFromClaims(claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if revoked != nil && who.TokenID != "" {
				isRevoked, err := revoked.IsRevoked(c.Request().Context(), who.TokenID)
				if err != nil {
					// Fail closed: a token that cannot be checked is not trusted.
					log.Error().Err(err).Str("user_id", who.UserID).Msg("token revocation check failed")
					return echo.NewHTTPError(http.StatusServiceUnavailable, "authentication unavailable")
				}
				if isRevoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
			}

			c.Set(identityKey, who)
			return next(c)
		}
	}
}

func identityFromClaims(claims jwt.MapClaims) (ports.Identity, bool) {
	userID, _ := claims["userId"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || !domain.Role(role).Valid() {
		return ports.Identity{}, false
	}

	who := ports.Identity{UserID: userID, Role: domain.Role(role)}
	who.Name, _ = claims["userName"].(string)
	who.TokenID, _ = claims["jti"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		who.Expires = exp.Time
	} else {
		who.Expires = time.Now()
	}
	return who, true
}

// IdentityFrom returns the identity set by Auth.
func IdentityFrom(c echo.Context) (ports.Identity, bool) {
	who, ok := c.Get(identityKey).(ports.Identity)
	return who, ok
}

// WithIdentity stores who on the context the way Auth does.
func WithIdentity(c echo.Context, who ports.Identity) {
	c.Set(identityKey, who)
}
