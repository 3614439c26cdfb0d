package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/projlens/projlens-backend/internal/apperr"
	"github.com/projlens/projlens-backend/internal/auth"
	"github.com/projlens/projlens-backend/internal/auth/domain"
)

// Claims is the payload of the signed credential. Only the user id is
// trusted from the token; admin flag and role are re-fetched from the
// store on every request so revocations take effect immediately.
type Claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// UserGetter loads a user with its role by id, nil when absent.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// JWTAuth validates HMAC-signed bearer tokens and publishes the actor
// into the request context.
func JWTAuth(secret []byte, userRepo UserGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abort(c, apperr.Authf("Unauthorized: No token provided"))
			return
		}

		claims := &Claims{}
		_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return secret, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abort(c, apperr.Authf("Token expired, please login again"))
				return
			}
			abort(c, apperr.Authf("Invalid token"))
			return
		}
		if claims.UserID <= 0 {
			abort(c, apperr.Authf("Invalid auth token"))
			return
		}

		// A store failure is not a bad credential; let the error
		// middleware classify it, it must not surface as a 401.
		user, err := userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			abort(c, err)
			return
		}
		if user == nil || user.Role == "" {
			abort(c, apperr.Authf("User not found or role missing"))
			return
		}

		c.Set(auth.CtxActor, user.Actor())
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
