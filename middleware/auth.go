package middleware

import (
	"context"
	"net/http"
	"strings"

	"chalethaven/utils"

	"github.com/gin-gonic/gin"
)

// TokenAuthenticator checks a bearer token and returns its claims.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*utils.Claims, error)
}

const (
	ctxUserID = "userID"
	ctxRole   = "role"
	ctxToken  = "token"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// JWTAuthMiddleware rejects requests without a valid, unrevoked token. When
// optional is set, anonymous requests pass through and only a present but
// invalid token is rejected.
func JWTAuthMiddleware(auth TokenAuthenticator, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			if optional {
				c.Next()
				return
			}
			utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid Authorization header", "")
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired token", "")
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxToken, tokenString)
		c.Next()
	}
}

// RequireRoles lets a request through only when JWTAuthMiddleware stored one of roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		role := c.GetString(ctxRole)
		if role == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
			return
		}
		if !allowed[role] {
			utils.JSONError(c, http.StatusForbidden, "Insufficient permissions", "")
			return
		}
		c.Next()
	}
}

// Role returns the authenticated caller's role, or "" for anonymous requests.
func Role(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// Token returns the bearer token accepted by JWTAuthMiddleware.
func Token(c *gin.Context) string {
	return c.GetString(ctxToken)
}
