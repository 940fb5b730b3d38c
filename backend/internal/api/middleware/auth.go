package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"helpdesk-system/backend/pkg/jwt"
	"helpdesk-system/backend/pkg/redis"
	"helpdesk-system/backend/pkg/response"
)

// JWTAuth authenticates Authorization: Bearer <token> and injects
// user_id, username, token_jti and token_exp into the context.
// A nil rdb skips the blacklist check.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "Missing authorization header.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "Invalid authorization header.")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token invalid or expired.")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "Invalid token type.")
			c.Abort()
			return
		}

		if rdb != nil {
			revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			// redis errors fail open, like RateLimit
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "Token has been revoked.")
				c.Abort()
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("token_jti", claims.ID)
		if claims.ExpiresAt != nil {
			c.Set("token_exp", claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// UserVerifier checks that a token subject may use staff routes.
type UserVerifier interface {
	Verify(ctx context.Context, userID int, username string) (bool, error)
}

// VerifyUser rejects callers whose account was deleted or renamed since
// the token was issued, or who have not yet replaced their first password.
// Every rejection, a failed lookup included, is a 401. Must run after JWTAuth.
func VerifyUser(verifier UserVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get("user_id")
		if !ok {
			response.Unauthorized(c, 10002, "Not authenticated.")
			c.Abort()
			return
		}
		id, _ := userID.(int)

		allowed, err := verifier.Verify(c.Request.Context(), id, c.GetString("username"))
		if err != nil || !allowed {
			response.Unauthorized(c, 10002, "Not authorized.")
			c.Abort()
			return
		}

		c.Next()
	}
}
