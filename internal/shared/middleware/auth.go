package middleware

import (
	"fmt"
	"strings"

	"library-api/pkg/cache"
	pkgjwt "library-api/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DenylistKey builds the cache key used to revoke a token on logout
func DenylistKey(jti string) string {
	return "auth:denylist:" + jti
}

// AuthMiddleware validates the Bearer token and puts the authenticated
// identity (userID, email, role) into the gin context.
// Revoked tokens (logout) are rejected via the Redis denylist.
func AuthMiddleware(jwtSecret string, denylist cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(401, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// 2. Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(401, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}
		token := parts[1]

		// 3. Verify and parse JWT
		claims := &pkgjwt.Claims{}
		parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !parsedToken.Valid || claims.Type != "access" {
			c.JSON(401, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		// 4. Reject revoked tokens. Denylist lookup failure is not fatal:
		// Redis being down must not lock every user out.
		if claims.ID != "" {
			revoked, err := denylist.Exists(c.Request.Context(), DenylistKey(claims.ID))
			if err != nil {
				log.Warn().Err(err).Msg("token denylist lookup failed")
			} else if revoked {
				c.JSON(401, gin.H{"error": "token has been revoked"})
				c.Abort()
				return
			}
		}

		// 5. userID as uuid.UUID
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(401, gin.H{"error": "invalid user ID in token"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("tokenID", claims.ID)
		c.Set("tokenExpiresAt", claims.ExpiresAt.Time)

		c.Next()
	}
}
