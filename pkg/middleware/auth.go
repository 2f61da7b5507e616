package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jobscout/jobscout/backend/go-services/pkg/logger"
)

// ClaimsKey is the gin context key holding the verified claims map.
const ClaimsKey = "claims"

// TokenKey is the gin context key holding the raw bearer token.
const TokenKey = "accessToken"

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// RevocationChecker reports whether a still-valid token was revoked, for
// example on logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

func bearer(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

func verify(c *gin.Context, ver Verifier, revoked []RevocationChecker, token string) (map[string]interface{}, int, gin.H) {
	ctx := c.Request.Context()
	for _, rc := range revoked {
		if rc == nil {
			continue
		}
		bad, err := rc.IsRevoked(ctx, token)
		if err != nil {
			logger.Warnf("revocation check failed: %v", err)
			continue
		}
		if bad {
			return nil, http.StatusUnauthorized, gin.H{"error": "token revoked"}
		}
	}

	idToken, err := ver.Verify(ctx, token)
	if err != nil {
		return nil, http.StatusUnauthorized, gin.H{"error": "invalid token", "details": err.Error()}
	}
	var claims map[string]interface{}
	if err := idToken.Claims(&claims); err != nil {
		return nil, http.StatusUnauthorized, gin.H{"error": "failed to parse claims"}
	}
	return claims, 0, nil
}

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using
// the provided verifier and rejects tokens any checker reports as revoked.
// A failing checker is logged and skipped.
func AuthMiddleware(ver Verifier, revoked ...RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		token, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}
		claims, status, body := verify(c, ver, revoked, token)
		if claims == nil {
			c.AbortWithStatusJSON(status, body)
			return
		}
		c.Set(ClaimsKey, claims)
		c.Set(TokenKey, token)
		c.Next()
	}
}

// OptionalAuth sets claims when a valid bearer token is present and lets
// anonymous requests through. A present but invalid token is still rejected.
func OptionalAuth(ver Verifier, revoked ...RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		token, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}
		claims, status, body := verify(c, ver, revoked, token)
		if claims == nil {
			c.AbortWithStatusJSON(status, body)
			return
		}
		c.Set(ClaimsKey, claims)
		c.Set(TokenKey, token)
		c.Next()
	}
}

// Subject returns the verified "sub" claim, or "" for anonymous requests.
func Subject(c *gin.Context) string {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return ""
	}
	cm, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	sub, _ := cm["sub"].(string)
	return sub
}
