package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"domainwatch/internal/config"
)

const APITokenContextKey = "api_token"

// APIToken returns middleware that validates a Bearer token from the
// Authorization header against the configured tokens. When no tokens are
// configured the API is open (local deployments).
func APIToken(tokens []config.APIToken) gin.HandlerFunc {
	tokenMap := make(map[string]*config.APIToken, len(tokens))
	for i := range tokens {
		tokenMap[tokens[i].Token] = &tokens[i]
	}

	return func(c *gin.Context) {
		if len(tokenMap) == 0 {
			c.Next()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing or malformed Authorization header, expected: Bearer <token>",
			})
			return
		}

		apiToken, exists := tokenMap[token]
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid token",
			})
			return
		}

		c.Set(APITokenContextKey, apiToken.Name)
		c.Next()
	}
}

// CronOrToken guards the check trigger: external schedulers authenticate
// with the X-Cron-Secret header, everything else falls back to the regular
// bearer token rules.
func CronOrToken(cronSecret string, tokens []config.APIToken) gin.HandlerFunc {
	tokenAuth := APIToken(tokens)

	return func(c *gin.Context) {
		if cronSecret != "" && c.GetHeader("X-Cron-Secret") == cronSecret {
			c.Set(APITokenContextKey, "cron")
			c.Next()
			return
		}
		tokenAuth(c)
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
