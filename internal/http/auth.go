package http

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ochronus/xfrtuc/internal/config"
	"github.com/sirupsen/logrus"
)

// BasicAuth rejects any request whose Basic credentials don't match one of
// users. Rejected requests never reach a resource handler.
func BasicAuth(users []config.User, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := validateUser(c.GetHeader("Authorization"), users)
		if !ok {
			logger.WithFields(logrus.Fields{
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
			}).Debug("rejecting unauthorized request")
			c.String(http.StatusUnauthorized, "Not authorized")
			c.Abort()
			return
		}

		c.Set(gin.AuthUserKey, username)
		c.Next()
	}
}

// validateUser parses a Basic Authorization header and matches it against
// users. Comparison is plain, case-sensitive equality.
func validateUser(authHeader string, users []config.User) (string, bool) {
	if authHeader == "" {
		return "", false
	}

	scheme, encoded, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Basic") {
		return "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", false
	}

	username, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", false
	}

	for _, u := range users {
		if u.Name == username && u.Password == password {
			return username, true
		}
	}
	return "", false
}
