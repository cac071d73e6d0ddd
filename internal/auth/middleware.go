package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shoplist/internal/domain"
)

// bearerCookieName allows browser clients to carry the token in a
// cookie instead of the Authorization header.
const bearerCookieName = "bearer"

const contextKeyUser = "current_user"

// UserLookup resolves a token subject to a stored user.
type UserLookup interface {
	GetByName(ctx context.Context, name string) (domain.User, error)
}

// CurrentUser returns the user set by RequireToken.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	v, ok := c.Get(contextKeyUser)
	if !ok {
		return domain.User{}, false
	}
	u, ok := v.(domain.User)
	return u, ok
}

// RequireToken returns a middleware that validates the bearer token
// and sets the resolved user in context. On any failure it responds
// 401 with a bearer challenge; token problems and unknown subjects are
// indistinguishable to the client.
func RequireToken(tokens *TokenIssuer, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			challenge(c)
			return
		}
		username, err := tokens.Verify(raw)
		if err != nil {
			challenge(c)
			return
		}
		user, err := users.GetByName(c.Request.Context(), username)
		if err != nil {
			challenge(c)
			return
		}
		c.Set(contextKeyUser, user)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if rest, ok := strings.CutPrefix(header, "Bearer "); ok && rest != "" {
		return rest
	}
	if cookie, err := c.Cookie(bearerCookieName); err == nil {
		return cookie
	}
	return ""
}

func challenge(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
}
