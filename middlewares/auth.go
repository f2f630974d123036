package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/PabloUrbano2000/little-lemon-api/pkg/resp"
	"github.com/PabloUrbano2000/little-lemon-api/services"
	"github.com/PabloUrbano2000/little-lemon-api/utils"

	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (services.Caller, error)
}

// Authenticate resolves the bearer token into a services.Caller once per
// request. Requests without a token continue as anonymous; a bad token is
// rejected here.
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			c.Set(utils.CallerKey, services.Anonymous)
			c.Next()
			return
		}

		tokenStr, ok := bearerToken(h)
		if !ok {
			resp.Abort(c, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		caller, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, services.ErrUnauthorized) {
				resp.Abort(c, http.StatusUnauthorized, "invalid token")
				return
			}
			LoggerFrom(c).Error("resolve caller", "err", err)
			resp.Abort(c, http.StatusInternalServerError, "internal server error")
			return
		}

		c.Set(utils.CallerKey, caller)
		c.Next()
	}
}

func bearerToken(h string) (string, bool) {
	for _, prefix := range []string{"Bearer ", "Token "} {
		if strings.HasPrefix(h, prefix) {
			t := strings.TrimSpace(strings.TrimPrefix(h, prefix))
			return t, t != ""
		}
	}
	return "", false
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CallerFrom(c).Authenticated {
			resp.Abort(c, http.StatusUnauthorized, services.ErrUnauthorized.Error())
			return
		}
		c.Next()
	}
}

func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if !caller.Authenticated {
			resp.Abort(c, http.StatusUnauthorized, services.ErrUnauthorized.Error())
			return
		}
		if !caller.IsManager {
			resp.Abort(c, http.StatusForbidden, services.ErrForbidden.Error())
			return
		}
		c.Next()
	}
}

// CallerFrom returns the caller set by Authenticate, or Anonymous.
func CallerFrom(c *gin.Context) services.Caller {
	if v, ok := c.Get(utils.CallerKey); ok {
		if caller, ok := v.(services.Caller); ok {
			return caller
		}
	}
	return services.Anonymous
}
