package ginserver

import (
	"log/slog"
	"strings"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/apperr"
	"stayhub/internal/app/identity"
	authsvc "stayhub/internal/app/services/auth"
)

// AuthMiddleware resolves the bearer token once per request and stores the
// caller in the request context. Requests without a valid token continue
// anonymously; handlers that need a user call requireUser.
type AuthMiddleware struct {
	Service *authsvc.Service
	Logger  *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	resolved, err := m.Service.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindBackendFailure && m.Logger != nil {
			m.Logger.Warn("token resolution failed", "error", err)
		}
		c.Next()
		return
	}
	roles := make([]string, 0, len(resolved.User.Roles))
	for _, r := range resolved.User.Roles {
		roles = append(roles, string(r))
	}
	ctx := identity.WithContext(c.Request.Context(), identity.Identity{
		UserID: string(resolved.User.ID),
		Email:  resolved.User.Email,
		Roles:  roles,
		Token:  token,
	})
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// requireUser aborts with 401 when the request is anonymous.
func requireUser(c *gin.Context) (identity.Identity, bool) {
	id, err := identity.Require(c.Request.Context())
	if err != nil {
		fail(c, nil, err)
		return identity.Identity{}, false
	}
	return id, true
}

func extractBearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
