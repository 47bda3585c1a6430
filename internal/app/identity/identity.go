package identity

import (
	"context"
	"strings"

	"stayhub/internal/app/apperr"
)

// Identity is the signed-in caller, resolved once per request.
type Identity struct {
	UserID string
	Email  string
	Roles  []string
	Token  string
}

func (i Identity) HasRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	for _, r := range i.Roles {
		if strings.ToLower(r) == role {
			return true
		}
	}
	return false
}

type ctxKey struct{}

func WithContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}

// Require returns AuthRequired when the context carries no identity.
func Require(ctx context.Context) (Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return Identity{}, apperr.New(apperr.KindAuthRequired, "sign in required")
	}
	return id, nil
}
