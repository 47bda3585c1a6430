package middleware

import (
	"context"

	"stayhub/internal/app/apperr"
	"stayhub/internal/app/commands"
	"stayhub/internal/app/identity"
	"stayhub/internal/app/queries"
)

type Authorizer interface {
	Authorize(ctx context.Context, message any) error
}

// ActorMessage is implemented by messages that act on behalf of a signed-in user.
type ActorMessage interface {
	ActorID() string
}

// RoleMessage is implemented by messages restricted to a role.
type RoleMessage interface {
	RequiredRole() string
}

// IdentityAuthorizer checks actor messages against the request identity.
type IdentityAuthorizer struct{}

func (IdentityAuthorizer) Authorize(ctx context.Context, message any) error {
	actor, ok := message.(ActorMessage)
	if !ok {
		return nil
	}
	if actor.ActorID() == "" {
		return apperr.New(apperr.KindAuthRequired, "sign in required")
	}
	id, signedIn := identity.FromContext(ctx)
	if !signedIn {
		// background jobs dispatch without an HTTP identity
		return nil
	}
	if id.UserID != actor.ActorID() {
		return apperr.New(apperr.KindForbidden, "actor does not match the signed-in user")
	}
	if rm, ok := message.(RoleMessage); ok && rm.RequiredRole() != "" && !id.HasRole(rm.RequiredRole()) {
		return apperr.Newf(apperr.KindForbidden, "role %s required", rm.RequiredRole())
	}
	return nil
}

func Authorization(a Authorizer) CommandMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := a.Authorize(ctx, cmd); err != nil {
				return nil, err
			}
			return nextFn(ctx, cmd)
		})
	}
}

func QueryAuthorization(a Authorizer) QueryMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := a.Authorize(ctx, q); err != nil {
				return nil, err
			}
			return nextFn(ctx, q)
		})
	}
}
