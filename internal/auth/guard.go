package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/core/access"
	"github.com/frahmantamala/garments-tracker/internal/transport"
	"github.com/frahmantamala/garments-tracker/pkg/logger"
)

// Guard authenticates requests and authorizes operations against access.Policies.
type Guard struct {
	*transport.BaseHandler
	codec    TokenCodec
	accounts AccountLookup
	logger   *slog.Logger
}

func NewGuard(codec TokenCodec, accounts AccountLookup, lg *slog.Logger) *Guard {
	base := transport.NewBaseHandler(lg)
	return &Guard{
		BaseHandler: base,
		codec:       codec,
		accounts:    accounts,
		logger:      base.Logger,
	}
}

// Authenticate reads the session token from the cookie or the Authorization header and
// stores the caller identity in the request context.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := transport.ExtractToken(r)
		if token == "" {
			g.WriteAppError(w, internal.ErrUnauthenticated)
			return
		}

		claims, err := g.codec.Verify(token)
		if err != nil {
			g.logger.Debug("token rejected", "path", r.URL.Path, "error", err)
			g.WriteAppError(w, internal.ErrInvalidToken)
			return
		}

		identity := claims.Identity()
		ctx := internal.ContextWithIdentity(r.Context(), identity)
		ctx = logger.With(ctx, "userID", identity.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize checks the caller's role against the policy for op. Policies that require
// an active account load the current record, so a suspension applies to tokens issued
// before it.
func (g *Guard) Authorize(ctx context.Context, actor internal.Identity, op access.Operation) error {
	if actor.UserID == "" {
		return internal.ErrUnauthenticated
	}

	policy, ok := access.Lookup(op)
	if !ok || !policy.Allows(access.Role(actor.Role)) {
		g.logger.Warn("access denied", "user_id", actor.UserID, "role", actor.Role, "operation", op)
		return internal.ErrForbidden
	}

	if !policy.RequireActive {
		return nil
	}

	account, err := g.accounts.FindByEmail(ctx, actor.Email)
	if err != nil {
		if internal.KindOf(err) == internal.ErrorTypeNotFound {
			return internal.ErrUnauthenticated
		}
		return err
	}
	if account.IsSuspended() {
		g.logger.Warn("suspended account denied", "user_id", actor.UserID, "operation", op)
		return internal.ErrAccountSuspended
	}
	return nil
}

// Require is a route-level check for op, for routes whose handler has no service call
// that authorizes on its own.
func (g *Guard) Require(op access.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				g.WriteAppError(w, internal.ErrUnauthenticated)
				return
			}
			if err := g.Authorize(r.Context(), actor, op); err != nil {
				g.HandleServiceError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
