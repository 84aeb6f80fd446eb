package linkage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"adjja/internal/domain/account"
)

// Method records how an existing portal account was found.
const (
	MethodNone         = "none"
	MethodByExternalID = "by_external_id"
	MethodByEmail      = "by_email"
)

// Status is the outcome of an account linkage check. Degraded is true when
// a lookup failed and the check fell open: the entity may still have an
// account, and the identity store's unique email constraint remains the
// real gate at creation time.
type Status struct {
	Exists   bool
	Method   string
	Degraded bool
}

// IdentityStore is the narrow read contract the resolver needs.
// Not-found is reported as a wrapped sql.ErrNoRows, any other error is a
// lookup failure.
type IdentityStore interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	GetByEmail(ctx context.Context, email string) (account.Account, error)
}

// Resolver answers "does this student/coach already have a portal account?"
// before a wizard decides whether to offer credential creation. Lookups are
// read-only and idempotent; concurrent checks are last-input-wins.
type Resolver struct {
	store IdentityStore
	gen   atomic.Uint64
}

// NewResolver creates a Resolver backed by the given identity store.
func NewResolver(store IdentityStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve determines whether an account exists for the entity.
// The external-ID hint (a stored account reference on the entity) is
// authoritative and checked first; the email fallback is a case-insensitive
// exact match. Lookup failures fail open with Degraded set.
// PRE: email is non-empty (format is not validated here)
// POST: Exists implies Method is ByExternalID or ByEmail
// INVARIANT: no writes; same inputs and backing data give the same Status
func (r *Resolver) Resolve(ctx context.Context, email, externalIDHint string) Status {
	if externalIDHint != "" {
		_, err := r.store.GetByID(ctx, externalIDHint)
		switch {
		case err == nil:
			return Status{Exists: true, Method: MethodByExternalID}
		case !errors.Is(err, sql.ErrNoRows):
			slog.Warn("linkage_lookup_degraded", "method", MethodByExternalID, "error", err.Error())
			return Status{Method: MethodNone, Degraded: true}
		}
		// Hint points at a deleted account; fall through to email.
	}

	_, err := r.store.GetByEmail(ctx, strings.ToLower(email))
	switch {
	case err == nil:
		return Status{Exists: true, Method: MethodByEmail}
	case !errors.Is(err, sql.ErrNoRows):
		slog.Warn("linkage_lookup_degraded", "method", MethodByEmail, "error", err.Error())
		return Status{Method: MethodNone, Degraded: true}
	}

	return Status{Method: MethodNone}
}

// ResolveLatest runs Resolve and applies the result only if no newer check
// has been issued and the context is still live. Stale or cancelled lookups
// are discarded, never applied out of order.
// PRE: apply is non-nil
// POST: apply is called at most once, and only with the newest result
func (r *Resolver) ResolveLatest(ctx context.Context, email, externalIDHint string, apply func(Status)) {
	gen := r.gen.Add(1)
	status := r.Resolve(ctx, email, externalIDHint)
	if ctx.Err() != nil {
		return
	}
	if r.gen.Load() != gen {
		return
	}
	apply(status)
}
