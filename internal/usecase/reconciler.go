package usecase

import (
	"context"
	"sync"

	"stockview/internal/domain/models"
	drepo "stockview/internal/domain/repository"
	applogger "stockview/pkg/logger"
)

// Membership is the reconciler's view of one (owner, symbol) pair. A toggle
// moves it through pending; only a completed server round-trip lands it on a
// confirmed state.
type Membership int

const (
	MembershipOff Membership = iota
	MembershipOn
	MembershipPending
)

// WishlistReconciler toggles wishlist membership optimistically and then
// re-synchronizes from the store: whatever the server holds after the
// round-trip is the truth, never the local guess. Toggles are serialized per
// owner so a second toggle waits for the in-flight reconciliation; different
// owners proceed independently.
type WishlistReconciler struct {
	store   drepo.WishlistStore
	metrics drepo.Metrics
	logger  *applogger.Logger

	mu     sync.Mutex
	owners map[string]*ownerState
}

type ownerState struct {
	mu      sync.Mutex // serializes toggles for this owner
	entries map[string]models.WishlistEntry
	synced  bool
}

func NewWishlistReconciler(store drepo.WishlistStore, metrics drepo.Metrics, logger *applogger.Logger) *WishlistReconciler {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &WishlistReconciler{
		store:   store,
		metrics: metrics,
		logger:  logger,
		owners:  make(map[string]*ownerState),
	}
}

func (r *WishlistReconciler) owner(email string) *ownerState {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.owners[email]
	if !ok {
		o = &ownerState{entries: make(map[string]models.WishlistEntry)}
		r.owners[email] = o
	}
	return o
}

// Sync fetches the owner's authoritative wishlist. An unauthenticated owner
// (empty email) yields an empty collection without touching the store.
func (r *WishlistReconciler) Sync(ctx context.Context, email string) []models.WishlistEntry {
	if email == "" {
		return []models.WishlistEntry{}
	}

	o := r.owner(email)
	o.mu.Lock()
	defer o.mu.Unlock()
	return r.refreshLocked(ctx, email, o)
}

// Toggle flips membership for (email, security) against the last confirmed
// server state and re-syncs. The returned membership is server-confirmed.
// Store failures are logged and absorbed; the re-sync still runs so the
// local view converges on whatever the server actually holds.
func (r *WishlistReconciler) Toggle(ctx context.Context, email string, sec models.Security) Membership {
	if email == "" {
		return MembershipOff
	}

	o := r.owner(email)
	o.mu.Lock() // a concurrent toggle for this owner parks here
	defer o.mu.Unlock()

	if !o.synced {
		r.refreshLocked(ctx, email, o)
	}

	stockID := sec.SecurityID
	_, present := o.entries[stockID]

	if present {
		removed, err := r.store.Remove(ctx, email, stockID)
		if err != nil {
			r.logger.Error("wishlist remove failed",
				applogger.String("email", email),
				applogger.String("stockId", stockID),
				applogger.Error(err),
			)
			r.record("failed")
		} else if removed {
			r.record("removed")
		}
	} else {
		_, err := r.store.Add(ctx, email, models.WishlistEntry{
			StockID:   stockID,
			StockName: sec.IssuerName,
		})
		if err != nil {
			r.logger.Error("wishlist add failed",
				applogger.String("email", email),
				applogger.String("stockId", stockID),
				applogger.Error(err),
			)
			r.record("failed")
		} else {
			r.record("added")
		}
	}

	// the server list after the mutation is authoritative, success or not
	r.refreshLocked(ctx, email, o)

	if _, ok := o.entries[stockID]; ok {
		return MembershipOn
	}
	return MembershipOff
}

// Contains reports last-confirmed membership for (email, stockId).
func (r *WishlistReconciler) Contains(ctx context.Context, email, stockID string) bool {
	if email == "" {
		return false
	}
	o := r.owner(email)
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.synced {
		r.refreshLocked(ctx, email, o)
	}
	_, ok := o.entries[stockID]
	return ok
}

// refreshLocked refetches the owner's list and rebuilds the confirmed view.
// Caller holds o.mu.
func (r *WishlistReconciler) refreshLocked(ctx context.Context, email string, o *ownerState) []models.WishlistEntry {
	entries, err := r.store.List(ctx, email)
	if err != nil {
		r.logger.Error("wishlist sync failed",
			applogger.String("email", email),
			applogger.Error(err),
		)
		// keep the previous confirmed view; it is stale, not wrong
		out := make([]models.WishlistEntry, 0, len(o.entries))
		for _, e := range o.entries {
			out = append(out, e)
		}
		return out
	}

	o.entries = make(map[string]models.WishlistEntry, len(entries))
	for _, e := range entries {
		o.entries[e.StockID] = e
	}
	o.synced = true
	return entries
}

func (r *WishlistReconciler) record(outcome string) {
	if r.metrics != nil {
		r.metrics.RecordWishlistToggle(outcome)
	}
}
