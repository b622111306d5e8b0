// Package dateutil resolves the date the application should treat as
// "today". Deployments can pin a reference date on the backend so the
// application keeps using it even when a workstation clock is changed;
// this package fetches and caches that date, falling back to the local
// clock when it is unavailable.
package dateutil

import (
	"context"
	"sync"
	"time"

	"github.com/AQUACY/AGHIMS/pkg/logger"
	"github.com/AQUACY/AGHIMS/pkg/storage"
	"github.com/AQUACY/AGHIMS/pkg/types"
)

// cacheDuration bounds how often the reference date is re-fetched
const cacheDuration = 5 * time.Minute

// Getter is the slice of the API client the resolver needs
type Getter interface {
	Get(ctx context.Context, path string, out interface{}) error
}

// Resolver caches the backend reference date
type Resolver struct {
	mu        sync.Mutex
	cached    time.Time
	fetchedAt time.Time

	client  Getter
	storage storage.Store
	logger  *logger.Logger
	now     func() time.Time
}

// NewResolver creates a reference date resolver
func NewResolver(client Getter, store storage.Store, log *logger.Logger) *Resolver {
	return &Resolver{
		client:  client,
		storage: store,
		logger:  log,
		now:     time.Now,
	}
}

// ApplicationDate returns the date/time the application should use:
// the backend reference date when one is configured, else the local
// clock. Results are cached for five minutes to avoid excessive calls.
func (r *Resolver) ApplicationDate(ctx context.Context) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if !r.cached.IsZero() && now.Sub(r.fetchedAt) < cacheDuration {
		return r.cached
	}

	var payload types.ApplicationDate
	if err := r.client.Get(ctx, "/system/application-date", &payload); err != nil {
		r.logger.WithComponent("dateutil").WithError(err).
			Warn("Failed to fetch application date, using local clock")
		return now
	}
	if payload.ApplicationDatetime.IsZero() {
		return now
	}

	r.cached = payload.ApplicationDatetime
	r.fetchedAt = now

	if err := r.storage.Set(storage.KeyAppDate, r.cached.Format(time.RFC3339)); err != nil {
		r.logger.WithComponent("dateutil").WithError(err).Warn("Failed to cache application date")
	}

	return r.cached
}

// ApplicationDay returns the application date truncated to midnight
func (r *Resolver) ApplicationDay(ctx context.Context) time.Time {
	d := r.ApplicationDate(ctx)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
