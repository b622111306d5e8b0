package stores

import (
	"context"
	"sync"

	"github.com/AQUACY/AGHIMS/internal/httpclient"
	"github.com/AQUACY/AGHIMS/pkg/logger"
	"github.com/AQUACY/AGHIMS/pkg/types"
)

// DashboardStore holds the landing-view summary figures. Fetch failures
// are logged but not surfaced: the dashboard degrades to stale figures
// instead of toasting on every refresh.
type DashboardStore struct {
	mu    sync.RWMutex
	stats types.DashboardStats

	client *httpclient.Client
	logger *logger.Logger
}

// NewDashboardStore creates a dashboard store
func NewDashboardStore(client *httpclient.Client, log *logger.Logger) *DashboardStore {
	return &DashboardStore{client: client, logger: log}
}

// Refresh fetches the latest summary figures
func (d *DashboardStore) Refresh(ctx context.Context) error {
	var stats types.DashboardStats
	if err := d.client.Get(ctx, "/dashboard/stats", &stats); err != nil {
		d.logger.WithComponent("dashboard").WithError(err).Warn("Failed to refresh stats")
		return err
	}

	d.mu.Lock()
	d.stats = stats
	d.mu.Unlock()
	return nil
}

// Stats returns the last fetched summary figures
func (d *DashboardStore) Stats() types.DashboardStats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stats
}
