package stores

import (
	"context"
	"fmt"
	"net/url"

	"github.com/AQUACY/AGHIMS/internal/httpclient"
	"github.com/AQUACY/AGHIMS/pkg/logger"
	"github.com/AQUACY/AGHIMS/pkg/notify"
	"github.com/AQUACY/AGHIMS/pkg/types"
)

// ClaimsStore manages insurance claims review and submission
type ClaimsStore struct {
	client   *httpclient.Client
	logger   *logger.Logger
	notifier notify.Notifier
}

// NewClaimsStore creates a claims store
func NewClaimsStore(client *httpclient.Client, log *logger.Logger, notifier notify.Notifier) *ClaimsStore {
	return &ClaimsStore{client: client, logger: log, notifier: notifier}
}

// List lists claims, optionally filtered by status
func (c *ClaimsStore) List(ctx context.Context, status string) ([]types.Claim, error) {
	path := "/claims/"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	var claims []types.Claim
	if err := c.client.Get(ctx, path, &claims); err != nil {
		notify.Negative(c.notifier, types.DetailOf(err, "Failed to fetch claims"))
		return nil, err
	}
	return claims, nil
}

// Get fetches one claim
func (c *ClaimsStore) Get(ctx context.Context, claimID int) (*types.Claim, error) {
	var claim types.Claim
	path := fmt.Sprintf("/claims/%d", claimID)
	if err := c.client.Get(ctx, path, &claim); err != nil {
		notify.Negative(c.notifier, types.DetailOf(err, "Failed to fetch claim"))
		return nil, err
	}
	return &claim, nil
}

// Update updates a claim under review
func (c *ClaimsStore) Update(ctx context.Context, claimID int, claim *types.Claim) (*types.Claim, error) {
	var updated types.Claim
	path := fmt.Sprintf("/claims/%d", claimID)
	if err := c.client.Put(ctx, path, claim, &updated); err != nil {
		notify.Negative(c.notifier, types.DetailOf(err, "Failed to update claim"))
		return nil, err
	}

	notify.Positive(c.notifier, "Claim updated")
	return &updated, nil
}

// Submit submits a claim to the insurer
func (c *ClaimsStore) Submit(ctx context.Context, claimID int) (*types.Claim, error) {
	var submitted types.Claim
	path := fmt.Sprintf("/claims/%d/submit", claimID)
	if err := c.client.Post(ctx, path, nil, &submitted); err != nil {
		notify.Negative(c.notifier, types.DetailOf(err, "Failed to submit claim"))
		return nil, err
	}

	notify.Positive(c.notifier, "Claim submitted")
	return &submitted, nil
}
