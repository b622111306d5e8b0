package stores

import (
	"context"
	"fmt"

	"github.com/AQUACY/AGHIMS/internal/httpclient"
	"github.com/AQUACY/AGHIMS/pkg/logger"
	"github.com/AQUACY/AGHIMS/pkg/notify"
	"github.com/AQUACY/AGHIMS/pkg/types"
)

// BillingStore manages encounter bill items and payment requests
type BillingStore struct {
	client   *httpclient.Client
	logger   *logger.Logger
	notifier notify.Notifier
}

// NewBillingStore creates a billing store
func NewBillingStore(client *httpclient.Client, log *logger.Logger, notifier notify.Notifier) *BillingStore {
	return &BillingStore{client: client, logger: log, notifier: notifier}
}

// Items lists the bill items on an encounter
func (b *BillingStore) Items(ctx context.Context, encounterID int) ([]types.BillItem, error) {
	var items []types.BillItem
	path := fmt.Sprintf("/billing/encounter/%d", encounterID)
	if err := b.client.Get(ctx, path, &items); err != nil {
		notify.Negative(b.notifier, types.DetailOf(err, "Failed to fetch bill items"))
		return nil, err
	}
	return items, nil
}

// AddItem adds a chargeable line to an encounter bill
func (b *BillingStore) AddItem(ctx context.Context, item *types.BillItem) (*types.BillItem, error) {
	var created types.BillItem
	if err := b.client.Post(ctx, "/billing/", item, &created); err != nil {
		notify.Negative(b.notifier, types.DetailOf(err, "Failed to add bill item"))
		return nil, err
	}

	notify.Positive(b.notifier, "Bill item added")
	return &created, nil
}

// RecordPayment records a payment against an encounter bill
func (b *BillingStore) RecordPayment(ctx context.Context, encounterID int, amount float64) (*types.BillTotal, error) {
	payload := map[string]interface{}{"amount": amount}

	var total types.BillTotal
	path := fmt.Sprintf("/billing/encounter/%d/payment", encounterID)
	if err := b.client.Post(ctx, path, payload, &total); err != nil {
		notify.Negative(b.notifier, types.DetailOf(err, "Failed to record payment"))
		return nil, err
	}

	notify.Positive(b.notifier, "Payment recorded")
	return &total, nil
}
