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

// VitalsStore manages vitals capture and review
type VitalsStore struct {
	client   *httpclient.Client
	logger   *logger.Logger
	notifier notify.Notifier
}

// NewVitalsStore creates a vitals store
func NewVitalsStore(client *httpclient.Client, log *logger.Logger, notifier notify.Notifier) *VitalsStore {
	return &VitalsStore{client: client, logger: log, notifier: notifier}
}

// Create records a vitals reading for an encounter
func (v *VitalsStore) Create(ctx context.Context, vitals *types.Vitals) (*types.Vitals, error) {
	var created types.Vitals
	if err := v.client.Post(ctx, "/vitals/", vitals, &created); err != nil {
		notify.Negative(v.notifier, types.DetailOf(err, "Failed to record vitals"))
		return nil, err
	}

	notify.Positive(v.notifier, "Vitals recorded successfully")
	return &created, nil
}

// ForEncounter lists vitals readings for an encounter
func (v *VitalsStore) ForEncounter(ctx context.Context, encounterID int) ([]types.Vitals, error) {
	var readings []types.Vitals
	path := fmt.Sprintf("/vitals/encounter/%d", encounterID)
	if err := v.client.Get(ctx, path, &readings); err != nil {
		notify.Negative(v.notifier, types.DetailOf(err, "Failed to fetch vitals"))
		return nil, err
	}
	return readings, nil
}

// Today lists today's vitals, optionally filtered by card number
func (v *VitalsStore) Today(ctx context.Context, cardNumber string) ([]types.Vitals, error) {
	path := "/vitals/"
	if cardNumber != "" {
		path += "?card_number=" + url.QueryEscape(cardNumber)
	}

	var readings []types.Vitals
	if err := v.client.Get(ctx, path, &readings); err != nil {
		notify.Negative(v.notifier, types.DetailOf(err, "Failed to fetch vitals"))
		return nil, err
	}
	return readings, nil
}
