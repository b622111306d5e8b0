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

// EncountersStore manages encounter lookup and status requests. Status
// transitions are server-authoritative: the store only requests them
// and displays the outcome.
type EncountersStore struct {
	client   *httpclient.Client
	logger   *logger.Logger
	notifier notify.Notifier
}

// NewEncountersStore creates an encounters store
func NewEncountersStore(client *httpclient.Client, log *logger.Logger, notifier notify.Notifier) *EncountersStore {
	return &EncountersStore{client: client, logger: log, notifier: notifier}
}

// Get fetches one encounter
func (e *EncountersStore) Get(ctx context.Context, encounterID int) (*types.Encounter, error) {
	var encounter types.Encounter
	path := fmt.Sprintf("/encounters/%d", encounterID)
	if err := e.client.Get(ctx, path, &encounter); err != nil {
		notify.Negative(e.notifier, types.DetailOf(err, "Failed to fetch encounter"))
		return nil, err
	}
	return &encounter, nil
}

// UpdateStatus requests a status transition for an encounter
func (e *EncountersStore) UpdateStatus(ctx context.Context, encounterID int, newStatus string) (*types.Encounter, error) {
	var encounter types.Encounter
	path := fmt.Sprintf("/encounters/%d/status?new_status=%s", encounterID, url.QueryEscape(newStatus))
	if err := e.client.Put(ctx, path, nil, &encounter); err != nil {
		notify.Negative(e.notifier, types.DetailOf(err, "Failed to update encounter status"))
		return nil, err
	}
	return &encounter, nil
}

// ForPatient lists a patient's encounters
func (e *EncountersStore) ForPatient(ctx context.Context, patientID int) ([]types.Encounter, error) {
	var encounters []types.Encounter
	path := fmt.Sprintf("/encounters/patient/%d", patientID)
	if err := e.client.Get(ctx, path, &encounters); err != nil {
		notify.Negative(e.notifier, types.DetailOf(err, "Failed to fetch encounters"))
		return nil, err
	}
	return encounters, nil
}

// ByDate lists encounters for a calendar date (YYYY-MM-DD)
func (e *EncountersStore) ByDate(ctx context.Context, date string) ([]types.Encounter, error) {
	var encounters []types.Encounter
	if err := e.client.Get(ctx, "/encounters/date/"+url.PathEscape(date), &encounters); err != nil {
		notify.Negative(e.notifier, types.DetailOf(err, "Failed to fetch encounters"))
		return nil, err
	}
	return encounters, nil
}

// BillTotal fetches the computed bill total for an encounter
func (e *EncountersStore) BillTotal(ctx context.Context, encounterID int) (*types.BillTotal, error) {
	var total types.BillTotal
	path := fmt.Sprintf("/encounters/%d/bill-total", encounterID)
	if err := e.client.Get(ctx, path, &total); err != nil {
		notify.Negative(e.notifier, types.DetailOf(err, "Failed to fetch bill total"))
		return nil, err
	}
	return &total, nil
}

// Delete removes an encounter
func (e *EncountersStore) Delete(ctx context.Context, encounterID int) error {
	path := fmt.Sprintf("/encounters/%d", encounterID)
	if err := e.client.Delete(ctx, path); err != nil {
		notify.Negative(e.notifier, types.DetailOf(err, "Failed to delete encounter"))
		return err
	}

	notify.Positive(e.notifier, "Encounter deleted")
	return nil
}
