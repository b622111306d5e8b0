// Package stores holds the domain-facing state wrappers over the shared
// request pipeline. Stores never swallow errors silently: each failure
// is surfaced as a notification and then returned, so pages can apply
// local recovery on top.
package stores

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/AQUACY/AGHIMS/internal/httpclient"
	"github.com/AQUACY/AGHIMS/pkg/logger"
	"github.com/AQUACY/AGHIMS/pkg/notify"
	"github.com/AQUACY/AGHIMS/pkg/types"
)

// PatientsStore manages patient registration and lookup state
type PatientsStore struct {
	mu             sync.RWMutex
	currentPatient *types.Patient
	searchResults  []types.Patient

	client   *httpclient.Client
	logger   *logger.Logger
	notifier notify.Notifier
}

// NewPatientsStore creates a patients store
func NewPatientsStore(client *httpclient.Client, log *logger.Logger, notifier notify.Notifier) *PatientsStore {
	return &PatientsStore{client: client, logger: log, notifier: notifier}
}

// Create registers a new patient
func (p *PatientsStore) Create(ctx context.Context, patient *types.Patient) (*types.Patient, error) {
	var created types.Patient
	if err := p.client.Post(ctx, "/patients/", patient, &created); err != nil {
		notify.Negative(p.notifier, types.DetailOf(err, "Failed to register patient"))
		return nil, err
	}

	notify.Positive(p.notifier, "Patient registered successfully")
	return &created, nil
}

// GetByCard looks a patient up by card number. A 404 clears the current
// patient and returns nil rather than an error: an unknown card is a
// normal lookup outcome, not a failure.
func (p *PatientsStore) GetByCard(ctx context.Context, cardNumber string) (*types.Patient, error) {
	var patient types.Patient
	err := p.client.Get(ctx, "/patients/card/"+url.PathEscape(cardNumber), &patient)
	if err != nil {
		if types.IsNotFound(err) {
			p.mu.Lock()
			p.currentPatient = nil
			p.mu.Unlock()
			return nil, nil
		}
		notify.Negative(p.notifier, types.DetailOf(err, "Failed to fetch patient"))
		return nil, err
	}

	p.mu.Lock()
	p.currentPatient = &patient
	p.mu.Unlock()
	return &patient, nil
}

// SearchByName searches patients by name
func (p *PatientsStore) SearchByName(ctx context.Context, name string) ([]types.Patient, error) {
	var results []types.Patient
	path := "/patients/search/name?name=" + url.QueryEscape(name)
	if err := p.client.Get(ctx, path, &results); err != nil {
		notify.Negative(p.notifier, types.DetailOf(err, "Patient search failed"))
		return nil, err
	}

	p.mu.Lock()
	p.searchResults = results
	p.mu.Unlock()
	return results, nil
}

// Update updates a patient record
func (p *PatientsStore) Update(ctx context.Context, patientID int, patient *types.Patient) (*types.Patient, error) {
	var updated types.Patient
	path := fmt.Sprintf("/patients/%d", patientID)
	if err := p.client.Put(ctx, path, patient, &updated); err != nil {
		notify.Negative(p.notifier, types.DetailOf(err, "Failed to update patient"))
		return nil, err
	}

	notify.Positive(p.notifier, "Patient updated successfully")
	return &updated, nil
}

// CreateEncounter opens a new encounter for a patient
func (p *PatientsStore) CreateEncounter(ctx context.Context, patientID int, serviceType, cccNumber string) (*types.Encounter, error) {
	params := url.Values{}
	params.Set("service_type", serviceType)
	if cccNumber != "" {
		params.Set("ccc_number", cccNumber)
	}

	var encounter types.Encounter
	path := fmt.Sprintf("/patients/%d/encounter?%s", patientID, params.Encode())
	if err := p.client.Post(ctx, path, nil, &encounter); err != nil {
		notify.Negative(p.notifier, types.DetailOf(err, "Failed to create encounter"))
		return nil, err
	}

	notify.Positive(p.notifier, "Encounter created successfully")
	return &encounter, nil
}

// CurrentPatient returns the last looked-up patient, or nil
func (p *PatientsStore) CurrentPatient() *types.Patient {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.currentPatient == nil {
		return nil
	}
	patient := *p.currentPatient
	return &patient
}

// SearchResults returns the last name-search results
func (p *PatientsStore) SearchResults() []types.Patient {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.searchResults
}
