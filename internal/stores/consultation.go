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

// ConsultationStore manages diagnoses, prescriptions and investigation
// requests raised during a consultation, plus their pharmacy and
// lab/scan/xray workflow actions.
type ConsultationStore struct {
	client   *httpclient.Client
	logger   *logger.Logger
	notifier notify.Notifier
}

// NewConsultationStore creates a consultation store
func NewConsultationStore(client *httpclient.Client, log *logger.Logger, notifier notify.Notifier) *ConsultationStore {
	return &ConsultationStore{client: client, logger: log, notifier: notifier}
}

// CreateDiagnosis records a diagnosis for an encounter
func (c *ConsultationStore) CreateDiagnosis(ctx context.Context, diagnosis *types.Diagnosis) (*types.Diagnosis, error) {
	var created types.Diagnosis
	if err := c.client.Post(ctx, "/consultation/diagnosis", diagnosis, &created); err != nil {
		notify.Negative(c.notifier, types.DetailOf(err, "Failed to save diagnosis"))
		return nil, err
	}

	notify.Positive(c.notifier, "Diagnosis saved")
	return &created, nil
}

// Diagnoses lists diagnoses for an encounter
func (c *ConsultationStore) Diagnoses(ctx context.Context, encounterID int) ([]types.Diagnosis, error) {
	var diagnoses []types.Diagnosis
	path := fmt.Sprintf("/consultation/diagnosis/encounter/%d", encounterID)
	if err := c.client.Get(ctx, path, &diagnoses); err != nil {
		notify.Negative(c.notifier, types.DetailOf(err, "Failed to fetch diagnoses"))
		return nil, err
	}
	return diagnoses, nil
}

// CreatePrescription records a prescription for an encounter
func (c *ConsultationStore) CreatePrescription(ctx context.Context, prescription *types.Prescription) (*types.Prescription, error) {
	var created types.Prescription
	if err := c.client.Post(ctx, "/consultation/prescription", prescription, &created); err != nil {
		notify.Negative(c.notifier, types.DetailOf(err, "Failed to save prescription"))
		return nil, err
	}

	notify.Positive(c.notifier, "Prescription saved")
	return &created, nil
}

// Prescriptions lists prescriptions for an encounter
func (c *ConsultationStore) Prescriptions(ctx context.Context, encounterID int) ([]types.Prescription, error) {
	var prescriptions []types.Prescription
	path := fmt.Sprintf("/consultation/prescription/encounter/%d", encounterID)
	if err := c.client.Get(ctx, path, &prescriptions); err != nil {
		notify.Negative(c.notifier, types.DetailOf(err, "Failed to fetch prescriptions"))
		return nil, err
	}
	return prescriptions, nil
}

// ConfirmPrescription moves a prescription into the pharmacy queue
func (c *ConsultationStore) ConfirmPrescription(ctx context.Context, prescriptionID int) (*types.Prescription, error) {
	var confirmed types.Prescription
	path := fmt.Sprintf("/consultation/prescription/%d/confirm", prescriptionID)
	// The backend requires a body on this endpoint even when empty
	if err := c.client.Put(ctx, path, struct{}{}, &confirmed); err != nil {
		notify.Negative(c.notifier, types.DetailOf(err, "Failed to confirm prescription"))
		return nil, err
	}

	notify.Positive(c.notifier, "Prescription confirmed")
	return &confirmed, nil
}

// DispensePrescription marks a prescription dispensed at the pharmacy
func (c *ConsultationStore) DispensePrescription(ctx context.Context, prescriptionID int) (*types.Prescription, error) {
	var dispensed types.Prescription
	path := fmt.Sprintf("/consultation/prescription/%d/dispense", prescriptionID)
	if err := c.client.Put(ctx, path, nil, &dispensed); err != nil {
		notify.Negative(c.notifier, types.DetailOf(err, "Failed to dispense prescription"))
		return nil, err
	}

	notify.Positive(c.notifier, "Prescription dispensed")
	return &dispensed, nil
}

// CreateInvestigation raises a lab/scan/xray request
func (c *ConsultationStore) CreateInvestigation(ctx context.Context, investigation *types.Investigation) (*types.Investigation, error) {
	var created types.Investigation
	if err := c.client.Post(ctx, "/consultation/investigation", investigation, &created); err != nil {
		notify.Negative(c.notifier, types.DetailOf(err, "Failed to save investigation"))
		return nil, err
	}

	notify.Positive(c.notifier, "Investigation requested")
	return &created, nil
}

// Investigations lists investigations for an encounter
func (c *ConsultationStore) Investigations(ctx context.Context, encounterID int) ([]types.Investigation, error) {
	var investigations []types.Investigation
	path := fmt.Sprintf("/consultation/investigation/encounter/%d", encounterID)
	if err := c.client.Get(ctx, path, &investigations); err != nil {
		notify.Negative(c.notifier, types.DetailOf(err, "Failed to fetch investigations"))
		return nil, err
	}
	return investigations, nil
}

// InvestigationsByType lists investigations in a department worklist
// (lab, scan or xray), with optional filters.
func (c *ConsultationStore) InvestigationsByType(ctx context.Context, investigationType string, filters url.Values) ([]types.Investigation, error) {
	path := "/consultation/investigation/list/" + url.PathEscape(investigationType)
	if len(filters) > 0 {
		path += "?" + filters.Encode()
	}

	var investigations []types.Investigation
	if err := c.client.Get(ctx, path, &investigations); err != nil {
		notify.Negative(c.notifier, types.DetailOf(err, "Failed to fetch investigations"))
		return nil, err
	}
	return investigations, nil
}

// ConfirmInvestigation confirms an investigation into its department
// worklist.
func (c *ConsultationStore) ConfirmInvestigation(ctx context.Context, investigationID int) (*types.Investigation, error) {
	var confirmed types.Investigation
	path := fmt.Sprintf("/consultation/investigation/%d/confirm", investigationID)
	if err := c.client.Put(ctx, path, nil, &confirmed); err != nil {
		notify.Negative(c.notifier, types.DetailOf(err, "Failed to confirm investigation"))
		return nil, err
	}

	notify.Positive(c.notifier, "Investigation confirmed")
	return &confirmed, nil
}
