package types

import "time"

// Patient represents a registered patient record
type Patient struct {
	ID            int       `json:"id"`
	CardNumber    string    `json:"card_number"`
	Surname       string    `json:"surname"`
	OtherNames    string    `json:"other_names,omitempty"`
	Gender        string    `json:"gender"`
	DateOfBirth   string    `json:"date_of_birth"`
	ContactNumber string    `json:"contact_number,omitempty"`
	CCCNumber     string    `json:"ccc_number,omitempty"`
	Address       string    `json:"address,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// Encounter represents a patient visit for a given service type. Status
// transitions are server-authoritative; the client only displays and
// requests them.
type Encounter struct {
	ID          int       `json:"id"`
	PatientID   int       `json:"patient_id"`
	ServiceType string    `json:"service_type"`
	Status      string    `json:"status"`
	CCCNumber   string    `json:"ccc_number,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Vitals represents a vitals reading captured for an encounter
type Vitals struct {
	ID          int     `json:"id"`
	EncounterID int     `json:"encounter_id"`
	Temperature float64 `json:"temperature,omitempty"`
	Pulse       int     `json:"pulse,omitempty"`
	BPSystolic  int     `json:"bp_systolic,omitempty"`
	BPDiastolic int     `json:"bp_diastolic,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	Height      float64 `json:"height,omitempty"`
	SpO2        int     `json:"spo2,omitempty"`
	RecordedBy  string  `json:"recorded_by,omitempty"`
}

// Diagnosis represents a consultation diagnosis entry
type Diagnosis struct {
	ID          int    `json:"id"`
	EncounterID int    `json:"encounter_id"`
	ICDCode     string `json:"icd_code,omitempty"`
	Description string `json:"description"`
}

// Prescription represents a prescribed medication item and its pharmacy
// workflow state.
type Prescription struct {
	ID          int     `json:"id"`
	EncounterID int     `json:"encounter_id"`
	Medication  string  `json:"medication"`
	Dosage      string  `json:"dosage,omitempty"`
	Quantity    float64 `json:"quantity,omitempty"`
	Status      string  `json:"status"`
	IsExternal  bool    `json:"is_external,omitempty"`
}

// Investigation represents a lab/scan/xray request and its workflow
// state.
type Investigation struct {
	ID                int    `json:"id"`
	EncounterID       int    `json:"encounter_id"`
	InvestigationType string `json:"investigation_type"`
	ProcedureName     string `json:"procedure_name,omitempty"`
	Status            string `json:"status"`
	Notes             string `json:"notes,omitempty"`
}
