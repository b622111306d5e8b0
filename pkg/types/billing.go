package types

import "time"

// BillItem represents a single chargeable line on an encounter bill
type BillItem struct {
	ID          int     `json:"id"`
	EncounterID int     `json:"encounter_id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Insured     bool    `json:"insurance_covered,omitempty"`
}

// BillTotal represents the computed total for an encounter bill
type BillTotal struct {
	EncounterID int     `json:"encounter_id"`
	Total       float64 `json:"total"`
	Paid        float64 `json:"paid,omitempty"`
	Outstanding float64 `json:"outstanding,omitempty"`
}

// Claim represents an insurance claim raised from an encounter
type Claim struct {
	ID          int       `json:"id"`
	EncounterID int       `json:"encounter_id"`
	CCCNumber   string    `json:"ccc_number,omitempty"`
	Status      string    `json:"status"`
	Amount      float64   `json:"amount,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// DashboardStats represents the landing-view summary figures
type DashboardStats struct {
	PatientsToday    int `json:"patients_today"`
	EncountersToday  int `json:"encounters_today"`
	PendingLabs      int `json:"pending_labs"`
	PendingPharmacy  int `json:"pending_pharmacy"`
	OpenAdmissions   int `json:"open_admissions"`
	OutstandingBills int `json:"outstanding_bills"`
}
