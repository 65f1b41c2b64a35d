package models

import "time"

// Screening is the application of an instrument to a student.
type Screening struct {
	ID              string          `db:"id" json:"id"`
	StudentID       string          `db:"student_id" json:"estudanteId"`
	ApplicatorID    string          `db:"applicator_id" json:"aplicadorId"`
	InstrumentID    string          `db:"instrument_id" json:"instrumentoId"`
	ApplicationDate time.Time       `db:"application_date" json:"dataAplicacao"`
	Notes           *string         `db:"notes" json:"observacoes,omitempty"`
	Status          ScreeningStatus `db:"status" json:"status"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
}

// ScreeningResult is a measured value for one indicator of a screening.
type ScreeningResult struct {
	ID          string    `db:"id" json:"id"`
	ScreeningID string    `db:"screening_id" json:"rastreioId"`
	IndicatorID string    `db:"indicator_id" json:"indicadorId"`
	Value       float64   `db:"value" json:"valor"`
	RiskLevel   RiskLevel `db:"risk_level" json:"nivelRisco"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// ScreeningInstrument is a standardised screening test.
type ScreeningInstrument struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"nome"`
	Category    string    `db:"category" json:"categoria"`
	Description *string   `db:"description" json:"descricao,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Indicator is a sub-scale of an instrument with a risk cutoff.
type Indicator struct {
	ID           string    `db:"id" json:"id"`
	InstrumentID string    `db:"instrument_id" json:"instrumentoId"`
	Name         string    `db:"name" json:"nome"`
	Cutoff       float64   `db:"cutoff" json:"pontoCorte"`
	Description  *string   `db:"description" json:"descricao,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// ClassifyRisk maps a measured value against its cutoff. Values at or above
// the cutoff are high risk; values within 20% below it are moderate.
func ClassifyRisk(value, cutoff float64) RiskLevel {
	switch {
	case value >= cutoff:
		return RiskHigh
	case value >= cutoff*0.8:
		return RiskModerate
	default:
		return RiskLow
	}
}
