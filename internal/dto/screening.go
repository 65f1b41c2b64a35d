package dto

import (
	"time"

	"github.com/noah-isme/mtss-api/internal/models"
)

// ScreeningFilter holds optional equality filters; empty values are skipped.
type ScreeningFilter struct {
	StudentID    string
	ApplicatorID string
	InstrumentID string
	Status       string
}

// ScreeningSummary is the light projection returned by create and update.
type ScreeningSummary struct {
	models.Screening
	Student    StudentRef    `json:"estudante"`
	Instrument InstrumentRef `json:"instrumento"`
}

// ScreeningResultSummary is a result with its indicator reduced to name and cutoff.
type ScreeningResultSummary struct {
	models.ScreeningResult
	Indicator IndicatorRef `json:"indicador"`
}

// ScreeningListItem is a screening row in list responses.
type ScreeningListItem struct {
	models.Screening
	Student    StudentRef               `json:"estudante"`
	Applicator UserRef                  `json:"aplicador"`
	Instrument InstrumentRef            `json:"instrumento"`
	Results    []ScreeningResultSummary `json:"resultados"`
}

// InstrumentDetail is an instrument with all its indicators.
type InstrumentDetail struct {
	models.ScreeningInstrument
	Indicators []models.Indicator `json:"indicadores"`
}

// ScreeningResultDetail is a result with its full indicator.
type ScreeningResultDetail struct {
	models.ScreeningResult
	Indicator models.Indicator `json:"indicador"`
}

// ScreeningDetail is the eager-loaded screening view.
type ScreeningDetail struct {
	models.Screening
	Student    StudentRef              `json:"estudante"`
	Applicator UserRef                 `json:"aplicador"`
	Instrument InstrumentDetail        `json:"instrumento"`
	Results    []ScreeningResultDetail `json:"resultados"`
}

// CreateScreeningRequest is the payload for registering a screening.
// ApplicatorID defaults to the authenticated user.
type CreateScreeningRequest struct {
	StudentID       string  `json:"estudanteId" validate:"required,uuid"`
	ApplicatorID    *string `json:"aplicadorId" validate:"omitempty,uuid"`
	InstrumentID    string  `json:"instrumentoId" validate:"required,uuid"`
	ApplicationDate string  `json:"dataAplicacao" validate:"required,isodate"`
	Notes           *string `json:"observacoes"`
	Status          *string `json:"status" validate:"omitempty,oneof=EM_ANDAMENTO CONCLUIDO CANCELADO"`
}

// UpdateScreeningRequest is a sparse patch.
type UpdateScreeningRequest struct {
	StudentID       *string `json:"estudanteId" validate:"omitempty,uuid"`
	ApplicatorID    *string `json:"aplicadorId" validate:"omitempty,uuid"`
	InstrumentID    *string `json:"instrumentoId" validate:"omitempty,uuid"`
	ApplicationDate *string `json:"dataAplicacao" validate:"omitempty,isodate"`
	Notes           *string `json:"observacoes"`
	Status          *string `json:"status" validate:"omitempty,oneof=EM_ANDAMENTO CONCLUIDO CANCELADO"`
}

// ResultInput is one measured indicator value.
type ResultInput struct {
	IndicatorID string   `json:"indicadorId" validate:"required,uuid"`
	Value       *float64 `json:"valor" validate:"required"`
}

// RecordResultsRequest stores indicator values for a screening and can close it.
type RecordResultsRequest struct {
	Results  []ResultInput `json:"resultados" validate:"required,min=1,dive"`
	Complete bool          `json:"concluir"`
}

// CompletedScreening is a completed screening with its indicator-joined results,
// used to build per-student reports.
type CompletedScreening struct {
	ID             string
	Date           time.Time
	InstrumentName string
	Category       string
	Results        []ScreeningResultDetail
}

// IndicatorOutcome is one line of a student report.
type IndicatorOutcome struct {
	Indicator   string           `json:"indicador"`
	Value       float64          `json:"valor"`
	Cutoff      float64          `json:"pontoCorte"`
	RiskLevel   models.RiskLevel `json:"nivelRisco"`
	AboveCutoff bool             `json:"acimaDoPontoCorte"`
}

// CategoryScreening is one screening inside a category group.
type CategoryScreening struct {
	ID         string             `json:"id"`
	Date       time.Time          `json:"data"`
	Instrument string             `json:"instrumento"`
	Results    []IndicatorOutcome `json:"resultados"`
}

// StudentResults groups a student's completed screenings by instrument category.
type StudentResults struct {
	Student           StudentRef                     `json:"estudante"`
	ResultsByCategory map[string][]CategoryScreening `json:"resultadosPorCategoria"`
}

// StatusCount is a screening count per status.
type StatusCount struct {
	Status string `db:"status" json:"status"`
	Total  int    `db:"total" json:"total"`
}

// CategoryCount is a screening count per instrument category.
type CategoryCount struct {
	Category string `db:"category" json:"categoria"`
	Total    int    `db:"total" json:"total"`
}

// StudentCount is a student's screening count.
type StudentCount struct {
	StudentID string `db:"student_id" json:"estudanteId"`
	Name      string `db:"name" json:"nome"`
	Total     int    `db:"total" json:"total"`
}

// ScreeningStatistics aggregates screening activity.
type ScreeningStatistics struct {
	ByStatus    []StatusCount   `json:"porStatus"`
	ByCategory  []CategoryCount `json:"porCategoria"`
	TopStudents []StudentCount  `json:"estudantesComMaisRastreios"`
	GeneratedAt time.Time       `json:"geradoEm"`
}
