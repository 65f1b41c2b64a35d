package dto

import (
	"time"

	"github.com/noah-isme/mtss-api/internal/models"
)

// BaseInterventionFilter narrows list queries. Empty fields are ignored.
type BaseInterventionFilter struct {
	Area            models.InterventionArea
	Level           models.InterventionLevel
	IncludeInactive bool
}

// BaseInterventionListItem is a template with its protocols and KPIs reduced to refs.
type BaseInterventionListItem struct {
	models.BaseIntervention
	Protocols []EntityRef `json:"protocolos"`
	KPIs      []EntityRef `json:"kpis"`
}

// BaseInterventionDetail is the eager-loaded template view.
type BaseInterventionDetail struct {
	models.BaseIntervention
	Protocols     []ProtocolDetail    `json:"protocolos"`
	KPIs          []models.KPI        `json:"kpis"`
	Interventions []InterventionUsage `json:"intervencoes"`
}

// InterventionUsage is a per-student intervention built from a template.
type InterventionUsage struct {
	ID        string     `json:"id"`
	StartDate time.Time  `json:"dataInicio"`
	EndDate   *time.Time `json:"dataFim"`
	Status    string     `json:"status"`
	Student   EntityRef  `json:"estudante"`
}

// CreateBaseInterventionRequest is the payload for creating a template.
type CreateBaseInterventionRequest struct {
	Name           string  `json:"nome" validate:"required"`
	Description    string  `json:"descricao" validate:"required"`
	Objective      string  `json:"objetivo" validate:"required"`
	Level          string  `json:"nivel" validate:"required,oneof=TIER_1 TIER_2 TIER_3"`
	Area           string  `json:"area" validate:"required,oneof=LEITURA ESCRITA MATEMATICA COMPORTAMENTO SOCIOEMOCIONAL ATENCAO ORGANIZACAO OUTRO"`
	EstimatedTime  string  `json:"tempoEstimado" validate:"required"`
	Frequency      string  `json:"frequencia" validate:"required,oneof=DIARIA SEMANAL QUINZENAL MENSAL BIMESTRAL"`
	Materials      *string `json:"materiais"`
	Evidence       *string `json:"evidencias"`
	EvidenceSource *string `json:"fonteEvidencia"`
	Active         *bool   `json:"ativo"`
}

// UpdateBaseInterventionRequest is a partial patch; nil fields are left untouched.
type UpdateBaseInterventionRequest struct {
	Name           *string `json:"nome" validate:"omitempty,min=1"`
	Description    *string `json:"descricao" validate:"omitempty,min=1"`
	Objective      *string `json:"objetivo" validate:"omitempty,min=1"`
	Level          *string `json:"nivel" validate:"omitempty,oneof=TIER_1 TIER_2 TIER_3"`
	Area           *string `json:"area" validate:"omitempty,oneof=LEITURA ESCRITA MATEMATICA COMPORTAMENTO SOCIOEMOCIONAL ATENCAO ORGANIZACAO OUTRO"`
	EstimatedTime  *string `json:"tempoEstimado" validate:"omitempty,min=1"`
	Frequency      *string `json:"frequencia" validate:"omitempty,oneof=DIARIA SEMANAL QUINZENAL MENSAL BIMESTRAL"`
	Materials      *string `json:"materiais"`
	Evidence       *string `json:"evidencias"`
	EvidenceSource *string `json:"fonteEvidencia"`
	Active         *bool   `json:"ativo"`
}

// RemoveBaseInterventionResult reports which deletion branch ran. Exactly one
// of Deactivated or Message is set.
type RemoveBaseInterventionResult struct {
	Deactivated *models.BaseIntervention
	Message     string
}
