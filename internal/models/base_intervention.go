package models

import "time"

// BaseIntervention is a reusable intervention template.
type BaseIntervention struct {
	ID             string                `db:"id" json:"id"`
	Name           string                `db:"name" json:"nome"`
	Description    string                `db:"description" json:"descricao"`
	Objective      string                `db:"objective" json:"objetivo"`
	Level          InterventionLevel     `db:"level" json:"nivel"`
	Area           InterventionArea      `db:"area" json:"area"`
	EstimatedTime  string                `db:"estimated_time" json:"tempoEstimado"`
	Frequency      InterventionFrequency `db:"frequency" json:"frequencia"`
	Materials      *string               `db:"materials" json:"materiais,omitempty"`
	Evidence       *string               `db:"evidence" json:"evidencias,omitempty"`
	EvidenceSource *string               `db:"evidence_source" json:"fonteEvidencia,omitempty"`
	Active         bool                  `db:"active" json:"ativo"`
	CreatedAt      time.Time             `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time             `db:"updated_at" json:"updatedAt"`
}

// KPI is an indicator used to follow up a base intervention.
type KPI struct {
	ID                 string    `db:"id" json:"id"`
	BaseInterventionID string    `db:"base_intervention_id" json:"intervencaoBaseId"`
	Name               string    `db:"name" json:"nome"`
	Description        *string   `db:"description" json:"descricao,omitempty"`
	Metric             *string   `db:"metric" json:"metrica,omitempty"`
	Target             *string   `db:"target" json:"meta,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
}
