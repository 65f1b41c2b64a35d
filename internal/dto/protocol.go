package dto

import "github.com/noah-isme/mtss-api/internal/models"

// ProtocolDetail is a protocol with its ordered steps and parent projection.
// Steps is nil when the steps were not loaded.
type ProtocolDetail struct {
	models.InterventionProtocol
	Steps            []models.ProtocolStep `json:"etapas"`
	BaseIntervention *InterventionRef      `json:"intervencaoBase,omitempty"`
}

// ProtocolStepInput describes a step in create and update payloads. ID is
// only honoured on update, where it selects the step to overwrite.
type ProtocolStepInput struct {
	ID            *string `json:"id" validate:"omitempty,uuid"`
	Title         string  `json:"titulo" validate:"required"`
	Description   string  `json:"descricao" validate:"required"`
	Order         int     `json:"ordem" validate:"min=0"`
	EstimatedTime string  `json:"tempoEstimado" validate:"required"`
	Materials     *string `json:"materiais"`
}

// CreateProtocolRequest is the payload for creating a protocol.
type CreateProtocolRequest struct {
	Name               string              `json:"nome" validate:"required"`
	Description        *string             `json:"descricao"`
	Duration           *string             `json:"duracao"`
	BaseInterventionID string              `json:"intervencaoBaseId" validate:"required,uuid"`
	Steps              []ProtocolStepInput `json:"etapas" validate:"omitempty,dive"`
}

// UpdateProtocolRequest patches scalar fields and upserts steps.
type UpdateProtocolRequest struct {
	Name               *string             `json:"nome" validate:"omitempty,min=1"`
	Description        *string             `json:"descricao"`
	Duration           *string             `json:"duracao"`
	BaseInterventionID *string             `json:"intervencaoBaseId" validate:"omitempty,uuid"`
	Steps              []ProtocolStepInput `json:"etapas" validate:"omitempty,dive"`
}
