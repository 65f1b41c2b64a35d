package dto

import "github.com/noah-isme/mtss-api/internal/models"

// AssociateDifficultyRequest links a learning difficulty to a base intervention.
type AssociateDifficultyRequest struct {
	DifficultyID   string  `json:"dificuldadeId" validate:"required,uuid"`
	InterventionID string  `json:"intervencaoId" validate:"required,uuid"`
	Effectiveness  int     `json:"eficacia" validate:"required,min=1,max=5"`
	Notes          *string `json:"observacoes"`
}

// DifficultyAssociation is an association row with both sides projected.
type DifficultyAssociation struct {
	models.DifficultyIntervention
	Difficulty   DifficultyRef   `json:"dificuldade"`
	Intervention InterventionRef `json:"intervencao"`
}
