package models

import "time"

// LearningDifficulty is a catalogued learning difficulty.
type LearningDifficulty struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"nome"`
	Category    string    `db:"category" json:"categoria"`
	Description *string   `db:"description" json:"descricao,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// DifficultyIntervention rates how well a base intervention addresses a
// difficulty. At most one row exists per (difficulty, intervention) pair.
type DifficultyIntervention struct {
	ID                 string    `db:"id" json:"id"`
	DifficultyID       string    `db:"difficulty_id" json:"dificuldadeId"`
	BaseInterventionID string    `db:"base_intervention_id" json:"intervencaoId"`
	Effectiveness      int       `db:"effectiveness" json:"eficacia"`
	Notes              *string   `db:"notes" json:"observacoes,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}
