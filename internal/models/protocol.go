package models

import "time"

// InterventionProtocol is an ordered procedure for applying a base intervention.
type InterventionProtocol struct {
	ID                 string    `db:"id" json:"id"`
	BaseInterventionID string    `db:"base_intervention_id" json:"intervencaoBaseId"`
	Name               string    `db:"name" json:"nome"`
	Description        *string   `db:"description" json:"descricao,omitempty"`
	Duration           *string   `db:"duration" json:"duracao,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

// ProtocolStep is one step of a protocol. Steps are always read by Order.
type ProtocolStep struct {
	ID            string    `db:"id" json:"id"`
	ProtocolID    string    `db:"protocol_id" json:"protocoloId"`
	Title         string    `db:"title" json:"titulo"`
	Description   string    `db:"description" json:"descricao"`
	Order         int       `db:"step_order" json:"ordem"`
	EstimatedTime string    `db:"estimated_time" json:"tempoEstimado"`
	Materials     *string   `db:"materials" json:"materiais,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}
