package models

import "time"

// Student represents a learner followed by the RTI team.
type Student struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"nome"`
	Grade     string     `db:"grade" json:"serie"`
	BirthDate *time.Time `db:"birth_date" json:"dataNascimento,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}
