package dto

import "time"

// EntityRef is the minimal {id, nome} projection of a related record.
type EntityRef struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"nome"`
}

// InterventionRef projects a base intervention onto its identifying fields.
type InterventionRef struct {
	ID    string `json:"id"`
	Name  string `json:"nome"`
	Area  string `json:"area"`
	Level string `json:"nivel"`
}

// DifficultyRef projects a learning difficulty.
type DifficultyRef struct {
	ID       string `json:"id"`
	Name     string `json:"nome"`
	Category string `json:"categoria"`
}

// StudentRef projects a student for screening payloads.
type StudentRef struct {
	ID        string     `json:"id"`
	Name      string     `json:"nome"`
	Grade     string     `json:"serie"`
	BirthDate *time.Time `json:"dataNascimento,omitempty"`
}

// UserRef projects an applicator.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
}

// InstrumentRef projects a screening instrument.
type InstrumentRef struct {
	ID       string `json:"id"`
	Name     string `json:"nome"`
	Category string `json:"categoria"`
}

// IndicatorRef projects an indicator onto its name and cutoff.
type IndicatorRef struct {
	ID     string  `json:"id"`
	Name   string  `json:"nome"`
	Cutoff float64 `json:"pontoCorte"`
}
