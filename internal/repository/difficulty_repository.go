package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mtss-api/internal/dto"
	"github.com/noah-isme/mtss-api/internal/models"
)

// DifficultyRepository persists learning difficulties and their links to templates.
type DifficultyRepository struct {
	db *sqlx.DB
}

// NewDifficultyRepository constructs the repository.
func NewDifficultyRepository(db *sqlx.DB) *DifficultyRepository {
	return &DifficultyRepository{db: db}
}

// FindByID returns a learning difficulty. sql.ErrNoRows is returned untouched.
func (r *DifficultyRepository) FindByID(ctx context.Context, id string) (*models.LearningDifficulty, error) {
	const query = `SELECT id, name, category, description, created_at FROM learning_difficulties WHERE id = $1`
	var item models.LearningDifficulty
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find learning difficulty: %w", err)
	}
	return &item, nil
}

// UpsertAssociation writes the pair's effectiveness and notes in one
// statement, inserting the row when the pair is new. Concurrent first writes
// for the same pair converge on a single row through the unique constraint.
// assoc.ID is set to the stored row id.
func (r *DifficultyRepository) UpsertAssociation(ctx context.Context, assoc *models.DifficultyIntervention) (bool, error) {
	const query = `INSERT INTO difficulty_interventions (id, difficulty_id, base_intervention_id, effectiveness, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
ON CONFLICT (difficulty_id, base_intervention_id) DO UPDATE
SET effectiveness = EXCLUDED.effectiveness, notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at
RETURNING id, (xmax = 0) AS created`

	var row struct {
		ID      string `db:"id"`
		Created bool   `db:"created"`
	}
	now := time.Now().UTC()
	if err := r.db.QueryRowxContext(ctx, query, uuid.NewString(), assoc.DifficultyID, assoc.BaseInterventionID, assoc.Effectiveness, assoc.Notes, now).StructScan(&row); err != nil {
		return false, fmt.Errorf("upsert difficulty association: %w", err)
	}
	assoc.ID = row.ID
	return row.Created, nil
}

// FindAssociation returns the row for a pair. sql.ErrNoRows is returned untouched.
func (r *DifficultyRepository) FindAssociation(ctx context.Context, difficultyID, interventionID string) (*models.DifficultyIntervention, error) {
	const query = `SELECT id, difficulty_id, base_intervention_id, effectiveness, notes, created_at, updated_at
FROM difficulty_interventions WHERE difficulty_id = $1 AND base_intervention_id = $2`
	var item models.DifficultyIntervention
	if err := r.db.GetContext(ctx, &item, query, difficultyID, interventionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find difficulty association: %w", err)
	}
	return &item, nil
}

// DeleteAssociation removes a single association row.
func (r *DifficultyRepository) DeleteAssociation(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM difficulty_interventions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete difficulty association: %w", err)
	}
	return nil
}

const associationSelect = `
SELECT
	di.id, di.difficulty_id, di.base_intervention_id, di.effectiveness, di.notes, di.created_at, di.updated_at,
	d.name AS difficulty_name,
	d.category AS difficulty_category,
	bi.name AS intervention_name,
	bi.area AS intervention_area,
	bi.level AS intervention_level
FROM difficulty_interventions di
JOIN learning_difficulties d ON d.id = di.difficulty_id
JOIN base_interventions bi ON bi.id = di.base_intervention_id`

type associationRow struct {
	models.DifficultyIntervention
	DifficultyName     string `db:"difficulty_name"`
	DifficultyCategory string `db:"difficulty_category"`
	InterventionName   string `db:"intervention_name"`
	InterventionArea   string `db:"intervention_area"`
	InterventionLevel  string `db:"intervention_level"`
}

func (row associationRow) toDTO() dto.DifficultyAssociation {
	return dto.DifficultyAssociation{
		DifficultyIntervention: row.DifficultyIntervention,
		Difficulty: dto.DifficultyRef{
			ID:       row.DifficultyID,
			Name:     row.DifficultyName,
			Category: row.DifficultyCategory,
		},
		Intervention: dto.InterventionRef{
			ID:    row.BaseInterventionID,
			Name:  row.InterventionName,
			Area:  row.InterventionArea,
			Level: row.InterventionLevel,
		},
	}
}

// GetAssociation returns an association with both sides projected.
func (r *DifficultyRepository) GetAssociation(ctx context.Context, id string) (*dto.DifficultyAssociation, error) {
	var row associationRow
	if err := r.db.GetContext(ctx, &row, associationSelect+"\nWHERE di.id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get difficulty association: %w", err)
	}
	item := row.toDTO()
	return &item, nil
}

// ListByIntervention lists associations of a template, most effective first.
func (r *DifficultyRepository) ListByIntervention(ctx context.Context, interventionID string) ([]dto.DifficultyAssociation, error) {
	return r.listAssociations(ctx, "di.base_intervention_id", interventionID)
}

// ListByDifficulty lists associations of a difficulty, most effective first.
func (r *DifficultyRepository) ListByDifficulty(ctx context.Context, difficultyID string) ([]dto.DifficultyAssociation, error) {
	return r.listAssociations(ctx, "di.difficulty_id", difficultyID)
}

func (r *DifficultyRepository) listAssociations(ctx context.Context, column, id string) ([]dto.DifficultyAssociation, error) {
	query := associationSelect + "\nWHERE " + column + " = $1\nORDER BY di.effectiveness DESC, di.created_at ASC"
	var rows []associationRow
	if err := r.db.SelectContext(ctx, &rows, query, id); err != nil {
		return nil, fmt.Errorf("list difficulty associations: %w", err)
	}
	items := make([]dto.DifficultyAssociation, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDTO())
	}
	return items, nil
}
