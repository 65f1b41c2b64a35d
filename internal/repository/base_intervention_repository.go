package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/mtss-api/internal/dto"
	"github.com/noah-isme/mtss-api/internal/models"
)

const baseInterventionColumns = `id, name, description, objective, level, area, estimated_time, frequency, materials, evidence, evidence_source, active, created_at, updated_at`

// BaseInterventionRepository provides persistence for intervention templates.
type BaseInterventionRepository struct {
	db *sqlx.DB
}

// NewBaseInterventionRepository constructs the repository.
func NewBaseInterventionRepository(db *sqlx.DB) *BaseInterventionRepository {
	return &BaseInterventionRepository{db: db}
}

// List returns templates matching the filter ordered by name.
func (r *BaseInterventionRepository) List(ctx context.Context, filter dto.BaseInterventionFilter) ([]models.BaseIntervention, error) {
	query := strings.Builder{}
	query.WriteString("SELECT " + baseInterventionColumns + " FROM base_interventions WHERE 1=1")

	var args []interface{}
	if !filter.IncludeInactive {
		query.WriteString(" AND active = TRUE")
	}
	if filter.Area != "" {
		args = append(args, filter.Area)
		fmt.Fprintf(&query, " AND area = $%d", len(args))
	}
	if filter.Level != "" {
		args = append(args, filter.Level)
		fmt.Fprintf(&query, " AND level = $%d", len(args))
	}
	query.WriteString(" ORDER BY name ASC")

	var items []models.BaseIntervention
	if err := r.db.SelectContext(ctx, &items, query.String(), args...); err != nil {
		return nil, fmt.Errorf("list base interventions: %w", err)
	}
	return items, nil
}

type ownedRef struct {
	OwnerID string `db:"owner_id"`
	ID      string `db:"id"`
	Name    string `db:"name"`
}

// ProtocolRefs returns {id, name} pairs of protocols keyed by template id.
func (r *BaseInterventionRepository) ProtocolRefs(ctx context.Context, ids []string) (map[string][]dto.EntityRef, error) {
	const query = `SELECT base_intervention_id AS owner_id, id, name FROM intervention_protocols WHERE base_intervention_id = ANY($1) ORDER BY name ASC`
	return r.refs(ctx, query, ids, "protocol")
}

// KPIRefs returns {id, name} pairs of KPIs keyed by template id.
func (r *BaseInterventionRepository) KPIRefs(ctx context.Context, ids []string) (map[string][]dto.EntityRef, error) {
	const query = `SELECT base_intervention_id AS owner_id, id, name FROM kpis WHERE base_intervention_id = ANY($1) ORDER BY name ASC`
	return r.refs(ctx, query, ids, "kpi")
}

func (r *BaseInterventionRepository) refs(ctx context.Context, query string, ids []string, label string) (map[string][]dto.EntityRef, error) {
	result := make(map[string][]dto.EntityRef, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []ownedRef
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list %s refs: %w", label, err)
	}
	for _, row := range rows {
		result[row.OwnerID] = append(result[row.OwnerID], dto.EntityRef{ID: row.ID, Name: row.Name})
	}
	return result, nil
}

// FindByID returns a template by id. sql.ErrNoRows is returned untouched.
func (r *BaseInterventionRepository) FindByID(ctx context.Context, id string) (*models.BaseIntervention, error) {
	query := "SELECT " + baseInterventionColumns + " FROM base_interventions WHERE id = $1"
	var item models.BaseIntervention
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find base intervention: %w", err)
	}
	return &item, nil
}

// ListKPIs returns the full KPI rows of a template.
func (r *BaseInterventionRepository) ListKPIs(ctx context.Context, id string) ([]models.KPI, error) {
	const query = `SELECT id, base_intervention_id, name, description, metric, target, created_at FROM kpis WHERE base_intervention_id = $1 ORDER BY name ASC`
	var items []models.KPI
	if err := r.db.SelectContext(ctx, &items, query, id); err != nil {
		return nil, fmt.Errorf("list kpis: %w", err)
	}
	return items, nil
}

type usageRow struct {
	ID          string     `db:"id"`
	StartDate   time.Time  `db:"start_date"`
	EndDate     *time.Time `db:"end_date"`
	Status      string     `db:"status"`
	StudentID   string     `db:"student_id"`
	StudentName string     `db:"student_name"`
}

// ListUsages returns the per-student interventions created from a template.
func (r *BaseInterventionRepository) ListUsages(ctx context.Context, id string) ([]dto.InterventionUsage, error) {
	const query = `
SELECT i.id, i.start_date, i.end_date, i.status, s.id AS student_id, s.name AS student_name
FROM interventions i
JOIN students s ON s.id = i.student_id
WHERE i.base_intervention_id = $1
ORDER BY i.start_date DESC`
	var rows []usageRow
	if err := r.db.SelectContext(ctx, &rows, query, id); err != nil {
		return nil, fmt.Errorf("list intervention usages: %w", err)
	}
	items := make([]dto.InterventionUsage, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.InterventionUsage{
			ID:        row.ID,
			StartDate: row.StartDate,
			EndDate:   row.EndDate,
			Status:    row.Status,
			Student:   dto.EntityRef{ID: row.StudentID, Name: row.StudentName},
		})
	}
	return items, nil
}

// Create inserts a template, filling id and timestamps.
func (r *BaseInterventionRepository) Create(ctx context.Context, item *models.BaseIntervention) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	const query = `INSERT INTO base_interventions (id, name, description, objective, level, area, estimated_time, frequency, materials, evidence, evidence_source, active, created_at, updated_at)
VALUES (:id, :name, :description, :objective, :level, :area, :estimated_time, :frequency, :materials, :evidence, :evidence_source, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create base intervention: %w", err)
	}
	return nil
}

// Update writes every mutable column of item.
func (r *BaseInterventionRepository) Update(ctx context.Context, item *models.BaseIntervention) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE base_interventions SET name = :name, description = :description, objective = :objective, level = :level, area = :area,
estimated_time = :estimated_time, frequency = :frequency, materials = :materials, evidence = :evidence, evidence_source = :evidence_source,
active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update base intervention: %w", err)
	}
	return nil
}

// CountInterventions counts per-student interventions referencing the template.
func (r *BaseInterventionRepository) CountInterventions(ctx context.Context, id string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM interventions WHERE base_intervention_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count interventions: %w", err)
	}
	return total, nil
}

// Deactivate flips the active flag off and returns the stored row.
func (r *BaseInterventionRepository) Deactivate(ctx context.Context, id string) (*models.BaseIntervention, error) {
	query := "UPDATE base_interventions SET active = FALSE, updated_at = $2 WHERE id = $1 RETURNING " + baseInterventionColumns
	var item models.BaseIntervention
	if err := r.db.GetContext(ctx, &item, query, id, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("deactivate base intervention: %w", err)
	}
	return &item, nil
}

// Delete removes a template together with its protocols and their steps.
// KPIs and difficulty associations cascade in the schema.
func (r *BaseInterventionRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin base intervention delete: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const deleteSteps = `DELETE FROM protocol_steps WHERE protocol_id IN (SELECT id FROM intervention_protocols WHERE base_intervention_id = $1)`
	if _, err = tx.ExecContext(ctx, deleteSteps, id); err != nil {
		return fmt.Errorf("delete template protocol steps: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM intervention_protocols WHERE base_intervention_id = $1`, id); err != nil {
		return fmt.Errorf("delete template protocols: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM base_interventions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete base intervention: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit base intervention delete: %w", err)
	}
	return nil
}
