package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/mtss-api/internal/dto"
	"github.com/noah-isme/mtss-api/internal/models"
)

const protocolSelect = `
SELECT
	p.id, p.base_intervention_id, p.name, p.description, p.duration, p.created_at, p.updated_at,
	bi.name AS parent_name,
	bi.area AS parent_area,
	bi.level AS parent_level
FROM intervention_protocols p
JOIN base_interventions bi ON bi.id = p.base_intervention_id`

const stepColumns = `id, protocol_id, title, description, step_order, estimated_time, materials, created_at, updated_at`

// ErrStepNotFound is returned when an update references a step that does not
// belong to the protocol.
var ErrStepNotFound = errors.New("protocol step not found")

// ProtocolRepository persists intervention protocols and their steps.
type ProtocolRepository struct {
	db *sqlx.DB
}

// NewProtocolRepository constructs the repository.
func NewProtocolRepository(db *sqlx.DB) *ProtocolRepository {
	return &ProtocolRepository{db: db}
}

type protocolRow struct {
	models.InterventionProtocol
	ParentName  string `db:"parent_name"`
	ParentArea  string `db:"parent_area"`
	ParentLevel string `db:"parent_level"`
}

func (row protocolRow) toDTO() dto.ProtocolDetail {
	return dto.ProtocolDetail{
		InterventionProtocol: row.InterventionProtocol,
		Steps:                []models.ProtocolStep{},
		BaseIntervention: &dto.InterventionRef{
			ID:    row.BaseInterventionID,
			Name:  row.ParentName,
			Area:  row.ParentArea,
			Level: row.ParentLevel,
		},
	}
}

// List returns protocols with steps, optionally restricted to one template.
func (r *ProtocolRepository) List(ctx context.Context, baseInterventionID string) ([]dto.ProtocolDetail, error) {
	query := protocolSelect
	var args []interface{}
	if baseInterventionID != "" {
		query += "\nWHERE p.base_intervention_id = $1"
		args = append(args, baseInterventionID)
	}
	query += "\nORDER BY p.name ASC"

	var rows []protocolRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list protocols: %w", err)
	}
	if len(rows) == 0 {
		return []dto.ProtocolDetail{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	steps, err := r.stepsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ProtocolDetail, 0, len(rows))
	for _, row := range rows {
		item := row.toDTO()
		if s, ok := steps[row.ID]; ok {
			item.Steps = s
		}
		items = append(items, item)
	}
	return items, nil
}

// FindByID returns a protocol with its steps. sql.ErrNoRows is returned untouched.
func (r *ProtocolRepository) FindByID(ctx context.Context, id string) (*dto.ProtocolDetail, error) {
	var row protocolRow
	if err := r.db.GetContext(ctx, &row, protocolSelect+"\nWHERE p.id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find protocol: %w", err)
	}
	item := row.toDTO()
	steps, err := r.stepsFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if s, ok := steps[id]; ok {
		item.Steps = s
	}
	return &item, nil
}

func (r *ProtocolRepository) stepsFor(ctx context.Context, protocolIDs []string) (map[string][]models.ProtocolStep, error) {
	query := "SELECT " + stepColumns + " FROM protocol_steps WHERE protocol_id = ANY($1) ORDER BY protocol_id, step_order ASC"
	var steps []models.ProtocolStep
	if err := r.db.SelectContext(ctx, &steps, query, pq.Array(protocolIDs)); err != nil {
		return nil, fmt.Errorf("list protocol steps: %w", err)
	}
	grouped := make(map[string][]models.ProtocolStep, len(protocolIDs))
	for _, step := range steps {
		grouped[step.ProtocolID] = append(grouped[step.ProtocolID], step)
	}
	return grouped, nil
}

// Create inserts a protocol and its steps in one transaction.
func (r *ProtocolRepository) Create(ctx context.Context, protocol *models.InterventionProtocol, steps []models.ProtocolStep) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin protocol create: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if protocol.ID == "" {
		protocol.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	protocol.CreatedAt = now
	protocol.UpdatedAt = now

	const insertProtocol = `INSERT INTO intervention_protocols (id, base_intervention_id, name, description, duration, created_at, updated_at)
VALUES (:id, :base_intervention_id, :name, :description, :duration, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertProtocol, protocol); err != nil {
		return fmt.Errorf("insert protocol: %w", err)
	}
	if err = insertSteps(ctx, tx, protocol.ID, steps, now); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit protocol create: %w", err)
	}
	return nil
}

// Update writes the protocol's scalar columns, overwrites steps carrying an id
// (one statement each) and bulk inserts the rest, all in one transaction.
func (r *ProtocolRepository) Update(ctx context.Context, protocol *models.InterventionProtocol, steps []models.ProtocolStep) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin protocol update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	protocol.UpdatedAt = now
	const updateProtocol = `UPDATE intervention_protocols SET base_intervention_id = :base_intervention_id, name = :name, description = :description,
duration = :duration, updated_at = :updated_at WHERE id = :id`
	if _, err = tx.NamedExecContext(ctx, updateProtocol, protocol); err != nil {
		return fmt.Errorf("update protocol: %w", err)
	}

	var fresh []models.ProtocolStep
	const updateStep = `UPDATE protocol_steps SET title = $1, description = $2, step_order = $3, estimated_time = $4, materials = $5, updated_at = $6
WHERE id = $7 AND protocol_id = $8`
	for _, step := range steps {
		if step.ID == "" {
			fresh = append(fresh, step)
			continue
		}
		res, execErr := tx.ExecContext(ctx, updateStep, step.Title, step.Description, step.Order, step.EstimatedTime, step.Materials, now, step.ID, protocol.ID)
		if execErr != nil {
			err = fmt.Errorf("update protocol step %s: %w", step.ID, execErr)
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			err = fmt.Errorf("step %s: %w", step.ID, ErrStepNotFound)
			return err
		}
	}
	if err = insertSteps(ctx, tx, protocol.ID, fresh, now); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit protocol update: %w", err)
	}
	return nil
}

// Delete removes the protocol's steps and then the protocol in one transaction.
func (r *ProtocolRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin protocol delete: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM protocol_steps WHERE protocol_id = $1`, id); err != nil {
		return fmt.Errorf("delete protocol steps: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM intervention_protocols WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete protocol: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit protocol delete: %w", err)
	}
	return nil
}

// insertSteps writes all steps with a single multi-row INSERT.
func insertSteps(ctx context.Context, tx *sqlx.Tx, protocolID string, steps []models.ProtocolStep, now time.Time) error {
	if len(steps) == 0 {
		return nil
	}
	rows := make([]models.ProtocolStep, len(steps))
	for i, step := range steps {
		step.ID = uuid.NewString()
		step.ProtocolID = protocolID
		step.CreatedAt = now
		step.UpdatedAt = now
		rows[i] = step
	}
	const query = `INSERT INTO protocol_steps (id, protocol_id, title, description, step_order, estimated_time, materials, created_at, updated_at)
VALUES (:id, :protocol_id, :title, :description, :step_order, :estimated_time, :materials, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, rows); err != nil {
		return fmt.Errorf("insert protocol steps: %w", err)
	}
	return nil
}
