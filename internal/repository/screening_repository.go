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

const screeningSelect = `
SELECT
	s.id, s.student_id, s.applicator_id, s.instrument_id, s.application_date, s.notes, s.status, s.created_at, s.updated_at,
	st.name AS student_name,
	st.grade AS student_grade,
	st.birth_date AS student_birth_date,
	u.name AS applicator_name,
	u.email AS applicator_email,
	i.name AS instrument_name,
	i.category AS instrument_category,
	i.description AS instrument_description,
	i.created_at AS instrument_created_at
FROM screenings s
JOIN students st ON st.id = s.student_id
JOIN users u ON u.id = s.applicator_id
JOIN screening_instruments i ON i.id = s.instrument_id`

const resultSelect = `
SELECT
	r.id, r.screening_id, r.indicator_id, r.value, r.risk_level, r.created_at,
	ind.instrument_id AS indicator_instrument_id,
	ind.name AS indicator_name,
	ind.cutoff AS indicator_cutoff,
	ind.description AS indicator_description,
	ind.created_at AS indicator_created_at
FROM screening_results r
JOIN indicators ind ON ind.id = r.indicator_id
WHERE r.screening_id = ANY($1)
ORDER BY ind.name ASC`

// ScreeningRepository persists screenings, their results and aggregates.
type ScreeningRepository struct {
	db *sqlx.DB
}

// NewScreeningRepository constructs the repository.
func NewScreeningRepository(db *sqlx.DB) *ScreeningRepository {
	return &ScreeningRepository{db: db}
}

type screeningRow struct {
	models.Screening
	StudentName           string         `db:"student_name"`
	StudentGrade          string         `db:"student_grade"`
	StudentBirthDate      *time.Time     `db:"student_birth_date"`
	ApplicatorName        string         `db:"applicator_name"`
	ApplicatorEmail       string         `db:"applicator_email"`
	InstrumentName        string         `db:"instrument_name"`
	InstrumentCategory    string         `db:"instrument_category"`
	InstrumentDescription sql.NullString `db:"instrument_description"`
	InstrumentCreatedAt   time.Time      `db:"instrument_created_at"`
}

func (row screeningRow) student() dto.StudentRef {
	return dto.StudentRef{ID: row.StudentID, Name: row.StudentName, Grade: row.StudentGrade}
}

func (row screeningRow) instrument() dto.InstrumentRef {
	return dto.InstrumentRef{ID: row.InstrumentID, Name: row.InstrumentName, Category: row.InstrumentCategory}
}

func (row screeningRow) applicator() dto.UserRef {
	return dto.UserRef{ID: row.ApplicatorID, Name: row.ApplicatorName, Email: row.ApplicatorEmail}
}

type resultRow struct {
	models.ScreeningResult
	IndicatorInstrumentID string         `db:"indicator_instrument_id"`
	IndicatorName         string         `db:"indicator_name"`
	IndicatorCutoff       float64        `db:"indicator_cutoff"`
	IndicatorDescription  sql.NullString `db:"indicator_description"`
	IndicatorCreatedAt    time.Time      `db:"indicator_created_at"`
}

func (row resultRow) detail() dto.ScreeningResultDetail {
	indicator := models.Indicator{
		ID:           row.IndicatorID,
		InstrumentID: row.IndicatorInstrumentID,
		Name:         row.IndicatorName,
		Cutoff:       row.IndicatorCutoff,
		CreatedAt:    row.IndicatorCreatedAt,
	}
	if row.IndicatorDescription.Valid {
		desc := row.IndicatorDescription.String
		indicator.Description = &desc
	}
	return dto.ScreeningResultDetail{ScreeningResult: row.ScreeningResult, Indicator: indicator}
}

func (r *ScreeningRepository) resultsFor(ctx context.Context, screeningIDs []string) (map[string][]dto.ScreeningResultDetail, error) {
	grouped := make(map[string][]dto.ScreeningResultDetail, len(screeningIDs))
	if len(screeningIDs) == 0 {
		return grouped, nil
	}
	var rows []resultRow
	if err := r.db.SelectContext(ctx, &rows, resultSelect, pq.Array(screeningIDs)); err != nil {
		return nil, fmt.Errorf("list screening results: %w", err)
	}
	for _, row := range rows {
		grouped[row.ScreeningID] = append(grouped[row.ScreeningID], row.detail())
	}
	return grouped, nil
}

// List returns screenings matching the present filters, newest first.
func (r *ScreeningRepository) List(ctx context.Context, filter dto.ScreeningFilter) ([]dto.ScreeningListItem, error) {
	query := strings.Builder{}
	query.WriteString(screeningSelect)
	query.WriteString("\nWHERE 1=1")

	var args []interface{}
	addFilter := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		fmt.Fprintf(&query, " AND %s = $%d", column, len(args))
	}
	addFilter("s.student_id", filter.StudentID)
	addFilter("s.applicator_id", filter.ApplicatorID)
	addFilter("s.instrument_id", filter.InstrumentID)
	addFilter("s.status", filter.Status)
	query.WriteString("\nORDER BY s.application_date DESC")

	var rows []screeningRow
	if err := r.db.SelectContext(ctx, &rows, query.String(), args...); err != nil {
		return nil, fmt.Errorf("list screenings: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	results, err := r.resultsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ScreeningListItem, 0, len(rows))
	for _, row := range rows {
		item := dto.ScreeningListItem{
			Screening:  row.Screening,
			Student:    row.student(),
			Applicator: row.applicator(),
			Instrument: row.instrument(),
			Results:    []dto.ScreeningResultSummary{},
		}
		for _, res := range results[row.ID] {
			item.Results = append(item.Results, dto.ScreeningResultSummary{
				ScreeningResult: res.ScreeningResult,
				Indicator:       dto.IndicatorRef{ID: res.Indicator.ID, Name: res.Indicator.Name, Cutoff: res.Indicator.Cutoff},
			})
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *ScreeningRepository) findRow(ctx context.Context, id string) (*screeningRow, error) {
	var row screeningRow
	if err := r.db.GetContext(ctx, &row, screeningSelect+"\nWHERE s.id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find screening: %w", err)
	}
	return &row, nil
}

// FindByID returns the eager-loaded screening. sql.ErrNoRows is returned untouched.
func (r *ScreeningRepository) FindByID(ctx context.Context, id string) (*dto.ScreeningDetail, error) {
	row, err := r.findRow(ctx, id)
	if err != nil {
		return nil, err
	}

	const indicatorsQuery = `SELECT id, instrument_id, name, cutoff, description, created_at FROM indicators WHERE instrument_id = $1 ORDER BY name ASC`
	var indicators []models.Indicator
	if err := r.db.SelectContext(ctx, &indicators, indicatorsQuery, row.InstrumentID); err != nil {
		return nil, fmt.Errorf("list instrument indicators: %w", err)
	}
	results, err := r.resultsFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}

	instrument := models.ScreeningInstrument{
		ID:        row.InstrumentID,
		Name:      row.InstrumentName,
		Category:  row.InstrumentCategory,
		CreatedAt: row.InstrumentCreatedAt,
	}
	if row.InstrumentDescription.Valid {
		desc := row.InstrumentDescription.String
		instrument.Description = &desc
	}
	if indicators == nil {
		indicators = []models.Indicator{}
	}
	detailResults := results[id]
	if detailResults == nil {
		detailResults = []dto.ScreeningResultDetail{}
	}

	student := row.student()
	student.BirthDate = row.StudentBirthDate
	return &dto.ScreeningDetail{
		Screening:  row.Screening,
		Student:    student,
		Applicator: row.applicator(),
		Instrument: dto.InstrumentDetail{ScreeningInstrument: instrument, Indicators: indicators},
		Results:    detailResults,
	}, nil
}

// FindSummary returns the light projection. sql.ErrNoRows is returned untouched.
func (r *ScreeningRepository) FindSummary(ctx context.Context, id string) (*dto.ScreeningSummary, error) {
	row, err := r.findRow(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ScreeningSummary{Screening: row.Screening, Student: row.student(), Instrument: row.instrument()}, nil
}

// Create inserts a screening.
func (r *ScreeningRepository) Create(ctx context.Context, screening *models.Screening) error {
	if screening.ID == "" {
		screening.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	screening.CreatedAt = now
	screening.UpdatedAt = now

	const query = `INSERT INTO screenings (id, student_id, applicator_id, instrument_id, application_date, notes, status, created_at, updated_at)
VALUES (:id, :student_id, :applicator_id, :instrument_id, :application_date, :notes, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, screening); err != nil {
		return fmt.Errorf("create screening: %w", err)
	}
	return nil
}

// ScreeningPatch lists the columns to change. Nil fields are not written.
type ScreeningPatch struct {
	StudentID       *string
	ApplicatorID    *string
	InstrumentID    *string
	ApplicationDate *time.Time
	Notes           *string
	Status          *models.ScreeningStatus
}

// Update writes only the columns present in patch.
func (r *ScreeningRepository) Update(ctx context.Context, id string, patch ScreeningPatch) error {
	var sets []string
	var args []interface{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.StudentID != nil {
		add("student_id", *patch.StudentID)
	}
	if patch.ApplicatorID != nil {
		add("applicator_id", *patch.ApplicatorID)
	}
	if patch.InstrumentID != nil {
		add("instrument_id", *patch.InstrumentID)
	}
	if patch.ApplicationDate != nil {
		add("application_date", *patch.ApplicationDate)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	add("updated_at", time.Now().UTC())
	args = append(args, id)

	query := fmt.Sprintf("UPDATE screenings SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update screening: %w", err)
	}
	return nil
}

// Delete removes a screening, first dropping its results when withResults is set.
func (r *ScreeningRepository) Delete(ctx context.Context, id string, withResults bool) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin screening delete: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if withResults {
		if _, err = tx.ExecContext(ctx, `DELETE FROM screening_results WHERE screening_id = $1`, id); err != nil {
			return fmt.Errorf("delete screening results: %w", err)
		}
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM screenings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete screening: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit screening delete: %w", err)
	}
	return nil
}

// UpsertResults stores one row per (screening, indicator) pair, replacing
// previous values, and optionally marks the screening completed.
func (r *ScreeningRepository) UpsertResults(ctx context.Context, screeningID string, results []models.ScreeningResult, complete bool) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin screening results: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	const upsert = `INSERT INTO screening_results (id, screening_id, indicator_id, value, risk_level, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (screening_id, indicator_id) DO UPDATE SET value = EXCLUDED.value, risk_level = EXCLUDED.risk_level`
	for _, res := range results {
		if _, err = tx.ExecContext(ctx, upsert, uuid.NewString(), screeningID, res.IndicatorID, res.Value, res.RiskLevel, now); err != nil {
			return fmt.Errorf("upsert screening result %s: %w", res.IndicatorID, err)
		}
	}
	if complete {
		const closeQuery = `UPDATE screenings SET status = $1, updated_at = $2 WHERE id = $3`
		if _, err = tx.ExecContext(ctx, closeQuery, models.ScreeningCompleted, now, screeningID); err != nil {
			return fmt.Errorf("complete screening: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit screening results: %w", err)
	}
	return nil
}

type completedRow struct {
	ID              string    `db:"id"`
	ApplicationDate time.Time `db:"application_date"`
	InstrumentName  string    `db:"instrument_name"`
	Category        string    `db:"category"`
}

// ListCompletedByStudent returns a student's completed screenings, newest first,
// with indicator-joined results.
func (r *ScreeningRepository) ListCompletedByStudent(ctx context.Context, studentID string) ([]dto.CompletedScreening, error) {
	const query = `
SELECT s.id, s.application_date, i.name AS instrument_name, i.category
FROM screenings s
JOIN screening_instruments i ON i.id = s.instrument_id
WHERE s.student_id = $1 AND s.status = $2
ORDER BY s.application_date DESC`
	var rows []completedRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID, models.ScreeningCompleted); err != nil {
		return nil, fmt.Errorf("list completed screenings: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	results, err := r.resultsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CompletedScreening, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.CompletedScreening{
			ID:             row.ID,
			Date:           row.ApplicationDate,
			InstrumentName: row.InstrumentName,
			Category:       row.Category,
			Results:        results[row.ID],
		})
	}
	return items, nil
}

// CountByStatus counts screenings per status.
func (r *ScreeningRepository) CountByStatus(ctx context.Context) ([]dto.StatusCount, error) {
	const query = `SELECT status, COUNT(*) AS total FROM screenings GROUP BY status ORDER BY status ASC`
	var items []dto.StatusCount
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("count screenings by status: %w", err)
	}
	return items, nil
}

// CountByCategory counts screenings per instrument category.
func (r *ScreeningRepository) CountByCategory(ctx context.Context) ([]dto.CategoryCount, error) {
	const query = `
SELECT i.category, COUNT(s.id) AS total
FROM screenings s
JOIN screening_instruments i ON i.id = s.instrument_id
GROUP BY i.category
ORDER BY total DESC, i.category ASC`
	var items []dto.CategoryCount
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("count screenings by category: %w", err)
	}
	return items, nil
}

// TopStudents returns the students with the most screenings. Ties are broken
// by name and then id so the ranking is deterministic.
func (r *ScreeningRepository) TopStudents(ctx context.Context, limit int) ([]dto.StudentCount, error) {
	const query = `
SELECT st.id AS student_id, st.name, COUNT(s.id) AS total
FROM screenings s
JOIN students st ON st.id = s.student_id
GROUP BY st.id, st.name
ORDER BY total DESC, st.name ASC, st.id ASC
LIMIT $1`
	var items []dto.StudentCount
	if err := r.db.SelectContext(ctx, &items, query, limit); err != nil {
		return nil, fmt.Errorf("top screened students: %w", err)
	}
	return items, nil
}
