package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mtss-api/internal/dto"
	"github.com/noah-isme/mtss-api/internal/models"
)

const lessonPlanSelect = `
SELECT
	lp.id, lp.title, lp.description, lp.objectives, lp.resources, lp.activities, lp.assessment, lp.notes,
	lp.duration, lp.date, lp.status, lp.class_id, lp.teacher_id, lp.content_id, lp.created_at, lp.updated_at,
	c.name AS class_name,
	ct.title AS content_title,
	u.name AS teacher_name,
	u.email AS teacher_email,
	u.role AS teacher_role
FROM lesson_plans lp
JOIN classes c ON c.id = lp.class_id
JOIN users u ON u.id = lp.teacher_id
LEFT JOIN contents ct ON ct.id = lp.content_id`

// LessonPlanRepository persists lesson plans.
type LessonPlanRepository struct {
	db *sqlx.DB
}

// NewLessonPlanRepository constructs the repository.
func NewLessonPlanRepository(db *sqlx.DB) *LessonPlanRepository {
	return &LessonPlanRepository{db: db}
}

type lessonPlanRow struct {
	models.LessonPlan
	ClassName    string         `db:"class_name"`
	ContentTitle sql.NullString `db:"content_title"`
	TeacherName  string         `db:"teacher_name"`
	TeacherEmail string         `db:"teacher_email"`
	TeacherRole  string         `db:"teacher_role"`
}

func (row lessonPlanRow) toDTO(withClass, withTeacher bool) dto.LessonPlanDetail {
	item := dto.LessonPlanDetail{LessonPlan: row.LessonPlan}
	if withClass {
		item.Class = &dto.ClassRef{ID: row.ClassID, Name: row.ClassName}
	}
	if withTeacher {
		item.Teacher = &dto.TeacherRef{ID: row.TeacherID, Name: row.TeacherName, Email: row.TeacherEmail, Role: row.TeacherRole}
	}
	if row.ContentID != nil && row.ContentTitle.Valid {
		item.Content = &dto.ContentRef{ID: *row.ContentID, Title: row.ContentTitle.String}
	}
	return item
}

// List returns lesson plans. Filtering by class drops the redundant class
// projection and orders by date; filtering by teacher does the same for the
// teacher projection.
func (r *LessonPlanRepository) List(ctx context.Context, filter dto.LessonPlanFilter) ([]dto.LessonPlanDetail, error) {
	query := lessonPlanSelect
	var args []interface{}
	withClass, withTeacher := true, true
	switch {
	case filter.ClassID != "":
		query += "\nWHERE lp.class_id = $1\nORDER BY lp.date ASC"
		args = append(args, filter.ClassID)
		withClass = false
	case filter.TeacherID != "":
		query += "\nWHERE lp.teacher_id = $1\nORDER BY lp.date ASC"
		args = append(args, filter.TeacherID)
		withTeacher = false
	default:
		query += "\nORDER BY lp.created_at DESC"
	}

	var rows []lessonPlanRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lesson plans: %w", err)
	}
	items := make([]dto.LessonPlanDetail, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDTO(withClass, withTeacher))
	}
	return items, nil
}

// FindByID returns a lesson plan with its relations. sql.ErrNoRows is returned untouched.
func (r *LessonPlanRepository) FindByID(ctx context.Context, id string) (*dto.LessonPlanDetail, error) {
	var row lessonPlanRow
	if err := r.db.GetContext(ctx, &row, lessonPlanSelect+"\nWHERE lp.id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find lesson plan: %w", err)
	}
	item := row.toDTO(true, true)
	return &item, nil
}

// Create inserts a lesson plan.
func (r *LessonPlanRepository) Create(ctx context.Context, plan *models.LessonPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	const query = `INSERT INTO lesson_plans (id, title, description, objectives, resources, activities, assessment, notes, duration, date, status, class_id, teacher_id, content_id, created_at, updated_at)
VALUES (:id, :title, :description, :objectives, :resources, :activities, :assessment, :notes, :duration, :date, :status, :class_id, :teacher_id, :content_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("create lesson plan: %w", err)
	}
	return nil
}

// LessonPlanPatch lists the columns to change. Nil fields are not written.
type LessonPlanPatch struct {
	Title       *string
	Description *string
	Objectives  *string
	Resources   *string
	Activities  *string
	Assessment  *string
	Notes       *string
	Duration    *int
	Date        *time.Time
	Status      *models.LessonPlanStatus
	ClassID     *string
	TeacherID   *string
	ContentID   *string
}

func (p LessonPlanPatch) assignments() ([]string, []interface{}) {
	var sets []string
	var args []interface{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Objectives != nil {
		add("objectives", *p.Objectives)
	}
	if p.Resources != nil {
		add("resources", *p.Resources)
	}
	if p.Activities != nil {
		add("activities", *p.Activities)
	}
	if p.Assessment != nil {
		add("assessment", *p.Assessment)
	}
	if p.Notes != nil {
		add("notes", *p.Notes)
	}
	if p.Duration != nil {
		add("duration", *p.Duration)
	}
	if p.Date != nil {
		add("date", *p.Date)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.ClassID != nil {
		add("class_id", *p.ClassID)
	}
	if p.TeacherID != nil {
		add("teacher_id", *p.TeacherID)
	}
	if p.ContentID != nil {
		add("content_id", *p.ContentID)
	}
	return sets, args
}

// Update writes only the columns present in patch.
func (r *LessonPlanRepository) Update(ctx context.Context, id string, patch LessonPlanPatch) error {
	sets, args := patch.assignments()
	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)
	query := fmt.Sprintf("UPDATE lesson_plans SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update lesson plan: %w", err)
	}
	return nil
}

// Delete removes a lesson plan.
func (r *LessonPlanRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lesson_plans WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lesson plan: %w", err)
	}
	return nil
}
