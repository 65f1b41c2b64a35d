package models

import "time"

// LessonPlan is a teacher's plan for a class session.
type LessonPlan struct {
	ID          string           `db:"id" json:"id"`
	Title       string           `db:"title" json:"title"`
	Description *string          `db:"description" json:"description,omitempty"`
	Objectives  *string          `db:"objectives" json:"objectives,omitempty"`
	Resources   *string          `db:"resources" json:"resources,omitempty"`
	Activities  *string          `db:"activities" json:"activities,omitempty"`
	Assessment  *string          `db:"assessment" json:"assessment,omitempty"`
	Notes       *string          `db:"notes" json:"notes,omitempty"`
	Duration    *int             `db:"duration" json:"duration,omitempty"`
	Date        *time.Time       `db:"date" json:"date"`
	Status      LessonPlanStatus `db:"status" json:"status"`
	ClassID     string           `db:"class_id" json:"classId"`
	TeacherID   string           `db:"teacher_id" json:"teacherId"`
	ContentID   *string          `db:"content_id" json:"contentId"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updatedAt"`
}
