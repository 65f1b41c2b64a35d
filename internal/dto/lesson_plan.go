package dto

import "github.com/noah-isme/mtss-api/internal/models"

// LessonPlanFilter restricts list queries to a class or a teacher.
type LessonPlanFilter struct {
	ClassID   string
	TeacherID string
}

// ClassRef projects a class.
type ClassRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ContentRef projects a content item.
type ContentRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// TeacherRef is the restricted teacher projection.
type TeacherRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LessonPlanDetail is a lesson plan with its related records nested.
type LessonPlanDetail struct {
	models.LessonPlan
	Class   *ClassRef   `json:"class,omitempty"`
	Content *ContentRef `json:"content,omitempty"`
	Teacher *TeacherRef `json:"teacher,omitempty"`
}

// CreateLessonPlanRequest is the payload for creating a lesson plan.
type CreateLessonPlanRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Objectives  *string `json:"objectives"`
	Resources   *string `json:"resources"`
	Activities  *string `json:"activities"`
	Assessment  *string `json:"assessment"`
	Notes       *string `json:"notes"`
	Duration    *int    `json:"duration" validate:"omitempty,min=1"`
	Date        *string `json:"date" validate:"omitempty,isodate"`
	Status      *string `json:"status" validate:"omitempty,oneof=draft published completed"`
	ClassID     string  `json:"classId" validate:"required,uuid"`
	TeacherID   string  `json:"teacherId" validate:"required,uuid"`
	ContentID   *string `json:"contentId" validate:"omitempty,uuid"`
}

// UpdateLessonPlanRequest patches only the fields present. An empty date
// leaves the stored date untouched.
type UpdateLessonPlanRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Objectives  *string `json:"objectives"`
	Resources   *string `json:"resources"`
	Activities  *string `json:"activities"`
	Assessment  *string `json:"assessment"`
	Notes       *string `json:"notes"`
	Duration    *int    `json:"duration" validate:"omitempty,min=1"`
	Date        *string `json:"date" validate:"omitempty,isodate"`
	Status      *string `json:"status" validate:"omitempty,oneof=draft published completed"`
	ClassID     *string `json:"classId" validate:"omitempty,uuid"`
	TeacherID   *string `json:"teacherId" validate:"omitempty,uuid"`
	ContentID   *string `json:"contentId" validate:"omitempty,uuid"`
}
