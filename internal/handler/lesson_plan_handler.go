package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mtss-api/internal/dto"
	"github.com/noah-isme/mtss-api/pkg/response"
)

type lessonPlanService interface {
	Create(ctx context.Context, req dto.CreateLessonPlanRequest) (*dto.LessonPlanDetail, error)
	List(ctx context.Context) ([]dto.LessonPlanDetail, error)
	ListByClass(ctx context.Context, classID string) ([]dto.LessonPlanDetail, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]dto.LessonPlanDetail, error)
	Get(ctx context.Context, id string) (*dto.LessonPlanDetail, error)
	Update(ctx context.Context, id string, req dto.UpdateLessonPlanRequest) (*dto.LessonPlanDetail, error)
	Remove(ctx context.Context, id string) error
}

// LessonPlanHandler exposes lesson plan CRUD.
type LessonPlanHandler struct {
	service lessonPlanService
}

// NewLessonPlanHandler constructs the handler.
func NewLessonPlanHandler(svc lessonPlanService) *LessonPlanHandler {
	return &LessonPlanHandler{service: svc}
}

// Create godoc
// @Summary Create lesson plan
// @Tags Lesson Plans
// @Accept json
// @Produce json
// @Param payload body dto.CreateLessonPlanRequest true "Lesson plan"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /lesson-plans [post]
func (h *LessonPlanHandler) Create(c *gin.Context) {
	var req dto.CreateLessonPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// List godoc
// @Summary List lesson plans
// @Tags Lesson Plans
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lesson-plans [get]
func (h *LessonPlanHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// ListByClass godoc
// @Summary List lesson plans of a class
// @Tags Lesson Plans
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /lesson-plans/class/{classId} [get]
func (h *LessonPlanHandler) ListByClass(c *gin.Context) {
	classID, ok := uuidParam(c, "classId")
	if !ok {
		return
	}
	items, err := h.service.ListByClass(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// ListByTeacher godoc
// @Summary List lesson plans of a teacher
// @Tags Lesson Plans
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /lesson-plans/teacher/{teacherId} [get]
func (h *LessonPlanHandler) ListByTeacher(c *gin.Context) {
	teacherID, ok := uuidParam(c, "teacherId")
	if !ok {
		return
	}
	items, err := h.service.ListByTeacher(c.Request.Context(), teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Get godoc
// @Summary Get lesson plan
// @Tags Lesson Plans
// @Produce json
// @Param id path string true "Lesson plan ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lesson-plans/{id} [get]
func (h *LessonPlanHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// Update godoc
// @Summary Patch lesson plan
// @Tags Lesson Plans
// @Accept json
// @Produce json
// @Param id path string true "Lesson plan ID"
// @Param payload body dto.UpdateLessonPlanRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lesson-plans/{id} [patch]
func (h *LessonPlanHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateLessonPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// Remove godoc
// @Summary Delete lesson plan
// @Tags Lesson Plans
// @Produce json
// @Param id path string true "Lesson plan ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lesson-plans/{id} [delete]
func (h *LessonPlanHandler) Remove(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Message{Message: "Plano de aula removido com sucesso"})
}
