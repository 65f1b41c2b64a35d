package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/noah-isme/mtss-api/internal/dto"
	"github.com/noah-isme/mtss-api/internal/middleware"
	"github.com/noah-isme/mtss-api/internal/models"
	"github.com/noah-isme/mtss-api/internal/service"
	appErrors "github.com/noah-isme/mtss-api/pkg/errors"
	"github.com/noah-isme/mtss-api/pkg/response"
	"github.com/noah-isme/mtss-api/pkg/validation"
)

type screeningService interface {
	Create(ctx context.Context, req dto.CreateScreeningRequest, applicatorID string) (*dto.ScreeningSummary, error)
	List(ctx context.Context, filter dto.ScreeningFilter) ([]dto.ScreeningListItem, error)
	Get(ctx context.Context, id string) (*dto.ScreeningDetail, error)
	Update(ctx context.Context, id string, req dto.UpdateScreeningRequest) (*dto.ScreeningSummary, error)
	Remove(ctx context.Context, id string) error
	RecordResults(ctx context.Context, id string, req dto.RecordResultsRequest) (*dto.ScreeningDetail, error)
	StudentResults(ctx context.Context, studentID string) (*dto.StudentResults, error)
	ExportStudentResults(ctx context.Context, studentID, format string) (*service.ExportedFile, error)
	Statistics(ctx context.Context) (*dto.ScreeningStatistics, bool, error)
}

// ScreeningHandler exposes screening applications, results and statistics.
type ScreeningHandler struct {
	service screeningService
}

// NewScreeningHandler constructs the handler.
func NewScreeningHandler(svc screeningService) *ScreeningHandler {
	return &ScreeningHandler{service: svc}
}

// Create godoc
// @Summary Register screening
// @Description The applicator defaults to the authenticated user.
// @Tags Screenings
// @Accept json
// @Produce json
// @Param payload body dto.CreateScreeningRequest true "Screening"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screenings [post]
func (h *ScreeningHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateScreeningRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// List godoc
// @Summary List screenings
// @Tags Screenings
// @Produce json
// @Param estudanteId query string false "Student ID"
// @Param aplicadorId query string false "Applicator ID"
// @Param instrumentoId query string false "Instrument ID"
// @Param status query string false "Status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /screenings [get]
func (h *ScreeningHandler) List(c *gin.Context) {
	filter := dto.ScreeningFilter{
		StudentID:    c.Query("estudanteId"),
		ApplicatorID: c.Query("aplicadorId"),
		InstrumentID: c.Query("instrumentoId"),
		Status:       c.Query("status"),
	}
	for field, value := range map[string]string{"estudanteId": filter.StudentID, "aplicadorId": filter.ApplicatorID, "instrumentoId": filter.InstrumentID} {
		if value == "" {
			continue
		}
		if _, err := uuid.Parse(value); err != nil {
			response.Error(c, validation.Invalid(field, field+" deve ser um UUID válido"))
			return
		}
	}
	switch models.ScreeningStatus(filter.Status) {
	case "", models.ScreeningInProgress, models.ScreeningCompleted, models.ScreeningCancelled:
	default:
		response.Error(c, validation.Invalid("status", "status deve ser EM_ANDAMENTO, CONCLUIDO ou CANCELADO"))
		return
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Get godoc
// @Summary Get screening
// @Tags Screenings
// @Produce json
// @Param id path string true "Screening ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screenings/{id} [get]
func (h *ScreeningHandler) Get(c *gin.Context) {
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
// @Summary Patch screening
// @Tags Screenings
// @Accept json
// @Produce json
// @Param id path string true "Screening ID"
// @Param payload body dto.UpdateScreeningRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screenings/{id} [patch]
func (h *ScreeningHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateScreeningRequest
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
// @Summary Delete screening
// @Tags Screenings
// @Produce json
// @Param id path string true "Screening ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screenings/{id} [delete]
func (h *ScreeningHandler) Remove(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Message{Message: "Rastreio removido com sucesso"})
}

// RecordResults godoc
// @Summary Record screening results
// @Tags Screenings
// @Accept json
// @Produce json
// @Param id path string true "Screening ID"
// @Param payload body dto.RecordResultsRequest true "Indicator values"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /screenings/{id}/results [post]
func (h *ScreeningHandler) RecordResults(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.RecordResultsRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.RecordResults(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// StudentResults godoc
// @Summary Completed screening results of a student by category
// @Tags Screenings
// @Produce json
// @Param estudanteId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screenings/student/{estudanteId} [get]
func (h *ScreeningHandler) StudentResults(c *gin.Context) {
	studentID, ok := uuidParam(c, "estudanteId")
	if !ok {
		return
	}
	item, err := h.service.StudentResults(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// ExportStudentResults godoc
// @Summary Export a student's screening results
// @Tags Screenings
// @Produce text/csv
// @Produce application/pdf
// @Param estudanteId path string true "Student ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /screenings/student/{estudanteId}/export [get]
func (h *ScreeningHandler) ExportStudentResults(c *gin.Context) {
	studentID, ok := uuidParam(c, "estudanteId")
	if !ok {
		return
	}
	file, err := h.service.ExportStudentResults(c.Request.Context(), studentID, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Content)
}

// Statistics godoc
// @Summary Screening statistics
// @Tags Screenings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /screenings/statistics/general [get]
func (h *ScreeningHandler) Statistics(c *gin.Context) {
	stats, hit, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	respondWithMeta(c, http.StatusOK, stats)
}
