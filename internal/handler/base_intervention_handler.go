package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mtss-api/internal/dto"
	"github.com/noah-isme/mtss-api/internal/models"
	"github.com/noah-isme/mtss-api/pkg/response"
)

type baseInterventionService interface {
	Create(ctx context.Context, req dto.CreateBaseInterventionRequest) (*models.BaseIntervention, error)
	List(ctx context.Context, includeInactive bool) ([]dto.BaseInterventionListItem, error)
	ListByArea(ctx context.Context, area string, includeInactive bool) ([]dto.BaseInterventionListItem, error)
	ListByLevel(ctx context.Context, level string, includeInactive bool) ([]dto.BaseInterventionListItem, error)
	Get(ctx context.Context, id string) (*dto.BaseInterventionDetail, error)
	Update(ctx context.Context, id string, req dto.UpdateBaseInterventionRequest) (*models.BaseIntervention, error)
	Remove(ctx context.Context, id string) (*dto.RemoveBaseInterventionResult, error)
	AssociateDifficulty(ctx context.Context, req dto.AssociateDifficultyRequest) (*dto.DifficultyAssociation, bool, error)
	RemoveDifficultyAssociation(ctx context.Context, difficultyID, interventionID string) error
	ListDifficultiesByIntervention(ctx context.Context, interventionID string) ([]dto.DifficultyAssociation, error)
	ListInterventionsByDifficulty(ctx context.Context, difficultyID string) ([]dto.DifficultyAssociation, error)
}

// BaseInterventionHandler exposes intervention templates and their difficulty links.
type BaseInterventionHandler struct {
	service baseInterventionService
}

// NewBaseInterventionHandler constructs the handler.
func NewBaseInterventionHandler(svc baseInterventionService) *BaseInterventionHandler {
	return &BaseInterventionHandler{service: svc}
}

// Create godoc
// @Summary Create base intervention
// @Tags Base Interventions
// @Accept json
// @Produce json
// @Param payload body dto.CreateBaseInterventionRequest true "Base intervention"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /base-interventions [post]
func (h *BaseInterventionHandler) Create(c *gin.Context) {
	var req dto.CreateBaseInterventionRequest
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
// @Summary List base interventions
// @Tags Base Interventions
// @Produce json
// @Param includeInactive query bool false "Include inactive templates"
// @Success 200 {object} response.Envelope
// @Router /base-interventions [get]
func (h *BaseInterventionHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), includeInactive(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// ListByArea godoc
// @Summary List base interventions by area
// @Tags Base Interventions
// @Produce json
// @Param area path string true "Area"
// @Param includeInactive query bool false "Include inactive templates"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /base-interventions/area/{area} [get]
func (h *BaseInterventionHandler) ListByArea(c *gin.Context) {
	items, err := h.service.ListByArea(c.Request.Context(), c.Param("area"), includeInactive(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// ListByLevel godoc
// @Summary List base interventions by tier
// @Tags Base Interventions
// @Produce json
// @Param nivel path string true "Tier"
// @Param includeInactive query bool false "Include inactive templates"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /base-interventions/nivel/{nivel} [get]
func (h *BaseInterventionHandler) ListByLevel(c *gin.Context) {
	items, err := h.service.ListByLevel(c.Request.Context(), c.Param("nivel"), includeInactive(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Get godoc
// @Summary Get base intervention
// @Tags Base Interventions
// @Produce json
// @Param id path string true "Base intervention ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /base-interventions/{id} [get]
func (h *BaseInterventionHandler) Get(c *gin.Context) {
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
// @Summary Patch base intervention
// @Tags Base Interventions
// @Accept json
// @Produce json
// @Param id path string true "Base intervention ID"
// @Param payload body dto.UpdateBaseInterventionRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /base-interventions/{id} [patch]
func (h *BaseInterventionHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBaseInterventionRequest
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
// @Summary Remove base intervention
// @Description Deactivates the template when interventions use it, deletes it otherwise.
// @Tags Base Interventions
// @Produce json
// @Param id path string true "Base intervention ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /base-interventions/{id} [delete]
func (h *BaseInterventionHandler) Remove(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	result, err := h.service.Remove(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Deactivated != nil {
		response.OK(c, result.Deactivated)
		return
	}
	response.OK(c, response.Message{Message: result.Message})
}

// AssociateDifficulty godoc
// @Summary Link a learning difficulty to a base intervention
// @Tags Base Interventions
// @Accept json
// @Produce json
// @Param payload body dto.AssociateDifficultyRequest true "Association"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /base-interventions/associate-dificuldade [post]
func (h *BaseInterventionHandler) AssociateDifficulty(c *gin.Context) {
	var req dto.AssociateDifficultyRequest
	if !bindJSON(c, &req) {
		return
	}
	assoc, created, err := h.service.AssociateDifficulty(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.JSON(c, status, assoc)
}

// RemoveDifficultyAssociation godoc
// @Summary Unlink a learning difficulty
// @Tags Base Interventions
// @Produce json
// @Param id path string true "Base intervention ID"
// @Param dificuldadeId path string true "Learning difficulty ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /base-interventions/{id}/dificuldades/{dificuldadeId} [delete]
func (h *BaseInterventionHandler) RemoveDifficultyAssociation(c *gin.Context) {
	interventionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	difficultyID, ok := uuidParam(c, "dificuldadeId")
	if !ok {
		return
	}
	if err := h.service.RemoveDifficultyAssociation(c.Request.Context(), difficultyID, interventionID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Message{Message: "Associação removida com sucesso"})
}

// ListDifficulties godoc
// @Summary List difficulties linked to a base intervention
// @Tags Base Interventions
// @Produce json
// @Param id path string true "Base intervention ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /base-interventions/{id}/dificuldades [get]
func (h *BaseInterventionHandler) ListDifficulties(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	items, err := h.service.ListDifficultiesByIntervention(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// ListByDifficulty godoc
// @Summary List base interventions linked to a difficulty
// @Tags Base Interventions
// @Produce json
// @Param dificuldadeId path string true "Learning difficulty ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /base-interventions/by-dificuldade/{dificuldadeId} [get]
func (h *BaseInterventionHandler) ListByDifficulty(c *gin.Context) {
	id, ok := uuidParam(c, "dificuldadeId")
	if !ok {
		return
	}
	items, err := h.service.ListInterventionsByDifficulty(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}
