package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mtss-api/internal/dto"
	"github.com/noah-isme/mtss-api/pkg/response"
)

type protocolService interface {
	Create(ctx context.Context, req dto.CreateProtocolRequest) (*dto.ProtocolDetail, error)
	List(ctx context.Context) ([]dto.ProtocolDetail, error)
	ListByBaseIntervention(ctx context.Context, baseInterventionID string) ([]dto.ProtocolDetail, error)
	Get(ctx context.Context, id string) (*dto.ProtocolDetail, error)
	Update(ctx context.Context, id string, req dto.UpdateProtocolRequest) (*dto.ProtocolDetail, error)
	Remove(ctx context.Context, id string) error
	Duplicate(ctx context.Context, id, newName string) (*dto.ProtocolDetail, error)
}

// InterventionProtocolHandler exposes protocols and their steps.
type InterventionProtocolHandler struct {
	service protocolService
}

// NewInterventionProtocolHandler constructs the handler.
func NewInterventionProtocolHandler(svc protocolService) *InterventionProtocolHandler {
	return &InterventionProtocolHandler{service: svc}
}

// Create godoc
// @Summary Create intervention protocol
// @Tags Intervention Protocols
// @Accept json
// @Produce json
// @Param payload body dto.CreateProtocolRequest true "Protocol with optional steps"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /intervention-protocols [post]
func (h *InterventionProtocolHandler) Create(c *gin.Context) {
	var req dto.CreateProtocolRequest
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
// @Summary List intervention protocols
// @Tags Intervention Protocols
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /intervention-protocols [get]
func (h *InterventionProtocolHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// ListByBaseIntervention godoc
// @Summary List protocols of a base intervention
// @Tags Intervention Protocols
// @Produce json
// @Param id path string true "Base intervention ID"
// @Success 200 {object} response.Envelope
// @Router /intervention-protocols/base-intervention/{id} [get]
func (h *InterventionProtocolHandler) ListByBaseIntervention(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	items, err := h.service.ListByBaseIntervention(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Get godoc
// @Summary Get intervention protocol
// @Tags Intervention Protocols
// @Produce json
// @Param id path string true "Protocol ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /intervention-protocols/{id} [get]
func (h *InterventionProtocolHandler) Get(c *gin.Context) {
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
// @Summary Patch intervention protocol
// @Description Steps with an id are updated, steps without one are appended.
// @Tags Intervention Protocols
// @Accept json
// @Produce json
// @Param id path string true "Protocol ID"
// @Param payload body dto.UpdateProtocolRequest true "Fields and steps to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /intervention-protocols/{id} [patch]
func (h *InterventionProtocolHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProtocolRequest
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
// @Summary Delete intervention protocol
// @Tags Intervention Protocols
// @Produce json
// @Param id path string true "Protocol ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /intervention-protocols/{id} [delete]
func (h *InterventionProtocolHandler) Remove(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Message{Message: "Protocolo removido com sucesso"})
}

// Duplicate godoc
// @Summary Duplicate intervention protocol
// @Tags Intervention Protocols
// @Produce json
// @Param id path string true "Protocol ID"
// @Param newName query string false "Name of the copy"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /intervention-protocols/{id}/duplicate [post]
func (h *InterventionProtocolHandler) Duplicate(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	item, err := h.service.Duplicate(c.Request.Context(), id, c.Query("newName"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}
