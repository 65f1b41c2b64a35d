package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/mtss-api/internal/dto"
	"github.com/noah-isme/mtss-api/internal/models"
	"github.com/noah-isme/mtss-api/internal/repository"
	appErrors "github.com/noah-isme/mtss-api/pkg/errors"
	"github.com/noah-isme/mtss-api/pkg/validation"
)

const duplicatePrefix = "Cópia de "

type protocolStore interface {
	List(ctx context.Context, baseInterventionID string) ([]dto.ProtocolDetail, error)
	FindByID(ctx context.Context, id string) (*dto.ProtocolDetail, error)
	Create(ctx context.Context, protocol *models.InterventionProtocol, steps []models.ProtocolStep) error
	Update(ctx context.Context, protocol *models.InterventionProtocol, steps []models.ProtocolStep) error
	Delete(ctx context.Context, id string) error
}

type baseInterventionFinder interface {
	FindByID(ctx context.Context, id string) (*models.BaseIntervention, error)
}

// InterventionProtocolService manages protocols and their ordered steps.
type InterventionProtocolService struct {
	repo      protocolStore
	templates baseInterventionFinder
	validator *validation.Validator
	logger    *zap.Logger
}

// NewInterventionProtocolService builds the service.
func NewInterventionProtocolService(repo protocolStore, templates baseInterventionFinder, validate *validation.Validator, logger *zap.Logger) *InterventionProtocolService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterventionProtocolService{repo: repo, templates: templates, validator: validate, logger: logger}
}

func protocolNotFound(id string) *appErrors.Error {
	return appErrors.NotFound("Protocolo com ID %s não encontrado", id)
}

func (s *InterventionProtocolService) ensureTemplate(ctx context.Context, id string) error {
	if _, err := s.templates.FindByID(ctx, id); err != nil {
		return lookupError(err, baseInterventionNotFound(id), "falha ao buscar intervenção base")
	}
	return nil
}

func (s *InterventionProtocolService) load(ctx context.Context, id string) (*dto.ProtocolDetail, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, protocolNotFound(id), "falha ao buscar protocolo")
	}
	return item, nil
}

func stepsFromInput(inputs []dto.ProtocolStepInput, keepIDs bool) []models.ProtocolStep {
	steps := make([]models.ProtocolStep, 0, len(inputs))
	for _, in := range inputs {
		step := models.ProtocolStep{
			Title:         in.Title,
			Description:   in.Description,
			Order:         in.Order,
			EstimatedTime: in.EstimatedTime,
			Materials:     in.Materials,
		}
		if keepIDs && in.ID != nil {
			step.ID = *in.ID
		}
		steps = append(steps, step)
	}
	return steps
}

// Create stores a protocol with its initial steps.
func (s *InterventionProtocolService) Create(ctx context.Context, req dto.CreateProtocolRequest) (*dto.ProtocolDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if err := s.ensureTemplate(ctx, req.BaseInterventionID); err != nil {
		return nil, err
	}

	protocol := &models.InterventionProtocol{
		BaseInterventionID: req.BaseInterventionID,
		Name:               req.Name,
		Description:        req.Description,
		Duration:           req.Duration,
	}
	if err := s.repo.Create(ctx, protocol, stepsFromInput(req.Steps, false)); err != nil {
		return nil, appErrors.Internal(err, "falha ao criar protocolo")
	}
	return s.load(ctx, protocol.ID)
}

// List returns every protocol with its steps.
func (s *InterventionProtocolService) List(ctx context.Context) ([]dto.ProtocolDetail, error) {
	items, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao listar protocolos")
	}
	return items, nil
}

// ListByBaseIntervention returns the protocols of one template.
func (s *InterventionProtocolService) ListByBaseIntervention(ctx context.Context, baseInterventionID string) ([]dto.ProtocolDetail, error) {
	items, err := s.repo.List(ctx, baseInterventionID)
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao listar protocolos")
	}
	return items, nil
}

// Get returns one protocol.
func (s *InterventionProtocolService) Get(ctx context.Context, id string) (*dto.ProtocolDetail, error) {
	return s.load(ctx, id)
}

// Update patches scalar fields and upserts the supplied steps. With steps the
// reloaded protocol is returned; without, only the updated protocol row.
func (s *InterventionProtocolService) Update(ctx context.Context, id string, req dto.UpdateProtocolRequest) (*dto.ProtocolDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.BaseInterventionID != nil {
		if err := s.ensureTemplate(ctx, *req.BaseInterventionID); err != nil {
			return nil, err
		}
	}

	protocol := current.InterventionProtocol
	if req.Name != nil {
		protocol.Name = *req.Name
	}
	if req.Description != nil {
		protocol.Description = req.Description
	}
	if req.Duration != nil {
		protocol.Duration = req.Duration
	}
	if req.BaseInterventionID != nil {
		protocol.BaseInterventionID = *req.BaseInterventionID
	}

	if err := s.repo.Update(ctx, &protocol, stepsFromInput(req.Steps, true)); err != nil {
		if errors.Is(err, repository.ErrStepNotFound) {
			return nil, appErrors.NotFound("Etapa informada não pertence ao protocolo %s", id)
		}
		return nil, appErrors.Internal(err, "falha ao atualizar protocolo")
	}

	if len(req.Steps) == 0 {
		return &dto.ProtocolDetail{InterventionProtocol: protocol}, nil
	}
	return s.load(ctx, id)
}

// Remove deletes a protocol and its steps.
func (s *InterventionProtocolService) Remove(ctx context.Context, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Internal(err, "falha ao remover protocolo")
	}
	return nil
}

// Duplicate copies a protocol and all of its steps under a new name.
func (s *InterventionProtocolService) Duplicate(ctx context.Context, id, newName string) (*dto.ProtocolDetail, error) {
	source, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(newName)
	if name == "" {
		name = duplicatePrefix + source.Name
	}
	copyOf := &models.InterventionProtocol{
		BaseInterventionID: source.BaseInterventionID,
		Name:               name,
		Description:        source.Description,
		Duration:           source.Duration,
	}
	steps := make([]models.ProtocolStep, 0, len(source.Steps))
	for _, step := range source.Steps {
		steps = append(steps, models.ProtocolStep{
			Title:         step.Title,
			Description:   step.Description,
			Order:         step.Order,
			EstimatedTime: step.EstimatedTime,
			Materials:     step.Materials,
		})
	}

	if err := s.repo.Create(ctx, copyOf, steps); err != nil {
		return nil, appErrors.Internal(err, "falha ao duplicar protocolo")
	}
	s.logger.Info("protocol duplicated", zap.String("source_id", id), zap.String("protocol_id", copyOf.ID), zap.Int("steps", len(steps)))
	return s.load(ctx, copyOf.ID)
}
