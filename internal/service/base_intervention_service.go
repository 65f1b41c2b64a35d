package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/mtss-api/internal/dto"
	"github.com/noah-isme/mtss-api/internal/models"
	appErrors "github.com/noah-isme/mtss-api/pkg/errors"
	"github.com/noah-isme/mtss-api/pkg/validation"
)

type baseInterventionStore interface {
	List(ctx context.Context, filter dto.BaseInterventionFilter) ([]models.BaseIntervention, error)
	ProtocolRefs(ctx context.Context, ids []string) (map[string][]dto.EntityRef, error)
	KPIRefs(ctx context.Context, ids []string) (map[string][]dto.EntityRef, error)
	FindByID(ctx context.Context, id string) (*models.BaseIntervention, error)
	ListKPIs(ctx context.Context, id string) ([]models.KPI, error)
	ListUsages(ctx context.Context, id string) ([]dto.InterventionUsage, error)
	Create(ctx context.Context, item *models.BaseIntervention) error
	Update(ctx context.Context, item *models.BaseIntervention) error
	CountInterventions(ctx context.Context, id string) (int, error)
	Deactivate(ctx context.Context, id string) (*models.BaseIntervention, error)
	Delete(ctx context.Context, id string) error
}

type protocolLister interface {
	List(ctx context.Context, baseInterventionID string) ([]dto.ProtocolDetail, error)
}

type difficultyStore interface {
	FindByID(ctx context.Context, id string) (*models.LearningDifficulty, error)
	UpsertAssociation(ctx context.Context, assoc *models.DifficultyIntervention) (bool, error)
	FindAssociation(ctx context.Context, difficultyID, interventionID string) (*models.DifficultyIntervention, error)
	DeleteAssociation(ctx context.Context, id string) error
	GetAssociation(ctx context.Context, id string) (*dto.DifficultyAssociation, error)
	ListByIntervention(ctx context.Context, interventionID string) ([]dto.DifficultyAssociation, error)
	ListByDifficulty(ctx context.Context, difficultyID string) ([]dto.DifficultyAssociation, error)
}

// BaseInterventionService manages intervention templates and their links to
// learning difficulties.
type BaseInterventionService struct {
	repo         baseInterventionStore
	protocols    protocolLister
	difficulties difficultyStore
	validator    *validation.Validator
	logger       *zap.Logger
}

// NewBaseInterventionService builds the service.
func NewBaseInterventionService(repo baseInterventionStore, protocols protocolLister, difficulties difficultyStore, validate *validation.Validator, logger *zap.Logger) *BaseInterventionService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseInterventionService{repo: repo, protocols: protocols, difficulties: difficulties, validator: validate, logger: logger}
}

func baseInterventionNotFound(id string) *appErrors.Error {
	return appErrors.NotFound("Intervenção base com ID %s não encontrada", id)
}

func difficultyNotFound(id string) *appErrors.Error {
	return appErrors.NotFound("Dificuldade de aprendizagem com ID %s não encontrada", id)
}

// Create stores a new active template.
func (s *BaseInterventionService) Create(ctx context.Context, req dto.CreateBaseInterventionRequest) (*models.BaseIntervention, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	item := &models.BaseIntervention{
		Name:           req.Name,
		Description:    req.Description,
		Objective:      req.Objective,
		Level:          models.InterventionLevel(req.Level),
		Area:           models.InterventionArea(req.Area),
		EstimatedTime:  req.EstimatedTime,
		Frequency:      models.InterventionFrequency(req.Frequency),
		Materials:      req.Materials,
		Evidence:       req.Evidence,
		EvidenceSource: req.EvidenceSource,
		Active:         true,
	}
	if req.Active != nil {
		item.Active = *req.Active
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Internal(err, "falha ao criar intervenção base")
	}
	return item, nil
}

// List returns templates ordered by name. Inactive rows are hidden unless includeInactive.
func (s *BaseInterventionService) List(ctx context.Context, includeInactive bool) ([]dto.BaseInterventionListItem, error) {
	return s.list(ctx, dto.BaseInterventionFilter{IncludeInactive: includeInactive})
}

// ListByArea returns templates of one skill area.
func (s *BaseInterventionService) ListByArea(ctx context.Context, area string, includeInactive bool) ([]dto.BaseInterventionListItem, error) {
	if err := s.validator.Engine().Var(area, "oneof=LEITURA ESCRITA MATEMATICA COMPORTAMENTO SOCIOEMOCIONAL ATENCAO ORGANIZACAO OUTRO"); err != nil {
		return nil, validation.Invalid("area", "área inválida")
	}
	return s.list(ctx, dto.BaseInterventionFilter{Area: models.InterventionArea(area), IncludeInactive: includeInactive})
}

// ListByLevel returns templates of one RTI tier.
func (s *BaseInterventionService) ListByLevel(ctx context.Context, level string, includeInactive bool) ([]dto.BaseInterventionListItem, error) {
	if err := s.validator.Engine().Var(level, "oneof=TIER_1 TIER_2 TIER_3"); err != nil {
		return nil, validation.Invalid("nivel", "nível inválido")
	}
	return s.list(ctx, dto.BaseInterventionFilter{Level: models.InterventionLevel(level), IncludeInactive: includeInactive})
}

func (s *BaseInterventionService) list(ctx context.Context, filter dto.BaseInterventionFilter) ([]dto.BaseInterventionListItem, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao listar intervenções base")
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	protocols, err := s.repo.ProtocolRefs(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao carregar protocolos")
	}
	kpis, err := s.repo.KPIRefs(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao carregar KPIs")
	}

	items := make([]dto.BaseInterventionListItem, 0, len(rows))
	for _, row := range rows {
		item := dto.BaseInterventionListItem{BaseIntervention: row, Protocols: protocols[row.ID], KPIs: kpis[row.ID]}
		if item.Protocols == nil {
			item.Protocols = []dto.EntityRef{}
		}
		if item.KPIs == nil {
			item.KPIs = []dto.EntityRef{}
		}
		items = append(items, item)
	}
	return items, nil
}

// Get returns the template with protocols, KPIs and the interventions using it.
func (s *BaseInterventionService) Get(ctx context.Context, id string) (*dto.BaseInterventionDetail, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, baseInterventionNotFound(id), "falha ao buscar intervenção base")
	}
	protocols, err := s.protocols.List(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao carregar protocolos")
	}
	for i := range protocols {
		protocols[i].BaseIntervention = nil
	}
	kpis, err := s.repo.ListKPIs(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao carregar KPIs")
	}
	if kpis == nil {
		kpis = []models.KPI{}
	}
	usages, err := s.repo.ListUsages(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao carregar intervenções")
	}
	return &dto.BaseInterventionDetail{BaseIntervention: *item, Protocols: protocols, KPIs: kpis, Interventions: usages}, nil
}

// Update applies a partial patch.
func (s *BaseInterventionService) Update(ctx context.Context, id string, req dto.UpdateBaseInterventionRequest) (*models.BaseIntervention, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, baseInterventionNotFound(id), "falha ao buscar intervenção base")
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Objective != nil {
		item.Objective = *req.Objective
	}
	if req.Level != nil {
		item.Level = models.InterventionLevel(*req.Level)
	}
	if req.Area != nil {
		item.Area = models.InterventionArea(*req.Area)
	}
	if req.EstimatedTime != nil {
		item.EstimatedTime = *req.EstimatedTime
	}
	if req.Frequency != nil {
		item.Frequency = models.InterventionFrequency(*req.Frequency)
	}
	if req.Materials != nil {
		item.Materials = req.Materials
	}
	if req.Evidence != nil {
		item.Evidence = req.Evidence
	}
	if req.EvidenceSource != nil {
		item.EvidenceSource = req.EvidenceSource
	}
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, appErrors.Internal(err, "falha ao atualizar intervenção base")
	}
	return item, nil
}

// Remove deactivates a template still used by interventions and deletes it otherwise.
func (s *BaseInterventionService) Remove(ctx context.Context, id string) (*dto.RemoveBaseInterventionResult, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, lookupError(err, baseInterventionNotFound(id), "falha ao buscar intervenção base")
	}
	count, err := s.repo.CountInterventions(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao verificar intervenções vinculadas")
	}

	if count > 0 {
		item, err := s.repo.Deactivate(ctx, id)
		if err != nil {
			return nil, lookupError(err, baseInterventionNotFound(id), "falha ao desativar intervenção base")
		}
		s.logger.Info("base intervention deactivated", zap.String("id", id), zap.Int("interventions", count))
		return &dto.RemoveBaseInterventionResult{Deactivated: item}, nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Internal(err, "falha ao remover intervenção base")
	}
	return &dto.RemoveBaseInterventionResult{Message: "Intervenção base removida com sucesso"}, nil
}

// AssociateDifficulty creates or refreshes the link between a difficulty and a template.
func (s *BaseInterventionService) AssociateDifficulty(ctx context.Context, req dto.AssociateDifficultyRequest) (*dto.DifficultyAssociation, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, err
	}
	if _, err := s.repo.FindByID(ctx, req.InterventionID); err != nil {
		return nil, false, lookupError(err, baseInterventionNotFound(req.InterventionID), "falha ao buscar intervenção base")
	}
	if _, err := s.difficulties.FindByID(ctx, req.DifficultyID); err != nil {
		return nil, false, lookupError(err, difficultyNotFound(req.DifficultyID), "falha ao buscar dificuldade")
	}

	assoc := &models.DifficultyIntervention{
		DifficultyID:       req.DifficultyID,
		BaseInterventionID: req.InterventionID,
		Effectiveness:      req.Effectiveness,
		Notes:              req.Notes,
	}
	created, err := s.difficulties.UpsertAssociation(ctx, assoc)
	if err != nil {
		return nil, false, appErrors.Internal(err, "falha ao associar dificuldade")
	}
	out, err := s.difficulties.GetAssociation(ctx, assoc.ID)
	if err != nil {
		return nil, false, appErrors.Internal(err, "falha ao carregar associação")
	}
	return out, created, nil
}

// RemoveDifficultyAssociation deletes the link of a pair.
func (s *BaseInterventionService) RemoveDifficultyAssociation(ctx context.Context, difficultyID, interventionID string) error {
	assoc, err := s.difficulties.FindAssociation(ctx, difficultyID, interventionID)
	if err != nil {
		notFound := appErrors.NotFound("Associação entre dificuldade %s e intervenção %s não encontrada", difficultyID, interventionID)
		return lookupError(err, notFound, "falha ao buscar associação")
	}
	if err := s.difficulties.DeleteAssociation(ctx, assoc.ID); err != nil {
		return appErrors.Internal(err, "falha ao remover associação")
	}
	return nil
}

// ListDifficultiesByIntervention lists the difficulties a template addresses, most effective first.
func (s *BaseInterventionService) ListDifficultiesByIntervention(ctx context.Context, interventionID string) ([]dto.DifficultyAssociation, error) {
	if _, err := s.repo.FindByID(ctx, interventionID); err != nil {
		return nil, lookupError(err, baseInterventionNotFound(interventionID), "falha ao buscar intervenção base")
	}
	items, err := s.difficulties.ListByIntervention(ctx, interventionID)
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao listar dificuldades")
	}
	return items, nil
}

// ListInterventionsByDifficulty lists the templates linked to a difficulty, most effective first.
func (s *BaseInterventionService) ListInterventionsByDifficulty(ctx context.Context, difficultyID string) ([]dto.DifficultyAssociation, error) {
	if _, err := s.difficulties.FindByID(ctx, difficultyID); err != nil {
		return nil, lookupError(err, difficultyNotFound(difficultyID), "falha ao buscar dificuldade")
	}
	items, err := s.difficulties.ListByDifficulty(ctx, difficultyID)
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao listar intervenções")
	}
	return items, nil
}
