package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/mtss-api/internal/dto"
	"github.com/noah-isme/mtss-api/internal/models"
	"github.com/noah-isme/mtss-api/internal/repository"
	appErrors "github.com/noah-isme/mtss-api/pkg/errors"
	"github.com/noah-isme/mtss-api/pkg/validation"
)

const (
	opCreateLessonPlan = "Criação do plano de aula"
	opListLessonPlans  = "Listagem de planos de aula"
	opGetLessonPlan    = "Busca do plano de aula"
	opUpdateLessonPlan = "Atualização do plano de aula"
	opRemoveLessonPlan = "Remoção do plano de aula"
)

type lessonPlanStore interface {
	List(ctx context.Context, filter dto.LessonPlanFilter) ([]dto.LessonPlanDetail, error)
	FindByID(ctx context.Context, id string) (*dto.LessonPlanDetail, error)
	Create(ctx context.Context, plan *models.LessonPlan) error
	Update(ctx context.Context, id string, patch repository.LessonPlanPatch) error
	Delete(ctx context.Context, id string) error
}

type classFinder interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
	FindContentByID(ctx context.Context, id string) (*models.Content, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// LessonPlanService manages lesson plans. Failures other than not-found and
// validation come back as internal errors naming the failed operation.
type LessonPlanService struct {
	repo      lessonPlanStore
	classes   classFinder
	users     userFinder
	validator *validation.Validator
	logger    *zap.Logger
}

// NewLessonPlanService builds the service.
func NewLessonPlanService(repo lessonPlanStore, classes classFinder, users userFinder, validate *validation.Validator, logger *zap.Logger) *LessonPlanService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonPlanService{repo: repo, classes: classes, users: users, validator: validate, logger: logger}
}

func lessonPlanFailure(op string, err error) error {
	if appErrors.IsNotFound(err) || appErrors.IsValidation(err) {
		return err
	}
	return appErrors.Internal(err, fmt.Sprintf("%s falhou: %s", op, err.Error()))
}

func (s *LessonPlanService) ensureRefs(ctx context.Context, classID, teacherID, contentID *string) error {
	if classID != nil {
		if _, err := s.classes.FindByID(ctx, *classID); err != nil {
			return missing(err, appErrors.NotFound("Turma com ID %s não encontrada", *classID))
		}
	}
	if teacherID != nil {
		if _, err := s.users.FindByID(ctx, *teacherID); err != nil {
			return missing(err, appErrors.NotFound("Professor com ID %s não encontrado", *teacherID))
		}
	}
	if contentID != nil {
		if _, err := s.classes.FindContentByID(ctx, *contentID); err != nil {
			return missing(err, appErrors.NotFound("Conteúdo com ID %s não encontrado", *contentID))
		}
	}
	return nil
}

func (s *LessonPlanService) load(ctx context.Context, id string) (*dto.LessonPlanDetail, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, appErrors.NotFound("Plano de aula com ID %s não encontrado", id))
	}
	return item, nil
}

// Create stores a lesson plan; status defaults to draft.
func (s *LessonPlanService) Create(ctx context.Context, req dto.CreateLessonPlanRequest) (*dto.LessonPlanDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if err := s.ensureRefs(ctx, &req.ClassID, &req.TeacherID, req.ContentID); err != nil {
		return nil, lessonPlanFailure(opCreateLessonPlan, err)
	}

	plan := &models.LessonPlan{
		Title:       req.Title,
		Description: req.Description,
		Objectives:  req.Objectives,
		Resources:   req.Resources,
		Activities:  req.Activities,
		Assessment:  req.Assessment,
		Notes:       req.Notes,
		Duration:    req.Duration,
		Status:      models.LessonPlanDraft,
		ClassID:     req.ClassID,
		TeacherID:   req.TeacherID,
		ContentID:   req.ContentID,
	}
	if req.Status != nil {
		plan.Status = models.LessonPlanStatus(*req.Status)
	}
	if req.Date != nil && *req.Date != "" {
		date, err := validation.ParseDate(*req.Date)
		if err != nil {
			return nil, validation.Invalid("date", "date deve ser uma data ISO 8601 válida")
		}
		plan.Date = &date
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, lessonPlanFailure(opCreateLessonPlan, err)
	}
	item, err := s.load(ctx, plan.ID)
	if err != nil {
		return nil, lessonPlanFailure(opCreateLessonPlan, err)
	}
	return item, nil
}

// List returns every lesson plan, newest first.
func (s *LessonPlanService) List(ctx context.Context) ([]dto.LessonPlanDetail, error) {
	items, err := s.repo.List(ctx, dto.LessonPlanFilter{})
	if err != nil {
		return nil, lessonPlanFailure(opListLessonPlans, err)
	}
	return items, nil
}

// ListByClass returns a class's lesson plans by date.
func (s *LessonPlanService) ListByClass(ctx context.Context, classID string) ([]dto.LessonPlanDetail, error) {
	items, err := s.repo.List(ctx, dto.LessonPlanFilter{ClassID: classID})
	if err != nil {
		return nil, lessonPlanFailure(opListLessonPlans, err)
	}
	return items, nil
}

// ListByTeacher returns a teacher's lesson plans by date.
func (s *LessonPlanService) ListByTeacher(ctx context.Context, teacherID string) ([]dto.LessonPlanDetail, error) {
	items, err := s.repo.List(ctx, dto.LessonPlanFilter{TeacherID: teacherID})
	if err != nil {
		return nil, lessonPlanFailure(opListLessonPlans, err)
	}
	return items, nil
}

// Get returns one lesson plan.
func (s *LessonPlanService) Get(ctx context.Context, id string) (*dto.LessonPlanDetail, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, lessonPlanFailure(opGetLessonPlan, err)
	}
	return item, nil
}

// Update writes the fields present in req. An empty date leaves the stored one.
func (s *LessonPlanService) Update(ctx context.Context, id string, req dto.UpdateLessonPlanRequest) (*dto.LessonPlanDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, lessonPlanFailure(opUpdateLessonPlan, err)
	}
	if err := s.ensureRefs(ctx, req.ClassID, req.TeacherID, req.ContentID); err != nil {
		return nil, lessonPlanFailure(opUpdateLessonPlan, err)
	}

	patch := repository.LessonPlanPatch{
		Title:       req.Title,
		Description: req.Description,
		Objectives:  req.Objectives,
		Resources:   req.Resources,
		Activities:  req.Activities,
		Assessment:  req.Assessment,
		Notes:       req.Notes,
		Duration:    req.Duration,
		ClassID:     req.ClassID,
		TeacherID:   req.TeacherID,
		ContentID:   req.ContentID,
	}
	if req.Status != nil {
		status := models.LessonPlanStatus(*req.Status)
		patch.Status = &status
	}
	if req.Date != nil && *req.Date != "" {
		date, err := validation.ParseDate(*req.Date)
		if err != nil {
			return nil, validation.Invalid("date", "date deve ser uma data ISO 8601 válida")
		}
		patch.Date = &date
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, lessonPlanFailure(opUpdateLessonPlan, err)
	}
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, lessonPlanFailure(opUpdateLessonPlan, err)
	}
	return item, nil
}

// Remove deletes a lesson plan.
func (s *LessonPlanService) Remove(ctx context.Context, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return lessonPlanFailure(opRemoveLessonPlan, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lessonPlanFailure(opRemoveLessonPlan, err)
	}
	return nil
}
