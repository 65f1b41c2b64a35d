package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/mtss-api/internal/dto"
	"github.com/noah-isme/mtss-api/internal/models"
	"github.com/noah-isme/mtss-api/internal/repository"
	appErrors "github.com/noah-isme/mtss-api/pkg/errors"
	"github.com/noah-isme/mtss-api/pkg/export"
	"github.com/noah-isme/mtss-api/pkg/validation"
)

const (
	screeningStatsKey     = "screenings:stats"
	screeningCachePattern = "screenings:*"
	topStudentsLimit      = 5
)

type screeningStore interface {
	List(ctx context.Context, filter dto.ScreeningFilter) ([]dto.ScreeningListItem, error)
	FindByID(ctx context.Context, id string) (*dto.ScreeningDetail, error)
	FindSummary(ctx context.Context, id string) (*dto.ScreeningSummary, error)
	Create(ctx context.Context, screening *models.Screening) error
	Update(ctx context.Context, id string, patch repository.ScreeningPatch) error
	Delete(ctx context.Context, id string, withResults bool) error
	UpsertResults(ctx context.Context, screeningID string, results []models.ScreeningResult, complete bool) error
	ListCompletedByStudent(ctx context.Context, studentID string) ([]dto.CompletedScreening, error)
	CountByStatus(ctx context.Context) ([]dto.StatusCount, error)
	CountByCategory(ctx context.Context) ([]dto.CategoryCount, error)
	TopStudents(ctx context.Context, limit int) ([]dto.StudentCount, error)
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type instrumentFinder interface {
	FindByID(ctx context.Context, id string) (*models.ScreeningInstrument, error)
	ListIndicators(ctx context.Context, instrumentID string) ([]models.Indicator, error)
}

// ExportedFile is a rendered report ready to be streamed.
type ExportedFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ScreeningService coordinates screening applications and their results.
type ScreeningService struct {
	repo        screeningStore
	students    studentFinder
	instruments instrumentFinder
	users       userFinder
	cache       *CacheService
	metrics     *MetricsService
	statsTTL    time.Duration
	validator   *validation.Validator
	logger      *zap.Logger
}

// ScreeningServiceConfig bundles the screening collaborators that are optional.
type ScreeningServiceConfig struct {
	Cache    *CacheService
	Metrics  *MetricsService
	StatsTTL time.Duration
}

// NewScreeningService builds the service. Cache and metrics may be nil.
func NewScreeningService(repo screeningStore, students studentFinder, instruments instrumentFinder, users userFinder, validate *validation.Validator, logger *zap.Logger, cfg ScreeningServiceConfig) *ScreeningService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScreeningService{
		repo:        repo,
		students:    students,
		instruments: instruments,
		users:       users,
		cache:       cfg.Cache,
		metrics:     cfg.Metrics,
		statsTTL:    cfg.StatsTTL,
		validator:   validate,
		logger:      logger,
	}
}

func screeningNotFound(id string) *appErrors.Error {
	return appErrors.NotFound("Rastreio com ID %s não encontrado", id)
}

func studentNotFound(id string) *appErrors.Error {
	return appErrors.NotFound("Estudante com ID %s não encontrado", id)
}

func instrumentNotFound(id string) *appErrors.Error {
	return appErrors.NotFound("Instrumento de rastreio com ID %s não encontrado", id)
}

func (s *ScreeningService) ensureStudent(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, studentNotFound(id), "falha ao buscar estudante")
	}
	return student, nil
}

func (s *ScreeningService) ensureInstrument(ctx context.Context, id string) error {
	if _, err := s.instruments.FindByID(ctx, id); err != nil {
		return lookupError(err, instrumentNotFound(id), "falha ao buscar instrumento de rastreio")
	}
	return nil
}

func (s *ScreeningService) ensureApplicator(ctx context.Context, id string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return lookupError(err, appErrors.NotFound("Aplicador com ID %s não encontrado", id), "falha ao buscar aplicador")
	}
	return nil
}

func (s *ScreeningService) invalidate(ctx context.Context) {
	// Stale statistics expire on their own; the write already succeeded.
	_ = s.cache.Invalidate(ctx, screeningCachePattern)
}

// Create registers a screening. applicatorID is used when the payload names none.
func (s *ScreeningService) Create(ctx context.Context, req dto.CreateScreeningRequest, applicatorID string) (*dto.ScreeningSummary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.ensureStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}
	if err := s.ensureInstrument(ctx, req.InstrumentID); err != nil {
		return nil, err
	}

	applicator := applicatorID
	if req.ApplicatorID != nil {
		applicator = *req.ApplicatorID
		if err := s.ensureApplicator(ctx, applicator); err != nil {
			return nil, err
		}
	}
	if applicator == "" {
		return nil, validation.Invalid("aplicadorId", "aplicadorId é obrigatório")
	}

	date, err := validation.ParseDate(req.ApplicationDate)
	if err != nil {
		return nil, validation.Invalid("dataAplicacao", "dataAplicacao deve ser uma data ISO 8601 válida")
	}

	screening := &models.Screening{
		StudentID:       req.StudentID,
		ApplicatorID:    applicator,
		InstrumentID:    req.InstrumentID,
		ApplicationDate: date,
		Notes:           req.Notes,
		Status:          models.ScreeningInProgress,
	}
	if req.Status != nil {
		screening.Status = models.ScreeningStatus(*req.Status)
	}
	if err := s.repo.Create(ctx, screening); err != nil {
		return nil, appErrors.Internal(err, "falha ao registrar rastreio")
	}
	s.invalidate(ctx)

	summary, err := s.repo.FindSummary(ctx, screening.ID)
	if err != nil {
		return nil, lookupError(err, screeningNotFound(screening.ID), "falha ao carregar rastreio")
	}
	return summary, nil
}

// List returns screenings matching the non-empty filters, newest application first.
func (s *ScreeningService) List(ctx context.Context, filter dto.ScreeningFilter) ([]dto.ScreeningListItem, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao listar rastreios")
	}
	return items, nil
}

// Get returns the eager-loaded screening.
func (s *ScreeningService) Get(ctx context.Context, id string) (*dto.ScreeningDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, screeningNotFound(id), "falha ao buscar rastreio")
	}
	return detail, nil
}

// Update applies a sparse patch and returns the light projection.
func (s *ScreeningService) Update(ctx context.Context, id string, req dto.UpdateScreeningRequest) (*dto.ScreeningSummary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if req.StudentID != nil {
		if _, err := s.ensureStudent(ctx, *req.StudentID); err != nil {
			return nil, err
		}
	}
	if req.InstrumentID != nil {
		if err := s.ensureInstrument(ctx, *req.InstrumentID); err != nil {
			return nil, err
		}
	}
	if req.ApplicatorID != nil {
		if err := s.ensureApplicator(ctx, *req.ApplicatorID); err != nil {
			return nil, err
		}
	}

	patch := repository.ScreeningPatch{
		StudentID:    req.StudentID,
		ApplicatorID: req.ApplicatorID,
		InstrumentID: req.InstrumentID,
		Notes:        req.Notes,
	}
	if req.ApplicationDate != nil {
		date, err := validation.ParseDate(*req.ApplicationDate)
		if err != nil {
			return nil, validation.Invalid("dataAplicacao", "dataAplicacao deve ser uma data ISO 8601 válida")
		}
		patch.ApplicationDate = &date
	}
	if req.Status != nil {
		status := models.ScreeningStatus(*req.Status)
		patch.Status = &status
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, appErrors.Internal(err, "falha ao atualizar rastreio")
	}
	s.invalidate(ctx)

	summary, err := s.repo.FindSummary(ctx, id)
	if err != nil {
		return nil, lookupError(err, screeningNotFound(id), "falha ao carregar rastreio")
	}
	return summary, nil
}

// Remove deletes a screening together with its results.
func (s *ScreeningService) Remove(ctx context.Context, id string) error {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, len(detail.Results) > 0); err != nil {
		return appErrors.Internal(err, "falha ao remover rastreio")
	}
	s.invalidate(ctx)
	return nil
}

// RecordResults stores indicator values, classifying each against its cutoff,
// and optionally closes the screening.
func (s *ScreeningService) RecordResults(ctx context.Context, id string, req dto.RecordResultsRequest) (*dto.ScreeningDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	known, err := s.instruments.ListIndicators(ctx, detail.InstrumentID)
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao buscar indicadores do instrumento")
	}
	indicators := make(map[string]models.Indicator, len(known))
	for _, ind := range known {
		indicators[ind.ID] = ind
	}

	results := make([]models.ScreeningResult, 0, len(req.Results))
	for i, input := range req.Results {
		ind, ok := indicators[input.IndicatorID]
		if !ok {
			field := fmt.Sprintf("resultados[%d].indicadorId", i)
			return nil, validation.Invalid(field, fmt.Sprintf("indicador %s não pertence ao instrumento do rastreio", input.IndicatorID))
		}
		results = append(results, models.ScreeningResult{
			ScreeningID: id,
			IndicatorID: ind.ID,
			Value:       *input.Value,
			RiskLevel:   models.ClassifyRisk(*input.Value, ind.Cutoff),
		})
	}

	if err := s.repo.UpsertResults(ctx, id, results, req.Complete); err != nil {
		return nil, appErrors.Internal(err, "falha ao registrar resultados do rastreio")
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// StudentResults groups a student's completed screenings by instrument category.
func (s *ScreeningService) StudentResults(ctx context.Context, studentID string) (*dto.StudentResults, error) {
	student, err := s.ensureStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	completed, err := s.repo.ListCompletedByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao buscar resultados do estudante")
	}

	grouped := make(map[string][]dto.CategoryScreening)
	for _, screening := range completed {
		outcomes := make([]dto.IndicatorOutcome, 0, len(screening.Results))
		for _, res := range screening.Results {
			outcomes = append(outcomes, dto.IndicatorOutcome{
				Indicator:   res.Indicator.Name,
				Value:       res.Value,
				Cutoff:      res.Indicator.Cutoff,
				RiskLevel:   res.RiskLevel,
				AboveCutoff: res.Value >= res.Indicator.Cutoff,
			})
		}
		grouped[screening.Category] = append(grouped[screening.Category], dto.CategoryScreening{
			ID:         screening.ID,
			Date:       screening.Date,
			Instrument: screening.InstrumentName,
			Results:    outcomes,
		})
	}

	return &dto.StudentResults{
		Student:           dto.StudentRef{ID: student.ID, Name: student.Name, Grade: student.Grade},
		ResultsByCategory: grouped,
	}, nil
}

// ExportStudentResults renders a student's completed results as CSV or PDF.
func (s *ScreeningService) ExportStudentResults(ctx context.Context, studentID, format string) (*ExportedFile, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, validation.Invalid("format", "format deve ser csv ou pdf")
	}
	results, err := s.StudentResults(ctx, studentID)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Title:   fmt.Sprintf("Resultados de rastreio - %s", results.Student.Name),
		Headers: []string{"Categoria", "Data", "Instrumento", "Indicador", "Valor", "Ponto de corte", "Nível de risco", "Acima do ponto de corte"},
	}
	for _, category := range sortedKeys(results.ResultsByCategory) {
		for _, screening := range results.ResultsByCategory[category] {
			for _, outcome := range screening.Results {
				above := "Não"
				if outcome.AboveCutoff {
					above = "Sim"
				}
				data.Rows = append(data.Rows, []string{
					category,
					screening.Date.Format("2006-01-02"),
					screening.Instrument,
					outcome.Indicator,
					strconv.FormatFloat(outcome.Value, 'f', -1, 64),
					strconv.FormatFloat(outcome.Cutoff, 'f', -1, 64),
					string(outcome.RiskLevel),
					above,
				})
			}
		}
	}

	renderer := export.For(f)
	content, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao gerar exportação")
	}
	return &ExportedFile{
		Filename:    fmt.Sprintf("rastreios-%s.%s", studentID, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

// Statistics aggregates screening activity, serving from cache when possible.
// The bool reports a cache hit.
func (s *ScreeningService) Statistics(ctx context.Context) (*dto.ScreeningStatistics, bool, error) {
	var cached dto.ScreeningStatistics
	if hit, err := s.cache.Get(ctx, screeningStatsKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	stats := dto.ScreeningStatistics{GeneratedAt: time.Now().UTC()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		items, err := s.repo.CountByStatus(gctx)
		s.metrics.ObserveDBQuery("screenings_by_status", time.Since(start))
		stats.ByStatus = items
		return err
	})
	g.Go(func() error {
		start := time.Now()
		items, err := s.repo.CountByCategory(gctx)
		s.metrics.ObserveDBQuery("screenings_by_category", time.Since(start))
		stats.ByCategory = items
		return err
	})
	g.Go(func() error {
		start := time.Now()
		items, err := s.repo.TopStudents(gctx, topStudentsLimit)
		s.metrics.ObserveDBQuery("screenings_top_students", time.Since(start))
		stats.TopStudents = items
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, false, appErrors.Internal(err, "falha ao calcular estatísticas de rastreio")
	}

	if stats.ByStatus == nil {
		stats.ByStatus = []dto.StatusCount{}
	}
	if stats.ByCategory == nil {
		stats.ByCategory = []dto.CategoryCount{}
	}
	if stats.TopStudents == nil {
		stats.TopStudents = []dto.StudentCount{}
	}

	if err := s.cache.Set(ctx, screeningStatsKey, stats, s.statsTTL); err != nil {
		s.logger.Warn("screening statistics not cached", zap.Error(err))
	}
	return &stats, false, nil
}

func sortedKeys(m map[string][]dto.CategoryScreening) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
