package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mtss-api/internal/dto"
	"github.com/noah-isme/mtss-api/internal/middleware"
	"github.com/noah-isme/mtss-api/internal/models"
	"github.com/noah-isme/mtss-api/internal/service"
	appErrors "github.com/noah-isme/mtss-api/pkg/errors"
)

const knownID = "6c1d2e3f-4a5b-4c6d-8e7f-9a0b1c2d3e31"

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

type fakeBaseInterventionService struct {
	removeResult *dto.RemoveBaseInterventionResult
	created      bool
	lastInactive bool
}

func (f *fakeBaseInterventionService) Create(ctx context.Context, req dto.CreateBaseInterventionRequest) (*models.BaseIntervention, error) {
	return &models.BaseIntervention{ID: knownID, Name: req.Name, Active: true}, nil
}

func (f *fakeBaseInterventionService) List(ctx context.Context, includeInactive bool) ([]dto.BaseInterventionListItem, error) {
	f.lastInactive = includeInactive
	return []dto.BaseInterventionListItem{}, nil
}

func (f *fakeBaseInterventionService) ListByArea(ctx context.Context, area string, includeInactive bool) ([]dto.BaseInterventionListItem, error) {
	return []dto.BaseInterventionListItem{}, nil
}

func (f *fakeBaseInterventionService) ListByLevel(ctx context.Context, level string, includeInactive bool) ([]dto.BaseInterventionListItem, error) {
	return []dto.BaseInterventionListItem{}, nil
}

func (f *fakeBaseInterventionService) Get(ctx context.Context, id string) (*dto.BaseInterventionDetail, error) {
	if id != knownID {
		return nil, appErrors.NotFound("Intervenção base com ID %s não encontrada", id)
	}
	return &dto.BaseInterventionDetail{BaseIntervention: models.BaseIntervention{ID: id}}, nil
}

func (f *fakeBaseInterventionService) Update(ctx context.Context, id string, req dto.UpdateBaseInterventionRequest) (*models.BaseIntervention, error) {
	return &models.BaseIntervention{ID: id}, nil
}

func (f *fakeBaseInterventionService) Remove(ctx context.Context, id string) (*dto.RemoveBaseInterventionResult, error) {
	return f.removeResult, nil
}

func (f *fakeBaseInterventionService) AssociateDifficulty(ctx context.Context, req dto.AssociateDifficultyRequest) (*dto.DifficultyAssociation, bool, error) {
	return &dto.DifficultyAssociation{DifficultyIntervention: models.DifficultyIntervention{ID: knownID, Effectiveness: req.Effectiveness}}, f.created, nil
}

func (f *fakeBaseInterventionService) RemoveDifficultyAssociation(ctx context.Context, difficultyID, interventionID string) error {
	return nil
}

func (f *fakeBaseInterventionService) ListDifficultiesByIntervention(ctx context.Context, interventionID string) ([]dto.DifficultyAssociation, error) {
	return []dto.DifficultyAssociation{}, nil
}

func (f *fakeBaseInterventionService) ListInterventionsByDifficulty(ctx context.Context, difficultyID string) ([]dto.DifficultyAssociation, error) {
	return []dto.DifficultyAssociation{}, nil
}

type fakeProtocolService struct {
	duplicateName string
}

func (f *fakeProtocolService) Create(ctx context.Context, req dto.CreateProtocolRequest) (*dto.ProtocolDetail, error) {
	return &dto.ProtocolDetail{}, nil
}

func (f *fakeProtocolService) List(ctx context.Context) ([]dto.ProtocolDetail, error) {
	return []dto.ProtocolDetail{}, nil
}

func (f *fakeProtocolService) ListByBaseIntervention(ctx context.Context, id string) ([]dto.ProtocolDetail, error) {
	return []dto.ProtocolDetail{}, nil
}

func (f *fakeProtocolService) Get(ctx context.Context, id string) (*dto.ProtocolDetail, error) {
	return &dto.ProtocolDetail{}, nil
}

func (f *fakeProtocolService) Update(ctx context.Context, id string, req dto.UpdateProtocolRequest) (*dto.ProtocolDetail, error) {
	return &dto.ProtocolDetail{}, nil
}

func (f *fakeProtocolService) Remove(ctx context.Context, id string) error { return nil }

func (f *fakeProtocolService) Duplicate(ctx context.Context, id, newName string) (*dto.ProtocolDetail, error) {
	f.duplicateName = newName
	return &dto.ProtocolDetail{InterventionProtocol: models.InterventionProtocol{Name: "Cópia de X"}}, nil
}

type fakeLessonPlanService struct{}

func (fakeLessonPlanService) Create(ctx context.Context, req dto.CreateLessonPlanRequest) (*dto.LessonPlanDetail, error) {
	return &dto.LessonPlanDetail{}, nil
}

func (fakeLessonPlanService) List(ctx context.Context) ([]dto.LessonPlanDetail, error) {
	return []dto.LessonPlanDetail{}, nil
}

func (fakeLessonPlanService) ListByClass(ctx context.Context, classID string) ([]dto.LessonPlanDetail, error) {
	return []dto.LessonPlanDetail{}, nil
}

func (fakeLessonPlanService) ListByTeacher(ctx context.Context, teacherID string) ([]dto.LessonPlanDetail, error) {
	return []dto.LessonPlanDetail{}, nil
}

func (fakeLessonPlanService) Get(ctx context.Context, id string) (*dto.LessonPlanDetail, error) {
	return &dto.LessonPlanDetail{}, nil
}

func (fakeLessonPlanService) Update(ctx context.Context, id string, req dto.UpdateLessonPlanRequest) (*dto.LessonPlanDetail, error) {
	return &dto.LessonPlanDetail{}, nil
}

func (fakeLessonPlanService) Remove(ctx context.Context, id string) error { return nil }

type fakeScreeningService struct {
	lastApplicator string
	lastFilter     dto.ScreeningFilter
	statsHit       bool
}

func (f *fakeScreeningService) Create(ctx context.Context, req dto.CreateScreeningRequest, applicatorID string) (*dto.ScreeningSummary, error) {
	f.lastApplicator = applicatorID
	return &dto.ScreeningSummary{Screening: models.Screening{ID: knownID, Status: models.ScreeningInProgress, ApplicatorID: applicatorID}}, nil
}

func (f *fakeScreeningService) List(ctx context.Context, filter dto.ScreeningFilter) ([]dto.ScreeningListItem, error) {
	f.lastFilter = filter
	return []dto.ScreeningListItem{}, nil
}

func (f *fakeScreeningService) Get(ctx context.Context, id string) (*dto.ScreeningDetail, error) {
	return &dto.ScreeningDetail{Screening: models.Screening{ID: id}}, nil
}

func (f *fakeScreeningService) Update(ctx context.Context, id string, req dto.UpdateScreeningRequest) (*dto.ScreeningSummary, error) {
	return &dto.ScreeningSummary{}, nil
}

func (f *fakeScreeningService) Remove(ctx context.Context, id string) error { return nil }

func (f *fakeScreeningService) RecordResults(ctx context.Context, id string, req dto.RecordResultsRequest) (*dto.ScreeningDetail, error) {
	return &dto.ScreeningDetail{}, nil
}

func (f *fakeScreeningService) StudentResults(ctx context.Context, studentID string) (*dto.StudentResults, error) {
	return &dto.StudentResults{ResultsByCategory: map[string][]dto.CategoryScreening{}}, nil
}

func (f *fakeScreeningService) ExportStudentResults(ctx context.Context, studentID, format string) (*service.ExportedFile, error) {
	return &service.ExportedFile{Filename: "rastreios.csv", ContentType: "text/csv; charset=utf-8", Content: []byte("a;b\n")}, nil
}

func (f *fakeScreeningService) Statistics(ctx context.Context) (*dto.ScreeningStatistics, bool, error) {
	return &dto.ScreeningStatistics{ByStatus: []dto.StatusCount{}}, f.statsHit, nil
}

type fakeAuthService struct{}

func (fakeAuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Password != "secret" {
		return nil, appErrors.ErrInvalidCredentials
	}
	return &models.LoginResponse{AccessToken: "teacher", TokenType: "Bearer"}, nil
}

func (fakeAuthService) Me(ctx context.Context, userID string) (*models.UserInfo, error) {
	return &models.UserInfo{ID: userID}, nil
}

type roleTokens struct{}

func (roleTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	switch token {
	case "teacher":
		return &models.JWTClaims{UserID: "u-teacher", Role: models.RoleTeacher}, nil
	case "specialist":
		return &models.JWTClaims{UserID: "u-specialist", Role: models.RoleSpecialist}, nil
	case "coordinator":
		return &models.JWTClaims{UserID: "u-coordinator", Role: models.RoleCoordinator}, nil
	}
	return nil, appErrors.ErrUnauthorized
}

type countingAudit struct {
	entries []*models.AuditLog
}

func (a *countingAudit) Record(ctx context.Context, entry *models.AuditLog) {
	a.entries = append(a.entries, entry)
}

type testRig struct {
	router     *gin.Engine
	base       *fakeBaseInterventionService
	protocols  *fakeProtocolService
	screenings *fakeScreeningService
	audit      *countingAudit
}

func newTestRig() *testRig {
	gin.SetMode(gin.TestMode)
	rig := &testRig{
		router:     gin.New(),
		base:       &fakeBaseInterventionService{removeResult: &dto.RemoveBaseInterventionResult{Message: "Intervenção base removida com sucesso"}},
		protocols:  &fakeProtocolService{},
		screenings: &fakeScreeningService{},
		audit:      &countingAudit{},
	}
	RegisterRoutes(rig.router, "/api/v1", Handlers{
		Auth:             NewAuthHandler(fakeAuthService{}),
		BaseIntervention: NewBaseInterventionHandler(rig.base),
		Protocol:         NewInterventionProtocolHandler(rig.protocols),
		LessonPlan:       NewLessonPlanHandler(fakeLessonPlanService{}),
		Screening:        NewScreeningHandler(rig.screenings),
		System:           NewSystemHandler(service.NewMetricsService(), map[string]Pinger{"database": PingFunc(func(context.Context) error { return nil })}),
		Tokens:           roleTokens{},
		Audit:            rig.audit,
	})
	return rig
}

func (rig *testRig) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	rig.router.ServeHTTP(rec, req)
	return rec
}

func TestRoutesRequireAuthentication(t *testing.T) {
	rig := newTestRig()

	assert.Equal(t, http.StatusUnauthorized, rig.do(http.MethodGet, "/api/v1/base-interventions", "", "").Code)
	assert.Equal(t, http.StatusOK, rig.do(http.MethodGet, "/api/v1/base-interventions", "teacher", "").Code)
	assert.Equal(t, http.StatusOK, rig.do(http.MethodGet, "/health", "", "").Code)
}

func TestRoutesEnforceRoles(t *testing.T) {
	rig := newTestRig()

	rec := rig.do(http.MethodPost, "/api/v1/base-interventions", "teacher", `{"nome":"Leitura guiada"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rig.audit.entries)

	rec = rig.do(http.MethodPost, "/api/v1/base-interventions", "specialist", `{"nome":"Leitura guiada"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, rig.audit.entries, 1)
	assert.Equal(t, models.AuditActionCreate, rig.audit.entries[0].Action)

	assert.Equal(t, http.StatusForbidden, rig.do(http.MethodPost, "/api/v1/lesson-plans", "specialist", `{}`).Code)
	assert.Equal(t, http.StatusCreated, rig.do(http.MethodPost, "/api/v1/lesson-plans", "coordinator", `{}`).Code)
	assert.Equal(t, http.StatusForbidden, rig.do(http.MethodDelete, "/api/v1/screenings/"+knownID, "coordinator", "").Code)
}

func TestBaseInterventionAliasAndSoftDelete(t *testing.T) {
	rig := newTestRig()
	rig.base.removeResult = &dto.RemoveBaseInterventionResult{Deactivated: &models.BaseIntervention{ID: knownID, Active: false}}

	rec := rig.do(http.MethodDelete, "/api/v1/interventions/base/"+knownID, "specialist", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, false, body["ativo"])
}

func TestBaseInterventionHardDeleteReturnsMessage(t *testing.T) {
	rig := newTestRig()

	rec := rig.do(http.MethodDelete, "/api/v1/base-interventions/"+knownID, "specialist", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Intervenção base removida com sucesso")
}

func TestBaseInterventionRejectsMalformedID(t *testing.T) {
	rig := newTestRig()

	rec := rig.do(http.MethodGet, "/api/v1/base-interventions/not-a-uuid", "teacher", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)
	assert.Contains(t, env.Error.Fields, "id")

	rec = rig.do(http.MethodGet, "/api/v1/base-interventions/"+"0f3f7b1e-4d1f-4c6a-8f3a-2b9b8a7c6d02", "teacher", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBaseInterventionIncludeInactiveFlag(t *testing.T) {
	rig := newTestRig()

	rig.do(http.MethodGet, "/api/v1/base-interventions?includeInactive=true", "teacher", "")
	assert.True(t, rig.base.lastInactive)
	rig.do(http.MethodGet, "/api/v1/base-interventions", "teacher", "")
	assert.False(t, rig.base.lastInactive)
}

func TestAssociateDifficultyStatusFollowsBranch(t *testing.T) {
	rig := newTestRig()
	payload := `{"dificuldadeId":"` + knownID + `","intervencaoId":"` + knownID + `","eficacia":4}`

	rig.base.created = true
	assert.Equal(t, http.StatusCreated, rig.do(http.MethodPost, "/api/v1/base-interventions/associate-dificuldade", "specialist", payload).Code)
	rig.base.created = false
	assert.Equal(t, http.StatusOK, rig.do(http.MethodPost, "/api/v1/base-interventions/associate-dificuldade", "specialist", payload).Code)
}

func TestProtocolDuplicatePassesNewName(t *testing.T) {
	rig := newTestRig()

	rec := rig.do(http.MethodPost, "/api/v1/intervention-protocols/"+knownID+"/duplicate?newName=Vers%C3%A3o%202", "specialist", "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Versão 2", rig.protocols.duplicateName)
}

func TestScreeningCreateUsesCaller(t *testing.T) {
	rig := newTestRig()

	rec := rig.do(http.MethodPost, "/api/v1/screenings", "teacher", `{"estudanteId":"`+knownID+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "u-teacher", rig.screenings.lastApplicator)
}

func TestScreeningListFilters(t *testing.T) {
	rig := newTestRig()

	rec := rig.do(http.MethodGet, "/api/v1/screenings?estudanteId="+knownID+"&status=CONCLUIDO", "teacher", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, knownID, rig.screenings.lastFilter.StudentID)
	assert.Equal(t, "CONCLUIDO", rig.screenings.lastFilter.Status)

	assert.Equal(t, http.StatusBadRequest, rig.do(http.MethodGet, "/api/v1/screenings?status=ABERTO", "teacher", "").Code)
	assert.Equal(t, http.StatusBadRequest, rig.do(http.MethodGet, "/api/v1/screenings?aplicadorId=42", "teacher", "").Code)
}

func TestScreeningStatisticsReportsCacheHit(t *testing.T) {
	rig := newTestRig()
	rig.screenings.statsHit = true

	rec := rig.do(http.MethodGet, "/api/v1/screenings/statistics/general", "teacher", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, true, env.Meta["cache_hit"])
}

func TestScreeningExportStreamsFile(t *testing.T) {
	rig := newTestRig()

	rec := rig.do(http.MethodGet, "/api/v1/screenings/student/"+knownID+"/export?format=csv", "teacher", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "rastreios.csv")
}

func TestAuthLoginAndMe(t *testing.T) {
	rig := newTestRig()

	assert.Equal(t, http.StatusUnauthorized, rig.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"a@b.c","password":"nope"}`).Code)
	assert.Equal(t, http.StatusOK, rig.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"a@b.c","password":"secret"}`).Code)

	rec := rig.do(http.MethodGet, "/api/v1/auth/me", "teacher", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "u-teacher")
}

func TestSystemReadyReportsFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSystemHandler(nil, map[string]Pinger{
		"database": PingFunc(func(context.Context) error { return nil }),
		"cache":    PingFunc(func(context.Context) error { return assert.AnError }),
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	h.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestStatisticsHandlerWithoutMetaMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewScreeningHandler(&fakeScreeningService{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/screenings/statistics/general", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1"})
	h.Statistics(c)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, false, env.Meta["cache_hit"])
}
