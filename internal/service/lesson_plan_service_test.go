package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mtss-api/internal/dto"
	"github.com/noah-isme/mtss-api/internal/models"
	"github.com/noah-isme/mtss-api/internal/repository"
	appErrors "github.com/noah-isme/mtss-api/pkg/errors"
)

type lessonPlanStoreFake struct {
	plans     map[string]models.LessonPlan
	lastPatch repository.LessonPlanPatch
	deleted   []string
	listErr   error
}

func newLessonPlanStoreFake() *lessonPlanStoreFake {
	return &lessonPlanStoreFake{plans: map[string]models.LessonPlan{}}
}

func (f *lessonPlanStoreFake) List(ctx context.Context, filter dto.LessonPlanFilter) ([]dto.LessonPlanDetail, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []dto.LessonPlanDetail{}
	for _, plan := range f.plans {
		if filter.ClassID != "" && plan.ClassID != filter.ClassID {
			continue
		}
		if filter.TeacherID != "" && plan.TeacherID != filter.TeacherID {
			continue
		}
		out = append(out, dto.LessonPlanDetail{LessonPlan: plan})
	}
	return out, nil
}

func (f *lessonPlanStoreFake) FindByID(ctx context.Context, id string) (*dto.LessonPlanDetail, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &dto.LessonPlanDetail{LessonPlan: plan, Class: &dto.ClassRef{ID: plan.ClassID}}, nil
}

func (f *lessonPlanStoreFake) Create(ctx context.Context, plan *models.LessonPlan) error {
	plan.ID = uuid.NewString()
	f.plans[plan.ID] = *plan
	return nil
}

func (f *lessonPlanStoreFake) Update(ctx context.Context, id string, patch repository.LessonPlanPatch) error {
	f.lastPatch = patch
	plan := f.plans[id]
	if patch.Title != nil {
		plan.Title = *patch.Title
	}
	if patch.Date != nil {
		plan.Date = patch.Date
	}
	if patch.Status != nil {
		plan.Status = *patch.Status
	}
	if patch.ClassID != nil {
		plan.ClassID = *patch.ClassID
	}
	f.plans[id] = plan
	return nil
}

func (f *lessonPlanStoreFake) Delete(ctx context.Context, id string) error {
	delete(f.plans, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type classDirectoryFake struct {
	classes  map[string]bool
	contents map[string]bool
}

func (f classDirectoryFake) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if !f.classes[id] {
		return nil, sql.ErrNoRows
	}
	return &models.Class{ID: id, Name: "5º Ano A"}, nil
}

func (f classDirectoryFake) FindContentByID(ctx context.Context, id string) (*models.Content, error) {
	if !f.contents[id] {
		return nil, sql.ErrNoRows
	}
	return &models.Content{ID: id, Title: "Frações"}, nil
}

type userDirectoryFake map[string]models.UserRole

func (f userDirectoryFake) FindByID(ctx context.Context, id string) (*models.User, error) {
	role, ok := f[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.User{ID: id, Role: role, Active: true}, nil
}

const (
	classID   = "3c9a8f0e-1b2d-4e5f-8a7b-6c5d4e3f2a10"
	teacherID = "9e8d7c6b-5a4f-4e3d-8c2b-1a0f9e8d7c11"
	contentID = "5f4e3d2c-1b0a-4f9e-8d7c-6b5a4f3e2d12"
)

func newTestLessonPlanService(store *lessonPlanStoreFake) *LessonPlanService {
	classes := classDirectoryFake{classes: map[string]bool{classID: true}, contents: map[string]bool{contentID: true}}
	users := userDirectoryFake{teacherID: models.RoleTeacher}
	return NewLessonPlanService(store, classes, users, nil, nil)
}

func TestLessonPlanCreateDefaultsToDraft(t *testing.T) {
	store := newLessonPlanStoreFake()
	svc := newTestLessonPlanService(store)

	date := "2024-03-10"
	plan, err := svc.Create(context.Background(), dto.CreateLessonPlanRequest{
		Title:     "Frações equivalentes",
		Date:      &date,
		ClassID:   classID,
		TeacherID: teacherID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.LessonPlanDraft, plan.Status)
	require.NotNil(t, plan.Date)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), plan.Date.UTC())
	assert.Len(t, store.plans, 1)
}

func TestLessonPlanCreateRejectsUnknownClass(t *testing.T) {
	svc := newTestLessonPlanService(newLessonPlanStoreFake())

	_, err := svc.Create(context.Background(), dto.CreateLessonPlanRequest{
		Title:     "Frações",
		ClassID:   uuid.NewString(),
		TeacherID: teacherID,
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestLessonPlanCreateRejectsUnknownContent(t *testing.T) {
	svc := newTestLessonPlanService(newLessonPlanStoreFake())

	other := uuid.NewString()
	_, err := svc.Create(context.Background(), dto.CreateLessonPlanRequest{
		Title:     "Frações",
		ClassID:   classID,
		TeacherID: teacherID,
		ContentID: &other,
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestLessonPlanCreateValidatesPayload(t *testing.T) {
	svc := newTestLessonPlanService(newLessonPlanStoreFake())

	status := "archived"
	_, err := svc.Create(context.Background(), dto.CreateLessonPlanRequest{ClassID: classID, TeacherID: teacherID, Status: &status})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "title")
	assert.Contains(t, appErr.Fields, "status")
}

func TestLessonPlanUpdateKeepsDateWhenEmpty(t *testing.T) {
	store := newLessonPlanStoreFake()
	svc := newTestLessonPlanService(store)

	date := "2024-03-10"
	created, err := svc.Create(context.Background(), dto.CreateLessonPlanRequest{Title: "Frações", Date: &date, ClassID: classID, TeacherID: teacherID})
	require.NoError(t, err)

	empty := ""
	title := "Frações impróprias"
	status := "published"
	updated, err := svc.Update(context.Background(), created.ID, dto.UpdateLessonPlanRequest{Title: &title, Date: &empty, Status: &status})
	require.NoError(t, err)
	assert.Nil(t, store.lastPatch.Date)
	assert.Equal(t, "Frações impróprias", updated.Title)
	assert.Equal(t, models.LessonPlanPublished, updated.Status)
	require.NotNil(t, updated.Date)
	assert.Equal(t, 10, updated.Date.Day())
}

func TestLessonPlanUpdateMissingPlan(t *testing.T) {
	svc := newTestLessonPlanService(newLessonPlanStoreFake())

	title := "x"
	_, err := svc.Update(context.Background(), uuid.NewString(), dto.UpdateLessonPlanRequest{Title: &title})
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestLessonPlanUpdateChecksNewClass(t *testing.T) {
	store := newLessonPlanStoreFake()
	svc := newTestLessonPlanService(store)
	created, err := svc.Create(context.Background(), dto.CreateLessonPlanRequest{Title: "Frações", ClassID: classID, TeacherID: teacherID})
	require.NoError(t, err)

	other := uuid.NewString()
	_, err = svc.Update(context.Background(), created.ID, dto.UpdateLessonPlanRequest{ClassID: &other})
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
	assert.Equal(t, classID, store.plans[created.ID].ClassID)
}

func TestLessonPlanListWrapsStoreFailure(t *testing.T) {
	store := newLessonPlanStoreFake()
	store.listErr = errors.New("connection reset")
	svc := newTestLessonPlanService(store)

	_, err := svc.List(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
	assert.Equal(t, "Listagem de planos de aula falhou: connection reset", appErr.Message)
}

func TestLessonPlanListByClassAndTeacher(t *testing.T) {
	store := newLessonPlanStoreFake()
	svc := newTestLessonPlanService(store)
	_, err := svc.Create(context.Background(), dto.CreateLessonPlanRequest{Title: "A", ClassID: classID, TeacherID: teacherID})
	require.NoError(t, err)

	byClass, err := svc.ListByClass(context.Background(), classID)
	require.NoError(t, err)
	assert.Len(t, byClass, 1)

	byTeacher, err := svc.ListByTeacher(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, byTeacher)
}

func TestLessonPlanRemove(t *testing.T) {
	store := newLessonPlanStoreFake()
	svc := newTestLessonPlanService(store)
	created, err := svc.Create(context.Background(), dto.CreateLessonPlanRequest{Title: "A", ClassID: classID, TeacherID: teacherID})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), created.ID))
	assert.Equal(t, []string{created.ID}, store.deleted)

	err = svc.Remove(context.Background(), created.ID)
	assert.True(t, appErrors.IsNotFound(err))
}
