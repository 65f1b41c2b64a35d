package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mtss-api/internal/dto"
	"github.com/noah-isme/mtss-api/internal/models"
)

var baseInterventionCols = []string{"id", "name", "description", "objective", "level", "area", "estimated_time", "frequency", "materials", "evidence", "evidence_source", "active", "created_at", "updated_at"}

func baseInterventionRow(rows *sqlmock.Rows, id, name string, active bool) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, name, "desc", "obj", string(models.LevelTier2), string(models.AreaReading), "30 min", string(models.FrequencyWeekly), nil, nil, nil, active, now, now)
}

func TestBaseInterventionListFiltersActiveByArea(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBaseInterventionRepository(db)

	rows := baseInterventionRow(sqlmock.NewRows(baseInterventionCols), "bi-1", "Leitura guiada", true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM base_interventions WHERE 1=1 AND active = TRUE AND area = $1 ORDER BY name ASC")).
		WithArgs("LEITURA").
		WillReturnRows(rows)

	items, err := repo.List(context.Background(), dto.BaseInterventionFilter{Area: "LEITURA"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.AreaReading, items[0].Area)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseInterventionListIncludeInactiveByLevel(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBaseInterventionRepository(db)

	rows := baseInterventionRow(sqlmock.NewRows(baseInterventionCols), "bi-2", "Tutoria", false)
	mock.ExpectQuery(regexp.QuoteMeta("FROM base_interventions WHERE 1=1 AND level = $1 ORDER BY name ASC")).
		WithArgs("TIER_2").
		WillReturnRows(rows)

	items, err := repo.List(context.Background(), dto.BaseInterventionFilter{Level: "TIER_2", IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].Active)
}

func TestBaseInterventionProtocolRefsGroupsByOwner(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBaseInterventionRepository(db)

	rows := sqlmock.NewRows([]string{"owner_id", "id", "name"}).
		AddRow("bi-1", "p-1", "Protocolo A").
		AddRow("bi-1", "p-2", "Protocolo B").
		AddRow("bi-2", "p-3", "Protocolo C")
	mock.ExpectQuery("FROM intervention_protocols WHERE base_intervention_id = ANY").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	refs, err := repo.ProtocolRefs(context.Background(), []string{"bi-1", "bi-2"})
	require.NoError(t, err)
	assert.Len(t, refs["bi-1"], 2)
	assert.Equal(t, dto.EntityRef{ID: "p-3", Name: "Protocolo C"}, refs["bi-2"][0])
}

func TestBaseInterventionRefsSkipEmptyInput(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBaseInterventionRepository(db)

	refs, err := repo.KPIRefs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, refs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseInterventionDeactivateReturnsRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBaseInterventionRepository(db)

	rows := baseInterventionRow(sqlmock.NewRows(baseInterventionCols), "bi-1", "Leitura guiada", false)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE base_interventions SET active = FALSE, updated_at = $2 WHERE id = $1 RETURNING")).
		WithArgs("bi-1", sqlmock.AnyArg()).
		WillReturnRows(rows)

	item, err := repo.Deactivate(context.Background(), "bi-1")
	require.NoError(t, err)
	assert.False(t, item.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseInterventionDeleteRemovesProtocolsInTransaction(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBaseInterventionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM protocol_steps WHERE protocol_id IN").WithArgs("bi-1").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM intervention_protocols WHERE base_intervention_id").WithArgs("bi-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM base_interventions WHERE id").WithArgs("bi-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "bi-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseInterventionDeleteRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBaseInterventionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM protocol_steps").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM intervention_protocols").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "bi-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete template protocols")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseInterventionCountInterventions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBaseInterventionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM interventions WHERE base_intervention_id = $1")).
		WithArgs("bi-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	total, err := repo.CountInterventions(context.Background(), "bi-1")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}
