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

var (
	screeningCols = []string{"id", "student_id", "applicator_id", "instrument_id", "application_date", "notes", "status", "created_at", "updated_at",
		"student_name", "student_grade", "student_birth_date", "applicator_name", "applicator_email",
		"instrument_name", "instrument_category", "instrument_description", "instrument_created_at"}
	resultCols = []string{"id", "screening_id", "indicator_id", "value", "risk_level", "created_at",
		"indicator_instrument_id", "indicator_name", "indicator_cutoff", "indicator_description", "indicator_created_at"}
)

func TestScreeningListAppliesFiltersAndAttachesResults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScreeningRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND s.student_id = $1 AND s.status = $2\nORDER BY s.application_date DESC")).
		WithArgs("st-1", "CONCLUIDO").
		WillReturnRows(sqlmock.NewRows(screeningCols).
			AddRow("sc-1", "st-1", "u-1", "in-1", now, nil, "CONCLUIDO", now, now,
				"Caio", "3º ano", nil, "Ana", "ana@escola.br", "TDE", "LEITURA", nil, now))
	mock.ExpectQuery("FROM screening_results r").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(resultCols).
			AddRow("r-1", "sc-1", "ind-1", 12.0, "ALTO", now, "in-1", "Fluência", 10.0, nil, now))

	items, err := repo.List(context.Background(), dto.ScreeningFilter{StudentID: "st-1", Status: "CONCLUIDO"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Caio", items[0].Student.Name)
	require.Len(t, items[0].Results, 1)
	assert.Equal(t, 10.0, items[0].Results[0].Indicator.Cutoff)
	assert.Equal(t, models.RiskHigh, items[0].Results[0].RiskLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreeningFindByIDLoadsInstrumentIndicators(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScreeningRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.id = $1")).
		WithArgs("sc-1").
		WillReturnRows(sqlmock.NewRows(screeningCols).
			AddRow("sc-1", "st-1", "u-1", "in-1", now, "observado em sala", "EM_ANDAMENTO", now, now,
				"Caio", "3º ano", now, "Ana", "ana@escola.br", "TDE", "LEITURA", "Teste de desempenho", now))
	mock.ExpectQuery("FROM indicators WHERE instrument_id").
		WithArgs("in-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "instrument_id", "name", "cutoff", "description", "created_at"}).
			AddRow("ind-1", "in-1", "Fluência", 10.0, nil, now))
	mock.ExpectQuery("FROM screening_results r").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(resultCols))

	item, err := repo.FindByID(context.Background(), "sc-1")
	require.NoError(t, err)
	require.NotNil(t, item.Student.BirthDate)
	require.NotNil(t, item.Instrument.Description)
	assert.Len(t, item.Instrument.Indicators, 1)
	assert.NotNil(t, item.Results)
	assert.Empty(t, item.Results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreeningDeleteWithResults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScreeningRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM screening_results WHERE screening_id").WithArgs("sc-1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM screenings WHERE id").WithArgs("sc-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "sc-1", true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreeningDeleteWithoutResultsSkipsResultTable(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScreeningRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM screenings WHERE id").WithArgs("sc-1").WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "sc-1", false)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreeningUpsertResultsCompletesScreening(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScreeningRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO screening_results .+ ON CONFLICT \\(screening_id, indicator_id\\) DO UPDATE").
		WithArgs(sqlmock.AnyArg(), "sc-1", "ind-1", 8.5, "MODERADO", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE screenings SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs("CONCLUIDO", sqlmock.AnyArg(), "sc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	results := []models.ScreeningResult{{IndicatorID: "ind-1", Value: 8.5, RiskLevel: models.RiskModerate}}
	require.NoError(t, repo.UpsertResults(context.Background(), "sc-1", results, true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreeningUpdateWritesPatch(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScreeningRepository(db)

	status := models.ScreeningCancelled
	mock.ExpectExec(regexp.QuoteMeta("UPDATE screenings SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs("CANCELADO", sqlmock.AnyArg(), "sc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), "sc-1", ScreeningPatch{Status: &status}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreeningTopStudentsUsesDeterministicOrder(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScreeningRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY total DESC, st.name ASC, st.id ASC\nLIMIT $1")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "name", "total"}).
			AddRow("st-1", "Ana", 4).
			AddRow("st-2", "Bruno", 4))

	items, err := repo.TopStudents(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, dto.StudentCount{StudentID: "st-1", Name: "Ana", Total: 4}, items[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreeningListCompletedByStudentNewestFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScreeningRepository(db)

	newer := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	older := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.student_id = $1 AND s.status = $2\nORDER BY s.application_date DESC")).
		WithArgs("st-1", "CONCLUIDO").
		WillReturnRows(sqlmock.NewRows([]string{"id", "application_date", "instrument_name", "category"}).
			AddRow("sc-2", newer, "TDE", "LEITURA").
			AddRow("sc-1", older, "TDE", "LEITURA"))
	mock.ExpectQuery("FROM screening_results r").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(resultCols).
			AddRow("r-1", "sc-1", "ind-1", 8.0, "ALTO", older, "in-1", "Fluência", 10.0, nil, older).
			AddRow("r-2", "sc-2", "ind-1", 14.0, "BAIXO", newer, "in-1", "Fluência", 10.0, nil, newer))

	items, err := repo.ListCompletedByStudent(context.Background(), "st-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "sc-2", items[0].ID)
	assert.Equal(t, newer, items[0].Date)
	assert.Equal(t, "sc-1", items[1].ID)
	require.Len(t, items[0].Results, 1)
	assert.Equal(t, "r-2", items[0].Results[0].ID)
	require.Len(t, items[1].Results, 1)
	assert.Equal(t, models.RiskHigh, items[1].Results[0].RiskLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreeningListCompletedByStudentWithoutScreenings(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScreeningRepository(db)

	mock.ExpectQuery("ORDER BY s.application_date DESC").
		WithArgs("st-9", "CONCLUIDO").
		WillReturnRows(sqlmock.NewRows([]string{"id", "application_date", "instrument_name", "category"}))

	items, err := repo.ListCompletedByStudent(context.Background(), "st-9")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreeningCountByStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScreeningRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS total FROM screenings GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "total"}).AddRow("CONCLUIDO", 7).AddRow("EM_ANDAMENTO", 2))

	items, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
