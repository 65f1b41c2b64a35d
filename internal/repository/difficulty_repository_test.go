package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mtss-api/internal/models"
)

const upsertAssociationSQL = "(?s)INSERT INTO difficulty_interventions.+ON CONFLICT \\(difficulty_id, base_intervention_id\\) DO UPDATE.+RETURNING id, \\(xmax = 0\\) AS created"

func TestUpsertAssociationInsertsNewPair(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDifficultyRepository(db)

	mock.ExpectQuery(upsertAssociationSQL).
		WithArgs(sqlmock.AnyArg(), "d-1", "bi-1", 4, nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created"}).AddRow("assoc-new", true))

	assoc := &models.DifficultyIntervention{DifficultyID: "d-1", BaseInterventionID: "bi-1", Effectiveness: 4}
	created, err := repo.UpsertAssociation(context.Background(), assoc)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "assoc-new", assoc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertAssociationUpdatesExistingPair(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDifficultyRepository(db)

	notes := "funciona melhor em grupos pequenos"
	mock.ExpectQuery(upsertAssociationSQL).
		WithArgs(sqlmock.AnyArg(), "d-1", "bi-1", 5, notes, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created"}).AddRow("assoc-1", false))

	assoc := &models.DifficultyIntervention{DifficultyID: "d-1", BaseInterventionID: "bi-1", Effectiveness: 5, Notes: &notes}
	created, err := repo.UpsertAssociation(context.Background(), assoc)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "assoc-1", assoc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A second first-time write for the same pair lands on the conflict branch
// instead of failing on the unique constraint.
func TestUpsertAssociationRepeatedPairKeepsOneRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDifficultyRepository(db)

	mock.ExpectQuery(upsertAssociationSQL).
		WithArgs(sqlmock.AnyArg(), "d-1", "bi-1", 2, nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created"}).AddRow("assoc-1", true))
	mock.ExpectQuery(upsertAssociationSQL).
		WithArgs(sqlmock.AnyArg(), "d-1", "bi-1", 5, nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created"}).AddRow("assoc-1", false))

	first := &models.DifficultyIntervention{DifficultyID: "d-1", BaseInterventionID: "bi-1", Effectiveness: 2}
	second := &models.DifficultyIntervention{DifficultyID: "d-1", BaseInterventionID: "bi-1", Effectiveness: 5}

	created, err := repo.UpsertAssociation(context.Background(), first)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repo.UpsertAssociation(context.Background(), second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByInterventionOrdersByEffectiveness(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDifficultyRepository(db)

	now := time.Now()
	cols := []string{"id", "difficulty_id", "base_intervention_id", "effectiveness", "notes", "created_at", "updated_at",
		"difficulty_name", "difficulty_category", "intervention_name", "intervention_area", "intervention_level"}
	rows := sqlmock.NewRows(cols).
		AddRow("a-1", "d-1", "bi-1", 5, nil, now, now, "Dislexia", "LEITURA", "Leitura guiada", "LEITURA", "TIER_2").
		AddRow("a-2", "d-2", "bi-1", 3, nil, now, now, "TDAH", "ATENCAO", "Leitura guiada", "LEITURA", "TIER_2")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE di.base_intervention_id = $1\nORDER BY di.effectiveness DESC, di.created_at ASC")).
		WithArgs("bi-1").
		WillReturnRows(rows)

	items, err := repo.ListByIntervention(context.Background(), "bi-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Dislexia", items[0].Difficulty.Name)
	assert.Equal(t, "TIER_2", items[1].Intervention.Level)
	assert.NoError(t, mock.ExpectationsWereMet())
}
