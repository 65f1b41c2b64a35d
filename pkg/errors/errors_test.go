package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	err := NotFound("Rastreio com ID %s não encontrado", "abc")
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "Rastreio com ID abc não encontrado", err.Message)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("outer: %w", err)))
	assert.False(t, IsValidation(err))
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.True(t, errors.Is(appErr, sql.ErrConnDone))
	assert.Nil(t, FromError(nil))
}

func TestInternalMessage(t *testing.T) {
	err := Internal(errors.New("boom"), "failed to list screenings")
	assert.Equal(t, "failed to list screenings: boom", err.Error())
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}
