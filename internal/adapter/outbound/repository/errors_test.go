package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(pgx.ErrNoRows))
	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsNotFoundError(errors.New("boom")))
}

func TestIsConstraintViolationError(t *testing.T) {
	assert.True(t, IsConstraintViolationError(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsConstraintViolationError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsConstraintViolationError(ErrAlreadyExists))
	assert.False(t, IsConstraintViolationError(&pgconn.PgError{Code: "42601"}))
	assert.False(t, IsConstraintViolationError(nil))
}

func TestWrapError_MapsUniqueViolationToAlreadyExists(t *testing.T) {
	err := WrapError(&pgconn.PgError{Code: "23505"}, "save project")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Contains(t, err.Error(), "save project")
}

func TestWrapError_MapsForeignKeyViolation(t *testing.T) {
	err := WrapError(&pgconn.PgError{Code: "23503"}, "save source unit")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForeignKeyViolation)
}

func TestWrapError_MapsNoRowsToNotFound(t *testing.T) {
	err := WrapError(pgx.ErrNoRows, "find project by ID")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWrapError_Nil(t *testing.T) {
	assert.NoError(t, WrapError(nil, "anything"))
}
