package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	t.Run("matches unique violation code", func(t *testing.T) {
		err := &pgconn.PgError{Code: pgUniqueViolationCode}
		assert.True(t, isUniqueViolation(err))
	})

	t.Run("matches wrapped errors", func(t *testing.T) {
		err := fmt.Errorf("insert failed: %w", &pgconn.PgError{Code: pgUniqueViolationCode})
		assert.True(t, isUniqueViolation(err))
	})

	t.Run("other codes do not match", func(t *testing.T) {
		assert.False(t, isUniqueViolation(&pgconn.PgError{Code: pgForeignKeyViolationCode}))
	})

	t.Run("non-postgres errors do not match", func(t *testing.T) {
		assert.False(t, isUniqueViolation(errors.New("boom")))
	})
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	t.Run("matches foreign key violation code", func(t *testing.T) {
		err := &pgconn.PgError{Code: pgForeignKeyViolationCode}
		assert.True(t, isForeignKeyViolation(err))
	})

	t.Run("other codes do not match", func(t *testing.T) {
		assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: pgUniqueViolationCode}))
	})
}
