package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/storefront-api/internal/store"
)

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (m mockResult) RowsAffected() (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.rowsAffected, nil
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
		contains string
	}{
		{
			name:     "sql_no_rows",
			err:      sql.ErrNoRows,
			expected: store.ErrNotFound,
		},
		{
			name:     "unique_violation",
			err:      &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_email_key"},
			expected: store.ErrDuplicate,
		},
		{
			name:     "foreign_key_violation",
			err:      &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "products_category_id_fkey"},
			expected: store.ErrInvalidEntity,
			contains: "products_category_id_fkey",
		},
		{
			name:     "check_constraint_violation",
			err:      &pgconn.PgError{Code: checkViolationCode, ConstraintName: "products_price_check"},
			expected: store.ErrInvalidEntity,
			contains: "check constraint violation",
		},
		{
			name:     "not_null_violation",
			err:      &pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"},
			expected: store.ErrInvalidEntity,
			contains: "title",
		},
		{
			name:     "numeric_out_of_range",
			err:      &pgconn.PgError{Code: numericOutOfRangeCode},
			expected: store.ErrInvalidEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			require.Error(t, mapped)
			assert.ErrorIs(t, mapped, tt.expected)
			if tt.contains != "" {
				assert.Contains(t, mapped.Error(), tt.contains)
			}
		})
	}

	t.Run("nil_error", func(t *testing.T) {
		assert.NoError(t, MapError(nil))
	})

	t.Run("unmapped_error_keeps_cause_and_gains_stack", func(t *testing.T) {
		original := errors.New("connection refused")
		mapped := MapError(original)
		assert.ErrorIs(t, mapped, original)
		assert.Equal(t, "connection refused", mapped.Error())

		type stackTracer interface{ StackTrace() pkgerrors.StackTrace }
		_, hasStack := mapped.(stackTracer)
		assert.True(t, hasStack)
	})
}

func TestViolationHelpers(t *testing.T) {
	unique := &pgconn.PgError{Code: uniqueViolationCode}
	fk := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(errors.New("plain")))
}

func TestCheckRowsAffected(t *testing.T) {
	assert.NoError(t, CheckRowsAffected(mockResult{rowsAffected: 1}, store.ErrUserNotFound))
	assert.ErrorIs(t, CheckRowsAffected(mockResult{}, store.ErrUserNotFound), store.ErrUserNotFound)
	assert.ErrorIs(t, CheckRowsAffected(mockResult{}, nil), store.ErrNotFound)

	err := CheckRowsAffected(mockResult{err: errors.New("driver")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get rows affected")

	assert.Error(t, CheckRowsAffected(nil, nil))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "plain", escapeLike("plain"))
	assert.Equal(t, `50\%`, escapeLike("50%"))
	assert.Equal(t, `snake\_case`, escapeLike("snake_case"))
	assert.Equal(t, `back\\slash`, escapeLike(`back\slash`))
}
