package booking

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnexpectedQuery = errors.New("unexpected query")

// countingExecutor fails every call and remembers how many were made.
type countingExecutor struct {
	calls int
}

func (e *countingExecutor) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	e.calls++
	return nil, errUnexpectedQuery
}

func (e *countingExecutor) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	e.calls++
	return nil, errUnexpectedQuery
}

func (e *countingExecutor) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	e.calls++
	return nil
}

func TestGetByID_MalformedIDIsNotFound(t *testing.T) {
	tests := []string{"abc", "", "123", "not-a-uuid-at-all", "00000000-0000-0000-0000-00000000000g"}

	for _, id := range tests {
		t.Run(id, func(t *testing.T) {
			db := &countingExecutor{}
			repo := NewRepository(db)

			booking, err := repo.GetByID(context.Background(), id)

			require.ErrorIs(t, err, ErrBookingNotFound)
			assert.Nil(t, booking)
			assert.Zero(t, db.calls)
		})
	}
}
