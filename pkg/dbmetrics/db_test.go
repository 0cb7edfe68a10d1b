package dbmetrics

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorderStub struct {
	mu         sync.Mutex
	operations []string
}

func (r *recorderStub) RecordDBQuery(operation string, _ time.Duration, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations = append(r.operations, operation)
}

func (r *recorderStub) SetDBStats(sql.DBStats) {}

func TestDB_RecordsOperations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := &recorderStub{}
	wrapped := Wrap(db, rec, "test")

	mock.ExpectExec("UPDATE appointments").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectCommit()

	ctx := context.Background()
	_, err = wrapped.ExecContext(ctx, "UPDATE appointments SET status = $1", "confirmed")
	require.NoError(t, err)

	tx, err := wrapped.BeginTx(ctx, nil)
	require.NoError(t, err)
	var n int
	require.NoError(t, tx.QueryRowContext(ctx, "SELECT 1").Scan(&n))
	require.NoError(t, tx.Commit())

	assert.Equal(t, []string{"update", "select", "commit"}, rec.operations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExecutor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	plain := NewPlain(db)
	ctx := context.Background()
	assert.False(t, IsInTransaction(ctx))
	assert.Equal(t, DBExecutor(plain), GetExecutor(ctx, plain))

	mock.ExpectBegin()
	mock.ExpectRollback()
	tx, err := plain.BeginTx(ctx, nil)
	require.NoError(t, err)

	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Equal(t, DBExecutor(tx), GetExecutor(txCtx, plain))

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
