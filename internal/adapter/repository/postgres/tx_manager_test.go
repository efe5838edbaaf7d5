package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create pgxmock pool")
	t.Cleanup(pool.Close)
	return pool
}

func TestTxManagerBeginAndCommit(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectBegin()
	pool.ExpectCommit()

	manager := newTxManagerWithPool(pool)
	tx, err := manager.Begin(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tx)

	require.NoError(t, tx.Commit(context.Background()))
	require.NoError(t, pool.ExpectationsWereMet())
}

func TestTxManagerBeginError(t *testing.T) {
	pool := newMockPool(t)
	beginErr := errors.New("begin failed")
	pool.ExpectBegin().WillReturnError(beginErr)

	manager := newTxManagerWithPool(pool)
	tx, err := manager.Begin(context.Background())
	require.ErrorIs(t, err, beginErr)
	require.Nil(t, tx)
}

func TestTxManagerRollback(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectBegin()
	pool.ExpectRollback()

	manager := newTxManagerWithPool(pool)
	tx, err := manager.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, tx.Rollback(context.Background()))
	require.NoError(t, pool.ExpectationsWereMet())
}

// Repositories unwrap the transaction to reach pgx directly; the concrete
// type must keep exposing the underlying pgx.Tx.
func TestTxExposesPgxTx(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectBegin()

	manager := newTxManagerWithPool(pool)
	tx, err := manager.Begin(context.Background())
	require.NoError(t, err)

	pgxTx, ok := tx.(*Tx)
	require.True(t, ok, "Begin should return *Tx")
	require.NotNil(t, pgxTx.PgxTx())
	require.NotNil(t, txQuerier(tx))
}
