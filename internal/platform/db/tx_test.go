package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ====================
// FAKES
// ====================

type fakeTx struct {
	commits   int
	rollbacks int
	commitErr error
}

func (f *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return f, nil }

func (f *fakeTx) Commit(ctx context.Context) error {
	f.commits++
	return f.commitErr
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	f.rollbacks++
	return pgx.ErrTxClosed
}

func (f *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (f *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }

func (f *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (f *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (f *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func (f *fakeTx) Conn() *pgx.Conn { return nil }

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
}

func (f *fakeBeginner) BeginTx(ctx context.Context, _ pgx.TxOptions) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

// ====================
// TESTS
// ====================

func TestWithTxCommits(t *testing.T) {
	tx := &fakeTx{}
	err := withTx(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, tx.commits)
	// The deferred rollback still fires after commit; pgx treats it as a no-op.
	assert.Equal(t, 1, tx.rollbacks)
}

func TestWithTxRollsBackOnCallbackError(t *testing.T) {
	tx := &fakeTx{}
	boom := errors.New("boom")
	err := withTx(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestWithTxRollsBackOnCallbackPanic(t *testing.T) {
	tx := &fakeTx{}
	assert.Panics(t, func() {
		_ = withTx(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error {
			panic("boom")
		})
	})
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestWithTxWrapsCommitError(t *testing.T) {
	tx := &fakeTx{commitErr: errors.New("connection reset")}
	err := withTx(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error {
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit tx")
	assert.Equal(t, 1, tx.rollbacks)
}

func TestWithTxBeginError(t *testing.T) {
	err := withTx(context.Background(), &fakeBeginner{beginErr: errors.New("pool closed")}, func(pgx.Tx) error {
		t.Fatal("callback must not run")
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin tx")
}
