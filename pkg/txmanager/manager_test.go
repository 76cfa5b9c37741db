package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kameqazi1/Manaakhah-sub002/pkg/dbmetrics"
)

type fakeTx struct {
	commitErr  error
	committed  bool
	rolledBack bool
	serialFail bool
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

func (t *fakeTx) SerializationFailed() bool { return t.serialFail }

type fakeBeginner struct {
	txs  []*fakeTx
	opts []*sql.TxOptions
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx := &fakeTx{}
	if len(b.txs) > len(b.opts) {
		tx = b.txs[len(b.opts)]
	}
	b.opts = append(b.opts, opts)
	return tx, nil
}

func TestDo_CommitsAndPassesTxInContext(t *testing.T) {
	tx := &fakeTx{}
	m := NewTransactionManager(&fakeBeginner{txs: []*fakeTx{tx}}, nil)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestDo_RollsBackOnError(t *testing.T) {
	tx := &fakeTx{}
	m := NewTransactionManager(&fakeBeginner{txs: []*fakeTx{tx}}, nil)
	boom := errors.New("boom")

	err := m.Do(context.Background(), func(ctx context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestDoSerializable_RetriesOnceOnSerializationFailure(t *testing.T) {
	first := &fakeTx{commitErr: &pq.Error{Code: dbmetrics.CodeSerializationFailure}}
	second := &fakeTx{}
	beginner := &fakeBeginner{txs: []*fakeTx{first, second}}
	m := NewTransactionManager(beginner, nil)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, second.committed)
	require.Len(t, beginner.opts, 2)
	assert.Equal(t, sql.LevelSerializable, beginner.opts[0].Isolation)
}

func TestDoSerializable_RetriesWhenTxReportsFailure(t *testing.T) {
	first := &fakeTx{serialFail: true}
	second := &fakeTx{}
	m := NewTransactionManager(&fakeBeginner{txs: []*fakeTx{first, second}}, nil)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			// ошибка обернута через %v, цепочка pq.Error потеряна
			return errors.New("internal: could not serialize access")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoSerializable_GivesUpAfterRetry(t *testing.T) {
	serial := &pq.Error{Code: dbmetrics.CodeSerializationFailure}
	m := NewTransactionManager(&fakeBeginner{}, nil)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return serial
	})
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestNestedCallReusesTransaction(t *testing.T) {
	beginner := &fakeBeginner{}
	m := NewTransactionManager(beginner, nil)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, func(ctx context.Context) error { return nil })
	})
	require.NoError(t, err)
	assert.Len(t, beginner.opts, 1)
}
