package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kameqazi1/Manaakhah-sub002/pkg/dbmetrics"
)

var (
	// ErrBeginTx возвращается, если не удалось открыть транзакцию
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается, если не удалось зафиксировать транзакцию
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")
)

// TxBeginner открывает транзакции (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// serializationReporter реализуется *dbmetrics.Tx
type serializationReporter interface {
	SerializationFailed() bool
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// DefaultSerializableRetries количество повторов при конфликте сериализации
const DefaultSerializableRetries = 1

// Manager выполняет функции внутри транзакции, передавая её через контекст
type Manager struct {
	db      TxBeginner
	retries int
	logger  Logger
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner, logger Logger) *Manager {
	return &Manager{
		db:      db,
		retries: DefaultSerializableRetries,
		logger:  logger,
	}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, nil, 0, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции.
// При конфликте сериализации (40001/40P01) транзакция повторяется.
func (m *Manager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, m.retries, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *Manager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, 0, fn)
}

func (m *Manager) run(ctx context.Context, opts *sql.TxOptions, retries int, fn func(ctx context.Context) error) error {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		var retry bool
		retry, err = m.once(ctx, opts, fn)
		if err == nil || !retry || attempt == retries {
			return err
		}
		if m.logger != nil {
			m.logger.Warn("txmanager: serialization failure, retrying (attempt %d): %v", attempt+1, err)
		}
	}
	return err
}

// once выполняет одну попытку. retry = true, если ошибка вызвана конфликтом сериализации.
func (m *Manager) once(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (retry bool, err error) {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return isRetryable(tx, err), err
	}

	if err := tx.Commit(); err != nil {
		return isRetryable(tx, err), fmt.Errorf("%w: %v", ErrCommitTx, err)
	}

	return false, nil
}

func isRetryable(tx dbmetrics.TxExecutor, err error) bool {
	if dbmetrics.IsSerializationFailure(err) {
		return true
	}
	if r, ok := tx.(serializationReporter); ok {
		return r.SerializationFailed()
	}
	return false
}
