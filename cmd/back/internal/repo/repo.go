package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"weconnect/cmd/back/internal/app"
	"weconnect/internal/logger"
	"weconnect/internal/metrics"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Repository - реализация app.Store поверх GORM.
// Внутри Tx все методы работают с той же транзакцией.
type Repository struct {
	db *gorm.DB
}

var _ app.Store = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Open оборачивает пул database/sql (драйвер lib/pq) в GORM с диалектом postgres
func Open(rawDB *sql.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: rawDB}), Config())
}

// Config - общие настройки GORM. Транзакциями управляет Repository.Tx
func Config() *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	}
}

func (r *Repository) Tx(ctx context.Context, reason string, fn func(tx app.Store) error) error {
	log := logger.FromContext(ctx)

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction (%s): %w", reason, tx.Error)
	}

	committed := false
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			metrics.TransactionsTotal.WithLabelValues(reason, "panic").Inc()
			log.Error("panic in transaction", "reason", reason, "panic", p)
			panic(p)
		}
		if committed {
			return
		}
		if err := tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Warn("transaction rollback error", "reason", reason, "err", err)
		}
		metrics.TransactionsTotal.WithLabelValues(reason, "rollback").Inc()
	}()

	if err := fn(&Repository{db: tx}); err != nil {
		log.Debug("transaction aborted", "reason", reason, "err", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction (%s): %w", reason, err)
	}
	committed = true
	metrics.TransactionsTotal.WithLabelValues(reason, "commit").Inc()
	return nil
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// translate приводит ошибки драйверов к app.ErrNotFound / app.ErrDuplicate
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, app.ErrNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w: %v", op, app.ErrDuplicate, err)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: %w: %v", op, app.ErrReferenceMissing, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// sqlite (тесты)
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// violatedConstraint - имя нарушенного ограничения (postgres) или колонки (sqlite), если известно
func violatedConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	if _, cols, ok := strings.Cut(err.Error(), "UNIQUE constraint failed: "); ok {
		return cols
	}
	return ""
}

// affected превращает "ничего не изменено" в app.ErrNotFound
func affected(op string, res *gorm.DB) error {
	if res.Error != nil {
		return translate(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, app.ErrNotFound)
	}
	return nil
}
