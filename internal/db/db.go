package db

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-meercat/internal/apperr"
	"go-meercat/internal/metrics"
	"go-meercat/internal/models"
)

// Store owns the catalog connection. Callers never hold a *gorm.DB across
// requests; every unit of work goes through WithTx.
type Store struct {
	db      *gorm.DB
	timeout time.Duration
}

type Option func(*Store)

// WithTimeout bounds every transaction opened by the store.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// Open connects to a postgres URL or, for anything else, a sqlite file, and
// migrates the catalog tables.
func Open(dsn string, opts ...Option) (*Store, error) {
	conn, err := gorm.Open(dialector(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if conn.Dialector.Name() == "sqlite" {
		// A single connection keeps in-memory databases alive and avoids
		// SQLITE_BUSY between concurrent transactions.
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get sql handle")
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := conn.AutoMigrate(&models.Switch{}, &models.Mapping{}, &models.User{}); err != nil {
		return nil, errors.Wrap(err, "migration failed")
	}

	s := &Store{db: conn}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func dialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgres.Open(dsn)
	}
	return sqlite.Open(sqliteDSN(dsn))
}

// sqliteDSN turns on case-sensitive LIKE so exact pattern matches behave the
// same as on postgres.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_cslike") || strings.Contains(dsn, "_case_sensitive_like") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_cslike=true"
}

// WithTx runs fn inside one transaction: commit when fn returns nil,
// rollback on error or panic. Errors that are not domain errors come back
// wrapped in apperr.ErrTransient.
func (s *Store) WithTx(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err := s.db.WithContext(ctx).Transaction(fn)
	if err == nil || apperr.Domain(err) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(apperr.ErrNotFound, op)
	}

	metrics.StoreErrors.WithLabelValues(op).Inc()
	log.Error().Err(err).Str("op", op).Msg("store transaction failed")
	return errors.Wrapf(apperr.ErrTransient, "%s: %v", op, err)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
