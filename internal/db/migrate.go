package db

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations brings the schema and seed catalog up to date. It is safe
// to call on every start.
func RunMigrations(dsn string, logger *zap.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("connect migrator: %w", err)
	}
	m.Log = migrateLogger{logger.Named("migrate").Sugar()}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warn("close migrator", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()

	before, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("schema up to date", zap.Uint("version", before))
		return nil
	case err != nil:
		return fmt.Errorf("migrate up from version %d: %w", before, err)
	}

	after, dirty, _ := m.Version()
	logger.Info("schema migrated", zap.Uint("from", before), zap.Uint("to", after), zap.Bool("dirty", dirty))
	return nil
}

// migrateLogger routes golang-migrate's progress lines to zap.
type migrateLogger struct {
	s *zap.SugaredLogger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.s.Infof(strings.TrimRight(format, "\n"), v...)
}

func (l migrateLogger) Verbose() bool { return false }
