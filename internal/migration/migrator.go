package migration

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/purchasehub/internal/config"
	"github.com/Additional-Code/purchasehub/internal/database"
)

//go:embed sql
var migrations embed.FS

// Module provides the Migrator to Fx.
var Module = fx.Provide(New)

// Migrator applies the embedded schema for the SQL drivers. Document stores
// (mongo, file) have no schema and every call is a no-op for them.
type Migrator struct {
	provider *goose.Provider
	logger   *zap.Logger
}

// New builds a goose provider over sql/<dialect>.
func New(cfg config.Config, conns *database.Connections, logger *zap.Logger) (*Migrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Database.SQL() {
		return &Migrator{logger: logger}, nil
	}

	dialect, err := gooseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	fsys, err := fs.Sub(migrations, path.Join("sql", string(dialect)))
	if err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(dialect, conns.Writer.DB, fsys)
	if err != nil {
		return nil, fmt.Errorf("load %s migrations: %w", dialect, err)
	}
	return &Migrator{provider: provider, logger: logger}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	if m.provider == nil {
		m.logger.Info("storage driver has no schema; skipping migrations")
		return nil
	}

	results, err := m.provider.Up(ctx)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		m.logger.Info("schema up to date")
		return nil
	}
	for _, r := range results {
		m.logger.Info("migration applied",
			zap.Int64("version", r.Source.Version),
			zap.Duration("took", r.Duration),
		)
	}
	return nil
}

// Down rolls back steps migrations (at least one), or all of them.
func (m *Migrator) Down(ctx context.Context, steps int, all bool) error {
	if m.provider == nil {
		m.logger.Info("storage driver has no schema; skipping rollback")
		return nil
	}

	if all {
		results, err := m.provider.DownTo(ctx, 0)
		if err != nil {
			return err
		}
		m.logger.Info("schema rolled back", zap.Int("migrations", len(results)))
		return nil
	}

	steps = max(steps, 1)
	rolled := 0
	for ; rolled < steps; rolled++ {
		_, err := m.provider.Down(ctx)
		if errors.Is(err, goose.ErrNoNextVersion) {
			break
		}
		if err != nil {
			return err
		}
	}
	m.logger.Info("schema rolled back", zap.Int("migrations", rolled))
	return nil
}

// Version reports the schema version, zero for schemaless drivers.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	if m.provider == nil {
		return 0, nil
	}
	return m.provider.GetDBVersion(ctx)
}

func gooseDialect(driver string) (goose.Dialect, error) {
	switch driver {
	case "postgres", "pg":
		return goose.DialectPostgres, nil
	case "mysql":
		return goose.DialectMySQL, nil
	case "sqlite", "sqlite3":
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("unsupported goose dialect for driver %s", driver)
	}
}
