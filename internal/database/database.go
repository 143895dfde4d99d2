// Package database opens the storage backend selected by STORAGE_DRIVER.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/purchasehub/internal/config"
)

const pingTimeout = 5 * time.Second

// Connections holds the handles of one storage driver. Only the fields that
// belong to Driver are set.
type Connections struct {
	Driver  string
	Writer  *bun.DB
	Reader  *bun.DB
	Mongo   *mongo.Database
	FileDir string
}

var Module = fx.Provide(New)

// New opens cfg.Database and ties its health check and teardown to lc.
func New(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*Connections, error) {
	conns, err := Open(context.Background(), cfg.Database)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := conns.Ping(ctx); err != nil {
				return err
			}
			logger.Info("storage ready", zap.String("driver", conns.Driver))
			return nil
		},
		OnStop: conns.Close,
	})
	return conns, nil
}

// Open builds the handles without contacting the backend.
func Open(ctx context.Context, cfg config.Database) (*Connections, error) {
	conns := &Connections{Driver: cfg.Driver}
	switch cfg.Driver {
	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().
			ApplyURI(cfg.Mongo.URI).
			SetConnectTimeout(cfg.Mongo.ConnectTimeout))
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		conns.Mongo = client.Database(cfg.Mongo.Database)
	case "file":
		conns.FileDir = cfg.FileDir
	default:
		writer, reader, err := OpenSQL(cfg)
		if err != nil {
			return nil, err
		}
		conns.Writer, conns.Reader = writer, reader
	}
	return conns, nil
}

// Ping checks every handle. The file backend creates its directory instead.
func (c *Connections) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	switch {
	case c.Mongo != nil:
		if err := c.Mongo.Client().Ping(ctx, nil); err != nil {
			return fmt.Errorf("ping mongo: %w", err)
		}
	case c.Writer != nil:
		for role, db := range c.pools() {
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping %s: %w", role, err)
			}
		}
	case c.FileDir != "":
		if err := os.MkdirAll(c.FileDir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}
	return nil
}

// Close releases every handle and reports all failures.
func (c *Connections) Close(ctx context.Context) error {
	if c.Mongo != nil {
		return c.Mongo.Client().Disconnect(ctx)
	}
	var errs []error
	for role, db := range c.pools() {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", role, err))
		}
	}
	return errors.Join(errs...)
}

// pools lists the distinct SQL pools by role.
func (c *Connections) pools() map[string]*bun.DB {
	pools := make(map[string]*bun.DB, 2)
	if c.Writer != nil {
		pools["writer"] = c.Writer
	}
	if c.Reader != nil && c.Reader != c.Writer {
		pools["reader"] = c.Reader
	}
	return pools
}

// OpenSQL builds the writer and reader pools. Both are the same pool unless a
// distinct reader DSN is configured.
func OpenSQL(cfg config.Database) (writer, reader *bun.DB, err error) {
	dialect, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}

	writer, err = openPool(cfg, cfg.WriterDSN, dialect)
	if err != nil {
		return nil, nil, fmt.Errorf("open writer: %w", err)
	}
	if cfg.ReaderDSN == "" || cfg.ReaderDSN == cfg.WriterDSN {
		return writer, writer, nil
	}

	reader, err = openPool(cfg, cfg.ReaderDSN, dialect)
	if err != nil {
		_ = writer.Close()
		return nil, nil, fmt.Errorf("open reader: %w", err)
	}
	return writer, reader, nil
}

func openPool(cfg config.Database, dsn string, dialect schema.Dialect) (*bun.DB, error) {
	if dsn == "" {
		return nil, errors.New("empty DSN")
	}

	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case "postgres":
		db = sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	case "mysql":
		db, err = sql.Open("mysql", dsn)
	case "sqlite":
		db, err = sql.Open(sqliteshim.ShimName, dsn)
	}
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxConnLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	}
	return bun.NewDB(db, dialect), nil
}

func dialectFor(driver string) (schema.Dialect, error) {
	switch driver {
	case "postgres":
		return pgdialect.New(), nil
	case "mysql":
		return mysqldialect.New(), nil
	case "sqlite":
		return sqlitedialect.New(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
