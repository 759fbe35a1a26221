package db

import (
	"context"
	"fmt"
	"time"

	"food-ordering/internal/xpkg/config"
	xerrors "food-ordering/internal/xpkg/errors"
	"food-ordering/internal/xpkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Conn is the subset of pgxpool.Pool used by repositories and migrations.
type Conn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type DB struct {
	ctx   context.Context
	cfg   *config.Postgres
	mylog logger.Logger
	pool  *pgxpool.Pool
}

// Start opens a connection pool and verifies it with a ping.
func Start(ctx context.Context, dbCfg *config.Postgres, mylog logger.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(dbCfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if dbCfg.MaxConns > 0 {
		poolCfg.MaxConns = dbCfg.MaxConns
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrDBConn, err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %v", xerrors.ErrDBConn, err)
	}

	mylog.Action("db_connected").Info("Connected to PostgreSQL", "host", dbCfg.Host, "database", dbCfg.Database)
	return &DB{
		ctx:   ctx,
		cfg:   dbCfg,
		mylog: mylog,
		pool:  pool,
	}, nil
}

func (d *DB) GetConn() Conn {
	return d.pool
}

// IsAlive pings the pool to verify the database is responsive.
func (d *DB) IsAlive(ctx context.Context) error {
	if d.pool == nil {
		return fmt.Errorf("%w: not initialized", xerrors.ErrDBConn)
	}
	if err := d.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", xerrors.ErrDBConn, err)
	}
	return nil
}

// Close releases every pooled connection.
func (d *DB) Close() error {
	if d.pool != nil {
		d.pool.Close()
	}
	return nil
}
