// Package xpgx glues squirrel builders, scany scanning and pgx together.
package xpgx

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ougirez/elections/internal/pkg/logger"
)

// Pool is the subset of database access the store needs. It is implemented
// both by the connection pool and by an open transaction.
type Pool interface {
	Getx(ctx context.Context, dst interface{}, sqlizer sq.Sqlizer) error
	Selectx(ctx context.Context, dst interface{}, sqlizer sq.Sqlizer) error
	Execx(ctx context.Context, sqlizer sq.Sqlizer) (pgconn.CommandTag, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	// InTx runs fn inside a transaction. Nested calls use savepoints.
	InTx(ctx context.Context, fn func(Pool) error) error
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type pool struct {
	db querier
}

func Wrap(db *pgxpool.Pool) Pool {
	return &pool{db: db}
}

func (p *pool) Getx(ctx context.Context, dst interface{}, sqlizer sq.Sqlizer) error {
	query, args, err := sqlizer.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	return pgxscan.Get(ctx, p.db, dst, query, args...)
}

func (p *pool) Selectx(ctx context.Context, dst interface{}, sqlizer sq.Sqlizer) error {
	query, args, err := sqlizer.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	return pgxscan.Select(ctx, p.db, dst, query, args...)
}

func (p *pool) Execx(ctx context.Context, sqlizer sq.Sqlizer) (pgconn.CommandTag, error) {
	query, args, err := sqlizer.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("build query: %w", err)
	}

	return p.db.Exec(ctx, query, args...)
}

func (p *pool) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return p.db.Exec(ctx, sql, args...)
}

func (p *pool) InTx(ctx context.Context, fn func(Pool) error) error {
	return pgx.BeginFunc(ctx, p.db, func(tx pgx.Tx) error {
		return fn(&pool{db: tx})
	})
}

type Config struct {
	DSN            string
	MaxConns       int32
	ConnectTimeout time.Duration
}

// Connect opens a pool and pings it, retrying with exponential backoff until
// ConnectTimeout elapses.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = cfg.ConnectTimeout

	var db *pgxpool.Pool
	operation := func() error {
		candidate, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return err
		}
		if err = candidate.Ping(ctx); err != nil {
			candidate.Close()
			return err
		}
		db = candidate
		return nil
	}
	notify := func(err error, next time.Duration) {
		logger.Warnf(ctx, "postgres is not reachable yet, retrying in %s: %s", next, err.Error())
	}

	if err = backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return db, nil
}
