package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the statement surface shared by the pool, a single connection
// and an open transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Tx interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Conn is a connection checked out of the pool. Release must be called
// exactly once.
type Conn interface {
	Begin(ctx context.Context) (Tx, error)
	Release()
}

type Provider interface {
	Acquire(ctx context.Context) (Conn, error)
}

type PoolProvider struct{ Pool *pgxpool.Pool }

func NewProvider(pool *pgxpool.Pool) *PoolProvider { return &PoolProvider{Pool: pool} }

func (p *PoolProvider) Acquire(ctx context.Context) (Conn, error) {
	c, err := p.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: acquire: %w", err)
	}
	return &poolConn{c: c}, nil
}

type poolConn struct{ c *pgxpool.Conn }

func (pc *poolConn) Begin(ctx context.Context) (Tx, error) {
	tx, err := pc.c.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: begin tx: %w", err)
	}
	return tx, nil
}

func (pc *poolConn) Release() { pc.c.Release() }
