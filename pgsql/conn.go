package pgsql

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/kzaag/dpsql/rdbms"
)

// NewConn runs pgsql queries over a database/sql handle.
func NewConn(db rdbms.Execer) *rdbms.Conn {
	return rdbms.NewConn(db, StmtNew())
}

// PoolConn runs pgsql queries over a pgx pool.
type PoolConn struct {
	Pool *pgxpool.Pool
	Stmt *rdbms.StmtCtx
	// database/sql view of Pool, used for introspection
	db *sql.DB
}

func NewPoolConn(pool *pgxpool.Pool) *PoolConn {
	return &PoolConn{
		Pool: pool,
		Stmt: StmtNew(),
		db:   stdlib.OpenDBFromPool(pool),
	}
}

func (c *PoolConn) Run(ctx context.Context, q *rdbms.Query[rdbms.ColumnDef]) error {
	script, err := c.Stmt.Script(q)
	if err != nil {
		return err
	}
	return rdbms.ExecScript(ctx, c.Exec, script)
}

func (c *PoolConn) Script(q *rdbms.Query[rdbms.ColumnDef]) (string, error) {
	return c.Stmt.Script(q)
}

func (c *PoolConn) Exec(ctx context.Context, stmt string) error {
	_, err := c.Pool.Exec(ctx, stmt)
	return err
}

func (c *PoolConn) Remote(ctx context.Context, table string) (*rdbms.Table, error) {
	return Remote(ctx, c.db, table)
}

func (c *PoolConn) Ping(ctx context.Context) error {
	return c.Pool.Ping(ctx)
}

func (c *PoolConn) Close() error {
	err := c.db.Close()
	c.Pool.Close()
	return err
}
