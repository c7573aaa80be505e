package rdbms

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
)

// Execer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Querier is what remote introspection needs, satisfied by *sql.DB.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Conn runs relational queries: Stmt serializes, DB executes.
type Conn struct {
	DB   Execer
	Stmt *StmtCtx
}

func NewConn(db Execer, stmt *StmtCtx) *Conn {
	return &Conn{DB: db, Stmt: stmt}
}

// Run executes every statement of the serialized query in order
// and stops at the first failure. errors.Cause returns the driver error.
func (c *Conn) Run(ctx context.Context, q *Query[ColumnDef]) error {
	script, err := c.Stmt.Script(q)
	if err != nil {
		return err
	}
	return ExecScript(ctx, c.Exec, script)
}

// Script is the dry-run form of Run.
func (c *Conn) Script(q *Query[ColumnDef]) (string, error) {
	return c.Stmt.Script(q)
}

func (c *Conn) Exec(ctx context.Context, stmt string) error {
	_, err := c.DB.ExecContext(ctx, stmt)
	return err
}

/*
	SplitScript splits a ";\n" terminated script and drops blank statements.
	It does not know about quotes: a literal holding ";" followed by a newline,
	in a default or a stmt exec, is cut in two.
*/
func SplitScript(script string) []string {
	parts := strings.Split(script, ";\n")
	ret := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		ret = append(ret, p)
	}
	return ret
}

func ExecScript(ctx context.Context, exec func(context.Context, string) error, script string) error {
	for _, stmt := range SplitScript(script) {
		if err := exec(ctx, stmt); err != nil {
			return errors.WithMessagef(err, "executing %q", stmt)
		}
	}
	return nil
}
