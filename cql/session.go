package cql

import (
	"context"

	"github.com/gocql/gocql"

	"github.com/kzaag/dpsql/rdbms"
)

// Session runs CQL queries. Cassandra accepts one statement per request,
// so scripts are split and sent one by one.
type Session struct {
	Session  *gocql.Session
	Stmt     *StmtCtx
	Keyspace string
}

func NewSession(sess *gocql.Session, keyspace string) *Session {
	return &Session{Session: sess, Stmt: StmtNew(), Keyspace: keyspace}
}

func (s *Session) Run(ctx context.Context, q *rdbms.Query[ColumnDef]) error {
	script, err := s.Stmt.Script(q)
	if err != nil {
		return err
	}
	return s.Exec(ctx, script)
}

func (s *Session) Script(q *rdbms.Query[ColumnDef]) (string, error) {
	return s.Stmt.Script(q)
}

func (s *Session) query(ctx context.Context, stmt string) error {
	return s.Session.Query(stmt).WithContext(ctx).Exec()
}

func (s *Session) Exec(ctx context.Context, stmt string) error {
	return rdbms.ExecScript(ctx, s.query, stmt)
}

func (s *Session) Remote(ctx context.Context, table string) (*rdbms.Table, error) {
	return Remote(ctx, s.Session, s.Keyspace, table)
}

func (s *Session) Ping(ctx context.Context) error {
	return s.query(ctx, "select release_version from system.local")
}

func (s *Session) Close() error {
	s.Session.Close()
	return nil
}
