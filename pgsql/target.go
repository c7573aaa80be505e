package pgsql

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"github.com/kzaag/dpsql/rdbms"
	"github.com/kzaag/dpsql/target"
)

func TargetGetCS(t *target.Target) (string, error) {

	if t.ConnectionString != "" {
		return t.ConnectionString, nil
	}

	password, err := t.GetPassword()
	if err != nil {
		return "", err
	}

	cs := ""
	add := func(k, v string) {
		if v == "" {
			return
		}
		if cs != "" {
			cs += " "
		}
		cs += fmt.Sprintf("%s=%s", k, v)
	}

	add("host", t.Host())
	add("user", t.User)
	add("password", password)
	add("dbname", t.Database)

	keys := make([]string, 0, len(t.Args))
	for k := range t.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(k, t.Args[k])
	}

	return cs, nil
}

func TargetGetDB(t *target.Target) (target.DB[rdbms.ColumnDef], error) {
	cs, err := TargetGetCS(t)
	if err != nil {
		return nil, err
	}
	db, err := target.OpenSQL("postgres", cs, StmtNew(), Remote)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func TargetGetPool(t *target.Target) (target.DB[rdbms.ColumnDef], error) {
	cs, err := TargetGetCS(t)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(context.Background(), cs)
	if err != nil {
		return nil, err
	}
	return NewPoolConn(pool), nil
}

// TargetCtxNew uses lib/pq.
func TargetCtxNew() *target.Ctx[rdbms.ColumnDef] {
	return &target.Ctx[rdbms.ColumnDef]{
		DbNew:         TargetGetDB,
		Definer:       rdbms.Defs{},
		ColumnType:    StmtColumnType,
		ColumnDefault: StmtColumnDefault,
		DbSuffix:      ".sql",
	}
}

// PoolTargetCtxNew uses pgx.
func PoolTargetCtxNew() *target.Ctx[rdbms.ColumnDef] {
	ctx := TargetCtxNew()
	ctx.DbNew = TargetGetPool
	return ctx
}
