package mssql

import (
	"fmt"
	"sort"

	_ "github.com/denisenkom/go-mssqldb"

	"github.com/kzaag/dpsql/rdbms"
	"github.com/kzaag/dpsql/target"
)

// NewConn runs mssql queries over a database/sql handle.
func NewConn(db rdbms.Execer) *rdbms.Conn {
	return rdbms.NewConn(db, StmtNew())
}

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
		if v != "" {
			cs += fmt.Sprintf("%s=%s;", k, v)
		}
	}

	add("server", t.Host())
	add("user id", t.User)
	add("password", password)
	add("database", t.Database)

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
	db, err := target.OpenSQL("sqlserver", cs, StmtNew(), Remote)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func TargetCtxNew() *target.Ctx[rdbms.ColumnDef] {
	return &target.Ctx[rdbms.ColumnDef]{
		DbNew:         TargetGetDB,
		Definer:       rdbms.Defs{},
		ColumnType:    StmtColumnType,
		ColumnDefault: StmtColumnDefault,
		DbSuffix:      ".sql",
	}
}
