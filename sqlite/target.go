package sqlite

import (
	"net/url"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kzaag/dpsql/rdbms"
	"github.com/kzaag/dpsql/target"
)

// NewConn runs sqlite queries over a database/sql handle.
func NewConn(db rdbms.Execer) *rdbms.Conn {
	return rdbms.NewConn(db, StmtNew())
}

// TargetGetCS uses the database field as the file name,
// target args become go-sqlite3 dsn parameters, like _fk=1.
func TargetGetCS(t *target.Target) (string, error) {
	if t.ConnectionString != "" {
		return t.ConnectionString, nil
	}

	cs := "file:" + t.Database
	if len(t.Args) > 0 {
		v := url.Values{}
		for k, a := range t.Args {
			v.Set(k, a)
		}
		cs += "?" + v.Encode()
	}

	return cs, nil
}

func TargetGetDB(t *target.Target) (target.DB[rdbms.ColumnDef], error) {
	cs, err := TargetGetCS(t)
	if err != nil {
		return nil, err
	}
	db, err := target.OpenSQL("sqlite3", cs, StmtNew(), Remote)
	if err != nil {
		return nil, err
	}
	// in-memory databases live as long as their connection
	db.Handle.SetMaxOpenConns(1)
	return db, nil
}

func TargetCtxNew() *target.Ctx[rdbms.ColumnDef] {
	return &target.Ctx[rdbms.ColumnDef]{
		DbNew:      TargetGetDB,
		Definer:    rdbms.Defs{},
		ColumnType: StmtColumnType,
		DbSuffix:   ".sql",
	}
}
