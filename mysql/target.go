package mysql

import (
	"net"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/kzaag/dpsql/rdbms"
	"github.com/kzaag/dpsql/target"
)

// NewConn runs mysql queries over a database/sql handle.
func NewConn(db rdbms.Execer) *rdbms.Conn {
	return rdbms.NewConn(db, StmtNew())
}

/*
	TargetGetCS builds the dsn from target fields.
	target args are passed as dsn parameters, "port" is joined with the server.
	Multi statements are always enabled so script files run in one call.
*/
func TargetGetCS(t *target.Target) (string, error) {
	if t.ConnectionString != "" {
		return t.ConnectionString, nil
	}

	password, err := t.GetPassword()
	if err != nil {
		return "", err
	}

	cfg := gomysql.NewConfig()
	cfg.User = t.User
	cfg.Passwd = password
	cfg.DBName = t.Database
	cfg.MultiStatements = true

	if host := t.Host(); host != "" {
		cfg.Net = "tcp"
		cfg.Addr = host
		if port, ok := t.Args["port"]; ok {
			cfg.Addr = net.JoinHostPort(host, port)
		}
	}

	for k, v := range t.Args {
		if k == "port" {
			continue
		}
		if cfg.Params == nil {
			cfg.Params = map[string]string{}
		}
		cfg.Params[k] = v
	}

	return cfg.FormatDSN(), nil
}

func TargetGetDB(t *target.Target) (target.DB[rdbms.ColumnDef], error) {
	cs, err := TargetGetCS(t)
	if err != nil {
		return nil, err
	}
	db, err := target.OpenSQL("mysql", cs, StmtNew(), Remote)
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
