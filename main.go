package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kzaag/dpsql/cmn"
	"github.com/kzaag/dpsql/cql"
	"github.com/kzaag/dpsql/mssql"
	"github.com/kzaag/dpsql/mysql"
	"github.com/kzaag/dpsql/pgsql"
	"github.com/kzaag/dpsql/sqlite"
	"github.com/kzaag/dpsql/target"
)

func run[C any](ctx *target.Ctx[C], c *target.Config, args *target.Args, p *cmn.Printer) error {
	ctx.Printer = p
	return ctx.ExecConfig(context.Background(), c, args)
}

func main() {

	var c *target.Config

	/* read user parameters */
	args, err := target.NewArgsFromFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	p := cmn.NewPrinter(args.Raw)

	if err = target.LoadEnv(); err != nil {
		p.Error(err)
		os.Exit(1)
	}

	/*
		parse configuration file
	*/
	if c, err = target.NewConfigFromPath(args.ConfigPath, args); err != nil {
		p.Error(err)
		os.Exit(1)
	}

	/*
		dialects are linked statically,
		go plugins only work on linux and would make dp less portable
	*/
	switch c.Driver {
	case "postgres":
		err = run(pgsql.TargetCtxNew(), c, args, p)
	case "pgx":
		err = run(pgsql.PoolTargetCtxNew(), c, args, p)
	case "mssql":
		err = run(mssql.TargetCtxNew(), c, args, p)
	case "mysql":
		err = run(mysql.TargetCtxNew(), c, args, p)
	case "sqlite3":
		err = run(sqlite.TargetCtxNew(), c, args, p)
	case "cassandra":
		err = run(cql.TargetCtxNew(), c, args, p)
	default:
		err = fmt.Errorf("unknown driver: %s", c.Driver)
	}

	if err != nil {
		p.Error(err)
		os.Exit(1)
	}
}
