package cql

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/kzaag/dpsql/rdbms"
)

// StmtCtx is the CQL serializer, laid out like rdbms.StmtCtx.
// Statements are lower case, as cqlsh prints them.
type StmtCtx struct {
	AddColumn   func(string, *ColumnDef) string
	AlterColumn func(string, *ColumnDef) string
	DropColumn  func(string, *ColumnDef) string
	CreateTable func(*rdbms.CreateTable[ColumnDef]) (string, error)
	DropTable   func(*rdbms.DropTable) string
}

func StmtNew() *StmtCtx {
	return &StmtCtx{
		AddColumn:   StmtAddColumn,
		AlterColumn: StmtAlterColumn,
		DropColumn:  StmtDropColumn,
		CreateTable: StmtCreateTable,
		DropTable:   StmtDropTable,
	}
}

func stmtRejectFK(fks []rdbms.ForeignKey) error {
	if len(fks) > 0 {
		return rdbms.Unsupported("cql: foreign key %s", fks[0].Name())
	}
	return nil
}

func (ctx *StmtCtx) Script(q *rdbms.Query[ColumnDef]) (string, error) {
	if q == nil {
		return "", errors.New("nil query")
	}
	switch q.Type {
	case rdbms.QueryTypeAlterTable:
		if q.AlterTable == nil {
			return "", errors.New("alter table query without payload")
		}
		return ctx.alterTable(q.AlterTable)
	case rdbms.QueryTypeCreateTable:
		if q.CreateTable == nil {
			return "", errors.New("create table query without payload")
		}
		if err := stmtRejectFK(q.CreateTable.Foreign); err != nil {
			return "", err
		}
		return ctx.CreateTable(q.CreateTable)
	case rdbms.QueryTypeDropTable:
		if q.DropTable == nil {
			return "", errors.New("drop table query without payload")
		}
		return ctx.DropTable(q.DropTable), nil
	}
	return "", errors.Errorf("unknown query type %d", q.Type)
}

func (ctx *StmtCtx) alterTable(a *rdbms.AlterTable[ColumnDef]) (string, error) {
	if err := stmtRejectFK(a.Foreign); err != nil {
		return "", err
	}
	var ret strings.Builder
	for i := range a.Columns {
		def := &a.Columns[i]
		switch def.Op {
		case rdbms.ColumnOpAdd:
			ret.WriteString(ctx.AddColumn(a.Table, def))
		case rdbms.ColumnOpAlter:
			ret.WriteString(ctx.AlterColumn(a.Table, def))
		case rdbms.ColumnOpDrop:
			ret.WriteString(ctx.DropColumn(a.Table, def))
		default:
			return "", errors.Errorf("unknown column operation %d", def.Op)
		}
	}
	return ret.String(), nil
}

func StmtAddColumn(tableName string, c *ColumnDef) string {
	return "alter table " + tableName + " add " + c.Name + " " + c.Type + ";\n"
}

// StmtAlterColumn changes the type, which cassandra only allows between compatible types.
func StmtAlterColumn(tableName string, c *ColumnDef) string {
	return "alter table " + tableName + " alter " + c.Name + " type " + c.Type + ";\n"
}

func StmtDropColumn(tableName string, c *ColumnDef) string {
	return "alter table " + tableName + " drop " + c.Name + ";\n"
}

// StmtPKDef uses the first primary column as partition key, the rest are clustering columns.
func StmtPKDef(primary []string) string {
	s := "primary key ((" + primary[0] + ")"
	if len(primary) > 1 {
		s += ", " + strings.Join(primary[1:], ", ")
	}
	return s + ")"
}

func StmtCreateTable(t *rdbms.CreateTable[ColumnDef]) (string, error) {
	if len(t.Primary) == 0 {
		return "", errors.Errorf("create table %s: primary key is required", t.Table)
	}
	var ret strings.Builder
	ret.WriteString("create table ")
	if t.IfNotExists {
		ret.WriteString("if not exists ")
	}
	ret.WriteString(t.Table + " ( \n")
	for i := range t.Columns {
		c := &t.Columns[i]
		if c.Op != rdbms.ColumnOpAdd {
			return "", errors.Errorf(
				"create table %s: column %s: only add operations are allowed", t.Table, c.Name)
		}
		ret.WriteString("\t" + c.Name + " " + c.Type + ",\n")
	}
	ret.WriteString("\t" + StmtPKDef(t.Primary) + "\n);\n")
	return ret.String(), nil
}

func StmtDropTable(t *rdbms.DropTable) string {
	if t.IfExists {
		return "drop table if exists " + t.Table + ";\n"
	}
	return "drop table " + t.Table + ";\n"
}
