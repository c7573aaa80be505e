package rdbms

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnsupported is the cause of every error raised when a dialect
// cannot express part of a query.
var ErrUnsupported = errors.New("unsupported by dialect")

func Unsupported(format string, args ...interface{}) error {
	return errors.WithMessagef(ErrUnsupported, format, args...)
}

/*
	StmtCtx is the serializer of one relational dialect.

	It is a table of functions rather than an interface so a dialect may leave
	an operation nil when it cannot express it (sqlite has no ALTER COLUMN).
	Script reports such queries as ErrUnsupported.

	Each function returns one or more statements, each terminated with ";\n".
*/
type StmtCtx struct {
	Name        string
	AddColumn   func(string, *Column) string
	AlterColumn func(string, *Column, *Column) string
	DropColumn  func(string, *Column) string
	ColumnType  func(*Column) string
	// AddFK returns an error when the dialect rejects one of the actions.
	AddFK       func(string, *ForeignKey) (string, error)
	CreateTable func(*CreateTable[ColumnDef]) (string, error)
	DropTable   func(*DropTable) string
}

// Script serializes q into ";\n" terminated statements.
func (ctx *StmtCtx) Script(q *Query[ColumnDef]) (string, error) {
	if q == nil {
		return "", errors.New("nil query")
	}
	switch q.Type {
	case QueryTypeAlterTable:
		if q.AlterTable == nil {
			return "", errors.New("alter table query without payload")
		}
		return ctx.alterTable(q.AlterTable)
	case QueryTypeCreateTable:
		if q.CreateTable == nil {
			return "", errors.New("create table query without payload")
		}
		if ctx.CreateTable == nil {
			return "", Unsupported("%s: create table", ctx.Name)
		}
		t := *q.CreateTable
		t.Columns = make([]ColumnDef, len(q.CreateTable.Columns))
		for i, def := range q.CreateTable.Columns {
			def.Column = *ctx.resolve(&def.Column)
			t.Columns[i] = def
		}
		return ctx.CreateTable(&t)
	case QueryTypeDropTable:
		if q.DropTable == nil {
			return "", errors.New("drop table query without payload")
		}
		if ctx.DropTable == nil {
			return "", Unsupported("%s: drop table", ctx.Name)
		}
		return ctx.DropTable(q.DropTable), nil
	}
	return "", errors.Errorf("unknown query type %d", q.Type)
}

// resolve returns a copy of c with FullType computed by the dialect.
// Queries are never modified by serialization.
func (ctx *StmtCtx) resolve(c *Column) *Column {
	r := *c
	if r.FullType == "" && r.Type != "" && ctx.ColumnType != nil {
		r.FullType = ctx.ColumnType(&r)
	}
	return &r
}

func (ctx *StmtCtx) alterTable(a *AlterTable[ColumnDef]) (string, error) {
	var ret strings.Builder
	for i := range a.Columns {
		def := &a.Columns[i]
		col := ctx.resolve(&def.Column)
		switch def.Op {
		case ColumnOpAdd:
			if ctx.AddColumn == nil {
				return "", Unsupported("%s: add column %s", ctx.Name, def.Column.Name)
			}
			ret.WriteString(ctx.AddColumn(a.Table, col))
		case ColumnOpAlter:
			if ctx.AlterColumn == nil {
				return "", Unsupported("%s: alter column %s", ctx.Name, def.Column.Name)
			}
			prev := &Column{Name: def.Column.Name}
			if def.Previous != nil {
				prev = ctx.resolve(def.Previous)
			}
			ret.WriteString(ctx.AlterColumn(a.Table, prev, col))
		case ColumnOpDrop:
			if ctx.DropColumn == nil {
				return "", Unsupported("%s: drop column %s", ctx.Name, def.Column.Name)
			}
			ret.WriteString(ctx.DropColumn(a.Table, col))
		default:
			return "", errors.Errorf("unknown column operation %d", def.Op)
		}
	}
	for i := range a.Foreign {
		if ctx.AddFK == nil {
			return "", Unsupported("%s: foreign keys", ctx.Name)
		}
		s, err := ctx.AddFK(a.Table, &a.Foreign[i])
		if err != nil {
			return "", err
		}
		ret.WriteString(s)
	}
	return ret.String(), nil
}

/*
	Common SQL statement definitions, so other dialects dont copy-paste same functions
*/

// StmtFKActions renders the ON DELETE / ON UPDATE clauses.
// NO ACTION is the default everywhere so it is never printed.
func StmtFKActions(fk *ForeignKey) string {
	ret := ""
	if fk.OnDelete != ActionNone && fk.OnDelete != ActionNoAction {
		ret += " ON DELETE " + fk.OnDelete.String()
	}
	if fk.OnUpdate != ActionNone && fk.OnUpdate != ActionNoAction {
		ret += " ON UPDATE " + fk.OnUpdate.String()
	}
	return ret
}

// StmtFKDef is the constraint definition, usable both inline in CREATE TABLE and in ALTER TABLE.
func StmtFKDef(fk *ForeignKey) string {
	return "CONSTRAINT " + fk.Name() +
		" FOREIGN KEY (" + fk.Local.Name + ")" +
		" REFERENCES " + fk.Foreign.Table + " (" + fk.Foreign.Name + ")" +
		StmtFKActions(fk)
}

func StmtAddFk(tableName string, fk *ForeignKey) (string, error) {
	if fk.Local.Table != "" && fk.Local.Table != tableName {
		return "", errors.Errorf(
			"foreign key %s: local column belongs to %s, not %s", fk.Name(), fk.Local.Table, tableName)
	}
	return "ALTER TABLE " + tableName + " ADD " + StmtFKDef(fk) + ";\n", nil
}

// StmtRejectActions fails when fk uses any of the given actions.
func StmtRejectActions(dialect string, fk *ForeignKey, actions ...Action) error {
	for _, a := range actions {
		if fk.OnDelete == a {
			return Unsupported("%s: ON DELETE %s in %s", dialect, a, fk.Name())
		}
		if fk.OnUpdate == a {
			return Unsupported("%s: ON UPDATE %s in %s", dialect, a, fk.Name())
		}
	}
	return nil
}

func StmtDropTable(t *DropTable) string {
	if t.IfExists {
		return "DROP TABLE IF EXISTS " + t.Table + ";\n"
	}
	return "DROP TABLE " + t.Table + ";\n"
}

func StmtDropColumn(tableName string, c *Column) string {
	return "ALTER TABLE " + tableName + " DROP COLUMN " + c.Name + ";\n"
}

func StmtColumnNameAndType(column *Column) string {
	return column.Name + " " + column.FullType
}

/*
	StmtCreateTable builds a CREATE TABLE statement.
	defColumn renders one column definition in the dialect.
*/
func StmtCreateTable(
	t *CreateTable[ColumnDef],
	defColumn func(*Column) string,
) (string, error) {
	var ret strings.Builder
	ret.WriteString("CREATE TABLE ")
	if t.IfNotExists {
		ret.WriteString("IF NOT EXISTS ")
	}
	ret.WriteString(t.Table + " ( \n")
	lines := make([]string, 0, len(t.Columns)+len(t.Foreign)+1)
	for i := range t.Columns {
		if t.Columns[i].Op != ColumnOpAdd {
			return "", errors.Errorf(
				"create table %s: column %s: only add operations are allowed",
				t.Table, t.Columns[i].Column.Name)
		}
		lines = append(lines, "\t"+defColumn(&t.Columns[i].Column))
	}
	if len(t.Primary) > 0 {
		lines = append(lines, "\tPRIMARY KEY ("+strings.Join(t.Primary, ",")+")")
	}
	for i := range t.Foreign {
		lines = append(lines, "\t"+StmtFKDef(&t.Foreign[i]))
	}
	ret.WriteString(strings.Join(lines, ",\n"))
	ret.WriteString("\n);\n")
	return ret.String(), nil
}
