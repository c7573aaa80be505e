package sqlite

import (
	"strings"

	"github.com/kzaag/dpsql/rdbms"
)

// StmtNew leaves AlterColumn and AddFK unset:
// sqlite can neither change a column nor add a constraint to an existing table.
// Foreign keys are only accepted inline in CREATE TABLE.
func StmtNew() *rdbms.StmtCtx {
	ctx := rdbms.StmtCtx{Name: "sqlite"}
	ctx.AddColumn = StmtAddColumn
	ctx.ColumnType = StmtColumnType
	ctx.CreateTable = StmtCreateTable
	ctx.DropColumn = rdbms.StmtDropColumn
	ctx.DropTable = rdbms.StmtDropTable
	return &ctx
}

// StmtColumnType maps a type to its storage class.
func StmtColumnType(column *rdbms.Column) string {
	t := strings.ToLower(column.Type)
	switch {
	case strings.Contains(t, "int"), t == "bool", t == "boolean":
		return "INTEGER"
	case strings.Contains(t, "char"), strings.Contains(t, "text"), strings.Contains(t, "clob"),
		t == "uuid", t == "json", strings.HasPrefix(t, "date"), strings.HasPrefix(t, "time"):
		return "TEXT"
	case strings.Contains(t, "real"), strings.Contains(t, "floa"), strings.Contains(t, "doub"):
		return "REAL"
	case t == "blob", t == "bytea", strings.Contains(t, "binary"):
		return "BLOB"
	}
	return "NUMERIC"
}

// identity columns rely on INTEGER PRIMARY KEY being the rowid
func StmtDefColumn(column *rdbms.Column) string {
	cs := column.Name + " " + column.FullType

	if !column.Nullable {
		cs += " NOT NULL"
	}

	if column.Default != "" {
		cs += " DEFAULT " + column.Default
	}

	return cs
}

func StmtAddColumn(tableName string, c *rdbms.Column) string {
	return "ALTER TABLE " + tableName + " ADD COLUMN " + StmtDefColumn(c) + ";\n"
}

func StmtCreateTable(t *rdbms.CreateTable[rdbms.ColumnDef]) (string, error) {
	return rdbms.StmtCreateTable(t, StmtDefColumn)
}
