package mysql

import (
	"strconv"
	"strings"

	"github.com/kzaag/dpsql/rdbms"
)

const dialect = "mysql"

func StmtNew() *rdbms.StmtCtx {
	ctx := rdbms.StmtCtx{Name: dialect}
	ctx.AddColumn = StmtAddColumn
	ctx.AddFK = StmtAddFk
	ctx.AlterColumn = StmtAlterColumn
	ctx.ColumnType = StmtColumnType
	ctx.CreateTable = StmtCreateTable
	ctx.DropColumn = rdbms.StmtDropColumn
	ctx.DropTable = rdbms.StmtDropTable
	return &ctx
}

func StmtColumnType(column *rdbms.Column) string {
	t := strings.ToLower(column.Type)
	cs := t
	switch t {
	case "varchar", "char", "varbinary", "binary":
		if column.Length > 0 {
			cs = t + "(" + strconv.Itoa(column.Length) + ")"
		} else if t == "varchar" || t == "varbinary" {
			// mandatory for variable length types
			cs = t + "(255)"
		}
	case "decimal", "numeric":
		cs = "decimal(" + strconv.Itoa(column.Precision) + "," + strconv.Itoa(column.Scale) + ")"
	case "datetime", "timestamp", "time":
		if column.Precision > 0 {
			cs = t + "(" + strconv.Itoa(column.Precision) + ")"
		}
	case "bool", "boolean":
		cs = "tinyint(1)"
	case "integer":
		cs = "int"
	}
	return strings.ToUpper(cs)
}

func StmtDefColumn(column *rdbms.Column) string {
	cs := column.Name + " " + column.FullType

	if !column.Nullable {
		cs += " NOT NULL"
	} else {
		cs += " NULL"
	}

	if column.Identity {
		cs += " AUTO_INCREMENT"
	}

	if column.Default != "" {
		cs += " DEFAULT " + column.Default
	}

	return cs
}

func StmtAddColumn(tableName string, c *rdbms.Column) string {
	return "ALTER TABLE " + tableName + " ADD COLUMN " + StmtDefColumn(c) + ";\n"
}

// MODIFY COLUMN restates the whole definition, so the previous one is not needed
/*
	StmtColumnDefault is the default as information_schema reports it:
	string literals lose their quotes, 'it''s' reads it's.
*/
func StmtColumnDefault(column *rdbms.Column) string {
	d := strings.TrimSpace(column.Default)
	if len(d) >= 2 && d[0] == '\'' && d[len(d)-1] == '\'' {
		return strings.ReplaceAll(d[1:len(d)-1], "''", "'")
	}
	return d
}

func StmtAlterColumn(tableName string, _, c *rdbms.Column) string {
	return "ALTER TABLE " + tableName + " MODIFY COLUMN " + StmtDefColumn(c) + ";\n"
}

// innodb parses but rejects SET DEFAULT
func StmtAddFk(tableName string, fk *rdbms.ForeignKey) (string, error) {
	if err := rdbms.StmtRejectActions(dialect, fk, rdbms.ActionSetDefault); err != nil {
		return "", err
	}
	return rdbms.StmtAddFk(tableName, fk)
}

func StmtCreateTable(t *rdbms.CreateTable[rdbms.ColumnDef]) (string, error) {
	for i := range t.Foreign {
		if err := rdbms.StmtRejectActions(dialect, &t.Foreign[i], rdbms.ActionSetDefault); err != nil {
			return "", err
		}
	}
	return rdbms.StmtCreateTable(t, StmtDefColumn)
}
