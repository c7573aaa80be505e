package mssql

import (
	"strconv"
	"strings"

	"github.com/kzaag/dpsql/rdbms"
)

const dialect = "mssql"

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

// StmtColumnType expects Length in characters, -1 meaning max.
func StmtColumnType(column *rdbms.Column) string {
	cs := ""
	t := strings.ToLower(column.Type)
	switch t {
	case "nvarchar", "nchar", "varbinary", "varchar", "char", "binary":
		switch {
		case column.Length == -1:
			cs = t + "(max)"
		case column.Length > 0:
			cs = t + "(" + strconv.Itoa(column.Length) + ")"
		default:
			cs = t
		}
	case "datetime2", "datetimeoffset", "time":
		cs = t + "(" + strconv.Itoa(column.Scale) + ")"
	case "decimal", "numeric":
		cs = t + "(" + strconv.Itoa(column.Precision) + "," + strconv.Itoa(column.Scale) + ")"
	default:
		cs = t
	}
	return strings.ToUpper(cs)
}

// sql server has no RESTRICT, NO ACTION is its closest equivalent
func StmtAddFk(tableName string, fk *rdbms.ForeignKey) (string, error) {
	if err := rdbms.StmtRejectActions(dialect, fk, rdbms.ActionRestrict); err != nil {
		return "", err
	}
	return rdbms.StmtAddFk(tableName, fk)
}

// unwrapParens strips parentheses enclosing the whole expression.
func unwrapParens(s string) string {
	for len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		depth := 0
		for i := 0; i < len(s)-1; i++ {
			switch s[i] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				// the first paren closes before the end, as in (1)+(2)
				return s
			}
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// StmtColumnDefault is the default without the parentheses
// object_definition wraps it in: ((0)) reads 0.
func StmtColumnDefault(column *rdbms.Column) string {
	return unwrapParens(strings.TrimSpace(column.Default))
}

// StmtDropDefault drops the default constraint of column, whatever name sql server gave it.
func StmtDropDefault(tableName, column string) string {
	obj := "OBJECT_ID('" + tableName + "')"
	return "DECLARE @df sysname; " +
		"SELECT @df = name FROM sys.default_constraints " +
		"WHERE parent_object_id = " + obj + " " +
		"AND parent_column_id = COLUMNPROPERTY(" + obj + ", '" + column + "', 'ColumnId'); " +
		"IF @df IS NOT NULL EXEC('ALTER TABLE " + tableName + " DROP CONSTRAINT ' + QUOTENAME(@df));\n"
}

/*
	StmtAlterColumn changes type and nullability with ALTER COLUMN.
	Defaults are constraints in sql server, a changed default is dropped and added again.
	The default is dropped first since it blocks ALTER COLUMN.
	With sc unknown (no type) everything is restated.
*/
func StmtAlterColumn(tableName string, sc, c *rdbms.Column) string {
	ret := ""
	unknown := sc.FullType == ""
	typeChanged := unknown || sc.FullType != c.FullType || sc.Nullable != c.Nullable
	defaultChanged := unknown || StmtColumnDefault(sc) != StmtColumnDefault(c)

	if defaultChanged || (typeChanged && sc.Default != "") {
		ret += StmtDropDefault(tableName, c.Name)
	}

	if typeChanged {
		s := c.Name + " " + c.FullType
		if !c.Nullable {
			s += " NOT NULL"
		} else {
			s += " NULL"
		}
		ret += "ALTER TABLE " + tableName + " ALTER COLUMN " + s + ";\n"
	}

	if c.Default != "" && (defaultChanged || (typeChanged && sc.Default != "")) {
		ret += "ALTER TABLE " + tableName + " ADD DEFAULT " + c.Default + " FOR " + c.Name + ";\n"
	}

	return ret
}

func StmtDefColumn(column *rdbms.Column) string {

	var cs string
	cs += column.Name + " " + column.FullType

	if !column.Nullable {
		cs += " NOT NULL"
	} else {
		cs += " NULL"
	}

	if column.Identity {
		cs += " IDENTITY"
	}

	if column.Default != "" {
		cs += " DEFAULT " + column.Default
	}

	return cs
}

func StmtAddColumn(tableName string, c *rdbms.Column) string {
	return "ALTER TABLE " + tableName + " ADD " + StmtDefColumn(c) + ";\n"
}

func StmtCreateTable(t *rdbms.CreateTable[rdbms.ColumnDef]) (string, error) {
	for i := range t.Foreign {
		if err := rdbms.StmtRejectActions(dialect, &t.Foreign[i], rdbms.ActionRestrict); err != nil {
			return "", err
		}
	}
	return rdbms.StmtCreateTable(t, StmtDefColumn)
}
