package pgsql

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kzaag/dpsql/rdbms"
)

func StmtNew() *rdbms.StmtCtx {
	ctx := rdbms.StmtCtx{Name: "pgsql"}
	ctx.AddColumn = StmtAddColumn
	ctx.AddFK = rdbms.StmtAddFk
	ctx.AlterColumn = StmtAlterColumn
	ctx.ColumnType = StmtColumnType
	ctx.CreateTable = StmtCreateTable
	ctx.DropColumn = StmtDropColumn
	ctx.DropTable = rdbms.StmtDropTable
	return &ctx
}

func __StmtDefColumn(column *rdbms.Column) string {

	var cs string
	cs += column.Name + " " + column.FullType

	if column.HasTag(TypeComposite) {
		return cs
	}

	if !column.Nullable {
		cs += " NOT NULL"
	} else {
		cs += " NULL"
	}

	if column.Identity {
		cs += " GENERATED ALWAYS AS IDENTITY"
	}

	if column.Default != "" {
		cs += " DEFAULT " + __StmtDefault(column)
	}

	return cs
}

// defaults are cast to the column type unless they already carry a cast
func __StmtDefault(column *rdbms.Column) string {
	d := column.Default
	if !strings.Contains(d, "::") {
		d += "::" + strings.ToLower(column.FullType)
	}
	return d
}

var typmod = regexp.MustCompile(`\(\d+(,\s*\d+)?\)`)

/*
	StmtColumnDefault is the default as postgres reports it back,
	cast to the lower case type without length or precision:
	'x' on a varchar(10) column reads 'x'::character varying.
*/
func StmtColumnDefault(column *rdbms.Column) string {
	if column.Default == "" {
		return ""
	}
	d := __StmtDefault(column)
	i := strings.LastIndex(d, "::")
	return d[:i] + typmod.ReplaceAllString(strings.ToLower(d[i:]), "")
}

func StmtCreateTable(t *rdbms.CreateTable[rdbms.ColumnDef]) (string, error) {
	return rdbms.StmtCreateTable(t, __StmtDefColumn)
}

func StmtDropColumn(tablename string, c *rdbms.Column) string {
	if c.HasTag(TypeComposite) {
		return "ALTER TYPE " + tablename + " DROP ATTRIBUTE " + c.Name + " CASCADE;\n"
	}
	return rdbms.StmtDropColumn(tablename, c)
}

func StmtAddColumn(tableName string, c *rdbms.Column) string {

	s := __StmtDefColumn(c)

	if c.HasTag(TypeComposite) {
		return "ALTER TYPE " + tableName + " ADD ATTRIBUTE " + s + " CASCADE;\n"
	}

	return "ALTER TABLE " + tableName + " ADD " + s + ";\n"
}

/*
	StmtAlterColumn emits one statement per changed property.
	When sc has no FullType the current definition is unknown
	and every property of c is set.
*/
func StmtAlterColumn(tableName string, sc, c *rdbms.Column) string {

	ret := ""
	unknown := sc.FullType == ""
	isType := c.HasTag(TypeComposite)

	if c.FullType != "" && (unknown || sc.FullType != c.FullType) {
		s := ""
		if isType {
			s = "ALTER TYPE " + tableName +
				" ALTER ATTRIBUTE " + c.Name +
				" SET DATA TYPE " + c.FullType +
				" CASCADE"
		} else {
			s = "ALTER TABLE " + tableName +
				" ALTER COLUMN " + c.Name +
				" SET DATA TYPE " + c.FullType
		}
		ret += s + ";\n"
	}

	// no point of checking nullable on types
	if isType {
		return ret
	}

	if unknown || sc.Nullable != c.Nullable {
		s := "ALTER TABLE " + tableName + " ALTER COLUMN " + c.Name
		if c.Nullable {
			s += " DROP NOT NULL"
		} else {
			s += " SET NOT NULL"
		}
		ret += s + ";\n"
	}

	if c.Default == "" && (unknown || sc.Default != "") {
		ret += "ALTER TABLE " + tableName +
			" ALTER COLUMN " + c.Name +
			" DROP DEFAULT;\n"
	} else if c.Default != "" && (unknown || StmtColumnDefault(sc) != StmtColumnDefault(c)) {
		ret += "ALTER TABLE " + tableName +
			" ALTER COLUMN " + c.Name +
			" SET DEFAULT " + __StmtDefault(c) + ";\n"
	}

	return ret
}

// canonical names, as information_schema.columns.udt_name reports them
var typeAliases = map[string]string{
	"char":        "bpchar",
	"character":   "bpchar",
	"varchar":     "character varying",
	"bigint":      "int8",
	"bool":        "boolean",
	"float":       "double precision",
	"float8":      "double precision",
	"int4":        "integer",
	"int":         "integer",
	"float4":      "real",
	"int2":        "smallint",
	"timestamp":   "timestamp without time zone",
	"timestamptz": "timestamp with time zone",
	"time":        "time without time zone",
	"timetz":      "time with time zone",
	"serial4":     "serial",
	"serial2":     "smallserial",
}

/*
	StmtColumnType renders the full type of column.
	Arrays are accepted both as _type (udt_name) and type[].
	Unknown types, like enums, are returned as they are.
*/
func StmtColumnType(column *rdbms.Column) string {

	t := column.Type
	isArr := false
	if strings.HasPrefix(t, "_") {
		isArr = true
		t = strings.TrimPrefix(t, "_")
	}
	if strings.HasSuffix(t, "[]") {
		isArr = true
		t = strings.TrimSuffix(t, "[]")
	}

	t = strings.ToLower(t)
	if a, ok := typeAliases[t]; ok {
		t = a
	}

	precision := strconv.Itoa(column.Precision)
	cs := ""

	switch t {
	case "bit", "varbit", "bit varying", "bpchar", "character varying":
		if column.Length <= 0 {
			cs = t
		} else {
			cs = t + "(" + strconv.Itoa(column.Length) + ")"
		}
	case "int8", "serial8", "serial", "smallserial", "bigserial",
		"boolean", "box", "bytea", "cidr", "circle", "date",
		"double precision", "inet", "integer", "json", "jsonb",
		"line", "lseg", "macaddr", "money", "path", "pg_lsn",
		"point", "polygon", "real", "smallint", "text",
		"tsquery", "tsvector", "txid_snapshot", "uuid", "xml":
		cs = t
	case "numeric":
		cs = t + "(" + precision + "," + strconv.Itoa(column.Scale) + ")"
	case "time without time zone":
		cs = "time(" + precision + ") without time zone"
	case "time with time zone":
		cs = "time(" + precision + ") with time zone"
	case "interval":
		cs = t + "(" + precision + ")"
	case "timestamp without time zone":
		cs = "timestamp(" + precision + ") without time zone"
	case "timestamp with time zone":
		cs = "timestamp(" + precision + ") with time zone"
	default:
		return column.Type
	}
	if isArr {
		cs += "[]"
	}
	return strings.ToUpper(cs)
}
