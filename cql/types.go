package cql

import (
	"strings"

	"github.com/kzaag/dpsql/rdbms"
)

/*
	ColumnDef is the cassandra column definition.
	CQL columns have neither nullability nor defaults,
	so only the name and the type name survive.
*/
type ColumnDef struct {
	Op   rdbms.ColumnOp
	Name string
	Type string
}

// Defs is the ColumnDefiner for ColumnDef.
type Defs struct{}

func (Defs) AddColumn(c *rdbms.Column) ColumnDef {
	return ColumnDef{Op: rdbms.ColumnOpAdd, Name: c.Name, Type: StmtColumnType(c)}
}

// AlterColumn only records the new type, prev is not needed by CQL.
func (Defs) AlterColumn(_, next *rdbms.Column) ColumnDef {
	return ColumnDef{Op: rdbms.ColumnOpAlter, Name: next.Name, Type: StmtColumnType(next)}
}

func (Defs) DropColumn(c *rdbms.Column) ColumnDef {
	return ColumnDef{Op: rdbms.ColumnOpDrop, Name: c.Name}
}

var typeAliases = map[string]string{
	"varchar":           "text",
	"character varying": "text",
	"string":            "text",
	"integer":           "int",
	"int4":              "int",
	"int8":              "bigint",
	"bool":              "boolean",
	"real":              "float",
	"float4":            "float",
	"float8":            "double",
	"double precision":  "double",
	"numeric":           "decimal",
	"bytea":             "blob",
	"timestamptz":       "timestamp",
}

/*
	StmtColumnType returns the CQL type name of column.
	FullType is taken as is, "x[]" becomes list<x>.
*/
func StmtColumnType(column *rdbms.Column) string {
	if column.FullType != "" {
		return strings.ToLower(column.FullType)
	}
	t := strings.ToLower(strings.TrimSpace(column.Type))
	if strings.HasSuffix(t, "[]") {
		return "list<" + StmtColumnType(&rdbms.Column{Type: strings.TrimSuffix(t, "[]")}) + ">"
	}
	if a, ok := typeAliases[t]; ok {
		return a
	}
	return t
}
