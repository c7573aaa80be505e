package rdbms

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStmt() *StmtCtx {
	return &StmtCtx{
		Name: "test",
		AddColumn: func(table string, c *Column) string {
			return "ALTER TABLE " + table + " ADD " + StmtColumnNameAndType(c) + ";\n"
		},
		DropColumn: StmtDropColumn,
		ColumnType: func(c *Column) string { return "T_" + c.Type },
		AddFK:      StmtAddFk,
		CreateTable: func(t *CreateTable[ColumnDef]) (string, error) {
			return StmtCreateTable(t, StmtColumnNameAndType)
		},
		DropTable: StmtDropTable,
	}
}

func TestStmtScriptAlter(t *testing.T) {
	b := Alter[ColumnDef](nil, "planets")
	AddColumn[ColumnDef](b, Defs{}, Column{Name: "name", Type: "text"})
	DropColumn[ColumnDef](b, Defs{}, "moons")
	b.ForeignKey(NewForeignKey(
		ColumnRef{"planets", "galaxy_id"}, ColumnRef{"galaxies", "id"},
		ActionNoAction, ActionCascade))

	script, err := testStmt().Script(b.Query())
	require.NoError(t, err)
	assert.Equal(t,
		"ALTER TABLE planets ADD name T_text;\n"+
			"ALTER TABLE planets DROP COLUMN moons;\n"+
			"ALTER TABLE planets ADD CONSTRAINT fk_planets_galaxy_id_galaxies_id "+
			"FOREIGN KEY (galaxy_id) REFERENCES galaxies (id) ON DELETE CASCADE;\n",
		script)

	// serialization must not fill FullType into the builder state
	assert.Equal(t, "", b.Columns()[0].Column.FullType)
}

func TestStmtScriptUnsupported(t *testing.T) {
	b := Alter[ColumnDef](nil, "planets")
	AlterColumn[ColumnDef](b, Defs{}, &Column{Name: "a"}, &Column{Name: "a", Type: "int"})

	_, err := testStmt().Script(b.Query())
	require.Error(t, err)
	assert.Equal(t, ErrUnsupported, errors.Cause(err))
	assert.Contains(t, err.Error(), "alter column a")

	stmt := testStmt()
	stmt.AddFK = nil
	fb := Alter[ColumnDef](nil, "planets").ForeignKey(ForeignKey{
		Local: ColumnRef{"planets", "a"}, Foreign: ColumnRef{"b", "id"}})
	_, err = stmt.Script(fb.Query())
	assert.Equal(t, ErrUnsupported, errors.Cause(err))
}

func TestStmtAddFkForeignTable(t *testing.T) {
	fk := NewForeignKey(ColumnRef{"moons", "planet_id"}, ColumnRef{"planets", "id"}, ActionNone, ActionNone)
	_, err := StmtAddFk("planets", &fk)
	assert.Error(t, err)
}

func TestStmtFKActions(t *testing.T) {
	fk := ForeignKey{OnUpdate: ActionSetDefault, OnDelete: ActionSetNull}
	assert.Equal(t, " ON DELETE SET NULL ON UPDATE SET DEFAULT", StmtFKActions(&fk))
	assert.Equal(t, "", StmtFKActions(&ForeignKey{OnDelete: ActionNoAction}))
}

func TestStmtRejectActions(t *testing.T) {
	fk := ForeignKey{Local: ColumnRef{"a", "b"}, Foreign: ColumnRef{"c", "d"}, OnUpdate: ActionSetDefault}
	err := StmtRejectActions("mysql", &fk, ActionSetDefault)
	require.Error(t, err)
	assert.Equal(t, ErrUnsupported, errors.Cause(err))
	assert.NoError(t, StmtRejectActions("mysql", &fk, ActionRestrict))
}

func TestStmtScriptCreateAndDrop(t *testing.T) {
	b := Create[ColumnDef](nil, "galaxies").PrimaryKey("id")
	AddColumn[ColumnDef](b, Defs{}, Column{Name: "id", Type: "int"}, Column{Name: "name", FullType: "TEXT"})

	script, err := testStmt().Script(b.Query())
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE TABLE galaxies ( \n"+
			"\tid T_int,\n"+
			"\tname TEXT,\n"+
			"\tPRIMARY KEY (id)\n"+
			");\n",
		script)

	DropColumn[ColumnDef](b, Defs{}, "name")
	_, err = testStmt().Script(b.Query())
	assert.Error(t, err)

	script, err = testStmt().Script(QueryDropTable[ColumnDef](DropTable{Table: "galaxies", IfExists: true}))
	require.NoError(t, err)
	assert.Equal(t, "DROP TABLE IF EXISTS galaxies;\n", script)
}

func TestStmtScriptMalformed(t *testing.T) {
	_, err := testStmt().Script(nil)
	assert.Error(t, err)
	_, err = testStmt().Script(&Query[ColumnDef]{Type: QueryTypeAlterTable})
	assert.Error(t, err)
	_, err = testStmt().Script(&Query[ColumnDef]{Type: QueryType(42)})
	assert.Error(t, err)
}
