package mssql

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kzaag/dpsql/rdbms"
	"github.com/kzaag/dpsql/target"
)

func TestStmtColumnType(t *testing.T) {
	assert.Equal(t, "NVARCHAR(50)", StmtColumnType(&rdbms.Column{Type: "nvarchar", Length: 50}))
	assert.Equal(t, "VARBINARY(MAX)", StmtColumnType(&rdbms.Column{Type: "varbinary", Length: -1}))
	assert.Equal(t, "DECIMAL(10,2)", StmtColumnType(&rdbms.Column{Type: "decimal", Precision: 10, Scale: 2}))
	assert.Equal(t, "DATETIME2(7)", StmtColumnType(&rdbms.Column{Type: "datetime2", Scale: 7}))
	assert.Equal(t, "BIGINT", StmtColumnType(&rdbms.Column{Type: "bigint"}))
}

func TestStmtAlterTable(t *testing.T) {
	b := rdbms.Alter[rdbms.ColumnDef](nil, "dbo.planets")
	rdbms.AddColumn[rdbms.ColumnDef](b, rdbms.Defs{}, rdbms.Column{Name: "name", Type: "nvarchar", Length: 100})
	rdbms.AlterColumn[rdbms.ColumnDef](b, rdbms.Defs{},
		&rdbms.Column{Name: "mass"},
		&rdbms.Column{Name: "mass", Type: "real", Nullable: true})
	rdbms.DropColumn[rdbms.ColumnDef](b, rdbms.Defs{}, "moons")
	b.ForeignKey(rdbms.NewForeignKey(
		rdbms.ColumnRef{Table: "dbo.planets", Name: "galaxy_id"},
		rdbms.ColumnRef{Table: "dbo.galaxies", Name: "id"},
		rdbms.ActionNoAction, rdbms.ActionSetNull))

	script, err := StmtNew().Script(b.Query())
	require.NoError(t, err)
	assert.Equal(t,
		"ALTER TABLE dbo.planets ADD name NVARCHAR(100) NOT NULL;\n"+
			StmtDropDefault("dbo.planets", "mass")+
			"ALTER TABLE dbo.planets ALTER COLUMN mass REAL NULL;\n"+
			"ALTER TABLE dbo.planets DROP COLUMN moons;\n"+
			"ALTER TABLE dbo.planets ADD CONSTRAINT fk_dbo_planets_galaxy_id_dbo_galaxies_id "+
			"FOREIGN KEY (galaxy_id) REFERENCES dbo.galaxies (id) ON DELETE SET NULL;\n",
		script)
}

func TestStmtRejectsRestrict(t *testing.T) {
	fk := rdbms.NewForeignKey(
		rdbms.ColumnRef{Table: "planets", Name: "galaxy_id"},
		rdbms.ColumnRef{Table: "galaxies", Name: "id"},
		rdbms.ActionRestrict, rdbms.ActionNone)

	_, err := StmtNew().Script(rdbms.Alter[rdbms.ColumnDef](nil, "planets").ForeignKey(fk).Query())
	require.Error(t, err)
	assert.Equal(t, rdbms.ErrUnsupported, errors.Cause(err))

	c := rdbms.Create[rdbms.ColumnDef](nil, "planets").ForeignKey(fk)
	rdbms.AddColumn[rdbms.ColumnDef](c, rdbms.Defs{}, rdbms.Column{Name: "galaxy_id", Type: "bigint"})
	_, err = StmtNew().Script(c.Query())
	assert.Equal(t, rdbms.ErrUnsupported, errors.Cause(err))
}

func TestStmtCreateTable(t *testing.T) {
	b := rdbms.Create[rdbms.ColumnDef](nil, "galaxies").PrimaryKey("id")
	rdbms.AddColumn[rdbms.ColumnDef](b, rdbms.Defs{},
		rdbms.Column{Name: "id", Type: "bigint", Identity: true},
		rdbms.Column{Name: "name", Type: "nvarchar", Length: -1, Nullable: true},
	)
	script, err := StmtNew().Script(b.Query())
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE TABLE galaxies ( \n"+
			"\tid BIGINT NOT NULL IDENTITY,\n"+
			"\tname NVARCHAR(MAX) NULL,\n"+
			"\tPRIMARY KEY (id)\n"+
			");\n",
		script)
}

func TestTargetGetCS(t *testing.T) {
	cs, err := TargetGetCS(&target.Target{
		Name:     "local",
		Server:   []string{"localhost"},
		User:     "sa",
		Password: "secret",
		Database: "planets",
		Args:     map[string]string{"encrypt": "disable"},
	})
	require.NoError(t, err)
	assert.Equal(t, "server=localhost;user id=sa;password=secret;database=planets;encrypt=disable;", cs)
}

func TestSplitSchemaName(t *testing.T) {
	s, n := SplitSchemaName("planets")
	assert.Equal(t, "dbo", s)
	assert.Equal(t, "planets", n)

	s, n = SplitSchemaName("astro.planets")
	assert.Equal(t, "astro", s)
	assert.Equal(t, "planets", n)
}

func TestStmtDropDefault(t *testing.T) {
	assert.Equal(t,
		"DECLARE @df sysname; SELECT @df = name FROM sys.default_constraints "+
			"WHERE parent_object_id = OBJECT_ID('dbo.t') "+
			"AND parent_column_id = COLUMNPROPERTY(OBJECT_ID('dbo.t'), 'n', 'ColumnId'); "+
			"IF @df IS NOT NULL EXEC('ALTER TABLE dbo.t DROP CONSTRAINT ' + QUOTENAME(@df));\n",
		StmtDropDefault("dbo.t", "n"))

	// the whole lookup runs as one batch
	assert.Len(t, rdbms.SplitScript(StmtDropDefault("dbo.t", "n")), 1)
}

func TestStmtAlterColumnDefault(t *testing.T) {
	prev := &rdbms.Column{Name: "n", FullType: "INT", Default: "((0))"}

	assert.Equal(t,
		StmtDropDefault("t", "n")+
			"ALTER TABLE t ADD DEFAULT 1 FOR n;\n",
		StmtAlterColumn("t", prev, &rdbms.Column{Name: "n", FullType: "INT", Default: "1"}))

	assert.Equal(t,
		StmtDropDefault("t", "n"),
		StmtAlterColumn("t", prev, &rdbms.Column{Name: "n", FullType: "INT"}))

	assert.Equal(t, "",
		StmtAlterColumn("t", prev, &rdbms.Column{Name: "n", FullType: "INT", Default: "0"}))

	// a type change has to move the default out of the way
	assert.Equal(t,
		StmtDropDefault("t", "n")+
			"ALTER TABLE t ALTER COLUMN n BIGINT NOT NULL;\n"+
			"ALTER TABLE t ADD DEFAULT 0 FOR n;\n",
		StmtAlterColumn("t", prev, &rdbms.Column{Name: "n", FullType: "BIGINT", Default: "0"}))
}

func TestStmtColumnDefault(t *testing.T) {
	assert.Equal(t, "0", StmtColumnDefault(&rdbms.Column{Default: "((0))"}))
	assert.Equal(t, "'x'", StmtColumnDefault(&rdbms.Column{Default: "('x')"}))
	assert.Equal(t, "(1)+(2)", StmtColumnDefault(&rdbms.Column{Default: "((1)+(2))"}))
	assert.Equal(t, "getdate()", StmtColumnDefault(&rdbms.Column{Default: "(getdate())"}))
	assert.Equal(t, "", StmtColumnDefault(&rdbms.Column{}))
}

func TestMergeDefaultSettles(t *testing.T) {
	m := &rdbms.MergeCtx{ColumnType: StmtColumnType, ColumnDefault: StmtColumnDefault}
	local := &rdbms.Table{Name: "t", Columns: []rdbms.Column{{Name: "n", Type: "int", Default: "0"}}}
	remote := &rdbms.Table{Name: "t", Columns: []rdbms.Column{{Name: "n", FullType: "INT", Default: "((0))"}}}

	assert.Nil(t, rdbms.Merge[rdbms.ColumnDef](nil, rdbms.Defs{}, m, local, remote))

	local.Columns[0].Default = "1"
	q := rdbms.Merge[rdbms.ColumnDef](nil, rdbms.Defs{}, m, local, remote)
	require.NotNil(t, q)
	script, err := StmtNew().Script(q)
	require.NoError(t, err)
	assert.Equal(t, StmtDropDefault("t", "n")+"ALTER TABLE t ADD DEFAULT 1 FOR n;\n", script)
}
