package rdbms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestForeignKeyEquality(t *testing.T) {
	local := ColumnRef{Table: "planets", Name: "galaxy_id"}
	foreign := ColumnRef{Table: "galaxies", Name: "id"}
	base := NewForeignKey(local, foreign, ActionCascade, ActionSetNull)

	assert.Equal(t, base, NewForeignKey(local, foreign, ActionCascade, ActionSetNull))
	assert.True(t, base == NewForeignKey(local, foreign, ActionCascade, ActionSetNull))

	variants := []ForeignKey{
		NewForeignKey(ColumnRef{"planets", "star_id"}, foreign, ActionCascade, ActionSetNull),
		NewForeignKey(local, ColumnRef{"galaxies", "uid"}, ActionCascade, ActionSetNull),
		NewForeignKey(local, foreign, ActionRestrict, ActionSetNull),
		NewForeignKey(local, foreign, ActionCascade, ActionNone),
	}
	for _, v := range variants {
		assert.False(t, base == v, "%+v", v)
	}
}

func TestForeignKeyName(t *testing.T) {
	fk := NewForeignKey(
		ColumnRef{"public.planets", "galaxy_id"},
		ColumnRef{"galaxies", "id"},
		ActionNone, ActionNone)
	assert.Equal(t, "fk_public_planets_galaxy_id_galaxies_id", fk.Name())
}

func TestParseAction(t *testing.T) {
	cases := map[string]Action{
		"":            ActionNone,
		"no action":   ActionNoAction,
		"RESTRICT":    ActionRestrict,
		"cascade":     ActionCascade,
		"set null":    ActionSetNull,
		"SET_NULL":    ActionSetNull,
		"set-default": ActionSetDefault,
	}
	for in, want := range cases {
		got, err := ParseAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseAction("explode")
	assert.Error(t, err)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "", ActionNone.String())
	assert.Equal(t, "NO ACTION", ActionNoAction.String())
	assert.Equal(t, "SET DEFAULT", ActionSetDefault.String())
	for _, a := range []Action{ActionNoAction, ActionRestrict, ActionCascade, ActionSetNull, ActionSetDefault} {
		back, err := ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, back)
	}
}

func TestParseColumnRef(t *testing.T) {
	ref, err := ParseColumnRef("planets.id")
	require.NoError(t, err)
	assert.Equal(t, ColumnRef{"planets", "id"}, ref)

	ref, err = ParseColumnRef("public.planets.id")
	require.NoError(t, err)
	assert.Equal(t, ColumnRef{"public.planets", "id"}, ref)
	assert.Equal(t, "public.planets.id", ref.String())

	for _, bad := range []string{"", "id", ".id", "planets."} {
		_, err := ParseColumnRef(bad)
		assert.Error(t, err, bad)
	}
}

func TestForeignKeyYaml(t *testing.T) {
	var fk ForeignKey
	err := yaml.Unmarshal([]byte(`
local: planets.galaxy_id
foreign: galaxies.id
on_delete: cascade
on_update: set null
`), &fk)
	require.NoError(t, err)
	assert.Equal(t, NewForeignKey(
		ColumnRef{"planets", "galaxy_id"},
		ColumnRef{"galaxies", "id"},
		ActionSetNull, ActionCascade), fk)

	err = yaml.Unmarshal([]byte("local: planets.galaxy_id\nforeign: galaxies.id\non_delete: maybe\n"), &fk)
	assert.Error(t, err)
}

func TestTableColumn(t *testing.T) {
	tbl := Table{Name: "t", Columns: []Column{{Name: "a"}, {Name: "b"}}}
	require.NotNil(t, tbl.Column("b"))
	assert.Equal(t, "b", tbl.Column("b").Name)
	assert.Nil(t, tbl.Column("c"))

	c := Column{Tags: map[string]struct{}{"composite": {}}}
	assert.True(t, c.HasTag("composite"))
	assert.False(t, (&Column{}).HasTag("composite"))
}
