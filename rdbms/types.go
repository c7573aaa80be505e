package rdbms

import (
	"strings"

	"github.com/pkg/errors"
)

// ColumnRef names a column together with the table it belongs to.
type ColumnRef struct {
	Table string
	Name  string
}

func (c ColumnRef) String() string {
	return c.Table + "." + c.Name
}

// ParseColumnRef accepts "table.column". Schema-qualified tables keep their dots:
// "public.planets.id" refers to column id of public.planets.
func ParseColumnRef(s string) (ColumnRef, error) {
	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return ColumnRef{}, errors.Errorf("invalid column reference %q, expected table.column", s)
	}
	return ColumnRef{Table: s[:i], Name: s[i+1:]}, nil
}

// UnmarshalYAML also accepts a bare column name, leaving Table empty
// for the document parser to fill in.
func (c *ColumnRef) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s != "" && !strings.Contains(s, ".") {
		*c = ColumnRef{Name: s}
		return nil
	}
	ref, err := ParseColumnRef(s)
	if err != nil {
		return err
	}
	*c = ref
	return nil
}

// Action is a referential action fired on the referencing rows
// when the referenced row is updated or deleted.
// The zero value means no action was specified.
type Action int

const (
	ActionNone Action = iota
	ActionNoAction
	ActionRestrict
	ActionCascade
	ActionSetNull
	ActionSetDefault
)

func (a Action) String() string {
	switch a {
	case ActionNoAction:
		return "NO ACTION"
	case ActionRestrict:
		return "RESTRICT"
	case ActionCascade:
		return "CASCADE"
	case ActionSetNull:
		return "SET NULL"
	case ActionSetDefault:
		return "SET DEFAULT"
	default:
		return ""
	}
}

// ParseAction is case insensitive and treats '_' and '-' as spaces,
// so "set null", "SET_NULL" and "set-null" all yield ActionSetNull.
func ParseAction(s string) (Action, error) {
	n := strings.ToUpper(strings.TrimSpace(s))
	n = strings.NewReplacer("_", " ", "-", " ").Replace(n)
	switch n {
	case "":
		return ActionNone, nil
	case "NO ACTION":
		return ActionNoAction, nil
	case "RESTRICT":
		return ActionRestrict, nil
	case "CASCADE":
		return ActionCascade, nil
	case "SET NULL":
		return ActionSetNull, nil
	case "SET DEFAULT":
		return ActionSetDefault, nil
	}
	return ActionNone, errors.Errorf("unknown referential action %q", s)
}

func (a *Action) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseAction(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ForeignKey is a single column reference from Local to Foreign.
// It is a plain value: two keys are equal when all four fields are.
type ForeignKey struct {
	Local    ColumnRef
	Foreign  ColumnRef
	OnUpdate Action `yaml:"on_update"`
	OnDelete Action `yaml:"on_delete"`
}

func NewForeignKey(local, foreign ColumnRef, onUpdate, onDelete Action) ForeignKey {
	return ForeignKey{
		Local:    local,
		Foreign:  foreign,
		OnUpdate: onUpdate,
		OnDelete: onDelete,
	}
}

// Name is the constraint name used by dialects which require one.
func (fk ForeignKey) Name() string {
	r := strings.NewReplacer(".", "_", " ", "_")
	return "fk_" + r.Replace(fk.Local.Table) + "_" + fk.Local.Name +
		"_" + r.Replace(fk.Foreign.Table) + "_" + fk.Foreign.Name
}

type Column struct {
	Name string

	/*
		FullType is the type exactly as the dialect prints it.
		When it is empty the dialect computes it from Type, Length, Precision and Scale
		(see StmtCtx.ColumnType). Remote introspection always fills it.
	*/
	Type      string
	FullType  string `yaml:"full_type"`
	Length    int
	Precision int
	Scale     int
	Nullable  bool
	Identity  bool
	Default   string

	// dialect specific flags, like pgsql composite type attributes
	Tags map[string]struct{}
}

func (c *Column) HasTag(tag string) bool {
	if c.Tags == nil {
		return false
	}
	_, ok := c.Tags[tag]
	return ok
}

type Table struct {
	Name    string
	Columns []Column
	Primary []string
	Foreign []ForeignKey
}

func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}
