package rdbms

type ColumnOp uint

const (
	ColumnOpAdd ColumnOp = iota
	ColumnOpAlter
	ColumnOpDrop
)

func (op ColumnOp) String() string {
	switch op {
	case ColumnOpAdd:
		return "add"
	case ColumnOpAlter:
		return "alter"
	case ColumnOpDrop:
		return "drop"
	}
	return "unknown"
}

// ColumnDef is the column definition shared by the relational dialects.
// Previous is only set for ColumnOpAlter and holds the column as it is now.
type ColumnDef struct {
	Op       ColumnOp
	Column   Column
	Previous *Column
}

// ColumnDefiner builds a dialect's column definitions from neutral columns.
type ColumnDefiner[C any] interface {
	AddColumn(c *Column) C
	AlterColumn(prev, next *Column) C
	DropColumn(c *Column) C
}

// Defs is the ColumnDefiner for ColumnDef.
type Defs struct{}

func (Defs) AddColumn(c *Column) ColumnDef {
	return ColumnDef{Op: ColumnOpAdd, Column: *c}
}

func (Defs) AlterColumn(prev, next *Column) ColumnDef {
	p := *prev
	return ColumnDef{Op: ColumnOpAlter, Column: *next, Previous: &p}
}

func (Defs) DropColumn(c *Column) ColumnDef {
	return ColumnDef{Op: ColumnOpDrop, Column: *c}
}
