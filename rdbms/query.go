package rdbms

import "context"

type QueryType uint

const (
	QueryTypeAlterTable QueryType = iota
	QueryTypeCreateTable
	QueryTypeDropTable
)

func (t QueryType) String() string {
	switch t {
	case QueryTypeAlterTable:
		return "alter table"
	case QueryTypeCreateTable:
		return "create table"
	case QueryTypeDropTable:
		return "drop table"
	}
	return "unknown"
}

// AlterTable is the payload of an ALTER TABLE statement.
// C is the dialect's column definition; it is never interpreted here.
type AlterTable[C any] struct {
	Table   string
	Columns []C
	Foreign []ForeignKey
}

type CreateTable[C any] struct {
	Table       string
	Columns     []C
	Primary     []string
	Foreign     []ForeignKey
	IfNotExists bool
}

type DropTable struct {
	Table    string
	IfExists bool
}

/*
	Query is a statement prior to serialization.
	Exactly one payload is set and Type says which one.
*/
type Query[C any] struct {
	Type        QueryType
	AlterTable  *AlterTable[C]
	CreateTable *CreateTable[C]
	DropTable   *DropTable
}

func QueryAlterTable[C any](a AlterTable[C]) *Query[C] {
	return &Query[C]{Type: QueryTypeAlterTable, AlterTable: &a}
}

func QueryCreateTable[C any](c CreateTable[C]) *Query[C] {
	return &Query[C]{Type: QueryTypeCreateTable, CreateTable: &c}
}

func QueryDropTable[C any](d DropTable) *Query[C] {
	return &Query[C]{Type: QueryTypeDropTable, DropTable: &d}
}

// Runner executes queries of one dialect.
// Connections implement it; builders only borrow it.
type Runner[C any] interface {
	Run(ctx context.Context, q *Query[C]) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc[C any] func(ctx context.Context, q *Query[C]) error

func (f RunnerFunc[C]) Run(ctx context.Context, q *Query[C]) error {
	return f(ctx, q)
}
