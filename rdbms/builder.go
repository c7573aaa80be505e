package rdbms

import "context"

/*
	ColumnBuilder is implemented by every builder which accumulates column definitions,
	so that helpers like AddColumn are written once for alter and create table alike.
*/
type ColumnBuilder[C any] interface {
	Columns() []C
	SetColumns(cols []C)
}

// AlterTableBuilder builds ALTER TABLE queries.
//
//	err := rdbms.Alter[rdbms.ColumnDef](conn, "planets").
//		Column(rdbms.Defs{}.AddColumn(&rdbms.Column{Name: "name", Type: "text"})).
//		Run(ctx)
//
// A builder is not safe for concurrent use.
type AlterTableBuilder[C any] struct {
	alterTable AlterTable[C]
	conn       Runner[C]
}

// Alter returns a builder for table with no operations yet.
// conn is borrowed and must outlive the builder.
func Alter[C any](conn Runner[C], table string) *AlterTableBuilder[C] {
	return &AlterTableBuilder[C]{
		alterTable: AlterTable[C]{Table: table},
		conn:       conn,
	}
}

func (b *AlterTableBuilder[C]) Table() string {
	return b.alterTable.Table
}

func (b *AlterTableBuilder[C]) Columns() []C {
	return b.alterTable.Columns
}

func (b *AlterTableBuilder[C]) SetColumns(cols []C) {
	b.alterTable.Columns = cols
}

// Column appends definitions in order. Nothing is validated here;
// conflicting operations are rejected, if at all, by the database.
func (b *AlterTableBuilder[C]) Column(defs ...C) *AlterTableBuilder[C] {
	b.alterTable.Columns = append(b.alterTable.Columns, defs...)
	return b
}

func (b *AlterTableBuilder[C]) ForeignKeys() []ForeignKey {
	return b.alterTable.Foreign
}

func (b *AlterTableBuilder[C]) ForeignKey(fks ...ForeignKey) *AlterTableBuilder[C] {
	b.alterTable.Foreign = append(b.alterTable.Foreign, fks...)
	return b
}

// Query projects the current state. It is computed on every call
// and does not share slices with the builder.
func (b *AlterTableBuilder[C]) Query() *Query[C] {
	return QueryAlterTable(AlterTable[C]{
		Table:   b.alterTable.Table,
		Columns: cloneSlice(b.alterTable.Columns),
		Foreign: cloneSlice(b.alterTable.Foreign),
	})
}

// Run hands the query to the connection. Errors are returned as the connection reports them.
func (b *AlterTableBuilder[C]) Run(ctx context.Context) error {
	return b.conn.Run(ctx, b.Query())
}

// CreateTableBuilder builds CREATE TABLE queries.
type CreateTableBuilder[C any] struct {
	createTable CreateTable[C]
	conn        Runner[C]
}

func Create[C any](conn Runner[C], table string) *CreateTableBuilder[C] {
	return &CreateTableBuilder[C]{
		createTable: CreateTable[C]{Table: table},
		conn:        conn,
	}
}

func (b *CreateTableBuilder[C]) Columns() []C {
	return b.createTable.Columns
}

func (b *CreateTableBuilder[C]) SetColumns(cols []C) {
	b.createTable.Columns = cols
}

func (b *CreateTableBuilder[C]) Column(defs ...C) *CreateTableBuilder[C] {
	b.createTable.Columns = append(b.createTable.Columns, defs...)
	return b
}

func (b *CreateTableBuilder[C]) PrimaryKey(columns ...string) *CreateTableBuilder[C] {
	b.createTable.Primary = append(b.createTable.Primary, columns...)
	return b
}

func (b *CreateTableBuilder[C]) ForeignKey(fks ...ForeignKey) *CreateTableBuilder[C] {
	b.createTable.Foreign = append(b.createTable.Foreign, fks...)
	return b
}

func (b *CreateTableBuilder[C]) IfNotExists() *CreateTableBuilder[C] {
	b.createTable.IfNotExists = true
	return b
}

func (b *CreateTableBuilder[C]) Query() *Query[C] {
	return QueryCreateTable(CreateTable[C]{
		Table:       b.createTable.Table,
		Columns:     cloneSlice(b.createTable.Columns),
		Primary:     cloneSlice(b.createTable.Primary),
		Foreign:     cloneSlice(b.createTable.Foreign),
		IfNotExists: b.createTable.IfNotExists,
	})
}

func (b *CreateTableBuilder[C]) Run(ctx context.Context) error {
	return b.conn.Run(ctx, b.Query())
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

/*
	helpers operating on any ColumnBuilder
*/

func AddColumn[C any](b ColumnBuilder[C], d ColumnDefiner[C], cols ...Column) {
	defs := b.Columns()
	for i := range cols {
		defs = append(defs, d.AddColumn(&cols[i]))
	}
	b.SetColumns(defs)
}

func AlterColumn[C any](b ColumnBuilder[C], d ColumnDefiner[C], prev, next *Column) {
	b.SetColumns(append(b.Columns(), d.AlterColumn(prev, next)))
}

func DropColumn[C any](b ColumnBuilder[C], d ColumnDefiner[C], names ...string) {
	defs := b.Columns()
	for _, n := range names {
		defs = append(defs, d.DropColumn(&Column{Name: n}))
	}
	b.SetColumns(defs)
}
