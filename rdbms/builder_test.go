package rdbms

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type recorder[C any] struct {
	queries []*Query[C]
	err     error
}

func (r *recorder[C]) Run(ctx context.Context, q *Query[C]) error {
	r.queries = append(r.queries, q)
	return r.err
}

// op is a column definition the builder knows nothing about.
type op struct {
	kind string
	name string
}

func TestAlter(t *testing.T) {
	Convey("Alter", t, func() {
		conn := &recorder[op]{}

		Convey("starts empty and names the table", func() {
			b := Alter[op](conn, "planets")
			q := b.Query()
			So(q.Type, ShouldEqual, QueryTypeAlterTable)
			So(q.AlterTable, ShouldNotBeNil)
			So(q.AlterTable.Table, ShouldEqual, "planets")
			So(q.AlterTable.Columns, ShouldBeEmpty)
			So(q.AlterTable.Foreign, ShouldBeEmpty)
			So(b.Columns(), ShouldBeEmpty)
			So(b.Table(), ShouldEqual, "planets")
		})

		Convey("keeps operations in append order", func() {
			b := Alter[op](conn, "planets")
			ops := []op{{"add", "a"}, {"drop", "b"}, {"add", "c"}, {"alter", "a"}}
			for _, o := range ops {
				b.Column(o)
			}
			So(b.Query().AlterTable.Columns, ShouldResemble, ops)
		})

		Convey("does not deduplicate nor validate", func() {
			b := Alter[op](conn, "planets").
				Column(op{"add", "name"}).
				Column(op{"add", "name"}).
				Column(op{"drop", "name"})
			So(b.Query().AlterTable.Columns, ShouldHaveLength, 3)
		})

		Convey("SetColumns replaces the sequence", func() {
			b := Alter[op](conn, "planets").Column(op{"add", "a"})
			b.SetColumns([]op{{"drop", "z"}})
			So(b.Columns(), ShouldResemble, []op{{"drop", "z"}})
		})

		Convey("projection is idempotent and reflects later changes", func() {
			b := Alter[op](conn, "planets").Column(op{"add", "a"})
			q1 := b.Query()
			q2 := b.Query()
			So(q1, ShouldResemble, q2)
			So(q1, ShouldNotPointTo, q2)

			b.Column(op{"add", "b"})
			So(b.Query().AlterTable.Columns, ShouldHaveLength, 2)
			So(q1.AlterTable.Columns, ShouldHaveLength, 1)
		})

		Convey("projection does not alias builder state", func() {
			b := Alter[op](conn, "planets").Column(op{"add", "a"})
			q := b.Query()
			q.AlterTable.Columns[0] = op{"drop", "x"}
			So(b.Columns()[0], ShouldResemble, op{"add", "a"})
		})

		Convey("Run hands the current query to the connection once", func() {
			b := Alter[op](conn, "planets").Column(op{"add", "name"})
			So(b.Run(context.Background()), ShouldBeNil)
			So(conn.queries, ShouldHaveLength, 1)
			So(conn.queries[0], ShouldResemble, b.Query())
		})

		Convey("Run returns the connection error unchanged", func() {
			failure := errors.New("connection refused")
			conn.err = failure
			err := Alter[op](conn, "planets").Run(context.Background())
			So(err, ShouldEqual, failure)
		})

		Convey("foreign keys are kept in order", func() {
			fk1 := NewForeignKey(ColumnRef{"planets", "galaxy_id"}, ColumnRef{"galaxies", "id"}, ActionNone, ActionCascade)
			fk2 := NewForeignKey(ColumnRef{"planets", "star_id"}, ColumnRef{"stars", "id"}, ActionRestrict, ActionNone)
			b := Alter[op](conn, "planets").ForeignKey(fk1).ForeignKey(fk2)
			So(b.Query().AlterTable.Foreign, ShouldResemble, []ForeignKey{fk1, fk2})
		})
	})
}

func TestAlterPlanetsExample(t *testing.T) {
	Convey("alter table planets add column name", t, func() {
		conn := &recorder[ColumnDef]{}
		b := Alter[ColumnDef](conn, "planets")
		AddColumn[ColumnDef](b, Defs{}, Column{Name: "name", Type: "text"})

		So(b.Run(context.Background()), ShouldBeNil)
		So(conn.queries, ShouldHaveLength, 1)

		a := conn.queries[0].AlterTable
		So(a.Table, ShouldEqual, "planets")
		So(a.Columns, ShouldHaveLength, 1)
		So(a.Columns[0].Op, ShouldEqual, ColumnOpAdd)
		So(a.Columns[0].Column.Name, ShouldEqual, "name")
	})
}

func TestCreate(t *testing.T) {
	Convey("Create", t, func() {
		conn := &recorder[ColumnDef]{}
		b := Create[ColumnDef](conn, "galaxies").IfNotExists().PrimaryKey("id")
		AddColumn[ColumnDef](b, Defs{},
			Column{Name: "id", Type: "bigint"},
			Column{Name: "name", Type: "text"})

		q := b.Query()
		So(q.Type, ShouldEqual, QueryTypeCreateTable)
		So(q.CreateTable.Table, ShouldEqual, "galaxies")
		So(q.CreateTable.IfNotExists, ShouldBeTrue)
		So(q.CreateTable.Primary, ShouldResemble, []string{"id"})
		So(q.CreateTable.Columns, ShouldHaveLength, 2)

		So(b.Run(context.Background()), ShouldBeNil)
		So(conn.queries[0], ShouldResemble, q)
	})
}

func TestColumnHelpers(t *testing.T) {
	Convey("helpers work on any ColumnBuilder", t, func() {
		conn := &recorder[ColumnDef]{}
		builders := []ColumnBuilder[ColumnDef]{
			Alter[ColumnDef](conn, "t"),
			Create[ColumnDef](conn, "t"),
		}
		for _, b := range builders {
			AddColumn[ColumnDef](b, Defs{}, Column{Name: "a", Type: "int"})
			AlterColumn[ColumnDef](b, Defs{}, &Column{Name: "b", Type: "int"}, &Column{Name: "b", Type: "bigint"})
			DropColumn[ColumnDef](b, Defs{}, "c", "d")

			cols := b.Columns()
			So(cols, ShouldHaveLength, 4)
			So(cols[0].Op, ShouldEqual, ColumnOpAdd)
			So(cols[1].Op, ShouldEqual, ColumnOpAlter)
			So(cols[1].Previous.Type, ShouldEqual, "int")
			So(cols[1].Column.Type, ShouldEqual, "bigint")
			So(cols[2].Op, ShouldEqual, ColumnOpDrop)
			So(cols[2].Column.Name, ShouldEqual, "c")
			So(cols[3].Column.Name, ShouldEqual, "d")
		}
	})
}
