package rdbms

import "strings"

/*
	generating differential queries based on local vs remote schema
*/

/*
	MergeCtx tells merge how a dialect renders columns.
	Databases report types and defaults in their own spelling ('rock'::text, ((0))),
	so both sides are compared in rendered form.
	A nil function compares the raw value.
*/
type MergeCtx struct {
	ColumnType    func(*Column) string
	ColumnDefault func(*Column) string
}

func (m *MergeCtx) resolve(c *Column) *Column {
	r := *c
	if r.FullType == "" && m != nil && m.ColumnType != nil {
		r.FullType = m.ColumnType(&r)
	}
	r.FullType = strings.ToUpper(r.FullType)
	if r.Default != "" && m != nil && m.ColumnDefault != nil {
		r.Default = m.ColumnDefault(&r)
	}
	return &r
}

// MergeCompareColumn reports whether two columns need no alteration.
func MergeCompareColumn(m *MergeCtx, c1 *Column, c2 *Column) bool {
	r1, r2 := m.resolve(c1), m.resolve(c2)
	return r1.FullType == r2.FullType &&
		r1.Nullable == r2.Nullable &&
		r1.Identity == r2.Identity &&
		r1.Default == r2.Default
}

/*
	MergeColumns appends to b the operations which turn remTable into localTable:
	additions and alterations in local column order, then drops of remote only columns.
	A column whose identity flag changed is dropped and added again.
*/
func MergeColumns[C any](
	b *AlterTableBuilder[C],
	d ColumnDefiner[C],
	m *MergeCtx,
	localTable *Table,
	remTable *Table) {

	matched := make(map[string]struct{}, len(localTable.Columns))

	for i := 0; i < len(localTable.Columns); i++ {
		uc := &localTable.Columns[i]
		dc := remTable.Column(uc.Name)

		if dc == nil {
			AddColumn[C](b, d, *uc)
			continue
		}

		matched[uc.Name] = struct{}{}

		if MergeCompareColumn(m, uc, dc) {
			continue
		}

		if dc.Identity != uc.Identity {
			DropColumn[C](b, d, dc.Name)
			AddColumn[C](b, d, *uc)
		} else {
			AlterColumn[C](b, d, dc, uc)
		}
	}

	for i := 0; i < len(remTable.Columns); i++ {
		dc := &remTable.Columns[i]
		if _, ok := matched[dc.Name]; ok {
			continue
		}
		DropColumn[C](b, d, dc.Name)
	}
}

// MergeForeignKeys appends local foreign keys which the remote table lacks.
// Remote only keys are left alone; dropping constraints is not supported.
func MergeForeignKeys[C any](b *AlterTableBuilder[C], localTable *Table, remTable *Table) {
	for _, fk := range localTable.Foreign {
		if fk.Local.Table == "" {
			fk.Local.Table = localTable.Name
		}
		found := false
		for _, rfk := range remTable.Foreign {
			if MergeCompareFK(fk, rfk) {
				found = true
				break
			}
		}
		if !found {
			b.ForeignKey(fk)
		}
	}
}

// MergeCompareFK compares keys treating an unset action as NO ACTION,
// since that is what databases report back.
func MergeCompareFK(a, b ForeignKey) bool {
	norm := func(fk ForeignKey) ForeignKey {
		if fk.OnDelete == ActionNone {
			fk.OnDelete = ActionNoAction
		}
		if fk.OnUpdate == ActionNone {
			fk.OnUpdate = ActionNoAction
		}
		return fk
	}
	return norm(a) == norm(b)
}

/*
	Merge returns the query which brings the remote table to the local definition,
	or nil when they already match. A nil remTable means the table does not exist yet.
*/
func Merge[C any](
	conn Runner[C],
	d ColumnDefiner[C],
	m *MergeCtx,
	localTable *Table,
	remTable *Table) *Query[C] {

	if remTable == nil {
		b := Create[C](conn, localTable.Name)
		AddColumn[C](b, d, localTable.Columns...)
		b.PrimaryKey(localTable.Primary...)
		for _, fk := range localTable.Foreign {
			if fk.Local.Table == "" {
				fk.Local.Table = localTable.Name
			}
			b.ForeignKey(fk)
		}
		return b.Query()
	}

	b := Alter[C](conn, localTable.Name)
	MergeColumns[C](b, d, m, localTable, remTable)
	MergeForeignKeys[C](b, localTable, remTable)
	if len(b.Columns()) == 0 && len(b.ForeignKeys()) == 0 {
		return nil
	}
	return b.Query()
}
