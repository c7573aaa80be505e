package sqlite

import (
	"context"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/kzaag/dpsql/rdbms"
)

type pkColumn struct {
	name  string
	order int
}

/*
	RemoteGetAllColumn reads pragma_table_info.
	The second result lists primary key columns in key order.
*/
func RemoteGetAllColumn(ctx context.Context, db rdbms.Querier, tableName string) ([]rdbms.Column, []string, error) {

	q, args, err := sq.Select(
		"p.name",
		"p.type",
		`p."notnull"`,
		"coalesce(p.dflt_value, '')",
		"p.pk",
	).
		From("sqlite_master m").
		Join("pragma_table_info(m.name) p").
		Where(sq.Eq{"m.type": "table", "m.name": tableName}).
		OrderBy("p.cid").
		ToSql()
	if err != nil {
		return nil, nil, err
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var cols []rdbms.Column
	var pk []pkColumn
	for rows.Next() {
		var el rdbms.Column
		var notNull bool
		var pkOrder int
		if err = rows.Scan(&el.Name, &el.Type, &notNull, &el.Default, &pkOrder); err != nil {
			return nil, nil, err
		}
		el.Nullable = !notNull
		el.FullType = StmtColumnType(&el)
		if pkOrder > 0 {
			pk = append(pk, pkColumn{el.Name, pkOrder})
		}
		cols = append(cols, el)
	}
	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	sort.Slice(pk, func(i, j int) bool { return pk[i].order < pk[j].order })
	primary := make([]string, len(pk))
	for i := range pk {
		primary[i] = pk[i].name
	}

	// a lone INTEGER primary key is the rowid, generated by the database
	if len(primary) == 1 {
		for i := range cols {
			if cols[i].Name == primary[0] && strings.EqualFold(cols[i].Type, "integer") {
				cols[i].Identity = true
			}
		}
	}

	return cols, primary, nil
}

func RemoteGetAllFK(ctx context.Context, db rdbms.Querier, tableName string) ([]rdbms.ForeignKey, error) {

	q, args, err := sq.Select(
		`f."from"`,
		`f."table"`,
		`coalesce(f."to", '')`,
		"f.on_update",
		"f.on_delete",
	).
		From("sqlite_master m").
		Join("pragma_foreign_key_list(m.name) f").
		Where(sq.Eq{"m.type": "table", "m.name": tableName}).
		OrderBy("f.id", "f.seq").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ret []rdbms.ForeignKey
	for rows.Next() {
		var col, refTable, refCol, onUpdate, onDelete string
		if err = rows.Scan(&col, &refTable, &refCol, &onUpdate, &onDelete); err != nil {
			return nil, err
		}
		fk := rdbms.ForeignKey{
			Local:   rdbms.ColumnRef{Table: tableName, Name: col},
			Foreign: rdbms.ColumnRef{Table: refTable, Name: refCol},
		}
		if fk.OnUpdate, err = rdbms.ParseAction(onUpdate); err != nil {
			return nil, err
		}
		if fk.OnDelete, err = rdbms.ParseAction(onDelete); err != nil {
			return nil, err
		}
		ret = append(ret, fk)
	}

	return ret, rows.Err()
}

// Remote reads tableName from the database, returning nil if it doesnt exist.
func Remote(ctx context.Context, db rdbms.Querier, tableName string) (*rdbms.Table, error) {

	cols, pk, err := RemoteGetAllColumn(ctx, db, tableName)
	if err != nil {
		return nil, errors.WithMessagef(err, "columns of %s", tableName)
	}

	if len(cols) == 0 {
		return nil, nil
	}

	fks, err := RemoteGetAllFK(ctx, db, tableName)
	if err != nil {
		return nil, errors.WithMessagef(err, "foreign keys of %s", tableName)
	}

	return &rdbms.Table{
		Name:    tableName,
		Columns: cols,
		Primary: pk,
		Foreign: fks,
	}, nil
}
