package pgsql

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/kzaag/dpsql/rdbms"
)

// "schema.table" or "table", the latter resolved against current_schema()
func splitName(name string) (string, string) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+1:]
}

func whereTable(b sq.SelectBuilder, prefix, name string) sq.SelectBuilder {
	schema, table := splitName(name)
	b = b.Where(sq.Eq{prefix + "table_name": table})
	if schema == "" {
		return b.Where(prefix + "table_schema = current_schema()")
	}
	return b.Where(sq.Eq{prefix + "table_schema": schema})
}

func RemoteGetAllColumn(ctx context.Context, db rdbms.Querier, tableName string) ([]rdbms.Column, error) {

	q, args, err := whereTable(sq.Select(
		"column_name",
		"udt_name",
		"coalesce(character_maximum_length, -1)",
		"coalesce(numeric_precision, datetime_precision, -1)",
		"coalesce(numeric_scale, -1)",
		"is_nullable = 'YES'",
		"coalesce(is_identity = 'YES', false)",
		"coalesce(column_default, '')",
	).From("information_schema.columns"), "", tableName).
		OrderBy("ordinal_position").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := make([]rdbms.Column, 0, 10)
	for rows.Next() {
		var el rdbms.Column
		err = rows.Scan(
			&el.Name,
			&el.Type,
			&el.Length,
			&el.Precision,
			&el.Scale,
			&el.Nullable,
			&el.Identity,
			&el.Default)
		if err != nil {
			return nil, err
		}
		el.FullType = StmtColumnType(&el)
		ret = append(ret, el)
	}

	return ret, rows.Err()
}

func RemoteGetPK(ctx context.Context, db rdbms.Querier, tableName string) ([]string, error) {

	q, args, err := whereTable(sq.Select("kcu.column_name").
		From("information_schema.table_constraints tc").
		Join("information_schema.key_column_usage kcu ON " +
			"kcu.constraint_name = tc.constraint_name AND kcu.constraint_schema = tc.constraint_schema").
		Where(sq.Eq{"tc.constraint_type": "PRIMARY KEY"}), "tc.", tableName).
		OrderBy("kcu.ordinal_position").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ret []string
	for rows.Next() {
		var c string
		if err = rows.Scan(&c); err != nil {
			return nil, err
		}
		ret = append(ret, c)
	}

	return ret, rows.Err()
}

func RemoteGetAllFK(ctx context.Context, db rdbms.Querier, tableName string) ([]rdbms.ForeignKey, error) {

	q, args, err := whereTable(sq.Select(
		"kcu.column_name",
		"ccu.table_schema",
		"ccu.table_name",
		"ccu.column_name",
		"rc.update_rule",
		"rc.delete_rule",
	).
		From("information_schema.referential_constraints rc").
		Join("information_schema.key_column_usage kcu ON "+
			"kcu.constraint_name = rc.constraint_name AND kcu.constraint_schema = rc.constraint_schema").
		Join("information_schema.constraint_column_usage ccu ON "+
			"ccu.constraint_name = rc.constraint_name AND ccu.constraint_schema = rc.constraint_schema"),
		"kcu.", tableName).
		OrderBy("rc.constraint_name").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schema, _ := splitName(tableName)

	var ret []rdbms.ForeignKey
	for rows.Next() {
		var col, refSchema, refTable, refCol, onUpdate, onDelete string
		if err = rows.Scan(&col, &refSchema, &refTable, &refCol, &onUpdate, &onDelete); err != nil {
			return nil, err
		}
		fk := rdbms.ForeignKey{
			Local:   rdbms.ColumnRef{Table: tableName, Name: col},
			Foreign: rdbms.ColumnRef{Table: refTable, Name: refCol},
		}
		if schema != "" {
			fk.Foreign.Table = refSchema + "." + refTable
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

	cols, err := RemoteGetAllColumn(ctx, db, tableName)
	if err != nil {
		return nil, errors.WithMessagef(err, "columns of %s", tableName)
	}

	if len(cols) == 0 {
		return nil, nil
	}

	pk, err := RemoteGetPK(ctx, db, tableName)
	if err != nil {
		return nil, errors.WithMessagef(err, "primary key of %s", tableName)
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
