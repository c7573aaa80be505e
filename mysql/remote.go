package mysql

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/kzaag/dpsql/rdbms"
)

func currentTable(tableName string) sq.Sqlizer {
	return sq.And{
		sq.Expr("TABLE_SCHEMA = DATABASE()"),
		sq.Eq{"TABLE_NAME": tableName},
	}
}

func RemoteGetAllColumn(ctx context.Context, db rdbms.Querier, tableName string) ([]rdbms.Column, error) {

	q, args, err := sq.Select(
		"COLUMN_NAME",
		"DATA_TYPE",
		"coalesce(CHARACTER_MAXIMUM_LENGTH, -1)",
		"coalesce(NUMERIC_PRECISION, DATETIME_PRECISION, -1)",
		"coalesce(NUMERIC_SCALE, -1)",
		"IS_NULLABLE = 'YES'",
		"EXTRA LIKE '%auto_increment%'",
		"coalesce(COLUMN_DEFAULT, '')",
	).
		From("information_schema.COLUMNS").
		Where(currentTable(tableName)).
		OrderBy("ORDINAL_POSITION").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ret []rdbms.Column
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

	q, args, err := sq.Select("COLUMN_NAME").
		From("information_schema.KEY_COLUMN_USAGE").
		Where(currentTable(tableName)).
		Where(sq.Eq{"CONSTRAINT_NAME": "PRIMARY"}).
		OrderBy("ORDINAL_POSITION").
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

	q, args, err := sq.Select(
		"k.COLUMN_NAME",
		"k.REFERENCED_TABLE_NAME",
		"k.REFERENCED_COLUMN_NAME",
		"r.UPDATE_RULE",
		"r.DELETE_RULE",
	).
		From("information_schema.KEY_COLUMN_USAGE k").
		Join("information_schema.REFERENTIAL_CONSTRAINTS r ON " +
			"r.CONSTRAINT_SCHEMA = k.CONSTRAINT_SCHEMA AND r.CONSTRAINT_NAME = k.CONSTRAINT_NAME").
		Where("k.TABLE_SCHEMA = DATABASE()").
		Where(sq.Eq{"k.TABLE_NAME": tableName}).
		OrderBy("k.CONSTRAINT_NAME").
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

// Remote reads tableName from the current database, returning nil if it doesnt exist.
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
