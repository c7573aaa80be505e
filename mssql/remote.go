package mssql

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/kzaag/dpsql/rdbms"
)

// SplitSchemaName splits "schema.table", the schema defaults to dbo.
func SplitSchemaName(name string) (string, string) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return "dbo", name
	}
	return name[:i], name[i+1:]
}

func whereTable(b sq.SelectBuilder, tableName string) sq.SelectBuilder {
	schema, table := SplitSchemaName(tableName)
	return b.
		Join("sys.schemas ss ON ss.schema_id = tt.schema_id").
		Where(sq.Eq{"ss.name": schema, "tt.name": table})
}

func RemoteGetAllColumn(ctx context.Context, db rdbms.Querier, tableName string) ([]rdbms.Column, error) {

	q, args, err := whereTable(sq.Select(
		"c.name",
		"t.name",
		"c.max_length",
		"c.precision",
		"c.scale",
		"c.is_nullable",
		"c.is_identity",
		"coalesce(object_definition(c.default_object_id), '')",
	).
		From("sys.columns c").
		Join("sys.tables tt ON tt.object_id = c.object_id").
		Join("sys.types t ON t.user_type_id = c.user_type_id"), tableName).
		OrderBy("c.column_id").
		PlaceholderFormat(sq.AtP).
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
		// max_length is in bytes
		switch strings.ToLower(el.Type) {
		case "nvarchar", "nchar":
			if el.Length > 0 {
				el.Length /= 2
			}
		}
		el.FullType = StmtColumnType(&el)
		ret = append(ret, el)
	}

	return ret, rows.Err()
}

func RemoteGetPK(ctx context.Context, db rdbms.Querier, tableName string) ([]string, error) {

	q, args, err := whereTable(sq.Select("c.name").
		From("sys.key_constraints kc").
		Join("sys.index_columns ic ON ic.object_id = kc.parent_object_id AND ic.index_id = kc.unique_index_id").
		Join("sys.columns c ON c.object_id = ic.object_id AND c.column_id = ic.column_id").
		Join("sys.tables tt ON tt.object_id = kc.parent_object_id").
		Where(sq.Eq{"kc.type": "PK"}), tableName).
		OrderBy("ic.key_ordinal").
		PlaceholderFormat(sq.AtP).
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
		"pc.name",
		"rs.name",
		"rt.name",
		"rc.name",
		"fk.update_referential_action_desc",
		"fk.delete_referential_action_desc",
	).
		From("sys.foreign_keys fk").
		Join("sys.foreign_key_columns fkc ON fkc.constraint_object_id = fk.object_id").
		Join("sys.columns pc ON pc.column_id = fkc.parent_column_id AND pc.object_id = fkc.parent_object_id").
		Join("sys.columns rc ON rc.column_id = fkc.referenced_column_id AND rc.object_id = fkc.referenced_object_id").
		Join("sys.tables rt ON rt.object_id = fk.referenced_object_id").
		Join("sys.schemas rs ON rs.schema_id = rt.schema_id").
		Join("sys.tables tt ON tt.object_id = fk.parent_object_id"), tableName).
		OrderBy("fk.name").
		PlaceholderFormat(sq.AtP).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	qualified := strings.Contains(tableName, ".")

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
		if qualified {
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
