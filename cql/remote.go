package cql

import (
	"context"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/gocql/gocql"
	"github.com/pkg/errors"

	"github.com/kzaag/dpsql/rdbms"
)

// RemoteColumn is one row of system_schema.columns.
type RemoteColumn struct {
	Name     string
	Type     string
	Kind     string
	Position int
}

func kindRank(kind string) int {
	switch kind {
	case "partition_key":
		return 0
	case "clustering":
		return 1
	}
	return 2
}

/*
	RemoteTable assembles a table from its system_schema rows.
	Key columns come first, by kind and position, followed by regular columns by name.
	The primary key is the partition key followed by the clustering columns.
*/
func RemoteTable(name string, rows []RemoteColumn) *rdbms.Table {
	if len(rows) == 0 {
		return nil
	}
	sorted := make([]RemoteColumn, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := kindRank(sorted[i].Kind), kindRank(sorted[j].Kind)
		if ri != rj {
			return ri < rj
		}
		if ri < 2 && sorted[i].Position != sorted[j].Position {
			return sorted[i].Position < sorted[j].Position
		}
		return sorted[i].Name < sorted[j].Name
	})

	t := &rdbms.Table{Name: name}
	for _, r := range sorted {
		t.Columns = append(t.Columns, rdbms.Column{
			Name:     r.Name,
			Type:     r.Type,
			FullType: r.Type,
		})
		if kindRank(r.Kind) < 2 {
			t.Primary = append(t.Primary, r.Name)
		}
	}
	return t
}

// "keyspace.table" or "table" within the session keyspace
func splitName(keyspace, name string) (string, string) {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i], name[i+1:]
	}
	return keyspace, name
}

func RemoteGetColumns(
	ctx context.Context,
	sess *gocql.Session,
	keyspace, table string,
) ([]RemoteColumn, error) {

	q, args, err := sq.Select("column_name", "type", "kind", "position").
		From("system_schema.columns").
		Where(sq.Eq{"keyspace_name": keyspace}).
		Where(sq.Eq{"table_name": table}).
		ToSql()
	if err != nil {
		return nil, err
	}

	i := sess.Query(q, args...).WithContext(ctx).Iter()
	var ret []RemoteColumn
	var tmp RemoteColumn
	for i.Scan(&tmp.Name, &tmp.Type, &tmp.Kind, &tmp.Position) {
		ret = append(ret, tmp)
	}
	return ret, i.Close()
}

// Remote reads table from keyspace, returning nil when it doesnt exist.
func Remote(ctx context.Context, sess *gocql.Session, keyspace, table string) (*rdbms.Table, error) {
	ks, name := splitName(keyspace, table)
	rows, err := RemoteGetColumns(ctx, sess, ks, name)
	if err != nil {
		return nil, errors.WithMessagef(err, "columns of %s.%s", ks, name)
	}
	return RemoteTable(table, rows), nil
}
