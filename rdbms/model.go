package rdbms

import (
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pkg/errors"
)

// Tabler overrides the table name derived from a model's type name.
type Tabler interface {
	TableName() string
}

var timeType = reflect.TypeOf(time.Time{})

func modelType(model interface{}) (reflect.Type, error) {
	if model == nil {
		return nil, errors.New("model is nil")
	}
	rt := reflect.TypeOf(model)
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil, errors.Errorf("model must be a struct, got %s", rt.Kind())
	}
	return rt, nil
}

// TableNameOf returns Tabler.TableName or the snake_case type name.
func TableNameOf(model interface{}) (string, error) {
	if t, ok := model.(Tabler); ok {
		return t.TableName(), nil
	}
	rt, err := modelType(model)
	if err != nil {
		return "", err
	}
	return snakeCase(rt.Name()), nil
}

/*
	TableOf reads columns from the exported fields of a struct.

	type Planet struct {
		ID     int64   `db:"id,pk,identity"`
		Name   string  `db:"name,type=varchar,length=100"`
		Radius *float64
		Notes  string  `db:"-"`
	}

	Pointer fields and fields tagged "null" are nullable.
	The column type defaults to a common SQL name for the Go kind.
*/
func TableOf(model interface{}) (*Table, error) {
	rt, err := modelType(model)
	if err != nil {
		return nil, err
	}
	name, err := TableNameOf(model)
	if err != nil {
		return nil, err
	}
	t := &Table{Name: name}
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("db")
		if tag == "-" {
			continue
		}
		c, pk, err := columnOf(f, tag)
		if err != nil {
			return nil, errors.WithMessagef(err, "in model %s field %s", rt.Name(), f.Name)
		}
		if pk {
			t.Primary = append(t.Primary, c.Name)
		}
		t.Columns = append(t.Columns, c)
	}
	return t, nil
}

func columnOf(f reflect.StructField, tag string) (Column, bool, error) {
	var c Column
	var pk bool
	parts := strings.Split(tag, ",")
	c.Name = parts[0]
	if c.Name == "" {
		c.Name = snakeCase(f.Name)
	}
	ft := f.Type
	if ft.Kind() == reflect.Ptr {
		c.Nullable = true
		ft = ft.Elem()
	}
	for _, opt := range parts[1:] {
		k, v, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch k {
		case "pk":
			pk = true
		case "identity":
			c.Identity = true
		case "null":
			c.Nullable = true
		case "type":
			c.Type = v
		case "default":
			c.Default = v
		case "length":
			n, err := strconv.Atoi(v)
			if err != nil {
				return c, pk, errors.Wrapf(err, "option %s", k)
			}
			c.Length = n
		case "precision":
			n, err := strconv.Atoi(v)
			if err != nil {
				return c, pk, errors.Wrapf(err, "option %s", k)
			}
			c.Precision = n
		case "scale":
			n, err := strconv.Atoi(v)
			if err != nil {
				return c, pk, errors.Wrapf(err, "option %s", k)
			}
			c.Scale = n
		case "":
		default:
			return c, pk, errors.Errorf("unknown tag option %q", k)
		}
	}
	if c.Type == "" {
		c.Type = kindType(ft)
		if c.Type == "" {
			return c, pk, errors.Errorf("no default column type for %s, set type= in the db tag", ft)
		}
	}
	return c, pk, nil
}

func kindType(t reflect.Type) string {
	if t == timeType {
		return "timestamp"
	}
	switch t.Kind() {
	case reflect.String:
		return "text"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int64, reflect.Uint32:
		return "bigint"
	case reflect.Int32, reflect.Uint16:
		return "integer"
	case reflect.Int8, reflect.Int16, reflect.Uint8:
		return "smallint"
	case reflect.Float64:
		return "float"
	case reflect.Float32:
		return "real"
	}
	return ""
}

func snakeCase(s string) string {
	var b strings.Builder
	rs := []rune(s)
	for i, r := range rs {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(rs[i-1]) ||
				(i+1 < len(rs) && unicode.IsLower(rs[i+1]) && unicode.IsUpper(rs[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AlterModel returns an alter table builder for the model's table.
func AlterModel[C any](conn Runner[C], model interface{}) (*AlterTableBuilder[C], error) {
	name, err := TableNameOf(model)
	if err != nil {
		return nil, err
	}
	return Alter(conn, name), nil
}

// ColumnFor appends an add column operation for one field of model.
// field may be the Go field name or the column name.
func ColumnFor[C any](b ColumnBuilder[C], d ColumnDefiner[C], model interface{}, field string) error {
	t, err := TableOf(model)
	if err != nil {
		return err
	}
	rt, _ := modelType(model)
	name := field
	if sf, ok := rt.FieldByName(field); ok {
		tag := sf.Tag.Get("db")
		name = strings.Split(tag, ",")[0]
		if name == "" || name == "-" {
			name = snakeCase(sf.Name)
		}
	}
	c := t.Column(name)
	if c == nil {
		return errors.Errorf("model %s has no column %s", t.Name, field)
	}
	AddColumn[C](b, d, *c)
	return nil
}
