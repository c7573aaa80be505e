package rdbms

import (
	"fmt"
	"path/filepath"

	"github.com/kzaag/dpsql/cmn"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

/*
	parsing local yaml documents to structs

	alter:
	  table: planets
	  add:
	    - name: name
	      type: varchar
	      length: 100
	  drop: [moons]
	  foreign:
	    - local: planets.galaxy_id
	      foreign: galaxies.id
	      on_delete: cascade

	table:
	  name: galaxies
	  columns:
	    - name: id
	      type: bigint
	  primary: [id]
*/

type AlterDoc struct {
	Table   string
	Add     []Column
	Alter   []Column
	Drop    []string
	Foreign []ForeignKey
}

type DDObject struct {
	Alter *AlterDoc
	Table *Table
}

func __ParserErrorTable(tname string, err error) error {
	return fmt.Errorf("in table %s: %s", tname, err.Error())
}

func __ParserErrorColumn(cname string, err error) error {
	return fmt.Errorf("in column %s: %s", cname, err.Error())
}

func ParserValidateColumn(c []Column, typeRequired bool) error {
	for i := 0; i < len(c); i++ {
		col := &c[i]
		if col.Name == "" {
			return fmt.Errorf("column at index %d doesnt have name specified", i)
		}
		if typeRequired && col.Type == "" && col.FullType == "" {
			return __ParserErrorColumn(col.Name, fmt.Errorf("type was not specified"))
		}
	}
	return nil
}

func ParserValidateFK(table string, fks []ForeignKey) error {
	for i := 0; i < len(fks); i++ {
		fk := &fks[i]
		if fk.Local.Name == "" || fk.Foreign.Name == "" || fk.Foreign.Table == "" {
			return fmt.Errorf("foreign key at index %d must name both local and foreign columns", i)
		}
		if fk.Local.Table == "" {
			fk.Local.Table = table
		}
		if fk.Local.Table != table {
			return fmt.Errorf("in foreign key %s: local column must belong to %s", fk.Name(), table)
		}
	}
	return nil
}

func ParserValidateAlter(a *AlterDoc, f string) error {
	if a == nil {
		return nil
	}
	if a.Table == "" {
		return fmt.Errorf("alter defined in %s doesnt have table specified", f)
	}
	if err := ParserValidateColumn(a.Add, true); err != nil {
		return __ParserErrorTable(a.Table, err)
	}
	if err := ParserValidateColumn(a.Alter, true); err != nil {
		return __ParserErrorTable(a.Table, err)
	}
	for i, d := range a.Drop {
		if d == "" {
			return __ParserErrorTable(a.Table, fmt.Errorf("dropped column at index %d is empty", i))
		}
	}
	if err := ParserValidateFK(a.Table, a.Foreign); err != nil {
		return __ParserErrorTable(a.Table, err)
	}
	if len(a.Add)+len(a.Alter)+len(a.Drop)+len(a.Foreign) == 0 {
		return __ParserErrorTable(a.Table, fmt.Errorf("alter defined in %s has no operations", f))
	}
	return nil
}

func ParserValidateTable(t *Table, f string) error {
	if t == nil {
		return nil
	}
	if t.Name == "" {
		return fmt.Errorf("table defined in %s doesnt have specified name", f)
	}
	if err := ParserValidateColumn(t.Columns, true); err != nil {
		return __ParserErrorTable(t.Name, err)
	}
	for _, pk := range t.Primary {
		if t.Column(pk) == nil {
			return __ParserErrorTable(t.Name, fmt.Errorf("primary key column %s is not defined", pk))
		}
	}
	if err := ParserValidateFK(t.Name, t.Foreign); err != nil {
		return __ParserErrorTable(t.Name, err)
	}
	return nil
}

func ParserParseObject(path string, fc []byte) (*DDObject, error) {
	var obj DDObject
	if err := yaml.UnmarshalStrict(fc, &obj); err != nil {
		return nil, errors.Wrapf(err, "couldnt unmarshal %s", path)
	}
	if obj.Alter == nil && obj.Table == nil {
		return nil, fmt.Errorf("%s defines neither alter nor table", path)
	}
	if err := ParserValidateAlter(obj.Alter, path); err != nil {
		return nil, err
	}
	if err := ParserValidateTable(obj.Table, path); err != nil {
		return nil, err
	}
	return &obj, nil
}

func isYaml(path string) bool {
	switch filepath.Ext(path) {
	case ".yml", ".yaml":
		return true
	}
	return false
}

// ParserGetObjects parses every yaml document under path, in lexical file order.
func ParserGetObjects(path string) ([]DDObject, error) {
	var ret []DDObject
	err := cmn.ParserIterateOverSource(path, func(p string, fc []byte) error {
		if !isYaml(p) {
			return nil
		}
		obj, err := ParserParseObject(p, fc)
		if err != nil {
			return err
		}
		ret = append(ret, *obj)
		return nil
	})
	return ret, err
}

// ApplyAlterDoc appends the operations of a in order: add, alter, drop, foreign.
func ApplyAlterDoc[C any](b *AlterTableBuilder[C], d ColumnDefiner[C], a *AlterDoc) {
	AddColumn[C](b, d, a.Add...)
	for i := range a.Alter {
		AlterColumn[C](b, d, &Column{Name: a.Alter[i].Name}, &a.Alter[i])
	}
	DropColumn[C](b, d, a.Drop...)
	b.ForeignKey(a.Foreign...)
}
