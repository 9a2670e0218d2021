package tracker

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/mesh-intelligence/mart/pkg/types"
)

// tableMeta describes how one entity type maps onto its table.
// Columns are read from `db` tags in field order; the key column is the
// field tagged `key:"true"`.
type tableMeta struct {
	table   string
	typ     reflect.Type // struct type, not the pointer
	key     string
	keyIdx  int
	columns []string
	fields  []int
}

var metaCache sync.Map // reflect.Type -> *tableMeta

// metaOf returns the cached mapping for m's dynamic type.
func metaOf(m types.Model) (*tableMeta, error) {
	if isNil(m) {
		return nil, types.ErrNilEntity
	}
	rt := reflect.TypeOf(m)
	if cached, ok := metaCache.Load(rt); ok {
		return cached.(*tableMeta), nil
	}
	if rt.Kind() != reflect.Pointer || rt.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a pointer to struct", types.ErrInvalidData, rt)
	}

	st := rt.Elem()
	meta := &tableMeta{table: m.TableName(), typ: st, keyIdx: -1}
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		col := f.Tag.Get("db")
		if col == "" || col == "-" || !f.IsExported() {
			continue
		}
		if f.Tag.Get("key") == "true" {
			meta.key = col
			meta.keyIdx = i
		}
		meta.columns = append(meta.columns, col)
		meta.fields = append(meta.fields, i)
	}
	if meta.keyIdx < 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrNoKeyColumn, st.Name())
	}

	actual, _ := metaCache.LoadOrStore(rt, meta)
	return actual.(*tableMeta), nil
}

// metaFor returns the mapping for the entity type T.
// A misdeclared entity type is a programming error and panics.
func metaFor[T types.Model]() *tableMeta {
	var zero T
	rt := reflect.TypeOf(zero)
	if rt == nil || rt.Kind() != reflect.Pointer {
		panic(fmt.Sprintf("tracker: entity type %v must be a pointer to struct", rt))
	}
	m, ok := reflect.New(rt.Elem()).Interface().(types.Model)
	if !ok {
		panic(fmt.Sprintf("tracker: %v does not implement types.Model", rt))
	}
	meta, err := metaOf(m)
	if err != nil {
		panic(fmt.Sprintf("tracker: %v", err))
	}
	return meta
}

// values returns the columns and values to write for m. The key column is
// included only when the entity already carries an identity.
func (tm *tableMeta) values(m types.Model, withKey bool) ([]string, []any) {
	rv := reflect.ValueOf(m).Elem()
	cols := make([]string, 0, len(tm.columns))
	vals := make([]any, 0, len(tm.columns))
	for i, col := range tm.columns {
		idx := tm.fields[i]
		if idx == tm.keyIdx && !withKey {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, rv.Field(idx).Interface())
	}
	return cols, vals
}

// newEntity allocates a zero entity of the mapped type.
func (tm *tableMeta) newEntity() types.Model {
	return reflect.New(tm.typ).Interface().(types.Model)
}

func isNil(m types.Model) bool {
	if m == nil {
		return true
	}
	rv := reflect.ValueOf(m)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// copyInto overwrites dst's fields with src's.
func copyInto(dst, src types.Model) {
	reflect.ValueOf(dst).Elem().Set(reflect.ValueOf(src).Elem())
}
