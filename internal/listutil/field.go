package listutil

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
)

type kind int

const (
	kindOther kind = iota
	kindString
	kindNumber
)

// scalar is a field value reduced to what search, filter and sort compare.
type scalar struct {
	kind kind
	str  string  // string value, or decimal form of a number
	num  float64 // numeric value
}

var fieldIndex sync.Map // reflect.Type -> map[string][]int

// structFields maps both JSON names and Go names to field indexes.
func structFields(t reflect.Type) map[string][]int {
	if m, ok := fieldIndex.Load(t); ok {
		return m.(map[string][]int)
	}
	m := map[string][]int{}
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if _, dup := m[f.Name]; !dup {
			m[f.Name] = f.Index
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag != "" && tag != "-" {
			m[tag] = f.Index
		}
	}
	fieldIndex.Store(t, m)
	return m
}

// lookup reads name from a struct (JSON or Go name) or a string-keyed map.
func lookup(item any, name string) (reflect.Value, bool) {
	v := indirect(reflect.ValueOf(item))
	switch v.Kind() {
	case reflect.Struct:
		idx, ok := structFields(v.Type())[name]
		if !ok {
			return reflect.Value{}, false
		}
		f, err := v.FieldByIndexErr(idx)
		if err != nil {
			return reflect.Value{}, false
		}
		return indirect(f), true
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		f := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if !f.IsValid() {
			return reflect.Value{}, false
		}
		return indirect(f), true
	default:
		return reflect.Value{}, false
	}
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func valueOf(item any, name string) scalar {
	v, ok := lookup(item, name)
	if !ok || !v.IsValid() {
		return scalar{}
	}
	switch v.Kind() {
	case reflect.String:
		return scalar{kind: kindString, str: v.String()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := v.Int()
		return scalar{kind: kindNumber, str: strconv.FormatInt(n, 10), num: float64(n)}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := v.Uint()
		return scalar{kind: kindNumber, str: strconv.FormatUint(n, 10), num: float64(n)}
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		return scalar{kind: kindNumber, str: strconv.FormatFloat(f, 'f', -1, 64), num: f}
	default:
		return scalar{}
	}
}
