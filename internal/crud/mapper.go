package crud

import (
	"fmt"
	"reflect"
	"sync"
)

type fieldPair struct {
	src, dst int
}

type typePair struct {
	src, dst reflect.Type
}

var fieldPlans sync.Map // typePair -> []fieldPair

// CopyMatchingFields copies every exported field of src onto the field of
// dst with the same name and an assignable type. Other fields are left
// alone. dst must be a non-nil pointer to a struct; src may be a struct or
// a pointer to one.
func CopyMatchingFields(dst, src any) error {
	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Pointer || dv.IsNil() || dv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("CopyMatchingFields: dst must be a non-nil struct pointer, got %T", dst)
	}
	sv := reflect.ValueOf(src)
	if sv.Kind() == reflect.Pointer {
		if sv.IsNil() {
			return fmt.Errorf("CopyMatchingFields: src is a nil %T", src)
		}
		sv = sv.Elem()
	}
	if sv.Kind() != reflect.Struct {
		return fmt.Errorf("CopyMatchingFields: src must be a struct, got %T", src)
	}
	dv = dv.Elem()

	for _, p := range planFor(sv.Type(), dv.Type()) {
		dv.Field(p.dst).Set(sv.Field(p.src))
	}
	return nil
}

func planFor(src, dst reflect.Type) []fieldPair {
	key := typePair{src: src, dst: dst}
	if cached, ok := fieldPlans.Load(key); ok {
		return cached.([]fieldPair)
	}
	var plan []fieldPair
	for i := 0; i < src.NumField(); i++ {
		sf := src.Field(i)
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		df, ok := dst.FieldByName(sf.Name)
		if !ok || !df.IsExported() || len(df.Index) != 1 {
			continue
		}
		if !sf.Type.AssignableTo(df.Type) {
			continue
		}
		plan = append(plan, fieldPair{src: i, dst: df.Index[0]})
	}
	fieldPlans.Store(key, plan)
	return plan
}
