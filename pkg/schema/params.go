package schema

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/mitchellh/mapstructure"
)

// Type checks one parameter value.
type Type interface {
	Name() string
	Validate(value any) error
}

type kindType struct {
	name  string
	check func(any) bool
}

func (t kindType) Name() string { return t.name }

func (t kindType) Validate(value any) error {
	if !t.check(value) {
		return fmt.Errorf("expected %s", t.name)
	}
	return nil
}

func isInt(v any) bool {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		// JSON numbers arrive as float64.
		return n == float64(int64(n))
	}
	return false
}

func isFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return isInt(v)
}

// String accepts text values.
func String() Type {
	return kindType{name: "string", check: func(v any) bool { _, ok := v.(string); return ok }}
}

// Int accepts whole numbers.
func Int() Type { return kindType{name: "int", check: isInt} }

// Float accepts any number.
func Float() Type { return kindType{name: "float", check: isFloat} }

// Bool accepts booleans.
func Bool() Type {
	return kindType{name: "bool", check: func(v any) bool { _, ok := v.(bool); return ok }}
}

// Map accepts nested objects.
func Map() Type {
	return kindType{name: "map", check: func(v any) bool {
		return v != nil && reflect.TypeOf(v).Kind() == reflect.Map
	}}
}

type sliceType struct{ elem Type }

func (t sliceType) Name() string { return "[" + t.elem.Name() + "]" }

func (t sliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected %s", t.Name())
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elem.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// Slice accepts lists whose elements all satisfy elem.
func Slice(elem Type) Type { return sliceType{elem: elem} }

// ParseType reads a type name as written in parameter listings:
// "string", "int", "float", "bool", "map" or a bracketed list such as "[string]".
func ParseType(name string) (Type, error) {
	if len(name) > 2 && name[0] == '[' && name[len(name)-1] == ']' {
		elem, err := ParseType(name[1 : len(name)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elem), nil
	}
	switch name {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	case "map":
		return Map(), nil
	}
	return nil, fmt.Errorf("unsupported type: %s", name)
}

// Params lists the parameters a behavior accepts. Every parameter is
// optional; behaviors fall back to their defaults.
type Params map[string]Type

// Names returns the parameter names in sorted order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// ValidateParams checks data against p. Unknown keys and mistyped values are
// reported together.
func ValidateParams(p Params, data map[string]any) error {
	var errs []error
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		typ, ok := p[key]
		if !ok {
			errs = append(errs, &ValidationError{Path: key, Reason: "unknown parameter"})
			continue
		}
		if err := typ.Validate(data[key]); err != nil {
			errs = append(errs, &ValidationError{Path: key, Reason: err.Error(), Value: data[key]})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// DecodeParams fills out from a chart parameter map using its mapstructure
// tags. Fields absent from params keep their current values.
func DecodeParams(params map[string]any, out any) error {
	if len(params) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("failed to decode params: %w", err)
	}
	return nil
}
