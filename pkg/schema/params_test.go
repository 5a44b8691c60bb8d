package schema

import (
	"encoding/json"
	"testing"
)

func TestTypes(t *testing.T) {
	tests := []struct {
		typ     Type
		value   any
		wantErr bool
	}{
		{String(), "hello", false},
		{String(), 42, true},
		{Int(), 42, false},
		{Int(), int64(42), false},
		{Int(), float64(42), false}, // whole number from JSON
		{Int(), 42.5, true},
		{Int(), "42", true},
		{Float(), 0.5, false},
		{Float(), 2, false},
		{Float(), true, true},
		{Bool(), false, false},
		{Bool(), nil, true},
		{Map(), map[string]any{"a": 1}, false},
		{Map(), []any{}, true},
		{Slice(String()), []any{"a", "b"}, false},
		{Slice(String()), []any{"a", 1}, true},
		{Slice(Int()), "nope", true},
	}

	for _, tt := range tests {
		err := tt.typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s.Validate(%v) error = %v, wantErr %v", tt.typ.Name(), tt.value, err, tt.wantErr)
		}
	}
}

func TestParseType(t *testing.T) {
	for _, name := range []string{"string", "int", "float", "bool", "map", "[string]", "[[int]]"} {
		typ, err := ParseType(name)
		if err != nil {
			t.Fatalf("ParseType(%q) error = %v", name, err)
		}
		if typ.Name() != name {
			t.Errorf("ParseType(%q).Name() = %q", name, typ.Name())
		}
	}
	if _, err := ParseType("duration"); err == nil {
		t.Error("ParseType(duration) should fail")
	}
}

func TestValidateParams(t *testing.T) {
	params := Params{"target": String(), "scale": Float()}

	if err := ValidateParams(params, nil); err != nil {
		t.Errorf("empty params should validate, got %v", err)
	}
	if err := ValidateParams(params, map[string]any{"scale": 0.5}); err != nil {
		t.Errorf("ValidateParams() error = %v", err)
	}

	err := ValidateParams(params, map[string]any{"scale": "slow", "speed": 2})
	errs := ValidationErrors(err)
	if len(errs) != 2 {
		t.Fatalf("ValidateParams() = %d errors, want 2: %v", len(errs), err)
	}
	// Keys are reported in sorted order.
	if ve := errs[0].(*ValidationError); ve.Path != "scale" {
		t.Errorf("first error on %q, want scale", ve.Path)
	}
	if ve := errs[1].(*ValidationError); ve.Reason != "unknown parameter" {
		t.Errorf("second error reason %q", ve.Reason)
	}
}

func TestDecodeParams(t *testing.T) {
	var out struct {
		Target string  `mapstructure:"target"`
		Scale  float64 `mapstructure:"scale"`
	}
	out.Target = "Rest"

	if err := DecodeParams(map[string]any{"scale": 2}, &out); err != nil {
		t.Fatalf("DecodeParams() error = %v", err)
	}
	if out.Target != "Rest" || out.Scale != 2 {
		t.Errorf("DecodeParams() = %+v", out)
	}
	if err := DecodeParams(map[string]any{"unknown": true}, &out); err == nil {
		t.Error("DecodeParams() should reject unused keys")
	}
}

func TestParamsJSON(t *testing.T) {
	in := Params{"target": String(), "routes": Slice(Map())}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"routes":"[map]","target":"string"}` {
		t.Errorf("Marshal = %s", data)
	}

	var out Params
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out["routes"].Name() != "[map]" || out["target"].Name() != "string" {
		t.Errorf("Unmarshal = %v", out)
	}
}
