package schema

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON writes the parameter listing as a map of names to type names.
func (p Params) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	raw := make(map[string]string, len(p))
	for key, typ := range p {
		if typ == nil {
			return nil, fmt.Errorf("param %s: type is nil", key)
		}
		raw[key] = typ.Name()
	}
	return json.Marshal(raw)
}

// UnmarshalJSON reads a map of names to type names.
func (p *Params) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = nil
		return nil
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Params, len(raw))
	for key, name := range raw {
		typ, err := ParseType(name)
		if err != nil {
			return fmt.Errorf("param %s: %w", key, err)
		}
		out[key] = typ
	}
	*p = out
	return nil
}
