package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Tags is a string set stored as a jsonb column.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshaling tags: %w", err)
	}
	return string(b), nil
}

func (t *Tags) Scan(src interface{}) error {
	if src == nil {
		*t = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("scanning tags: unsupported type %T", src)
	}
	return json.Unmarshal(b, t)
}
