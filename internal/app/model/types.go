package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// StringArray stores a list of strings as a JSON array column
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("failed to scan StringArray")
	}

	if len(raw) == 0 {
		*s = StringArray{}
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(s))
}

// GormDataType keeps the column portable between postgres and sqlite
func (StringArray) GormDataType() string {
	return "text"
}

// Normalize trims entries and drops empty ones and duplicates, keeping order
func (s StringArray) Normalize() StringArray {
	seen := make(map[string]bool, len(s))
	out := make(StringArray, 0, len(s))
	for _, v := range s {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func newID() string {
	return uuid.New().String()
}
