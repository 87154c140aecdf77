package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// ErrScanValueNotBytes means the database handed Scan something that is
// not a JSON payload.
var ErrScanValueNotBytes = errors.New("valueobject: jsonmap scan value is not []byte")

// JSONMap is a free-form JSON object column. Delivery rows use it to
// keep whatever response payload the mail provider returned.
type JSONMap map[string]any

// Value implements driver.Valuer so the map serializes into a jsonb
// column.
func (j JSONMap) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// Scan implements sql.Scanner. A NULL column scans as an empty map.
func (j *JSONMap) Scan(value any) error {
	if value == nil {
		*j = JSONMap{}
		return nil
	}

	var bytes []byte

	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	case json.RawMessage:
		bytes = []byte(v)
	case map[string]any:
		// Some drivers decode jsonb into a map before we see it.
		*j = JSONMap(v)
		return nil
	default:
		return ErrScanValueNotBytes
	}

	var result JSONMap
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}

	*j = result
	return nil
}

// Set adds or replaces a key.
func (j JSONMap) Set(key string, value any) {
	j[key] = value
}

// SetIfAbsent sets the key only when it is not already present.
func (j JSONMap) SetIfAbsent(key string, value any) {
	if _, exists := j[key]; !exists {
		j[key] = value
	}
}

// Get returns the raw value, or nil when missing.
func (j JSONMap) Get(key string) any {
	return j[key]
}

// Has reports whether the key exists.
func (j JSONMap) Has(key string) bool {
	_, ok := j[key]
	return ok
}

// GetString returns the value as a string, or "" when missing or a
// different type.
func (j JSONMap) GetString(key string) string {
	if v, ok := j[key].(string); ok {
		return v
	}
	return ""
}

// GetInt returns the value as an int. JSON numbers unmarshal as float64,
// so that case converts too.
func (j JSONMap) GetInt(key string) int {
	if v, ok := j[key].(int); ok {
		return v
	}
	if v, ok := j[key].(float64); ok {
		return int(v)
	}
	return 0
}

// GetInt64 returns the value as an int64.
func (j JSONMap) GetInt64(key string) int64 {
	if v, ok := j[key].(int64); ok {
		return v
	}
	if v, ok := j[key].(float64); ok {
		return int64(v)
	}
	return 0
}

// GetBool returns the value as a bool, or false when missing or a
// different type.
func (j JSONMap) GetBool(key string) bool {
	if v, ok := j[key].(bool); ok {
		return v
	}
	return false
}
