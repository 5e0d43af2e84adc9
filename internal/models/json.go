package models

import (
	"database/sql/driver"
	"encoding/json"
)

// JSON stores free-form structured payloads (device metadata, raw postback
// snapshots) as a serialized column.
type JSON map[string]interface{}

// Value implements the driver.Valuer interface.
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return nil
	}
}
