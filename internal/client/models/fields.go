package models

import (
	"encoding/json"
	"math"
)

func stringField(f map[string]any, key string) string {
	s, _ := f[key].(string)
	return s
}

// int64Field reads a numeric field. Documents decoded from JSON or
// protobuf Struct carry numbers as float64.
func int64Field(f map[string]any, key string) int64 {
	switch v := f[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(math.Round(v))
	case json.Number:
		n, _ := v.Int64()
		return n
	}
	return 0
}
