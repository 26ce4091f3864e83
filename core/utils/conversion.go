package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ToString converts a cell value to its textual representation.
// Numbers are rendered without exponent or trailing zeros so that a date of birth
// stored as a number in one snapshot compares equal to the same text in another.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format(time.DateOnly)
		}
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToOptionalString converts a cell value to text, keeping nil as absent.
func ToOptionalString(val any) *string {
	switch v := val.(type) {
	case nil:
		return nil
	case *string:
		return v
	}
	s := ToString(val)
	return &s
}
