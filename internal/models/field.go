package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Unknown is displayed in place of a missing or empty field.
const Unknown = "-"

// Field is a loosely typed scalar from a JSON record. The catalogue mixes numbers
// and strings for the same keys, so every value is kept in its textual form.
type Field struct {
	Value   string
	Valid   bool
	Numeric bool
}

func Text(s string) Field {
	return Field{Value: s, Valid: true}
}

func Int(n int64) Field {
	return Field{Value: strconv.FormatInt(n, 10), Valid: true, Numeric: true}
}

func Float(f float64) Field {
	return Field{Value: strconv.FormatFloat(f, 'f', -1, 64), Valid: true, Numeric: true}
}

// Present reports whether the field holds a non-empty value.
func (f Field) Present() bool {
	return f.Valid && f.Value != ""
}

func (f Field) String() string {
	return f.Value
}

func (f Field) Display() string {
	if !f.Present() {
		return Unknown
	}
	return f.Value
}

func (f Field) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	if f.Numeric {
		return []byte(f.Value), nil
	}
	return json.Marshal(f.Value)
}

func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = Field{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Text(s)
	case '{', '[':
		return fmt.Errorf("models.Field: unsupported JSON value %s", data)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*f = Text(strconv.FormatBool(b))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = Field{Value: n.String(), Valid: true, Numeric: true}
	}

	return nil
}
