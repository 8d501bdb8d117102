package periods

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// ParseError reports a malformed payment period list. Index is the position
// of the offending entry, or -1 when the document as a whole is invalid.
type ParseError struct {
	Index  int
	Field  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		if e.Err != nil {
			return fmt.Sprintf("payment periods: %s: %v", e.Reason, e.Err)
		}
		return "payment periods: " + e.Reason
	}
	return fmt.Sprintf("payment period %d: %s %s", e.Index, e.Field, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// List is the ordered set of periods configured by a user. It is stored as a
// JSON array and decoded strictly: unknown keys, missing fields and values
// out of range are rejected instead of coerced.
type List []Range

type rawRange struct {
	Period   *int `json:"period"`
	StartDay *int `json:"start_day"`
	EndDay   *int `json:"end_day"`
}

// Parse decodes and validates a JSON period list. A JSON null decodes to an
// empty list.
func Parse(data []byte) (List, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return List{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()

	var raw []rawRange
	if err := dec.Decode(&raw); err != nil {
		return nil, &ParseError{Index: -1, Reason: "malformed JSON", Err: err}
	}

	list := make(List, 0, len(raw))
	for i, r := range raw {
		switch {
		case r.Period == nil:
			return nil, &ParseError{Index: i, Field: "period", Reason: "is required"}
		case r.StartDay == nil:
			return nil, &ParseError{Index: i, Field: "start_day", Reason: "is required"}
		case r.EndDay == nil:
			return nil, &ParseError{Index: i, Field: "end_day", Reason: "is required"}
		}
		list = append(list, Range{Period: *r.Period, StartDay: *r.StartDay, EndDay: *r.EndDay})
	}

	if err := list.Validate(); err != nil {
		return nil, err
	}
	return list, nil
}

// Validate checks that period numbers are positive and unique and that days
// lie within 1 to 31. A start day after the end day is allowed; such a range
// simply never matches.
func (l List) Validate() error {
	seen := make(map[int]bool, len(l))
	for i, r := range l {
		if r.Period < 1 {
			return &ParseError{Index: i, Field: "period", Reason: "must be a positive integer"}
		}
		if seen[r.Period] {
			return &ParseError{Index: i, Field: "period", Reason: fmt.Sprintf("%d is duplicated", r.Period)}
		}
		seen[r.Period] = true
		if r.StartDay < 1 || r.StartDay > 31 {
			return &ParseError{Index: i, Field: "start_day", Reason: "must be between 1 and 31"}
		}
		if r.EndDay < 1 || r.EndDay > 31 {
			return &ParseError{Index: i, Field: "end_day", Reason: "must be between 1 and 31"}
		}
	}
	return nil
}

// Equal reports whether both lists hold the same ranges in the same order.
func (l List) Equal(other List) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// UnmarshalJSON applies the strict decoding of Parse to request bodies.
func (l *List) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// MarshalJSON always emits an array, never null.
func (l List) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Range(l))
}

// Scan implements sql.Scanner.
func (l *List) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = List{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return &ParseError{Index: -1, Reason: fmt.Sprintf("unsupported column type %T", src)}
	}

	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Value implements driver.Valuer.
func (l List) Value() (driver.Value, error) {
	data, err := l.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// IsParseError reports whether err is, or wraps, a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
