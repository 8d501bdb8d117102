package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"quincena/internal/uuid"

	"github.com/shopspring/decimal"
)

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// ColumnError reports a JSON column that does not hold the expected shape.
// Index is -1 when the error is not tied to a single element.
type ColumnError struct {
	Column string
	Index  int
	Reason string
	Err    error
}

func (e *ColumnError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid %s column at index %d: %s", e.Column, e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid %s column: %s", e.Column, e.Reason)
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}

// IsColumnError reports whether err is or wraps a *ColumnError.
func IsColumnError(err error) bool {
	var ce *ColumnError
	return errors.As(err, &ce)
}

// Amount is a value in a single currency.
type Amount struct {
	Currency string          `json:"currency" binding:"required,iso4217"`
	Amount   decimal.Decimal `json:"amount" swaggertype:"string"`
}

// AmountList is a list of amounts stored as a JSON column.
type AmountList []Amount

// Scan implements sql.Scanner with strict decoding.
func (l *AmountList) Scan(src any) error {
	data, err := columnBytes("amounts", src)
	if err != nil {
		return err
	}
	if data == nil {
		*l = AmountList{}
		return nil
	}

	var raw []struct {
		Currency *string          `json:"currency"`
		Amount   *decimal.Decimal `json:"amount"`
	}
	if err := strictDecode(data, &raw); err != nil {
		return &ColumnError{Column: "amounts", Index: -1, Reason: "malformed JSON", Err: err}
	}

	out := make(AmountList, 0, len(raw))
	for i, r := range raw {
		if r.Currency == nil || !currencyCode.MatchString(*r.Currency) {
			return &ColumnError{Column: "amounts", Index: i, Reason: "currency must be a three-letter code"}
		}
		if r.Amount == nil {
			return &ColumnError{Column: "amounts", Index: i, Reason: "amount is required"}
		}
		out = append(out, Amount{Currency: *r.Currency, Amount: *r.Amount})
	}
	*l = out
	return nil
}

// Value implements driver.Valuer.
func (l AmountList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]Amount(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// IDList is a list of row ids stored as a JSON column.
type IDList []string

// Scan implements sql.Scanner with strict decoding. Every element must be a
// UUID and appear once.
func (l *IDList) Scan(src any) error {
	data, err := columnBytes("template_ids", src)
	if err != nil {
		return err
	}
	if data == nil {
		*l = IDList{}
		return nil
	}

	var raw []string
	if err := strictDecode(data, &raw); err != nil {
		return &ColumnError{Column: "template_ids", Index: -1, Reason: "malformed JSON", Err: err}
	}

	seen := make(map[string]bool, len(raw))
	for i, id := range raw {
		if !uuid.IsValid(id) {
			return &ColumnError{Column: "template_ids", Index: i, Reason: "not a UUID"}
		}
		if seen[id] {
			return &ColumnError{Column: "template_ids", Index: i, Reason: "duplicate id"}
		}
		seen[id] = true
	}
	*l = raw
	return nil
}

// Value implements driver.Valuer.
func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// MarshalJSON renders a nil list as [].
func (l IDList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// MarshalJSON renders a nil list as [].
func (l AmountList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Amount(l))
}

func columnBytes(column string, src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.TrimSpace(v), nil
	case string:
		return bytes.TrimSpace([]byte(v)), nil
	default:
		return nil, &ColumnError{Column: column, Index: -1, Reason: fmt.Sprintf("unsupported source type %T", src)}
	}
}

func strictDecode(data []byte, v any) error {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON value")
	}
	return nil
}
