package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront-labs/storefront-api/internal/domain"
)

// reader performs the shape and coercion stage over a Payload.
// Every violation is recorded in errs; getters return nil on failure.
type reader struct {
	payload Payload
	errs    *domain.ValidationError
}

func newReader(p Payload) *reader {
	if p == nil {
		p = Payload{}
	}
	return &reader{payload: p, errs: &domain.ValidationError{}}
}

// strict records one violation per key that is not in allowed.
func (r *reader) strict(allowed ...string) {
	known := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		known[k] = struct{}{}
	}

	var extra []string
	for k := range r.payload {
		if _, ok := known[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		r.errs.Add(k, fmt.Sprintf("Unrecognized key: '%s'", k))
	}
}

// lookup returns the value for key. A JSON null counts as absent.
func (r *reader) lookup(key string, required bool) (any, bool) {
	v, ok := r.payload[key]
	if !ok || v == nil {
		if required {
			r.errs.Add(key, "Required")
		}
		return nil, false
	}
	return v, true
}

func (r *reader) str(key string, required bool) *string {
	v, ok := r.lookup(key, required)
	if !ok {
		return nil
	}
	s, isString := v.(string)
	if !isString {
		r.errs.Add(key, "Expected string, received "+typeName(v))
		return nil
	}
	return &s
}

// numeric accepts a string or a JSON number and returns its text.
func (r *reader) numeric(key string, required bool) (string, bool) {
	v, ok := r.lookup(key, required)
	if !ok {
		return "", false
	}
	switch n := v.(type) {
	case string:
		return strings.TrimSpace(n), true
	case json.Number:
		return n.String(), true
	default:
		r.errs.Add(key, "Expected string, received "+typeName(v))
		return "", false
	}
}

func (r *reader) decimal(key string, required bool) *decimal.Decimal {
	text, ok := r.numeric(key, required)
	if !ok {
		return nil
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		r.errs.Add(key, "Expected number, received nan")
		return nil
	}
	if !d.Equal(d.Truncate(domain.MaxPriceScale)) {
		r.errs.Add(key, fmt.Sprintf("Number must have at most %d decimal places", domain.MaxPriceScale))
		return nil
	}
	return &d
}

// parseInt parses a base-10 int. Out-of-range values come back clamped
// to the int bounds without error so the constraint stage reports them.
func parseInt(text string) (int, error) {
	n, err := strconv.Atoi(text)
	if errors.Is(err, strconv.ErrRange) {
		return n, nil
	}
	return n, err
}

// integerString parses a base-10 integer carried as a string or number.
func (r *reader) integerString(key string, required bool) *int {
	text, ok := r.numeric(key, required)
	if !ok {
		return nil
	}
	n, err := parseInt(text)
	if err != nil {
		if _, ferr := strconv.ParseFloat(text, 64); ferr == nil {
			r.errs.Add(key, "Expected integer, received float")
		} else {
			r.errs.Add(key, "Expected number, received nan")
		}
		return nil
	}
	return &n
}

// integer requires a JSON number holding an integral value.
func (r *reader) integer(key string, required bool) *int {
	v, ok := r.lookup(key, required)
	if !ok {
		return nil
	}
	num, isNumber := v.(json.Number)
	if !isNumber {
		r.errs.Add(key, "Expected number, received "+typeName(v))
		return nil
	}
	n, err := parseInt(num.String())
	if err != nil {
		r.errs.Add(key, "Expected integer, received float")
		return nil
	}
	return &n
}

func (r *reader) uuid(key string, required bool) *uuid.UUID {
	s := r.str(key, required)
	if s == nil {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		r.errs.Add(key, "Invalid uuid")
		return nil
	}
	return &id
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number, float64, int, int64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any, Payload:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
