package fluent

import (
	"fmt"
	"time"
)

// Value is the runtime-level tagged union produced by expression
// resolution: String, Number, DateTime, or None.
type Value interface {
	// ToString renders the value for concatenation into a Pattern's
	// output. Scope is consulted for locale-aware formatting of Number
	// and DateTime values.
	ToString(scope *Scope) string
	value()
}

// StringValue wraps a plain string.
type StringValue struct {
	Value string
}

func (StringValue) value() {}

// ToString returns the wrapped string unchanged.
func (v StringValue) ToString(*Scope) string { return v.Value }

// NumberOptions carries the subset of Intl.NumberFormat-style options
// Fluent's NUMBER() built-in recognizes.
type NumberOptions struct {
	Style                string // "decimal" (default), "percent", "currency"
	Currency             string // ISO 4217 code, required when Style == "currency"
	CurrencyDisplay      string // "symbol" (default), "code"
	UseGrouping          bool
	MinimumFractionDigits int
	MaximumFractionDigits int
	HasMinFractionDigits bool
	HasMaxFractionDigits bool
}

// NumberValue wraps a numeric value plus formatting options, as produced by
// a NumberLiteral or the NUMBER() built-in.
type NumberValue struct {
	Value   float64
	Options NumberOptions
}

func (NumberValue) value() {}

// ToString renders the number through the Scope's memoized formatter.
func (v NumberValue) ToString(scope *Scope) string {
	return scope.formatNumber(v)
}

// DateTimeOptions carries the subset of Intl.DateTimeFormat-style options
// Fluent's DATETIME() built-in recognizes.
type DateTimeOptions struct {
	DateStyle string // "", "full", "long", "medium", "short"
	TimeStyle string // "", "full", "long", "medium", "short"
	Hour24    bool
	HasHour24 bool
}

// DateTimeValue wraps a wall-clock value plus formatting options, as
// produced by the DATETIME() built-in.
type DateTimeValue struct {
	Value   time.Time
	Options DateTimeOptions
}

func (DateTimeValue) value() {}

// ToString renders the date-time with the Scope's fixed per-style layouts.
func (v DateTimeValue) ToString(scope *Scope) string {
	return scope.formatDateTime(v)
}

// NoneValue is the sentinel produced whenever resolution fails in a way
// that has a sensible substitute. It renders as "{placeholder}" so
// failures stay visible in the output string.
type NoneValue struct {
	Placeholder string
}

func (NoneValue) value() {}

// ToString renders "{placeholder}", or "{???}" if none was set.
func (v NoneValue) ToString(*Scope) string {
	placeholder := v.Placeholder
	if placeholder == "" {
		placeholder = "???"
	}
	return "{" + placeholder + "}"
}

func newNone(placeholder string) NoneValue {
	return NoneValue{Placeholder: placeholder}
}

// valueFromArg converts a caller-supplied variable (string, int, int32,
// int64, uint, float32, float64, time.Time, fmt.Stringer, or an existing
// Value) into a Value, following VariableReference resolution rules. ok is
// false for any other type, including the remaining integer kinds.
func valueFromArg(arg any) (Value, bool) {
	switch v := arg.(type) {
	case Value:
		return v, true
	case string:
		return StringValue{Value: v}, true
	case time.Time:
		return DateTimeValue{Value: v}, true
	case int:
		return NumberValue{Value: float64(v)}, true
	case int32:
		return NumberValue{Value: float64(v)}, true
	case int64:
		return NumberValue{Value: float64(v)}, true
	case uint:
		return NumberValue{Value: float64(v)}, true
	case float32:
		return NumberValue{Value: float64(v)}, true
	case float64:
		return NumberValue{Value: v}, true
	case fmt.Stringer:
		return StringValue{Value: v.String()}, true
	default:
		return nil, false
	}
}
