package muster

import (
	"time"

	"github.com/randalmurphal/muster/pkg/muster/schema"
)

// FieldValues wraps an event's validated field map for type-safe reads.
// The lifecycle consumes it read-only; validation against a category
// happened when the event was built.
//
// Accessor methods return default values if the key is missing or the
// value cannot be converted to the requested type.
type FieldValues struct {
	data map[string]any
}

// NewFieldValues creates a FieldValues from the given map.
// If data is nil, an empty FieldValues is returned.
func NewFieldValues(data map[string]any) FieldValues {
	if data == nil {
		data = make(map[string]any)
	}
	return FieldValues{data: data}
}

// String returns the string value for key, or defaultVal if missing or
// not a string.
func (f FieldValues) String(key, defaultVal string) string {
	v, ok := f.data[key]
	if !ok {
		return defaultVal
	}
	if s, ok := v.(string); ok {
		return s
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal if missing or not
// convertible.
//
// Accepts:
//   - int: used directly
//   - int64: converted to int
//   - float64: converted to int (only if no fractional part)
func (f FieldValues) Int(key string, defaultVal int) int {
	v, ok := f.data[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
	}
	return defaultVal
}

// Time returns the time value for key, or the zero time if missing or
// invalid.
//
// Accepts:
//   - time.Time: used directly
//   - string: parsed as RFC3339 (the snapshot round-trip form)
func (f FieldValues) Time(key string) time.Time {
	v, ok := f.data[key]
	if !ok {
		return time.Time{}
	}
	switch val := v.(type) {
	case time.Time:
		return val
	case string:
		if t, err := time.Parse(time.RFC3339, val); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Duration returns the duration value for key, or defaultVal if missing
// or invalid.
//
// Accepts:
//   - time.Duration: used directly
//   - string: parsed with time.ParseDuration
//   - int, int64, float64: interpreted as seconds
func (f FieldValues) Duration(key string, defaultVal time.Duration) time.Duration {
	v, ok := f.data[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case time.Duration:
		return val
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	case float64:
		return time.Duration(val * float64(time.Second))
	case int:
		return time.Duration(val) * time.Second
	case int64:
		return time.Duration(val) * time.Second
	}
	return defaultVal
}

// Map returns a copy of the underlying map, with time values normalized
// to RFC3339 strings so the result is JSON-safe. Used when snapshotting.
func (f FieldValues) Map() map[string]any {
	out := make(map[string]any, len(f.data))
	for k, v := range f.data {
		if t, ok := v.(time.Time); ok {
			out[k] = t.Format(time.RFC3339)
			continue
		}
		if d, ok := v.(time.Duration); ok {
			out[k] = d.String()
			continue
		}
		out[k] = v
	}
	return out
}

// Convenience accessors for the well-known lifecycle fields.

// Title returns the event title.
func (f FieldValues) Title() string {
	return f.String(schema.FieldTitle, "")
}

// Capacity returns the target participant count.
func (f FieldValues) Capacity() int {
	return f.Int(schema.FieldCapacity, 0)
}

// Tolerance returns the over-admission margin. Defaults to zero.
func (f FieldValues) Tolerance() int {
	return f.Int(schema.FieldTolerance, 0)
}

// RegistrationDeadline returns the latest instant a subscription is
// accepted.
func (f FieldValues) RegistrationDeadline() time.Time {
	return f.Time(schema.FieldRegistrationDeadline)
}

// UnsubscribeDeadline returns the latest instant an unsubscription is
// accepted. Falls back to the registration deadline when unset.
func (f FieldValues) UnsubscribeDeadline() time.Time {
	if t := f.Time(schema.FieldUnsubscribeDeadline); !t.IsZero() {
		return t
	}
	return f.RegistrationDeadline()
}

// Start returns the event start time.
func (f FieldValues) Start() time.Time {
	return f.Time(schema.FieldStart)
}

// End returns the event end time.
func (f FieldValues) End() time.Time {
	return f.Time(schema.FieldEnd)
}
