// Package schema defines event categories and their field layouts.
//
// A Catalog is an explicit configuration object: construct it once at
// startup (in code or from a YAML/JSON file) and pass it by reference to
// whatever creates events. There is no process-wide default and no lazy
// initialization.
//
// The lifecycle engine itself never touches the catalog; it consumes
// already-validated field values. Validation happens up front, when an
// event is built against a category.
package schema

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies the type a field value must carry.
type Kind string

// Supported field kinds.
const (
	KindString   Kind = "string"
	KindInt      Kind = "int"
	KindTime     Kind = "time"
	KindDuration Kind = "duration"
)

// Field describes one value an event of a category must or may carry.
type Field struct {
	Name     string `yaml:"name" json:"name"`
	Kind     Kind   `yaml:"kind" json:"kind"`
	Required bool   `yaml:"required" json:"required"`
}

// Category groups the fields an event proposal must provide.
type Category struct {
	Name   string  `yaml:"name" json:"name"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Field returns the named field definition.
func (c Category) Field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Well-known field names consumed by the lifecycle engine.
// Every category carries these in addition to its own fields.
const (
	FieldTitle                = "title"
	FieldCapacity             = "capacity"
	FieldTolerance            = "tolerance"
	FieldRegistrationDeadline = "registration_deadline"
	FieldUnsubscribeDeadline  = "unsubscribe_deadline"
	FieldStart                = "start"
	FieldEnd                  = "end"
)

// BaseFields returns the field definitions every category shares: the
// values the lifecycle engine reads to drive admission and timers.
func BaseFields() []Field {
	return []Field{
		{Name: FieldTitle, Kind: KindString, Required: true},
		{Name: FieldCapacity, Kind: KindInt, Required: true},
		{Name: FieldTolerance, Kind: KindInt, Required: false},
		{Name: FieldRegistrationDeadline, Kind: KindTime, Required: true},
		{Name: FieldUnsubscribeDeadline, Kind: KindTime, Required: false},
		{Name: FieldStart, Kind: KindTime, Required: true},
		{Name: FieldEnd, Kind: KindTime, Required: true},
	}
}

// NewCategory creates a category carrying the base fields plus extras.
// Extra fields may not shadow a base field name.
func NewCategory(name string, extras ...Field) (Category, error) {
	if name == "" {
		return Category{}, errors.New("category name is required")
	}

	cat := Category{Name: name, Fields: BaseFields()}
	for _, f := range extras {
		if _, exists := cat.Field(f.Name); exists {
			return Category{}, fmt.Errorf("field %q already defined for category %q", f.Name, name)
		}
		if err := validateKind(f.Kind); err != nil {
			return Category{}, fmt.Errorf("field %q: %w", f.Name, err)
		}
		cat.Fields = append(cat.Fields, f)
	}
	return cat, nil
}

func validateKind(k Kind) error {
	switch k {
	case KindString, KindInt, KindTime, KindDuration:
		return nil
	}
	return fmt.Errorf("unknown field kind %q", k)
}

// Catalog holds the categories available for event proposals.
// It is immutable after construction and safe for concurrent reads.
type Catalog struct {
	categories map[string]Category
	order      []string
}

// NewCatalog creates a catalog from the given categories.
func NewCatalog(categories ...Category) (*Catalog, error) {
	c := &Catalog{categories: make(map[string]Category, len(categories))}
	for _, cat := range categories {
		if cat.Name == "" {
			return nil, errors.New("category name is required")
		}
		if _, exists := c.categories[cat.Name]; exists {
			return nil, fmt.Errorf("duplicate category %q", cat.Name)
		}
		c.categories[cat.Name] = cat
		c.order = append(c.order, cat.Name)
	}
	return c, nil
}

// Category returns the named category.
func (c *Catalog) Category(name string) (Category, bool) {
	cat, ok := c.categories[name]
	return cat, ok
}

// Names returns category names in registration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Sentinel errors for validation.
var (
	// ErrUnknownCategory indicates the catalog has no such category.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrMissingField indicates a required field has no value.
	ErrMissingField = errors.New("missing required field")

	// ErrWrongKind indicates a value does not match its field's kind.
	ErrWrongKind = errors.New("wrong field kind")

	// ErrUnknownField indicates a value for a field the category lacks.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidValue indicates a value outside its field's allowed range.
	ErrInvalidValue = errors.New("invalid field value")
)

// Validate checks values against the named category's field layout:
// every required field present, every value convertible to its kind and
// within its allowed range, no values outside the layout.
func (c *Catalog) Validate(category string, values map[string]any) error {
	cat, ok := c.categories[category]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	for _, f := range cat.Fields {
		v, present := values[f.Name]
		if !present {
			if f.Required {
				return fmt.Errorf("%w: %s", ErrMissingField, f.Name)
			}
			continue
		}
		if !kindMatches(f.Kind, v) {
			return fmt.Errorf("%w: %s expects %s", ErrWrongKind, f.Name, f.Kind)
		}
		if err := rangeCheck(f.Name, v); err != nil {
			return err
		}
	}

	for name := range values {
		if _, exists := cat.Field(name); !exists {
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
	}
	return nil
}

// rangeCheck enforces the value ranges the lifecycle depends on: an event
// with capacity below one could never close at capacity, and a negative
// tolerance would lower the ceiling below capacity.
func rangeCheck(name string, v any) error {
	switch name {
	case FieldCapacity:
		if asInt(v) < 1 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidValue, name)
		}
	case FieldTolerance:
		if asInt(v) < 0 {
			return fmt.Errorf("%w: %s cannot be negative", ErrInvalidValue, name)
		}
	}
	return nil
}

// asInt converts the int forms kindMatches accepts. Call after the kind
// check has passed.
func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// kindMatches accepts the natural Go type for a kind plus the forms that
// survive YAML/JSON round-trips (strings for times and durations, floats
// for ints).
func kindMatches(k Kind, v any) bool {
	switch k {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindInt:
		switch n := v.(type) {
		case int, int64:
			return true
		case float64:
			return n == float64(int(n))
		}
		return false
	case KindTime:
		switch t := v.(type) {
		case time.Time:
			return true
		case string:
			_, err := time.Parse(time.RFC3339, t)
			return err == nil
		}
		return false
	case KindDuration:
		switch d := v.(type) {
		case time.Duration:
			return true
		case string:
			_, err := time.ParseDuration(d)
			return err == nil
		}
		return false
	}
	return false
}
