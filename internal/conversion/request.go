package conversion

import (
	"errors"
	"fmt"
)

// MissingRequiredFieldError reports a request where neither primary
// value was supplied. Its text is what the conversation ultimately
// sees, so it stays human-readable ("Feet or Miles is required").
type MissingRequiredFieldError struct {
	Message string
}

func (e *MissingRequiredFieldError) Error() string { return e.Message }

func IsMissingRequiredField(err error) bool {
	var target *MissingRequiredFieldError
	return errors.As(err, &target)
}

// Branch tags which primary field carried the value.
type Branch int

const (
	PrimaryBranch Branch = iota
	SecondaryBranch
)

// Request is a validated conversion request. The validating parser at
// the tool boundary guarantees exactly one branch, so the handlers
// never see the null-sentinel ambiguity of the raw argument map.
type Request struct {
	Branch  Branch
	Value   float64
	AltUnit bool
}

// FieldSet declares the optional fields one conversion tool accepts.
// Secondary is empty for the single-branch temperature tools.
type FieldSet struct {
	Primary      string
	Secondary    string
	PrimaryAlt   string
	SecondaryAlt string
	// Missing is the message raised when both primary fields are null.
	Missing string
}

func (fs FieldSet) known(key string) bool {
	switch key {
	case fs.Primary, fs.PrimaryAlt:
		return true
	case fs.Secondary, fs.SecondaryAlt:
		return fs.Secondary != ""
	}
	return false
}

// Field sets of the four registered tools.
var (
	FeetMetersFields = FieldSet{
		Primary:      "feet",
		Secondary:    "miles",
		PrimaryAlt:   "expressed_in_miles",
		SecondaryAlt: "expressed_in_feet",
		Missing:      "Feet or Miles is required",
	}
	MetersFeetFields = FieldSet{
		Primary:      "meters",
		Secondary:    "kilometers",
		PrimaryAlt:   "expressed_in_kilometers",
		SecondaryAlt: "expressed_in_meters",
		Missing:      "Meters or Kilometers is required",
	}
	CelsiusFields = FieldSet{
		Primary: "celsius",
		Missing: "Celsius is required",
	}
	FahrenheitFields = FieldSet{
		Primary: "fahrenheit",
		Missing: "Fahrenheit is required",
	}
)

// Parse validates a raw argument map against the declared field set and
// constructs the tagged request. A present-but-null field counts as
// absent; a present zero counts as supplied.
func Parse(args map[string]any, fs FieldSet) (Request, error) {
	for key := range args {
		if !fs.known(key) {
			return Request{}, fmt.Errorf("unknown field %q", key)
		}
	}

	if value, ok := numberField(args, fs.Primary); ok {
		return Request{
			Branch:  PrimaryBranch,
			Value:   value,
			AltUnit: boolField(args, fs.PrimaryAlt),
		}, nil
	}
	if fs.Secondary != "" {
		if value, ok := numberField(args, fs.Secondary); ok {
			return Request{
				Branch:  SecondaryBranch,
				Value:   value,
				AltUnit: boolField(args, fs.SecondaryAlt),
			}, nil
		}
	}
	return Request{}, &MissingRequiredFieldError{Message: fs.Missing}
}

func numberField(args map[string]any, key string) (float64, bool) {
	if key == "" {
		return 0, false
	}
	raw, present := args[key]
	if !present || raw == nil {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func boolField(args map[string]any, key string) bool {
	if key == "" {
		return false
	}
	v, ok := args[key].(bool)
	return ok && v
}
