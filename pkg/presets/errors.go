package presets

import (
	"errors"
	"fmt"
)

// ErrNoPresets is returned when a preset source defines neither ports nor
// values.
var ErrNoPresets = errors.New("no service_ports or service_values_presets defined")

// LoadError is returned when the preset source is missing or malformed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load service presets from %s: %s", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
