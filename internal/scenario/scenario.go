package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/kvtrace/internal/cache"
)

// Scenario is a scripted session.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario demonstrates.
	Description string `yaml:"description"`

	// Flush clears the active namespace before the first step.
	Flush bool `yaml:"flush,omitempty"`

	// Keys are handed out to store steps in order instead of generated keys.
	Keys []string `yaml:"keys,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Replay lists operation names whose transcripts are rendered after the
	// last step.
	Replay []string `yaml:"replay,omitempty"`
}

// Step holds exactly one of Store or Get.
type Step struct {
	Store *StoreStep `yaml:"store,omitempty"`
	Get   *GetStep   `yaml:"get,omitempty"`
}

// StoreStep stores one value.
type StoreStep struct {
	// ID names the stored key for later get steps.
	ID string `yaml:"id,omitempty"`

	// Value is the textual value, converted according to Type.
	Value string `yaml:"value"`

	// Type is text (default), bytes, int or float.
	Type string `yaml:"type,omitempty"`
}

// GetStep reads one key and optionally checks the result.
type GetStep struct {
	// Ref is a store step id or a literal key.
	Ref string `yaml:"ref"`

	// As is the read mode: raw (default), text, int or int-strict.
	As string `yaml:"as,omitempty"`

	// Expect is the expected rendered value. Nil skips the check.
	Expect *string `yaml:"expect,omitempty"`

	// ExpectError is the expected failure: not_found, invalid_utf8 or
	// not_integer.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Expected error names for GetStep.ExpectError.
const (
	ErrorNotFound    = "not_found"
	ErrorInvalidUTF8 = "invalid_utf8"
	ErrorNotInteger  = "not_integer"
)

var expectedErrors = map[string]error{
	ErrorNotFound:    cache.ErrKeyNotFound,
	ErrorInvalidUTF8: cache.ErrInvalidUTF8,
	ErrorNotInteger:  cache.ErrNotInteger,
}

// Load reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields or fails validation.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes and validates a scenario from r.
func Parse(r io.Reader) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true) // Reject typos like "step:" vs "steps:"
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validate(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

func validate(sc *Scenario) error {
	if sc.Name == "" {
		return errors.New("name is required")
	}
	if len(sc.Steps) == 0 {
		return errors.New("steps list is required and must be non-empty")
	}

	ids := make(map[string]bool)
	stores := 0
	for i, step := range sc.Steps {
		switch {
		case step.Store != nil && step.Get != nil:
			return fmt.Errorf("step %d: only one of store or get allowed", i)
		case step.Store != nil:
			stores++
			if _, err := cache.ParseValue(step.Store.Value, cache.ValueType(step.Store.Type)); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			if id := step.Store.ID; id != "" {
				if ids[id] {
					return fmt.Errorf("step %d: duplicate id %q", i, id)
				}
				ids[id] = true
			}
		case step.Get != nil:
			if step.Get.Ref == "" {
				return fmt.Errorf("step %d: get.ref is required", i)
			}
			if _, err := cache.ParseReadMode(step.Get.As); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			if step.Get.Expect != nil && step.Get.ExpectError != "" {
				return fmt.Errorf("step %d: expect and expect_error are mutually exclusive", i)
			}
			if e := step.Get.ExpectError; e != "" && expectedErrors[e] == nil {
				return fmt.Errorf("step %d: unknown expect_error %q", i, e)
			}
		default:
			return fmt.Errorf("step %d: one of store or get is required", i)
		}
	}

	if len(sc.Keys) > 0 && len(sc.Keys) < stores {
		return fmt.Errorf("keys lists %d keys but scenario has %d store steps", len(sc.Keys), stores)
	}
	return nil
}
