// Package fixtures loads the structured test data (sandbox nonces, plan
// ids, reference amounts) shared by the offline suite and the sandbox
// smoke tool. Fixture sets are consumed read-only.
package fixtures

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

//go:embed testdata/sandbox.yaml
var sandboxYAML []byte

// Set is one fixture document.
type Set struct {
	Nonces struct {
		Valid             string `yaml:"valid"`
		ValidVisa         string `yaml:"valid_visa"`
		ValidMastercard   string `yaml:"valid_mastercard"`
		Consumed          string `yaml:"consumed"`
		ProcessorDeclined string `yaml:"processor_declined"`
		LuhnInvalid       string `yaml:"luhn_invalid"`
	} `yaml:"nonces"`
	Plans   []Plan `yaml:"plans"`
	Amounts struct {
		Charge string `yaml:"charge"`
		Clone  string `yaml:"clone"`
	} `yaml:"amounts"`
}

// Plan names one entry of the sandbox billing catalog.
type Plan struct {
	ID    string `yaml:"id"`
	Price string `yaml:"price"`
}

// Load reads a fixture document from path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", path, err)
	}
	set, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("fixtures: parse %s: %w", path, err)
	}
	return set, nil
}

// Sandbox returns the fixture set baked into the repository.
func Sandbox() (*Set, error) {
	set, err := parse(sandboxYAML)
	if err != nil {
		return nil, fmt.Errorf("fixtures: embedded sandbox set: %w", err)
	}
	return set, nil
}

func parse(data []byte) (*Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, err
	}
	if set.Nonces.Valid == "" {
		return nil, fmt.Errorf("nonces.valid is required")
	}
	if len(set.Plans) == 0 {
		return nil, fmt.Errorf("at least one plan is required")
	}
	for i, plan := range set.Plans {
		if plan.ID == "" {
			return nil, fmt.Errorf("plans[%d].id is required", i)
		}
	}
	return &set, nil
}
