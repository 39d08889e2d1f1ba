package testenv

import (
	"encoding/json"

	"github.com/ghodss/yaml"
)

// FromJSON unmarshals from JSON string.
// Error causes panic.
func FromJSON(j string, ptr any) {
	if e := json.Unmarshal([]byte(j), ptr); e != nil {
		panic(e)
	}
}

// FromYAML unmarshals from YAML string, honoring `json` struct tags.
// Error causes panic.
func FromYAML(y string, ptr any) {
	if e := yaml.Unmarshal([]byte(y), ptr); e != nil {
		panic(e)
	}
}

// ToJSON marshals a value as JSON string.
func ToJSON(v any) string {
	j, e := json.Marshal(v)
	if e != nil {
		return "ERROR: " + e.Error()
	}
	return string(j)
}
