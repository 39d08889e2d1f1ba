// Package yamlflag provides a command line flag that accepts a YAML document.
package yamlflag

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/ghodss/yaml"
)

// New creates a flag.Value that recognizes a YAML document.
// It can be used as the Value of a cli.GenericFlag.
//
// The YAML document can be specified directly on the command line:
//   --flag="key: value"
// Or it can be read from a file, when the flag value starts with '@':
//   --flag=@file.yaml
//
// value must be a pointer to a struct; its `json` tags name the YAML keys.
// Keys absent from the document leave the struct field unchanged.
// Unknown keys are rejected, so that a misspelled option is not silently ignored.
// Panics if value is not a pointer.
func New(value any) flag.Getter {
	if val := reflect.ValueOf(value); val.Kind() != reflect.Ptr {
		panic(val.Kind())
	}
	return &yamlFlagValue{value}
}

type yamlFlagValue struct {
	Value any
}

func (v *yamlFlagValue) Get() any {
	return v.Value
}

func (v *yamlFlagValue) Set(s string) error {
	doc, source := []byte(s), "inline"
	if filename, ok := strings.CutPrefix(s, "@"); ok {
		file, e := os.ReadFile(filename)
		if e != nil {
			return e
		}
		doc, source = file, filename
	}

	j, e := yaml.YAMLToJSON(doc)
	if e != nil {
		return fmt.Errorf("%s: %w", source, e)
	}
	if string(j) == "null" {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(j))
	decoder.DisallowUnknownFields()
	if e := decoder.Decode(v.Value); e != nil {
		return fmt.Errorf("%s: %w", source, e)
	}
	return nil
}

func (v *yamlFlagValue) String() string {
	if v == nil || v.Value == nil {
		return ""
	}
	j, _ := json.Marshal(v.Value)
	return string(j)
}
