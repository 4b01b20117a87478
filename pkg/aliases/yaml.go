package aliases

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ivyrecon/ivyrecon/pkg/errors"
)

// LoadFile reads a user alias table from a YAML file of the form:
//
//	medical:
//	  - health
//	  - med
//	dental: [dent]
//
// Document order of the canonical keys is preserved, keeping resolution
// deterministic for a given file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.ErrNotFound
		}
		return nil, errors.WrapLoad(path, "yaml", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, errors.WrapLoad(path, "yaml", err)
	}
	return t, nil
}

// Parse decodes YAML alias table bytes.
func Parse(data []byte) (*Table, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing alias table: %w", err)
	}

	t := NewTable()
	for _, item := range doc {
		canonical, ok := item.Key.(string)
		if !ok {
			return nil, errors.NewValidationError("canonical", item.Key, "alias table keys must be strings")
		}
		var synonyms []string
		switch v := item.Value.(type) {
		case nil:
			// canonical with no synonyms
		case []interface{}:
			for _, s := range v {
				synonyms = append(synonyms, fmt.Sprint(s))
			}
		case string:
			synonyms = append(synonyms, v)
		default:
			return nil, errors.NewValidationError(canonical, item.Value, "synonyms must be a string list")
		}
		t.Add(canonical, synonyms...)
	}
	return t, nil
}

// Marshal encodes the table as YAML with canonical keys in insertion order.
func (t *Table) Marshal() ([]byte, error) {
	doc := make(yaml.MapSlice, 0, len(t.canonicals))
	for _, canonical := range t.canonicals {
		doc = append(doc, yaml.MapItem{Key: canonical, Value: t.synonyms[canonical]})
	}
	return yaml.Marshal(doc)
}

// SaveFile writes the table to a YAML file.
func (t *Table) SaveFile(path string) error {
	data, err := t.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
