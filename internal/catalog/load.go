// file: internal/catalog/load.go
// version: 1.0.0
// guid: 2f9c1d7e-8b34-4a60-9d15-c7e0a3b62f48

package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/jdfalk/cfr-navigator/internal/models"
)

// ErrInvalidCatalog is wrapped by every schema violation Load reports.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Format is the on-disk encoding of a catalog file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from the file extension; anything that is not
// .yaml or .yml is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and validates the catalog at path.
func Load(path string) ([]*models.Condition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	conditions, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return conditions, nil
}

// Parse decodes and validates a catalog document. Any violation rejects the
// whole collection.
func Parse(data []byte, format Format) ([]*models.Condition, error) {
	var raw any
	if err := unmarshal(data, format, &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid %s: %v", ErrInvalidCatalog, strings.ToUpper(string(format)), err)
	}
	if err := validate(raw); err != nil {
		return nil, err
	}

	var conditions []*models.Condition
	if err := unmarshal(data, format, &conditions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return conditions, nil
}

func unmarshal(data []byte, format Format, v any) error {
	if format == FormatYAML {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

func validate(raw any) error {
	items, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("%w: catalog must be an array", ErrInvalidCatalog)
	}

	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		fields, _ := item.(map[string]any)

		id, _ := fields["id"].(string)
		if id == "" {
			return fmt.Errorf("%w: condition at index %d is missing a string 'id'", ErrInvalidCatalog, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate id found: '%s'", ErrInvalidCatalog, id)
		}
		seen[id] = struct{}{}

		if name, _ := fields["name"].(string); name == "" {
			return fmt.Errorf("%w: condition '%s' is missing a string 'name'", ErrInvalidCatalog, id)
		}

		refs, _ := fields["cfr"].([]any)
		if len(refs) == 0 {
			return fmt.Errorf("%w: condition '%s' must have a non-empty 'cfr' array", ErrInvalidCatalog, id)
		}
		for j, ref := range refs {
			r, _ := ref.(map[string]any)
			for _, key := range []string{"section", "diagnostic_code", "title", "url"} {
				if s, _ := r[key].(string); s == "" {
					return fmt.Errorf("%w: condition '%s' cfr[%d] missing section/diagnostic_code/title/url", ErrInvalidCatalog, id, j)
				}
			}
		}
	}
	return nil
}
