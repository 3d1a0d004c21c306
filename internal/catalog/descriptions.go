package catalog

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// Descriptions is static reference data mapping message type names and
// "TYPE.FIELD" qualified names to human-readable text. It is loaded once
// at startup and never mutated; absent keys resolve to empty text.
type Descriptions map[string]string

// Lookup returns the description for key, or the empty string when the
// key is absent. Absence is never an error.
func (d Descriptions) Lookup(key string) string {
	return d[key]
}

// LoadDescriptions reads a JSON object of key/description pairs from
// path. An empty path yields an empty, usable index.
func LoadDescriptions(path string) (Descriptions, error) {
	if path == "" {
		return Descriptions{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptions file: %w", err)
	}

	var d Descriptions
	if err := sonic.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing descriptions file %s: %w", path, err)
	}
	return d, nil
}
