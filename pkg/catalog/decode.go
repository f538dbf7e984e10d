package catalog

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/bikebuilder/pkg/errors"
)

// Catalog file formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// document is the wrapped catalog shape: {"parts": [...]}.
type document struct {
	Parts []json.RawMessage `json:"parts"`
}

// DecodeJSON decodes a catalog. The payload is either a bare array of parts or
// an object with a "parts" array.
//
// Decoding only checks syntax and field types; [Store.Load] validates the
// parts themselves.
func DecodeJSON(data []byte) ([]Part, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeLoad, "catalog payload is empty")
	}

	var raw []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.Load(err, "decode catalog")
		}
	case '{':
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Load(err, "decode catalog")
		}
		if doc.Parts == nil {
			return nil, errors.New(errors.ErrCodeLoad, `catalog object has no "parts" array`)
		}
		raw = doc.Parts
	default:
		return nil, errors.New(errors.ErrCodeLoad, "catalog must be a JSON array or object")
	}

	parts := make([]Part, 0, len(raw))
	for i, r := range raw {
		var p Part
		if err := json.Unmarshal(r, &p); err != nil {
			return nil, errors.Load(err, "decode part %d", i)
		}
		parts = append(parts, p)
	}
	return parts, nil
}

// DecodeTOML decodes a catalog written as an array of [[parts]] tables.
func DecodeTOML(data []byte) ([]Part, error) {
	var doc struct {
		Parts []map[string]any `toml:"parts"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Load(err, "decode TOML catalog")
	}
	if doc.Parts == nil {
		return nil, errors.New(errors.ErrCodeLoad, "TOML catalog has no [[parts]] tables")
	}
	return reencode(doc.Parts)
}

// DecodeYAML decodes a catalog written as a sequence of parts, or a mapping
// with a "parts" sequence.
func DecodeYAML(data []byte) ([]Part, error) {
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Load(err, "decode YAML catalog")
	}
	switch v := root.(type) {
	case []any:
		return reencode(v)
	case map[string]any:
		parts, ok := v["parts"].([]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeLoad, `YAML catalog has no "parts" sequence`)
		}
		return reencode(parts)
	default:
		return nil, errors.New(errors.ErrCodeLoad, "YAML catalog must be a sequence or mapping")
	}
}

// reencode funnels generic TOML/YAML trees through the JSON decoder so every
// format shares one set of field rules.
func reencode[T any](items []T) ([]Part, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, errors.Load(err, "re-encode catalog")
	}
	return DecodeJSON(data)
}

// Decode dispatches on format.
func Decode(format string, data []byte) ([]Part, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatTOML:
		return DecodeTOML(data)
	case FormatYAML:
		return DecodeYAML(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported catalog format %q", format)
	}
}

// FormatFromPath guesses the catalog format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer catalog format from %q", path)
	}
}
