package matcher

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"inkpick/internal/geom"
)

// DataVersion is the current character data file schema version.
const DataVersion = 1

// dataSchema validates character data files before decoding. Keeping the
// schema embedded avoids shipping a sidecar file.
const dataSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "characters"],
  "properties": {
    "version": { "type": "integer", "minimum": 1 },
    "characters": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["character", "medians"],
        "properties": {
          "character": { "type": "string", "minLength": 1 },
          "medians": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "array",
              "minItems": 1,
              "items": {
                "type": "array",
                "minItems": 2,
                "maxItems": 2,
                "items": { "type": "number" }
              }
            }
          }
        }
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("inkpick-characters.schema.json", dataSchema)

// CharacterData is one character with its median stroke skeletons.
type CharacterData struct {
	Character string        `json:"character"`
	Medians   []geom.Stroke `json:"medians"`
}

// DataFile is the on-disk character data format.
type DataFile struct {
	Version    int             `json:"version"`
	Characters []CharacterData `json:"characters"`
}

// ParseData validates raw character data against the schema and decodes it.
func ParseData(data []byte) (*DataFile, error) {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, fmt.Errorf("decode character data: %w", err)
	}
	if err := compiledSchema.Validate(instance); err != nil {
		return nil, fmt.Errorf("character data schema: %w", err)
	}

	var df DataFile
	if err := json.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("decode character data: %w", err)
	}
	if df.Version > DataVersion {
		return nil, fmt.Errorf("character data version %d is newer than supported version %d",
			df.Version, DataVersion)
	}
	return &df, nil
}

// LoadFile reads, validates, and compiles a character data file into a
// matcher.
func LoadFile(path string) (*MedianMatcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read character data: %w", err)
	}
	df, err := ParseData(data)
	if err != nil {
		return nil, err
	}
	return NewMedianMatcher(df.Characters), nil
}
