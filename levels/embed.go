// Package levels loads castle demo levels: static wall tiles plus the castle
// block placements the structural subsystem builds from. Level files are
// JSON, validated against the embedded schema before unmarshalling so bad
// level data fails loudly at load time.
package levels

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed *.json
var LevelsFS embed.FS

const schemaName = "level.schema.json"

// Level is one parsed level file. Coordinates are grid cells (y-up, origin
// top-left per block); sizes are world units.
type Level struct {
	Name string `json:"name"`

	// Width/Height of the playable area in grid cells, used for the static
	// world bounds.
	Width  int `json:"width"`
	Height int `json:"height"`

	Walls  []Wall  `json:"walls,omitempty"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Wall is a static axis-aligned rectangle of solid tiles.
type Wall struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Block is one castle block placement: top-left grid cell plus a footprint
// in world units.
type Block struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

var levelSchema *jsonschema.Schema

func schema() (*jsonschema.Schema, error) {
	if levelSchema != nil {
		return levelSchema, nil
	}
	raw, err := fs.ReadFile(LevelsFS, schemaName)
	if err != nil {
		return nil, fmt.Errorf("levels: read schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaName, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("levels: add schema resource: %w", err)
	}
	s, err := compiler.Compile(schemaName)
	if err != nil {
		return nil, fmt.Errorf("levels: compile schema: %w", err)
	}
	levelSchema = s
	return s, nil
}

// Load parses and validates a level from raw JSON bytes.
func Load(data []byte) (*Level, error) {
	s, err := schema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("levels: parse: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("levels: validate: %w", err)
	}

	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal: %w", err)
	}
	return &lvl, nil
}

// LoadFile loads a level from a path on disk.
func LoadFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", path, err)
	}
	return Load(data)
}

// LoadEmbedded loads a level shipped inside the binary by file name.
func LoadEmbedded(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("levels: read embedded %s: %w", name, err)
	}
	return Load(data)
}
