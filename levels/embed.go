package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is a tile grid plus the entities placed on it. Tiles holds one
// string per row, top row first; see TileKind for the characters.
type Level struct {
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	TileSize float64  `json:"tile_size,omitempty"`
	Tiles    []string `json:"tiles"`
	Entities []Entity `json:"entities,omitempty"`
}

// Entity places a prefab on the grid. X and Y are the column and the row
// (counted from the top) of the cell it stands in.
type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// TileKind is what a tile character stands for.
type TileKind int

const (
	TileEmpty TileKind = iota
	TileWall
	TileFloor
)

// Tile returns the kind of the tile at column x, row y. Out of range cells
// are empty.
func (l *Level) Tile(x, y int) TileKind {
	if l == nil || y < 0 || y >= len(l.Tiles) || x < 0 {
		return TileEmpty
	}
	row := l.Tiles[y]
	if x >= len(row) {
		return TileEmpty
	}
	switch row[x] {
	case '#':
		return TileWall
	case '=':
		return TileFloor
	}
	return TileEmpty
}

// Size returns the tile size, one world unit when unset.
func (l *Level) Size() float64 {
	if l == nil || l.TileSize <= 0 {
		return 1
	}
	return l.TileSize
}

func (l *Level) validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("level has no size (%dx%d)", l.Width, l.Height)
	}
	if len(l.Tiles) != l.Height {
		return fmt.Errorf("level has %d tile rows, want %d", len(l.Tiles), l.Height)
	}
	for i, row := range l.Tiles {
		if len(row) != l.Width {
			return fmt.Errorf("level row %d has %d tiles, want %d", i, len(row), l.Width)
		}
	}
	return nil
}

// Load reads a level by name (".json" optional), preferring a copy on disk
// under levels/.
func Load(name string) (*Level, error) {
	name = filepath.ToSlash(strings.TrimPrefix(filepath.ToSlash(name), "levels/"))
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := os.ReadFile(filepath.Join("levels", filepath.FromSlash(name)))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, name)
		if err != nil {
			return nil, fmt.Errorf("read level: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes and validates a level.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.validate(); err != nil {
		return nil, fmt.Errorf("validate level: %w", err)
	}
	return &lvl, nil
}
