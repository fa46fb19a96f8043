package sim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dataflows/flowgrid/pkg/grid"
)

// Layout is the canonical serialization format for a computed layout.
// Used for API responses, caching, and cross-tool compatibility. The
// format is deterministic: the same simulator state always marshals to
// identical bytes.
type Layout struct {
	Boundaries Boundaries                    `json:"boundaries"`
	Grid       [][][]Tile                    `json:"grid"` // [x][y][stack]
	Routes     map[string]map[string][]grid.Point `json:"routes"`
}

// Tile is the serialized form of one stacked object. System ownership is
// flattened to the canonical id and links to their document index.
type Tile struct {
	Type     string `json:"type"`
	System   string `json:"system,omitempty"`
	Link     int    `json:"link,omitempty"`
	Variant  string `json:"variant,omitempty"`
	Blackbox bool   `json:"blackbox,omitempty"`
	Text     string `json:"text,omitempty"`
}

// Snapshot converts the simulator's computed state into its serialization
// format.
func (s *Simulator) Snapshot() Layout {
	out := Layout{
		Boundaries: s.boundaries,
		Grid:       make([][][]Tile, len(s.cells)),
		Routes:     s.routes,
	}
	if out.Routes == nil {
		out.Routes = map[string]map[string][]grid.Point{}
	}
	for x, col := range s.cells {
		out.Grid[x] = make([][]Tile, len(col))
		for y, stack := range col {
			tiles := make([]Tile, len(stack))
			for i, obj := range stack {
				tiles[i] = encodeTile(obj)
			}
			out.Grid[x][y] = tiles
		}
	}
	return out
}

func encodeTile(obj Object) Tile {
	t := Tile{Type: obj.Type.String()}
	if obj.System != nil {
		t.System = obj.System.CanonicalID
	}
	switch obj.Type {
	case TypeSystem:
		t.Variant = obj.SystemVariant.String()
		t.Blackbox = obj.Blackbox
	case TypeLink:
		t.Variant = obj.LinkVariant.String()
		if obj.Link != nil {
			t.Link = obj.Link.Index
		}
	case TypeSystemTitle:
		t.Text = obj.Text
	}
	return t
}

// MarshalLayout converts a layout to indented JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeLayoutTo(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalLayout deserializes JSON bytes to a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayout writes a layout as JSON to an io.Writer.
func WriteLayout(l Layout, w io.Writer) error {
	return writeLayoutTo(l, w)
}

// WriteLayoutFile writes a layout to a JSON file, creating or truncating it
// (os.Create: mode 0666 before umask).
func WriteLayoutFile(l Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeLayoutTo(l, f)
}

// ReadLayoutFile reads a JSON file and returns the decoded layout.
func ReadLayoutFile(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	var l Layout
	if err := json.NewDecoder(f).Decode(&l); err != nil {
		return Layout{}, fmt.Errorf("decode: %w", err)
	}
	return l, nil
}

func writeLayoutTo(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
