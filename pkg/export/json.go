package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chazu/fracture/pkg/mesh"
	"github.com/chazu/fracture/pkg/voronoi"
)

// CellData is the JSON-serializable form of one cell: its seed (with
// passthrough tags) plus the flattened mesh buffers and metrics.
type CellData struct {
	Seed voronoi.Seed `json:"seed"`
	Mesh *mesh.Data   `json:"mesh"`
}

// Payload is the top-level JSON document for a tessellation.
type Payload struct {
	CellCount   int        `json:"cellCount"`
	TotalVolume float64    `json:"totalVolume"`
	Cells       []CellData `json:"cells"`
}

// BuildPayload converts cells to their JSON document form.
func BuildPayload(cells []voronoi.Cell) *Payload {
	p := &Payload{
		CellCount: len(cells),
		Cells:     make([]CellData, 0, len(cells)),
	}
	for _, c := range cells {
		m := mesh.FromPolyhedron(c.Polyhedron)
		p.TotalVolume += m.Volume
		p.Cells = append(p.Cells, CellData{Seed: c.Seed, Mesh: m})
	}
	return p
}

// WriteJSON writes the tessellation as indented JSON.
func WriteJSON(w io.Writer, cells []voronoi.Cell) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildPayload(cells)); err != nil {
		return fmt.Errorf("export: encoding cells: %w", err)
	}
	return nil
}

// SaveJSON writes the tessellation JSON to a file.
func SaveJSON(path string, cells []voronoi.Cell) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: creating %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, cells)
}
