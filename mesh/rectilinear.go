// File: rectilinear.go
// Role: structured rectilinear patch builder.

package mesh

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// Patch records the ids created by AddRectilinear.
// Nodes[i][j] is the node at column i, row j; Cells[i][j] the cell whose
// lower-left corner is Nodes[i][j].
type Patch struct {
	Nodes [][]int
	Cells [][]int
}

// AddRectilinear adds an nx×ny lattice of nodes spanning the box p0..p1 and
// the (nx−1)×(ny−1) quads between them.
//
// Errors:
//   - ErrBadPatch if nx < 2 or ny < 2.
//
// Complexity: O(nx·ny).
func (g *Grid) AddRectilinear(p0, p1 r2.Point, nx, ny int) (Patch, error) {
	if nx < 2 || ny < 2 {
		return Patch{}, fmt.Errorf("AddRectilinear(%d,%d): %w", nx, ny, ErrBadPatch)
	}
	dx := (p1.X - p0.X) / float64(nx-1)
	dy := (p1.Y - p0.Y) / float64(ny-1)

	p := Patch{Nodes: make([][]int, nx), Cells: make([][]int, nx-1)}
	var i, j int
	for i = 0; i < nx; i++ {
		p.Nodes[i] = make([]int, ny)
		for j = 0; j < ny; j++ {
			p.Nodes[i][j] = g.AddNode(r2.Point{X: p0.X + float64(i)*dx, Y: p0.Y + float64(j)*dy})
		}
	}
	for i = 0; i < nx-1; i++ {
		p.Cells[i] = make([]int, ny-1)
		for j = 0; j < ny-1; j++ {
			c, err := g.AddCell([]int{p.Nodes[i][j], p.Nodes[i+1][j], p.Nodes[i+1][j+1], p.Nodes[i][j+1]})
			if err != nil {
				return Patch{}, fmt.Errorf("AddRectilinear: %w", err)
			}
			p.Cells[i][j] = c
		}
	}

	return p, nil
}
