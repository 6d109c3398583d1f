// File: cycles.go
// Role: boundary cycle extraction and maximal linear node strings.
//
// Determinism:
//   - Cycles and strings are discovered from the lowest edge/node id upward.
//   - Boundary cycles run with the cells on their left (counter-clockwise
//     for the outer boundary).

package mesh

import "fmt"

type halfEdge struct {
	to, edge int
}

// BoundaryCycles returns every boundary cycle as a node list, without
// repeating the first node. Edges without any cell are ignored.
//
// Errors:
//   - ErrPinchedBoundary if a node starts two boundary half-edges or a
//     boundary walk does not close.
//
// Complexity: O(E).
func (g *Grid) BoundaryCycles() ([][]int, error) {
	next := make(map[int]halfEdge)
	var starts []int
	for e, ed := range g.Edges {
		if ed.Deleted {
			continue
		}
		var from, to int
		switch {
		case ed.Cells[0] != NoCell && ed.Cells[1] == NoCell:
			from, to = ed.Nodes[0], ed.Nodes[1]
		case ed.Cells[0] == NoCell && ed.Cells[1] != NoCell:
			from, to = ed.Nodes[1], ed.Nodes[0]
		default:
			continue
		}
		if _, dup := next[from]; dup {
			return nil, fmt.Errorf("BoundaryCycles: node %d: %w", from, ErrPinchedBoundary)
		}
		next[from] = halfEdge{to: to, edge: e}
		starts = append(starts, e)
	}

	visited := make(map[int]bool, len(starts))
	var cycles [][]int
	for _, e := range starts {
		if visited[e] {
			continue
		}
		ed := g.Edges[e]
		start := ed.Nodes[0]
		if ed.Cells[0] == NoCell {
			start = ed.Nodes[1]
		}
		cycle := []int{start}
		cur := start
		for {
			he, ok := next[cur]
			if !ok || visited[he.edge] {
				return nil, fmt.Errorf("BoundaryCycles: open walk at node %d: %w", cur, ErrPinchedBoundary)
			}
			visited[he.edge] = true
			if he.to == start {
				break
			}
			cycle = append(cycle, he.to)
			cur = he.to
		}
		cycles = append(cycles, cycle)
	}

	return cycles, nil
}

// BoundaryCycle returns the single boundary cycle of g.
//
// Errors:
//   - ErrNoCycle when g has no cells.
//   - ErrMultipleCycles for holes or disjoint parts.
//   - errors of BoundaryCycles.
func (g *Grid) BoundaryCycle() ([]int, error) {
	cycles, err := g.BoundaryCycles()
	if err != nil {
		return nil, err
	}
	switch len(cycles) {
	case 0:
		return nil, ErrNoCycle
	case 1:
		return cycles[0], nil
	default:
		return nil, fmt.Errorf("BoundaryCycle: %d cycles: %w", len(cycles), ErrMultipleCycles)
	}
}

// CycleEdges returns the edge joining each consecutive pair of a closed node
// cycle, the last entry closing back to the first node.
func (g *Grid) CycleEdges(cycle []int) ([]int, error) {
	out := make([]int, len(cycle))
	for k, a := range cycle {
		b := cycle[(k+1)%len(cycle)]
		e, ok := g.EdgeBetween(a, b)
		if !ok {
			return nil, fmt.Errorf("CycleEdges(%d,%d): %w", a, b, ErrEdgeNotFound)
		}
		out[k] = e
	}

	return out, nil
}

// ExtractLinearStrings splits the live edges into maximal node strings that
// pass only through nodes of degree two. A string forming a closed loop
// repeats its first node at the end.
// Complexity: O(V + E).
func (g *Grid) ExtractLinearStrings() [][]int {
	visited := make([]bool, len(g.Edges))
	walk := func(start, e int) []int {
		s := []int{start}
		cur := start
		for {
			visited[e] = true
			cur = g.Other(e, cur)
			s = append(s, cur)
			inc := g.nodeEdges[cur]
			if cur == start || len(inc) != 2 {
				return s
			}
			nxt := inc[0]
			if nxt == e {
				nxt = inc[1]
			}
			if visited[nxt] {
				return s
			}
			e = nxt
		}
	}

	var out [][]int
	for _, n := range g.NodeIDs() {
		if len(g.nodeEdges[n]) == 2 {
			continue
		}
		for _, e := range g.nodeEdges[n] {
			if !visited[e] {
				out = append(out, walk(n, e))
			}
		}
	}
	for _, e := range g.EdgeIDs() {
		if !visited[e] {
			out = append(out, walk(g.Edges[e].Nodes[0], e))
		}
	}

	return out
}
