// File: methods_clone.go
// Role: deep copies and arena compaction.
//
// Determinism:
//   - Renumber keeps the relative order of surviving records.

package mesh

// Copy returns a deep copy of g, tombstones included, so ids stay valid
// across the copy.
// Complexity: O(V + E + Σ|cell|).
func (g *Grid) Copy() *Grid {
	out := &Grid{
		Nodes:     append([]Node(nil), g.Nodes...),
		Edges:     append([]Edge(nil), g.Edges...),
		Cells:     make([]Cell, len(g.Cells)),
		nodeEdges: make([][]int, len(g.nodeEdges)),
		edgeIndex: make(map[edgeKey]int, len(g.edgeIndex)),
	}
	for c, cell := range g.Cells {
		out.Cells[c] = Cell{
			Nodes:   append([]int(nil), cell.Nodes...),
			Edges:   append([]int(nil), cell.Edges...),
			Deleted: cell.Deleted,
		}
	}
	for n, inc := range g.nodeEdges {
		out.nodeEdges[n] = append([]int(nil), inc...)
	}
	for k, e := range g.edgeIndex {
		out.edgeIndex[k] = e
	}

	return out
}

// Renumbering maps old ids to new ids after Renumber; removed records map to -1.
type Renumbering struct {
	Nodes []int
	Edges []int
	Cells []int
}

// Renumber drops tombstoned records and compacts the arena in place.
// Node.GenEdge is a reference into another grid and is left untouched.
//
// Implementation:
//   - Stage 1: assign new ids to surviving records in order.
//   - Stage 2: rewrite edge endpoints, edge cell sides and cell corner/edge lists.
//   - Stage 3: rebuild incidence lists and the endpoint index.
//
// Complexity: O(V + E + Σ|cell|).
func (g *Grid) Renumber() Renumbering {
	r := Renumbering{
		Nodes: compactMap(len(g.Nodes), func(i int) bool { return g.Nodes[i].Deleted }),
		Edges: compactMap(len(g.Edges), func(i int) bool { return g.Edges[i].Deleted }),
		Cells: compactMap(len(g.Cells), func(i int) bool { return g.Cells[i].Deleted }),
	}

	nodes := make([]Node, 0, len(g.Nodes))
	for _, nd := range g.Nodes {
		if !nd.Deleted {
			nodes = append(nodes, nd)
		}
	}
	edges := make([]Edge, 0, len(g.Edges))
	for _, ed := range g.Edges {
		if ed.Deleted {
			continue
		}
		ed.Nodes = [2]int{r.Nodes[ed.Nodes[0]], r.Nodes[ed.Nodes[1]]}
		for s, c := range ed.Cells {
			if c != NoCell {
				ed.Cells[s] = r.Cells[c]
			}
		}
		edges = append(edges, ed)
	}
	cells := make([]Cell, 0, len(g.Cells))
	for _, cell := range g.Cells {
		if cell.Deleted {
			continue
		}
		nc := Cell{Nodes: make([]int, len(cell.Nodes)), Edges: make([]int, len(cell.Edges))}
		for k, n := range cell.Nodes {
			nc.Nodes[k] = r.Nodes[n]
		}
		for k, e := range cell.Edges {
			nc.Edges[k] = r.Edges[e]
		}
		cells = append(cells, nc)
	}

	g.Nodes, g.Edges, g.Cells = nodes, edges, cells
	g.rebuildIndex()

	return r
}

func compactMap(n int, deleted func(int) bool) []int {
	m := make([]int, n)
	next := 0
	for i := 0; i < n; i++ {
		if deleted(i) {
			m[i] = -1
			continue
		}
		m[i] = next
		next++
	}

	return m
}

// rebuildIndex recomputes nodeEdges and edgeIndex from the edge records.
func (g *Grid) rebuildIndex() {
	g.nodeEdges = make([][]int, len(g.Nodes))
	g.edgeIndex = make(map[edgeKey]int, len(g.Edges))
	for e, ed := range g.Edges {
		if ed.Deleted {
			continue
		}
		g.nodeEdges[ed.Nodes[0]] = append(g.nodeEdges[ed.Nodes[0]], e)
		g.nodeEdges[ed.Nodes[1]] = append(g.nodeEdges[ed.Nodes[1]], e)
		g.edgeIndex[keyOf(ed.Nodes[0], ed.Nodes[1])] = e
	}
}
