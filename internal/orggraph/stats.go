package orggraph

// Stats summarises the shape of a built graph for run logs.
type Stats struct {
	Nodes      int
	Edges      int
	Components int
	MaxDegree  int
	Leaves     int
}

// Stats computes component count via union-find along with degree figures.
func (g *Graph) Stats() Stats {
	st := Stats{Nodes: g.Len(), Edges: g.EdgeCount()}
	if st.Nodes == 0 {
		return st
	}

	uf := newUnionFind(st.Nodes)
	for _, e := range g.edges {
		uf.union(e[0], e[1])
	}
	st.Components = uf.components

	for i := range g.adj {
		d := len(g.adj[i])
		if d > st.MaxDegree {
			st.MaxDegree = d
		}
		if d == 1 {
			st.Leaves++
		}
	}
	return st
}

// unionFind implements union-find with path compression and union by rank.
type unionFind struct {
	parent     []int
	rank       []int
	components int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent:     make([]int, n),
		rank:       make([]int, n),
		components: n,
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	if uf.parent[x] != x {
		uf.parent[x] = uf.find(uf.parent[x])
	}
	return uf.parent[x]
}

// union merges the components containing a and b. Returns true if they were separate.
func (uf *unionFind) union(a, b int) bool {
	rootA, rootB := uf.find(a), uf.find(b)
	if rootA == rootB {
		return false
	}
	switch {
	case uf.rank[rootA] < uf.rank[rootB]:
		uf.parent[rootA] = rootB
	case uf.rank[rootA] > uf.rank[rootB]:
		uf.parent[rootB] = rootA
	default:
		uf.parent[rootB] = rootA
		uf.rank[rootA]++
	}
	uf.components--
	return true
}
