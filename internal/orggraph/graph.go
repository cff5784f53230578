package orggraph

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/vanshika/datafaker/internal/domain"
)

// Topology selects the shape of the coworker graph.
type Topology int

const (
	TopologyNone Topology = iota
	TopologyTree
	TopologyRandom
)

func (t Topology) String() string {
	switch t {
	case TopologyNone:
		return "none"
	case TopologyTree:
		return "tree"
	case TopologyRandom:
		return "random"
	default:
		return fmt.Sprintf("topology(%d)", int(t))
	}
}

// ParseTopology accepts tree, random or none (an empty answer means none).
func ParseTopology(value string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none", "no", "n":
		return TopologyNone, nil
	case "tree":
		return TopologyTree, nil
	case "random":
		return TopologyRandom, nil
	}
	return TopologyNone, domain.Errorf(domain.ErrCodeConfiguration, "unrecognized graph topology %q", value)
}

// Graph is an undirected graph over the node indices [0, n). It is not mutated after Build.
type Graph struct {
	adj   [][]int
	edges [][2]int
}

// Build constructs a relationship graph over n nodes. TopologyRandom is reserved and
// yields a nil graph, which callers treat as "no graph requested".
func Build(topology Topology, n int, rng *rand.Rand) (*Graph, error) {
	if n <= 0 {
		return nil, domain.Errorf(domain.ErrCodeConfiguration, "graph needs at least one node, got %d", n)
	}

	switch topology {
	case TopologyTree:
		return randomTree(n, rng), nil
	case TopologyRandom:
		return nil, nil
	default:
		return nil, domain.Errorf(domain.ErrCodeConfiguration, "unrecognized graph topology %s", topology)
	}
}

// randomTree decodes a uniformly random Prüfer sequence, which yields every labeled
// tree on n nodes with equal probability.
func randomTree(n int, rng *rand.Rand) *Graph {
	g := newGraph(n)
	if n == 1 {
		return g
	}

	seq := make([]int, n-2)
	for i := range seq {
		seq[i] = rng.IntN(n)
	}

	degree := make([]int, n)
	for i := range degree {
		degree[i] = 1
	}
	for _, v := range seq {
		degree[v]++
	}

	ptr := 0
	for degree[ptr] != 1 {
		ptr++
	}
	leaf := ptr
	for _, v := range seq {
		g.addEdge(leaf, v)
		degree[leaf]--
		degree[v]--
		if degree[v] == 1 && v < ptr {
			leaf = v
			continue
		}
		ptr++
		for degree[ptr] != 1 {
			ptr++
		}
		leaf = ptr
	}
	g.addEdge(leaf, n-1)

	for i := range g.adj {
		slices.Sort(g.adj[i])
	}
	return g
}

func newGraph(n int) *Graph {
	return &Graph{adj: make([][]int, n)}
}

func (g *Graph) addEdge(a, b int) {
	g.adj[a] = append(g.adj[a], b)
	g.adj[b] = append(g.adj[b], a)
	if a > b {
		a, b = b, a
	}
	g.edges = append(g.edges, [2]int{a, b})
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.adj) }

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Neighbors returns the nodes adjacent to i in ascending order.
func (g *Graph) Neighbors(i int) []int {
	if i < 0 || i >= len(g.adj) {
		return nil
	}
	return slices.Clone(g.adj[i])
}

// Degree returns the number of neighbors of node i.
func (g *Graph) Degree(i int) int {
	if i < 0 || i >= len(g.adj) {
		return 0
	}
	return len(g.adj[i])
}

// Edges returns every edge once, lower index first, in insertion order.
func (g *Graph) Edges() [][2]int {
	return slices.Clone(g.edges)
}
