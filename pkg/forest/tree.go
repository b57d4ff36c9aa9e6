package forest

import (
	"cmp"
	"math/rand"
	"slices"
)

// leaf marks a Node without children.
const leaf = -1

// Node is one node of a flattened tree. Internal nodes send x left when
// x[Feature] <= Threshold. Value is the fraction of positive training
// samples that reached the node.
type Node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t,omitempty"`
	Left      int     `json:"l,omitempty"`
	Right     int     `json:"r,omitempty"`
	Value     float64 `json:"v"`
}

// IsLeaf reports whether n has no children.
func (n Node) IsLeaf() bool { return n.Feature == leaf }

// Tree stores nodes in pre-order; Nodes[0] is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (t *Tree) predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.IsLeaf() {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Depth returns the number of edges on the longest root-to-leaf path.
func (t *Tree) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		n := t.Nodes[i]
		if n.IsLeaf() {
			return 0
		}

		return 1 + max(walk(n.Left), walk(n.Right))
	}

	return walk(0)
}

type grower struct {
	x     [][]float64
	y     []int
	opts  Options
	rng   *rand.Rand
	nodes []Node
}

type split struct {
	feature   int
	threshold float64
	impurity  float64
}

func (g *grower) grow(samples []int) Tree {
	g.nodes = make([]Node, 0, 2*len(samples)/g.opts.MinSamplesSplit+1)
	g.build(samples, 0)

	return Tree{Nodes: g.nodes}
}

func (g *grower) build(samples []int, depth int) int {
	positives := 0
	for _, s := range samples {
		positives += g.y[s]
	}

	id := len(g.nodes)
	g.nodes = append(g.nodes, Node{
		Feature: leaf,
		Value:   float64(positives) / float64(len(samples)),
	})

	pure := positives == 0 || positives == len(samples)
	tooSmall := len(samples) < g.opts.MinSamplesSplit
	tooDeep := g.opts.MaxDepth > 0 && depth >= g.opts.MaxDepth
	if pure || tooSmall || tooDeep {
		return id
	}

	best, ok := g.bestSplit(samples)
	if !ok {
		return id
	}

	left := make([]int, 0, len(samples))
	right := make([]int, 0, len(samples))
	for _, s := range samples {
		if g.x[s][best.feature] <= best.threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	if len(left) == 0 || len(right) == 0 {
		return id
	}

	l := g.build(left, depth+1)
	r := g.build(right, depth+1)

	n := &g.nodes[id]
	n.Feature = best.feature
	n.Threshold = best.threshold
	n.Left = l
	n.Right = r

	return id
}

// bestSplit draws candidate features in random order and keeps looking past
// MaxFeatures until at least one non-constant feature was examined.
func (g *grower) bestSplit(samples []int) (split, bool) {
	best := split{impurity: 2}
	found := false
	examined := 0

	sorted := make([]int, len(samples))
	for _, f := range g.rng.Perm(len(g.x[0])) {
		if examined >= g.opts.MaxFeatures && found {
			break
		}

		copy(sorted, samples)
		slices.SortStableFunc(sorted, func(a, b int) int {
			return cmp.Compare(g.x[a][f], g.x[b][f])
		})
		if g.x[sorted[0]][f] == g.x[sorted[len(sorted)-1]][f] {
			continue
		}
		examined++

		if s, ok := g.scanFeature(sorted, f); ok && s.impurity < best.impurity {
			best = s
			found = true
		}
	}

	return best, found
}

// scanFeature evaluates every threshold between distinct consecutive values
// of feature f over samples sorted by that feature.
func (g *grower) scanFeature(sorted []int, f int) (split, bool) {
	total := len(sorted)
	totalPos := 0
	for _, s := range sorted {
		totalPos += g.y[s]
	}

	best := split{feature: f, impurity: 2}
	found := false
	leftPos := 0
	for i := 0; i < total-1; i++ {
		leftPos += g.y[sorted[i]]
		cur, next := g.x[sorted[i]][f], g.x[sorted[i+1]][f]
		if cur == next {
			continue
		}

		nl := i + 1
		nr := total - nl
		imp := (float64(nl)*gini(leftPos, nl) + float64(nr)*gini(totalPos-leftPos, nr)) / float64(total)
		if imp < best.impurity {
			best.impurity = imp
			best.threshold = cur + (next-cur)/2
			if best.threshold >= next {
				best.threshold = cur
			}
			found = true
		}
	}

	return best, found
}

func gini(positives, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(positives) / float64(n)

	return 2 * p * (1 - p)
}
