package regression

import "sort"

// minSplitGain is the smallest proxy improvement that justifies a split.
const minSplitGain = 1e-12

// Node is one tree node. Leaves have Left == -1.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

func (n *Node) leaf() bool { return n.Left < 0 }

// Tree is a least-squares regression tree stored as a flat node slice with
// the root at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (t *Tree) Predict(x []float64) float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.leaf() {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func (t *Tree) valid(width int) bool {
	if len(t.Nodes) == 0 {
		return false
	}
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.leaf() {
			continue
		}
		if n.Feature < 0 || n.Feature >= width || n.Left <= i || n.Right <= i ||
			n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return false
		}
	}
	return true
}

// presort returns, per column, the row indices ordered by value.
func presort(X [][]float64) [][]int {
	if len(X) == 0 {
		return nil
	}
	order := make([][]int, len(X[0]))
	for f := range order {
		idx := make([]int, len(X))
		for i := range idx {
			idx[i] = i
		}
		col := f
		sort.SliceStable(idx, func(a, b int) bool { return X[idx[a]][col] < X[idx[b]][col] })
		order[f] = idx
	}
	return order
}

type nodeStats struct {
	sum   float64
	count int
}

type split struct {
	found     bool
	gain      float64
	feature   int
	threshold float64
}

// growTree fits a tree to residuals r over the in-bag rows, level by level.
// Each level makes one pass over every presorted column and evaluates the
// Friedman improvement proxy for every open node at once.
func growTree(X [][]float64, r []float64, order [][]int, inBag []bool, maxDepth, minLeaf int) *Tree {
	t := &Tree{Nodes: []Node{{Left: -1, Right: -1}}}
	totals := []nodeStats{{}}

	nodeOf := make([]int, len(X))
	for i := range nodeOf {
		if !inBag[i] {
			nodeOf[i] = -1
			continue
		}
		totals[0].sum += r[i]
		totals[0].count++
	}

	open := []int{0}
	for depth := 0; depth < maxDepth && len(open) > 0; depth++ {
		slot := make(map[int]int, len(open))
		for s, id := range open {
			slot[id] = s
		}

		best := make([]split, len(open))
		left := make([]nodeStats, len(open))
		last := make([]float64, len(open))
		seen := make([]bool, len(open))

		for f, rows := range order {
			for s := range left {
				left[s] = nodeStats{}
				seen[s] = false
			}
			for _, i := range rows {
				id := nodeOf[i]
				if id < 0 {
					continue
				}
				s, ok := slot[id]
				if !ok {
					continue
				}
				x := X[i][f]
				if seen[s] && x > last[s] {
					nl := left[s].count
					nr := totals[id].count - nl
					if nl >= minLeaf && nr >= minLeaf {
						sumR := totals[id].sum - left[s].sum
						diff := float64(nr)*left[s].sum - float64(nl)*sumR
						gain := diff * diff / (float64(nl) * float64(nr))
						if !best[s].found || gain > best[s].gain {
							best[s] = split{found: true, gain: gain, feature: f, threshold: midpoint(last[s], x)}
						}
					}
				}
				left[s].sum += r[i]
				left[s].count++
				last[s] = x
				seen[s] = true
			}
		}

		var next []int
		for s, id := range open {
			b := best[s]
			if !b.found || b.gain <= minSplitGain {
				continue
			}
			l := len(t.Nodes)
			t.Nodes = append(t.Nodes, Node{Left: -1, Right: -1}, Node{Left: -1, Right: -1})
			totals = append(totals, nodeStats{}, nodeStats{})
			n := &t.Nodes[id]
			n.Feature, n.Threshold, n.Left, n.Right = b.feature, b.threshold, l, l+1
			next = append(next, l, l+1)
		}

		for i, id := range nodeOf {
			if id < 0 {
				continue
			}
			n := &t.Nodes[id]
			if n.leaf() {
				continue
			}
			child := n.Right
			if X[i][n.Feature] <= n.Threshold {
				child = n.Left
			}
			nodeOf[i] = child
			totals[child].sum += r[i]
			totals[child].count++
		}
		open = next
	}

	for id := range t.Nodes {
		if n := &t.Nodes[id]; n.leaf() && totals[id].count > 0 {
			n.Value = totals[id].sum / float64(totals[id].count)
		}
	}
	return t
}

func midpoint(lo, hi float64) float64 {
	m := lo + (hi-lo)/2
	if m >= hi {
		return lo
	}
	return m
}
