package explain

import (
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/model"
	"gonum.org/v1/gonum/stat"
)

// TreeAttributor computes exact interventional Shapley values for tree
// ensembles. For a foreground row x and a background row z, a leaf is reached
// under coalition S iff every feature in A (the splits where only x goes this
// way) is in S and every feature in B (only z goes this way) is not. Each
// leaf therefore adds v·(|A|-1)!|B|!/(|A|+|B|)! to the features of A and
// subtracts v·|A|!(|B|-1)!/(|A|+|B|)! from those of B. Values are averaged
// over the background.
type TreeAttributor struct{}

func (a *TreeAttributor) Name() string {
	return MethodTree
}

func (a *TreeAttributor) Attribute(m model.Regressor, data, background *model.Matrix) (*AttributionSet, error) {
	fm, ok := m.(forestModel)
	if !ok {
		return nil, ErrNotTreeModel
	}
	if err := checkInputs(m, data, background); err != nil {
		return nil, err
	}
	forest := fm.Forest()
	features := len(data.Columns)

	set := newSet(MethodTree, data)
	set.Base = stat.Mean(m.Predict(background.Values), nil)
	set.Predictions = m.Predict(data.Values)

	w := newWalker(features)
	scale := forest.Weight / float64(background.Rows())
	for r, x := range data.Values {
		phi := set.Values[r]
		for _, z := range background.Values {
			for t := range forest.Trees {
				w.reset(forest.Trees[t].Nodes, x, z)
				w.walk(0)
			}
		}
		for f := range phi {
			phi[f] = w.phi[f] * scale
			w.phi[f] = 0
		}
	}
	return set, nil
}

const (
	free int8 = iota
	fromX
	fromZ
)

// walker accumulates the contributions of one (x, z) pair over one tree.
type walker struct {
	nodes  []model.Node
	x, z   []float64
	origin []int8
	a, b   int
	phi    []float64
	// weights[a][b] = a!b!/(a+b+1)!
	weights [][]float64
}

func newWalker(features int) *walker {
	w := &walker{
		origin:  make([]int8, features),
		phi:     make([]float64, features),
		weights: make([][]float64, features+1),
	}
	for a := 0; a <= features; a++ {
		w.weights[a] = make([]float64, features+1)
		for b := 0; a+b <= features; b++ {
			w.weights[a][b] = coalitionWeight(a, b)
		}
	}
	return w
}

// coalitionWeight returns a!b!/(a+b+1)!.
func coalitionWeight(a, b int) float64 {
	if a < b {
		a, b = b, a
	}
	// a!/(a+b+1)! = 1/((a+1)...(a+b+1))
	w := 1.0
	for k := 1; k <= b; k++ {
		w *= float64(k) / float64(a+k)
	}
	return w / float64(a+b+1)
}

func (w *walker) reset(nodes []model.Node, x, z []float64) {
	w.nodes, w.x, w.z = nodes, x, z
}

func (w *walker) walk(i int) {
	n := w.nodes[i]
	if n.IsLeaf() {
		w.leaf(n.Value)
		return
	}
	dx, dz := n.Next(w.x), n.Next(w.z)
	switch w.origin[n.Feature] {
	case fromX:
		w.walk(dx)
		return
	case fromZ:
		w.walk(dz)
		return
	}
	if dx == dz {
		w.walk(dx)
		return
	}
	w.origin[n.Feature] = fromX
	w.a++
	w.walk(dx)
	w.a--
	w.origin[n.Feature] = fromZ
	w.b++
	w.walk(dz)
	w.b--
	w.origin[n.Feature] = free
}

func (w *walker) leaf(v float64) {
	if w.a+w.b == 0 {
		return
	}
	var pos, neg float64
	if w.a > 0 {
		pos = v * w.weights[w.a-1][w.b]
	}
	if w.b > 0 {
		neg = v * w.weights[w.a][w.b-1]
	}
	for f, o := range w.origin {
		switch o {
		case fromX:
			w.phi[f] += pos
		case fromZ:
			w.phi[f] -= neg
		}
	}
}
