package model

import (
	"fmt"
	"math"
)

// Aggregation combines the outputs of the trees of an ensemble.
type Aggregation string

const (
	AggregationMean Aggregation = "mean"
	AggregationSum  Aggregation = "sum"
)

const leaf = -1

// Node is one node of a regression tree stored in array form. Leaves have
// Left == Right == -1 and carry Value. Internal nodes send x[Feature] <=
// Threshold left; NaN goes left when MissingLeft is set and right otherwise.
type Node struct {
	Feature     int     `json:"feature"`
	Threshold   float64 `json:"threshold"`
	Left        int     `json:"left"`
	Right       int     `json:"right"`
	Value       float64 `json:"value"`
	MissingLeft bool    `json:"missing_left,omitempty"`
}

func (n Node) IsLeaf() bool {
	return n.Left == leaf && n.Right == leaf
}

// Next returns the child x is routed to.
func (n Node) Next(x []float64) int {
	v := x[n.Feature]
	if math.IsNaN(v) {
		if n.MissingLeft {
			return n.Left
		}
		return n.Right
	}
	if v <= n.Threshold {
		return n.Left
	}
	return n.Right
}

// Tree is a CART regression tree; Nodes[0] is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Predict walks x from the root to a leaf.
func (t *Tree) Predict(x []float64) float64 {
	i := 0
	for !t.Nodes[i].IsLeaf() {
		i = t.Nodes[i].Next(x)
	}
	return t.Nodes[i].Value
}

func (t *Tree) validate(features int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	for i, n := range t.Nodes {
		if n.IsLeaf() {
			continue
		}
		if n.Left == leaf || n.Right == leaf {
			return fmt.Errorf("node %d has a single child", i)
		}
		// children after parents rules out cycles
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has child out of range (%d, %d)", i, n.Left, n.Right)
		}
		if n.Feature < 0 || n.Feature >= features {
			return fmt.Errorf("node %d splits on feature %d, model has %d", i, n.Feature, features)
		}
		if math.IsNaN(n.Threshold) {
			return fmt.Errorf("node %d has NaN threshold", i)
		}
	}
	return nil
}

// Forest is the additive view of a tree model used by attribution:
// f(x) = Base + Weight * Σ tree(x).
type Forest struct {
	Trees  []Tree
	Weight float64
	Base   float64
}

// TreeEnsemble is a regression model made of one or more trees, as exported
// from a fitted decision tree, random forest or boosted model.
type TreeEnsemble struct {
	ModelName   string      `json:"name"`
	Version     string      `json:"version"`
	Target      string      `json:"target"`
	Features    []string    `json:"feature_names"`
	Aggregation Aggregation `json:"aggregation"`
	BaseScore   float64     `json:"base_score"`
	Trees       []Tree      `json:"trees"`
}

func (e *TreeEnsemble) Name() string {
	return e.ModelName
}

func (e *TreeEnsemble) FeatureNames() []string {
	return append([]string(nil), e.Features...)
}

// Validate checks the ensemble is well formed.
func (e *TreeEnsemble) Validate() error {
	if len(e.Features) == 0 {
		return fmt.Errorf("no feature names")
	}
	seen := make(map[string]bool, len(e.Features))
	for _, f := range e.Features {
		if seen[f] {
			return fmt.Errorf("duplicate feature name %q", f)
		}
		seen[f] = true
	}
	switch e.Aggregation {
	case "":
		e.Aggregation = AggregationMean
	case AggregationMean, AggregationSum:
	default:
		return fmt.Errorf("unknown aggregation %q", e.Aggregation)
	}
	if len(e.Trees) == 0 {
		return fmt.Errorf("no trees")
	}
	for i := range e.Trees {
		if err := e.Trees[i].validate(len(e.Features)); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

// Forest returns the additive decomposition of the ensemble.
func (e *TreeEnsemble) Forest() Forest {
	weight := 1.0
	if e.Aggregation != AggregationSum {
		weight = 1 / float64(len(e.Trees))
	}
	return Forest{Trees: e.Trees, Weight: weight, Base: e.BaseScore}
}

// PredictRow evaluates one row.
func (e *TreeEnsemble) PredictRow(x []float64) float64 {
	f := e.Forest()
	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].Predict(x)
	}
	return f.Base + f.Weight*sum
}

func (e *TreeEnsemble) Predict(x [][]float64) []float64 {
	checkWidth(e, x)
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = e.PredictRow(row)
	}
	return out
}
