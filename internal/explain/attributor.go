package explain

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/model"
)

const (
	MethodAuto        = "auto"
	MethodTree        = "tree"
	MethodPermutation = "permutation"
)

var ErrNotTreeModel = errors.New("model does not expose its trees")

// AttributionSet holds one attribution per (row, feature) for a model,
// relative to Base, the mean model output over the background data.
type AttributionSet struct {
	Method   string
	Features []string
	// Values[r][f] is the contribution of feature f to row r.
	Values [][]float64
	// Data[r][f] is the feature value the contribution was computed for.
	Data        [][]float64
	Base        float64
	Predictions []float64
}

// Rows returns the number of explained rows.
func (s *AttributionSet) Rows() int {
	return len(s.Values)
}

// Attributor computes per feature attributions of m over data, using
// background as the reference distribution.
type Attributor interface {
	Name() string
	Attribute(m model.Regressor, data, background *model.Matrix) (*AttributionSet, error)
}

// forestModel is a model whose additive tree structure is visible.
type forestModel interface {
	model.Regressor
	Forest() model.Forest
}

// ForMethod returns the attributor for an explicit method, or for auto the
// exact tree attributor when m exposes its trees and the permutation
// attributor otherwise.
func ForMethod(method string, m model.Regressor, permutations int, seed int64) (Attributor, error) {
	switch method {
	case MethodTree:
		return &TreeAttributor{}, nil
	case MethodPermutation:
		return &PermutationAttributor{Permutations: permutations, Seed: seed}, nil
	case MethodAuto, "":
		if _, ok := m.(forestModel); ok {
			return &TreeAttributor{}, nil
		}
		return &PermutationAttributor{Permutations: permutations, Seed: seed}, nil
	default:
		return nil, fmt.Errorf("unknown attribution method %q", method)
	}
}

// Background samples at most size rows of data without replacement. The
// sample is a function of seed and keeps the original row order.
func Background(data *model.Matrix, size int, seed int64) *model.Matrix {
	if size <= 0 || data.Rows() <= size {
		return data
	}
	idx := rand.New(rand.NewSource(seed)).Perm(data.Rows())[:size]
	sort.Ints(idx)
	return data.Sample(idx)
}

func checkInputs(m model.Regressor, data, background *model.Matrix) error {
	if data.Rows() == 0 {
		return fmt.Errorf("no rows to explain")
	}
	if background.Rows() == 0 {
		return fmt.Errorf("empty background")
	}
	if len(data.Columns) != len(m.FeatureNames()) {
		return fmt.Errorf("model %s has %d features, data has %d", m.Name(), len(m.FeatureNames()), len(data.Columns))
	}
	return nil
}

func newSet(method string, data *model.Matrix) *AttributionSet {
	values := make([][]float64, data.Rows())
	for r := range values {
		values[r] = make([]float64, len(data.Columns))
	}
	return &AttributionSet{
		Method:   method,
		Features: append([]string(nil), data.Columns...),
		Values:   values,
		Data:     data.Values,
	}
}
