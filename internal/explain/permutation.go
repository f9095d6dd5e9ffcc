package explain

import (
	"math/rand"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/model"
	"gonum.org/v1/gonum/stat"
)

const defaultPermutations = 4

// PermutationAttributor estimates Shapley values for any model. For every
// foreground row and every background row it walks Permutations random
// feature orders, switching features from the background value to the
// foreground value one at a time and crediting each switch with the change
// in output. Each walk telescopes to f(x) - f(z), so the attributions of a row
// sum to f(x) - Base.
type PermutationAttributor struct {
	Permutations int
	Seed         int64
}

func (a *PermutationAttributor) Name() string {
	return MethodPermutation
}

func (a *PermutationAttributor) Attribute(m model.Regressor, data, background *model.Matrix) (*AttributionSet, error) {
	if err := checkInputs(m, data, background); err != nil {
		return nil, err
	}
	rounds := a.Permutations
	if rounds <= 0 {
		rounds = defaultPermutations
	}
	features := len(data.Columns)
	rng := rand.New(rand.NewSource(a.Seed))

	set := newSet(MethodPermutation, data)
	set.Base = stat.Mean(m.Predict(background.Values), nil)
	set.Predictions = m.Predict(data.Values)

	// one walk is evaluated as a single batch of features+1 rows
	walk := make([][]float64, features+1)
	for i := range walk {
		walk[i] = make([]float64, features)
	}
	samples := float64(background.Rows() * rounds)

	for r, x := range data.Values {
		phi := set.Values[r]
		for _, z := range background.Values {
			for k := 0; k < rounds; k++ {
				order := rng.Perm(features)
				copy(walk[0], z)
				for step, f := range order {
					copy(walk[step+1], walk[step])
					walk[step+1][f] = x[f]
				}
				out := m.Predict(walk)
				for step, f := range order {
					phi[f] += out[step+1] - out[step]
				}
			}
		}
		for f := range phi {
			phi[f] /= samples
		}
	}
	return set, nil
}
