package model

import (
	"fmt"
	"math"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/table"
)

// Regressor is a fitted regression model. Implementations must be safe for
// concurrent use once loaded.
type Regressor interface {
	Name() string
	// FeatureNames returns the ordered input columns the model was fitted on.
	FeatureNames() []string
	// Predict returns one value per row of x; each row follows FeatureNames.
	Predict(x [][]float64) []float64
}

// Matrix is a dense rows × columns view of a table, used as model input.
type Matrix struct {
	Columns []string
	Values  [][]float64
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	return len(m.Values)
}

// MatrixFrom reads the named columns of t, in the given order. Missing cells
// become NaN; the caller checks that all columns exist.
func MatrixFrom(t *table.MetricsTable, columns []string) (*Matrix, error) {
	values := make([][]float64, t.Len())
	block := make([]float64, t.Len()*len(columns))
	for r := range values {
		values[r] = block[r*len(columns) : (r+1)*len(columns)]
		for c, name := range columns {
			v, err := t.Float(r, name)
			if err != nil {
				return nil, err
			}
			values[r][c] = v
		}
	}
	return &Matrix{Columns: append([]string(nil), columns...), Values: values}, nil
}

// Sample returns the rows at the given indices.
func (m *Matrix) Sample(indices []int) *Matrix {
	values := make([][]float64, len(indices))
	for i, idx := range indices {
		values[i] = m.Values[idx]
	}
	return &Matrix{Columns: m.Columns, Values: values}
}

// ArgMax returns the index of the first maximum of x, ignoring NaN. It
// returns -1 when x has no comparable value.
func ArgMax(x []float64) int {
	best := -1
	for i, v := range x {
		if math.IsNaN(v) {
			continue
		}
		if best < 0 || v > x[best] {
			best = i
		}
	}
	return best
}

func checkWidth(m Regressor, x [][]float64) {
	want := len(m.FeatureNames())
	for i, row := range x {
		if len(row) != want {
			panic(fmt.Sprintf("model %s: row %d has %d features, want %d", m.Name(), i, len(row), want))
		}
	}
}
