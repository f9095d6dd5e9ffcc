package predictor

import (
	"testing"

	wcetErrors "github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/errors"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/model"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/schema"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRegressor struct {
	mock.Mock
	name     string
	features []string
}

func (m *mockRegressor) Name() string           { return m.name }
func (m *mockRegressor) FeatureNames() []string { return m.features }

func (m *mockRegressor) Predict(x [][]float64) []float64 {
	args := m.Called(x)
	return args.Get(0).([]float64)
}

// sumRegressor predicts the row sum.
type sumRegressor struct {
	features []string
}

func (s *sumRegressor) Name() string           { return "sum" }
func (s *sumRegressor) FeatureNames() []string { return s.features }

func (s *sumRegressor) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		for _, v := range row {
			out[i] += v
		}
	}
	return out
}

func featureTable(t *testing.T, columns []string, rows int) *table.MetricsTable {
	t.Helper()
	data := make([][]string, rows)
	for r := range data {
		data[r] = make([]string, len(columns))
		for c := range columns {
			data[r][c] = table.FormatFloat(float64(r + 1))
		}
	}
	tbl, err := table.New(columns, data)
	require.NoError(t, err)
	return tbl
}

func newPair(t *testing.T, loop, wcet model.Regressor) *model.Pair {
	t.Helper()
	pair, err := model.NewPair(loop, wcet, schema.WCETFeatures())
	require.NoError(t, err)
	return pair
}

func TestPredictChainsStages(t *testing.T) {
	wcetNames := schema.WCETFeatures().Names()
	loopNames := schema.WCETFeatures().Without(model.LoopQtyColumn).Names()

	loop := &mockRegressor{name: "loop", features: loopNames}
	wcet := &mockRegressor{name: "wcet", features: wcetNames}
	loop.On("Predict", mock.Anything).Return([]float64{7, 9})
	wcet.On("Predict", mock.MatchedBy(func(x [][]float64) bool {
		loopIdx := 0
		for i, n := range wcetNames {
			if n == model.LoopQtyColumn {
				loopIdx = i
			}
		}
		return len(x) == 2 && x[0][loopIdx] == 7 && x[1][loopIdx] == 9
	})).Return([]float64{100, 200})

	in := featureTable(t, loopNames, 2)
	res, err := New(newPair(t, loop, wcet)).Predict(in)
	require.NoError(t, err)

	assert.Equal(t, []float64{7, 9}, res.LoopQty)
	assert.Equal(t, []float64{100, 200}, res.WCET)
	assert.Equal(t, loopNames, res.Stage1.Columns)
	assert.False(t, in.Has(model.LoopQtyColumn))
	loop.AssertExpectations(t)
	wcet.AssertExpectations(t)
}

func TestPredictIgnoresUploadedLoopQty(t *testing.T) {
	wcetNames := schema.WCETFeatures().Names()
	loopNames := schema.WCETFeatures().Without(model.LoopQtyColumn).Names()

	in := featureTable(t, wcetNames, 3)
	res, err := New(newPair(t, &sumRegressor{features: loopNames}, &sumRegressor{features: wcetNames})).Predict(in)
	require.NoError(t, err)

	// every feature of row r holds r+1
	for r := 0; r < 3; r++ {
		want := float64(len(loopNames) * (r + 1))
		assert.Equal(t, want, res.LoopQty[r])
		assert.Equal(t, want+want, res.WCET[r])
	}
	assert.NotContains(t, res.Stage1.Columns, model.LoopQtyColumn)
}

func TestPredictIsDeterministic(t *testing.T) {
	wcetNames := schema.WCETFeatures().Names()
	loopNames := schema.WCETFeatures().Without(model.LoopQtyColumn).Names()
	p := New(newPair(t, &sumRegressor{features: loopNames}, &sumRegressor{features: wcetNames}))
	in := featureTable(t, loopNames, 4)

	first, err := p.Predict(in)
	require.NoError(t, err)
	second, err := p.Predict(in)
	require.NoError(t, err)
	assert.Equal(t, first.LoopQty, second.LoopQty)
	assert.Equal(t, first.WCET, second.WCET)
}

func TestPredictSchemaMismatch(t *testing.T) {
	wcetNames := schema.WCETFeatures().Names()
	loopNames := schema.WCETFeatures().Without(model.LoopQtyColumn).Names()

	tests := []struct {
		name        string
		loopFeature []string
		input       []string
		wantMissing []string
	}{
		{
			name:        "Test 1: loop model feature absent",
			loopFeature: loopNames,
			input:       loopNames[1:],
			wantMissing: loopNames[:1],
		},
		{
			name:        "Test 2: wcet feature absent after merge",
			loopFeature: loopNames[1:],
			input:       loopNames[1:],
			wantMissing: loopNames[:1],
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wcet := &mockRegressor{name: "wcet", features: wcetNames}
			p := New(newPair(t, &sumRegressor{features: tt.loopFeature}, wcet))

			_, err := p.Predict(featureTable(t, tt.input, 2))
			var mismatch *wcetErrors.SchemaMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tt.wantMissing, mismatch.Diff.Missing)
			wcet.AssertNotCalled(t, "Predict", mock.Anything)
		})
	}
}

func TestPredictNonNumericCell(t *testing.T) {
	wcetNames := schema.WCETFeatures().Names()
	loopNames := schema.WCETFeatures().Without(model.LoopQtyColumn).Names()
	in := featureTable(t, loopNames, 2)
	require.NoError(t, in.SetColumn(loopNames[3], []string{"1", "oops"}))

	_, err := New(newPair(t, &sumRegressor{features: loopNames}, &sumRegressor{features: wcetNames})).Predict(in)
	var parseErr *wcetErrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Row)
	assert.Equal(t, loopNames[3], parseErr.Column)
}

func TestPredictShortModelOutput(t *testing.T) {
	wcetNames := schema.WCETFeatures().Names()
	loopNames := schema.WCETFeatures().Without(model.LoopQtyColumn).Names()
	loop := &mockRegressor{name: "loop", features: loopNames}
	loop.On("Predict", mock.Anything).Return([]float64{1})

	_, err := New(newPair(t, loop, &sumRegressor{features: wcetNames})).Predict(featureTable(t, loopNames, 2))
	assert.ErrorContains(t, err, "returned 1 predictions for 2 rows")
}
