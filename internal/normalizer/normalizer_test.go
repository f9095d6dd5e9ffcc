package normalizer

import (
	"testing"

	wcetErrors "github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/errors"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, columns []string, rows ...[]string) *table.MetricsTable {
	t.Helper()
	tbl, err := table.New(columns, rows)
	require.NoError(t, err)
	return tbl
}

func TestNormalizeDropsNonFeatureColumns(t *testing.T) {
	raw := mustTable(t, []string{"file", "class", "cbo", "WCET"},
		[]string{"A.java", "A", "3", "10"},
		[]string{"B.java", "B", "4", "12"},
	)

	out, report, err := New().Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"cbo"}, out.Columns())
	assert.Equal(t, []string{"file", "class", "WCET"}, report.Dropped)
	assert.Equal(t, 2, out.Len())

	// the upload keeps its identifying columns
	assert.Equal(t, []string{"file", "class", "cbo", "WCET"}, raw.Columns())
}

func TestNormalizeImputesMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
		median float64
	}{
		{
			name:   "Test 1: odd count",
			values: []string{"1", "", "5", "3"},
			want:   []string{"1", "3", "5", "3"},
			median: 3,
		},
		{
			name:   "Test 2: even count averages middle values",
			values: []string{"", "0.2", "0.4"},
			want:   []string{"0.30000000000000004", "0.2", "0.4"},
			median: (0.2 + 0.4) / 2,
		},
		{
			name:   "Test 3: single known value fills every gap",
			values: []string{"", "7", "NaN", ""},
			want:   []string{"7", "7", "7", "7"},
			median: 7,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([][]string, len(tt.values))
			for i, v := range tt.values {
				rows[i] = []string{v}
			}
			raw := mustTable(t, []string{"lcom*"}, rows...)

			out, report, err := New().Normalize(raw)
			require.NoError(t, err)
			got, _ := out.Column("lcom*")
			assert.Equal(t, tt.want, got)
			assert.InDelta(t, tt.median, report.Medians["lcom*"], 1e-12)
		})
	}
}

func TestNormalizeInsufficientData(t *testing.T) {
	raw := mustTable(t, []string{"cbo", "tcc"}, []string{"1", ""}, []string{"2", "NA"})

	_, _, err := New().Normalize(raw)
	var insufficient *wcetErrors.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "tcc", insufficient.Column)
}

func TestNormalizeRejectsNonNumericImputedColumn(t *testing.T) {
	raw := mustTable(t, []string{"lcc"}, []string{"x"}, []string{""})

	_, _, err := New().Normalize(raw)
	var parseErr *wcetErrors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestNormalizeLeavesOtherColumnsAlone(t *testing.T) {
	raw := mustTable(t, []string{"cbo", "lcc"}, []string{"", "1"}, []string{"2", "1"})

	out, report, err := New().Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "", out.Cell(0, "cbo"))
	assert.Empty(t, report.Filled)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := mustTable(t, []string{"cbo", "lcom*", "tcc"},
		[]string{"1", "0.5", "0.1"},
		[]string{"2", "0.7", "0.2"},
	)
	n := New()

	once, _, err := n.Normalize(raw)
	require.NoError(t, err)
	twice, _, err := n.Normalize(once)
	require.NoError(t, err)
	assert.Equal(t, once.Records(), twice.Records())
	assert.Equal(t, raw.Records(), once.Records())
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))

	x := []float64{3, 1, 2}
	Median(x)
	assert.Equal(t, []float64{3, 1, 2}, x)
}
