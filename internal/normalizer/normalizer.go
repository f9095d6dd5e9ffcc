package normalizer

import (
	"sort"

	wcetErrors "github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/errors"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/table"
	"github.com/rs/zerolog/log"
)

// Columns that never reach a model.
var NonFeatureColumns = []string{"file", "class", "type", "WCET"}

// Columns whose missing entries are filled with the column median.
var ImputedColumns = []string{"lcom*", "tcc", "lcc"}

// Normalizer turns an uploaded table into a model ready one.
type Normalizer struct {
	Drop   []string
	Impute []string
}

// New returns a Normalizer with the default drop and impute lists.
func New() *Normalizer {
	return &Normalizer{Drop: NonFeatureColumns, Impute: ImputedColumns}
}

// Report records what one Normalize call changed.
type Report struct {
	Dropped []string           `json:"dropped"`
	Filled  map[string]int     `json:"filled"`
	Medians map[string]float64 `json:"medians"`
}

// Normalize returns a copy of raw without the non-feature columns and with
// missing imputed values replaced. raw is not modified.
func (n *Normalizer) Normalize(raw *table.MetricsTable) (*table.MetricsTable, Report, error) {
	out := raw.Clone()
	report := Report{Filled: map[string]int{}, Medians: map[string]float64{}}
	report.Dropped = out.Drop(n.Drop...)

	for _, column := range n.Impute {
		if !out.Has(column) {
			continue
		}
		filled, median, err := imputeMedian(out, column)
		if err != nil {
			return nil, Report{}, err
		}
		if filled > 0 {
			report.Filled[column] = filled
			report.Medians[column] = median
			log.Debug().Str("column", column).Int("filled", filled).Float64("median", median).Msg("imputed missing values")
		}
	}
	return out, report, nil
}

func imputeMedian(t *table.MetricsTable, column string) (int, float64, error) {
	cells, _ := t.Column(column)
	var values []float64
	var missing []int
	for i := range cells {
		v, err := t.Float(i, column)
		if err != nil {
			return 0, 0, err
		}
		if table.IsMissing(cells[i]) {
			missing = append(missing, i)
			continue
		}
		values = append(values, v)
	}
	if len(missing) == 0 {
		return 0, 0, nil
	}
	if len(values) == 0 {
		return 0, 0, &wcetErrors.InsufficientDataError{Column: column}
	}
	median := Median(values)
	fill := table.FormatFloat(median)
	for _, i := range missing {
		cells[i] = fill
	}
	if err := t.SetColumn(column, cells); err != nil {
		return 0, 0, err
	}
	return len(missing), median, nil
}

// Median returns the middle value of x, or the mean of the two middle values
// when len(x) is even. x is not modified.
func Median(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
