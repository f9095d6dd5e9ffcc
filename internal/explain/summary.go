package explain

import (
	"fmt"
	"math"
	"sort"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/model"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/table"
	"gonum.org/v1/gonum/floats"
)

const DefaultMaxDisplay = 15

// FeatureImportance is one row of the summary view. A folded entry stands for
// Folded features whose attributions are summed per row and carry no feature
// value.
type FeatureImportance struct {
	Feature string  `json:"feature"`
	MeanAbs float64 `json:"mean_abs"`
	Folded  int     `json:"folded,omitempty"`
	// Attributions and Values are per explained row; Values is nil for a
	// folded entry.
	Attributions []float64 `json:"-"`
	Values       []float64 `json:"-"`
}

// Summary ranks features by mean absolute attribution, most important first.
type Summary struct {
	Method   string              `json:"method"`
	Base     float64             `json:"base_value"`
	Rows     int                 `json:"rows"`
	Features []FeatureImportance `json:"features"`
}

// Contribution is one bar of the detail view.
type Contribution struct {
	Feature     string  `json:"feature"`
	Value       string  `json:"value,omitempty"`
	Attribution float64 `json:"attribution"`
	Folded      int     `json:"folded,omitempty"`
}

// Detail decomposes one row's prediction into Base plus its contributions.
type Detail struct {
	Row           int            `json:"row"`
	Base          float64        `json:"base_value"`
	Prediction    float64        `json:"prediction"`
	Contributions []Contribution `json:"contributions"`
}

func otherFeatures(n int) string {
	if n == 1 {
		return "1 other feature"
	}
	return fmt.Sprintf("%d other features", n)
}

// Summarize ranks the features of set. Features past maxDisplay-1 are folded
// into one trailing entry so that at most maxDisplay entries are returned.
func Summarize(set *AttributionSet, maxDisplay int) *Summary {
	if maxDisplay <= 0 {
		maxDisplay = DefaultMaxDisplay
	}
	rows := set.Rows()
	entries := make([]FeatureImportance, len(set.Features))
	for f, name := range set.Features {
		attributions := make([]float64, rows)
		values := make([]float64, rows)
		abs := make([]float64, rows)
		for r := 0; r < rows; r++ {
			attributions[r] = set.Values[r][f]
			values[r] = set.Data[r][f]
			abs[r] = math.Abs(attributions[r])
		}
		entries[f] = FeatureImportance{
			Feature:      name,
			MeanAbs:      floats.Sum(abs) / float64(rows),
			Attributions: attributions,
			Values:       values,
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].MeanAbs > entries[j].MeanAbs
	})

	if len(entries) > maxDisplay {
		kept, rest := entries[:maxDisplay-1], entries[maxDisplay-1:]
		folded := FeatureImportance{
			Feature:      otherFeatures(len(rest)),
			Folded:       len(rest),
			Attributions: make([]float64, rows),
		}
		for _, e := range rest {
			floats.Add(folded.Attributions, e.Attributions)
		}
		abs := make([]float64, rows)
		for r, v := range folded.Attributions {
			abs[r] = math.Abs(v)
		}
		folded.MeanAbs = floats.Sum(abs) / float64(rows)
		entries = append(kept, folded)
	}
	return &Summary{Method: set.Method, Base: set.Base, Rows: rows, Features: entries}
}

// DetailRow builds the detail view of one row.
func DetailRow(set *AttributionSet, row, maxDisplay int) *Detail {
	if maxDisplay <= 0 {
		maxDisplay = DefaultMaxDisplay
	}
	contributions := make([]Contribution, len(set.Features))
	for f, name := range set.Features {
		contributions[f] = Contribution{
			Feature:     name,
			Value:       table.FormatFloat(set.Data[row][f]),
			Attribution: set.Values[row][f],
		}
	}
	sort.SliceStable(contributions, func(i, j int) bool {
		return math.Abs(contributions[i].Attribution) > math.Abs(contributions[j].Attribution)
	})
	if len(contributions) > maxDisplay {
		kept, rest := contributions[:maxDisplay-1], contributions[maxDisplay-1:]
		folded := Contribution{Feature: otherFeatures(len(rest)), Folded: len(rest)}
		for _, c := range rest {
			folded.Attribution += c.Attribution
		}
		contributions = append(kept, folded)
	}

	prediction := set.Base
	for _, c := range contributions {
		prediction += c.Attribution
	}
	return &Detail{Row: row, Base: set.Base, Prediction: prediction, Contributions: contributions}
}

// MaxRow returns the row with the largest prediction; ties go to the lowest
// index.
func MaxRow(predictions []float64) (int, error) {
	row := model.ArgMax(predictions)
	if row < 0 {
		return 0, fmt.Errorf("no comparable prediction among %d rows", len(predictions))
	}
	return row, nil
}
