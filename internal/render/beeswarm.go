package render

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/explain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Beeswarm plots one row per ranked feature, most important on top. Each
// point is one explained row at its attribution, coloured from low (blue) to
// high (red) feature value.
func Beeswarm(s *explain.Summary) (*Figure, error) {
	n := len(s.Features)
	if n == 0 {
		return nil, fmt.Errorf("summary has no features")
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Feature attributions (%s, %d rows)", s.Method, s.Rows)
	p.X.Label.Text = "attribution (impact on model output)"

	zero, err := verticalLine(0, n, false)
	if err != nil {
		return nil, err
	}
	p.Add(zero)

	names := make([]string, n)
	for i, f := range s.Features {
		pos := n - 1 - i
		names[pos] = f.Feature

		points := make(plotter.XYs, len(f.Attributions))
		jitter := rand.New(rand.NewSource(int64(i)))
		for r, a := range f.Attributions {
			points[r].X = a
			points[r].Y = float64(pos) + (jitter.Float64()-0.5)*0.5
		}
		sc, err := plotter.NewScatter(points)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", f.Feature, err)
		}
		shades := normalize(f.Values, len(f.Attributions))
		sc.GlyphStyleFunc = func(r int) draw.GlyphStyle {
			return draw.GlyphStyle{Color: blend(shades[r]), Radius: vg.Points(2.5), Shape: circle}
		}
		p.Add(sc)
	}
	p.NominalY(names...)
	return encode(p, SummaryName, n)
}

// normalize maps values to [0, 1] by min-max scaling. NaN, a missing values
// slice, or a constant column give NaN or 0.5 so the point is drawn grey or
// in the middle shade.
func normalize(values []float64, rows int) []float64 {
	out := make([]float64, rows)
	if values == nil {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = math.NaN()
		case hi == lo:
			out[i] = 0.5
		default:
			out[i] = (v - lo) / (hi - lo)
		}
	}
	return out
}
