package render

import (
	"fmt"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/explain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

const barHalfHeight = 0.35

// Waterfall plots how one prediction is built from the base value. Bars start
// at the base value at the bottom with the smallest contribution and stack up
// to the prediction at the top; red bars push the output up, blue bars down.
func Waterfall(d *explain.Detail) (*Figure, error) {
	n := len(d.Contributions)
	if n == 0 {
		return nil, fmt.Errorf("detail has no contributions")
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Row %d: f(x) = %.4g, E[f(X)] = %.4g", d.Row, d.Prediction, d.Base)
	p.X.Label.Text = "model output"

	names := make([]string, n)
	cum := d.Base
	for k := n - 1; k >= 0; k-- {
		c := d.Contributions[k]
		pos := float64(n - 1 - k)
		names[n-1-k] = label(c)

		from, to := cum, cum+c.Attribution
		bar, err := plotter.NewPolygon(plotter.XYs{
			{X: from, Y: pos - barHalfHeight},
			{X: to, Y: pos - barHalfHeight},
			{X: to, Y: pos + barHalfHeight},
			{X: from, Y: pos + barHalfHeight},
		})
		if err != nil {
			return nil, fmt.Errorf("contribution %s: %w", c.Feature, err)
		}
		bar.Color = negative
		if c.Attribution >= 0 {
			bar.Color = positive
		}
		bar.LineStyle.Width = 0
		p.Add(bar)
		cum = to
	}

	base, err := verticalLine(d.Base, n, true)
	if err != nil {
		return nil, err
	}
	prediction, err := verticalLine(d.Prediction, n, true)
	if err != nil {
		return nil, err
	}
	p.Add(base, prediction)
	p.NominalY(names...)
	return encode(p, DetailName, n)
}

func label(c explain.Contribution) string {
	if c.Folded > 0 || c.Value == "" {
		return fmt.Sprintf("%s (%+.3g)", c.Feature, c.Attribution)
	}
	return fmt.Sprintf("%s = %s (%+.3g)", c.Feature, c.Value, c.Attribution)
}
