package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	ContentTypePNG = "image/png"

	SummaryName = "summary"
	DetailName  = "detail"
)

var (
	positive = color.RGBA{R: 0xff, G: 0x00, B: 0x51, A: 0xff}
	negative = color.RGBA{R: 0x00, G: 0x8b, B: 0xfb, A: 0xff}
	neutral  = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	axisLine = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
)

// Figure is a rendered plot ready to be served or written to disk.
type Figure struct {
	Name        string
	FileName    string
	ContentType string
	Bytes       []byte
}

func width() vg.Length {
	return 8 * vg.Inch
}

// height grows with the number of plotted features.
func height(rows int) vg.Length {
	return vg.Length(rows)*0.4*vg.Inch + 1.5*vg.Inch
}

func encode(p *plot.Plot, name string, rows int) (*Figure, error) {
	wt, err := p.WriterTo(width(), height(rows), "png")
	if err != nil {
		return nil, fmt.Errorf("rendering %s plot: %w", name, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encoding %s plot: %w", name, err)
	}
	return &Figure{
		Name:        name,
		FileName:    name + ".png",
		ContentType: ContentTypePNG,
		Bytes:       buf.Bytes(),
	}, nil
}

// verticalLine draws x = at across rows.
func verticalLine(at float64, rows int, dashed bool) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{{X: at, Y: -0.5}, {X: at, Y: float64(rows) - 0.5}})
	if err != nil {
		return nil, err
	}
	l.LineStyle.Color = axisLine
	l.LineStyle.Width = vg.Points(0.75)
	if dashed {
		l.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	}
	return l, nil
}

// blend interpolates from negative (t = 0) to positive (t = 1).
func blend(t float64) color.Color {
	if math.IsNaN(t) {
		return neutral
	}
	t = math.Max(0, math.Min(1, t))
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + t*(float64(b)-float64(a))))
	}
	return color.RGBA{
		R: mix(negative.R, positive.R),
		G: mix(negative.G, positive.G),
		B: mix(negative.B, positive.B),
		A: 0xff,
	}
}

var circle = draw.CircleGlyph{}
