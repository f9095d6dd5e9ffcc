package explain

import (
	"fmt"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/model"
	"github.com/rs/zerolog/log"
)

const DefaultBackgroundSize = 100

type Options struct {
	Method         string
	MaxDisplay     int
	BackgroundSize int
	Permutations   int
	Seed           int64
}

// Explanation is everything the explainer produces for one pass.
type Explanation struct {
	Set     *AttributionSet
	Summary *Summary
	Detail  *Detail
}

type Explainer struct {
	opts Options
}

func New(opts Options) (*Explainer, error) {
	switch opts.Method {
	case "", MethodAuto, MethodTree, MethodPermutation:
	default:
		return nil, fmt.Errorf("unknown attribution method %q", opts.Method)
	}
	if opts.MaxDisplay <= 0 {
		opts.MaxDisplay = DefaultMaxDisplay
	}
	if opts.BackgroundSize <= 0 {
		opts.BackgroundSize = DefaultBackgroundSize
	}
	return &Explainer{opts: opts}, nil
}

// Explain attributes m over data, with a sample of data as background, and
// details the row with the largest prediction.
func (e *Explainer) Explain(m model.Regressor, data *model.Matrix, predictions []float64) (*Explanation, error) {
	attributor, err := ForMethod(e.opts.Method, m, e.opts.Permutations, e.opts.Seed)
	if err != nil {
		return nil, err
	}
	background := Background(data, e.opts.BackgroundSize, e.opts.Seed)
	set, err := attributor.Attribute(m, data, background)
	if err != nil {
		return nil, fmt.Errorf("%s attribution for model %s: %w", attributor.Name(), m.Name(), err)
	}
	if len(predictions) != set.Rows() {
		return nil, fmt.Errorf("%d predictions for %d explained rows", len(predictions), set.Rows())
	}
	row, err := MaxRow(predictions)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("method", attributor.Name()).Int("rows", set.Rows()).Int("background", background.Rows()).
		Int("detail_row", row).Float64("base", set.Base).Msg("attributions computed")

	return &Explanation{
		Set:     set,
		Summary: Summarize(set, e.opts.MaxDisplay),
		Detail:  DetailRow(set, row, e.opts.MaxDisplay),
	}, nil
}
