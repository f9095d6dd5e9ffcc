package predictor

import (
	"fmt"

	wcetErrors "github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/errors"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/model"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/table"
	"github.com/rs/zerolog/log"
)

// Result holds both prediction sequences of one pass, in input row order,
// and the stage-1 input matrix the explainer consumes.
type Result struct {
	LoopQty []float64
	WCET    []float64
	Stage1  *model.Matrix
}

// Predictor chains the loop count model into the WCET model.
type Predictor struct {
	models *model.Pair
}

func New(models *model.Pair) *Predictor {
	return &Predictor{models: models}
}

// Predict runs both stages over a normalized table. normalized is not
// modified.
func (p *Predictor) Predict(normalized *table.MetricsTable) (*Result, error) {
	stage1, err := p.stage1Features(normalized)
	if err != nil {
		return nil, err
	}
	loopQty, err := run(p.models.LoopQty, stage1)
	if err != nil {
		return nil, err
	}

	merged := normalized.Clone()
	if err := merged.SetFloatColumn(model.LoopQtyColumn, loopQty); err != nil {
		return nil, err
	}

	if _, err := p.models.Schema.Require(merged.Columns()); err != nil {
		log.Warn().Err(err).Msg("stage 2 input does not satisfy the WCET schema")
		return nil, err
	}
	stage2, err := model.MatrixFrom(merged, p.models.Schema.Names())
	if err != nil {
		return nil, err
	}
	wcet, err := run(p.models.WCET, stage2)
	if err != nil {
		return nil, err
	}
	return &Result{LoopQty: loopQty, WCET: wcet, Stage1: stage1}, nil
}

// stage1Features drops any loopQty column and selects the loop model's
// features by name.
func (p *Predictor) stage1Features(normalized *table.MetricsTable) (*model.Matrix, error) {
	features := normalized.Clone()
	features.Drop(model.LoopQtyColumn)

	names := p.models.LoopQty.FeatureNames()
	var missing []string
	for _, name := range names {
		if !features.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &wcetErrors.SchemaMismatchError{
			Schema: p.models.LoopQty.Name(),
			Diff:   wcetErrors.SchemaDiff{Missing: missing},
		}
	}
	return model.MatrixFrom(features, names)
}

func run(m model.Regressor, x *model.Matrix) ([]float64, error) {
	out := m.Predict(x.Values)
	if len(out) != x.Rows() {
		return nil, fmt.Errorf("model %s returned %d predictions for %d rows", m.Name(), len(out), x.Rows())
	}
	return out, nil
}
