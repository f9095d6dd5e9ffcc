package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/explain"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/model"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/normalizer"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/predictor"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/render"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/table"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/pkg/metric"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	DefaultPreviewRows           = 5
	DefaultPredictionPreviewRows = 10
)

type Options struct {
	PreviewRows           int
	PredictionPreviewRows int
	StrictSchema          bool
	Explain               explain.Options
}

// Result is everything one pass hands to the presentation layer. It is only
// returned when every stage succeeded.
type Result struct {
	UploadID string
	Warnings []string

	Uploaded           *table.MetricsTable
	Preview            *table.MetricsTable
	Normalization      normalizer.Report
	Predictions        *predictor.Result
	Output             *table.MetricsTable
	PredictionsPreview *table.MetricsTable
	Download           *Download

	Explanation   *explain.Explanation
	SummaryFigure *render.Figure
	DetailFigure  *render.Figure
}

// Pipeline runs one upload through validation, normalization, both
// prediction stages, result assembly and explanation. It holds no per upload
// state and may be shared between goroutines.
type Pipeline struct {
	models     *model.Pair
	opts       Options
	validator  *Validator
	normalizer *normalizer.Normalizer
	predictor  *predictor.Predictor
	explainer  *explain.Explainer
}

func New(models *model.Pair, opts Options) (*Pipeline, error) {
	if models == nil {
		return nil, fmt.Errorf("pipeline needs a model pair")
	}
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = DefaultPreviewRows
	}
	if opts.PredictionPreviewRows <= 0 {
		opts.PredictionPreviewRows = DefaultPredictionPreviewRows
	}
	explainer, err := explain.New(opts.Explain)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		models:     models,
		opts:       opts,
		validator:  NewValidator(opts.StrictSchema),
		normalizer: normalizer.New(),
		predictor:  predictor.New(models),
		explainer:  explainer,
	}, nil
}

// Run parses r as CSV and processes it.
func (p *Pipeline) Run(r io.Reader) (*Result, error) {
	start := time.Now()
	uploaded, err := table.ReadCSV(r)
	observe("ingest", start, err)
	if err != nil {
		metric.Incr(metric.PipelineRunCount, metric.BuildTag(metric.NewTag(metric.TagOutcome, metric.TagValueOutcomeFailure)))
		return nil, err
	}
	return p.RunTable(uploaded)
}

// RunTable processes an already parsed upload. uploaded is not modified.
func (p *Pipeline) RunTable(uploaded *table.MetricsTable) (*Result, error) {
	res := &Result{UploadID: uuid.NewString(), Uploaded: uploaded}
	logger := log.With().Str("uploadId", res.UploadID).Logger()
	logger.Info().Int("rows", uploaded.Len()).Int("columns", len(uploaded.Columns())).Msg("processing upload")

	if err := p.run(res); err != nil {
		logger.Warn().Err(err).Msg("upload rejected")
		metric.Incr(metric.PipelineRunCount, metric.BuildTag(metric.NewTag(metric.TagOutcome, metric.TagValueOutcomeFailure)))
		return nil, err
	}
	metric.Incr(metric.PipelineRunCount, metric.BuildTag(metric.NewTag(metric.TagOutcome, metric.TagValueOutcomeSuccess)))
	metric.Gauge(metric.PipelineRowCount, float64(uploaded.Len()), nil)
	logger.Info().Int("warnings", len(res.Warnings)).Int("detailRow", res.Explanation.Detail.Row).Msg("upload processed")
	return res, nil
}

func (p *Pipeline) run(res *Result) error {
	uploaded := res.Uploaded

	start := time.Now()
	warnings, err := p.validator.Validate(uploaded.Columns())
	observe("validate", start, err)
	if err != nil {
		return err
	}
	res.Warnings = warnings
	res.Preview = uploaded.Head(p.opts.PreviewRows)

	start = time.Now()
	normalized, report, err := p.normalizer.Normalize(uploaded)
	observe("normalize", start, err)
	if err != nil {
		return err
	}
	res.Normalization = report

	start = time.Now()
	predictions, err := p.predictor.Predict(normalized)
	observe("predict", start, err)
	if err != nil {
		return err
	}
	res.Predictions = predictions
	for _, v := range predictions.WCET {
		metric.Distribution(metric.ModelPredictionValue, v, metric.BuildTag(metric.NewTag(metric.TagModel, p.models.WCET.Name())))
	}

	start = time.Now()
	output, err := Assemble(uploaded, predictions)
	if err == nil {
		res.Download, err = Serialize(output)
	}
	observe("assemble", start, err)
	if err != nil {
		return err
	}
	res.Output = output
	res.PredictionsPreview = output.Select(PredictedLoopQtyColumn, PredictedWCETColumn).Head(p.opts.PredictionPreviewRows)

	start = time.Now()
	explanation, err := p.explainer.Explain(p.models.LoopQty, predictions.Stage1, predictions.LoopQty)
	observe("explain", start, err)
	if err != nil {
		return err
	}
	res.Explanation = explanation

	start = time.Now()
	res.SummaryFigure, err = render.Beeswarm(explanation.Summary)
	if err == nil {
		res.DetailFigure, err = render.Waterfall(explanation.Detail)
	}
	observe("render", start, err)
	return err
}

func observe(stage string, start time.Time, err error) {
	outcome := metric.TagValueOutcomeSuccess
	if err != nil {
		outcome = metric.TagValueOutcomeFailure
	}
	metric.Timing(metric.PipelineStageLatency, time.Since(start), metric.BuildTag(
		metric.NewTag(metric.TagStage, stage),
		metric.NewTag(metric.TagOutcome, outcome),
	))
}

// Figure returns the rendered figure with the given name, or nil.
func (r *Result) Figure(name string) *render.Figure {
	switch name {
	case render.SummaryName:
		return r.SummaryFigure
	case render.DetailName:
		return r.DetailFigure
	}
	return nil
}
