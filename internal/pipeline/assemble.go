package pipeline

import (
	"bytes"
	"fmt"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/predictor"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/table"
)

const (
	PredictedLoopQtyColumn = "Predicted_LoopQty"
	PredictedWCETColumn    = "Predicted_WCET"

	DownloadFileName = "wcet_predictions.csv"
	ContentTypeCSV   = "text/csv"
)

// Download is the serialized result table.
type Download struct {
	FileName    string
	ContentType string
	Bytes       []byte
}

// Assemble returns a copy of the uploaded table with both predictions
// appended, or overwritten in place when the upload already has them.
func Assemble(uploaded *table.MetricsTable, predictions *predictor.Result) (*table.MetricsTable, error) {
	if len(predictions.LoopQty) != uploaded.Len() || len(predictions.WCET) != uploaded.Len() {
		return nil, fmt.Errorf("got %d loop count and %d WCET predictions for %d rows",
			len(predictions.LoopQty), len(predictions.WCET), uploaded.Len())
	}
	out := uploaded.Clone()
	if err := out.SetFloatColumn(PredictedLoopQtyColumn, predictions.LoopQty); err != nil {
		return nil, err
	}
	if err := out.SetFloatColumn(PredictedWCETColumn, predictions.WCET); err != nil {
		return nil, err
	}
	return out, nil
}

// Serialize writes t as the downloadable CSV.
func Serialize(t *table.MetricsTable) (*Download, error) {
	var buf bytes.Buffer
	if err := table.WriteCSV(&buf, t); err != nil {
		return nil, fmt.Errorf("serializing results: %w", err)
	}
	return &Download{FileName: DownloadFileName, ContentType: ContentTypeCSV, Bytes: buf.Bytes()}, nil
}
