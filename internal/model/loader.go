package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	wcetErrors "github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/errors"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/schema"
	"github.com/rs/zerolog/log"
)

// LoopQtyColumn is the feature the stage-1 model predicts and the stage-2
// model consumes.
const LoopQtyColumn = "loopQty"

// Decode reads a JSON tree ensemble artifact.
func Decode(r io.Reader) (*TreeEnsemble, error) {
	var e TreeEnsemble
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&e); err != nil {
		return nil, fmt.Errorf("decoding artifact: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Load reads a tree ensemble artifact from path.
func Load(path string) (*TreeEnsemble, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &wcetErrors.ModelLoadError{Path: path, ErrorMsg: "cannot open artifact", Err: err}
	}
	defer f.Close()
	e, err := Decode(f)
	if err != nil {
		return nil, &wcetErrors.ModelLoadError{Path: path, ErrorMsg: "invalid artifact", Err: err}
	}
	log.Info().Str("path", path).Str("model", e.ModelName).Str("version", e.Version).
		Int("trees", len(e.Trees)).Int("features", len(e.Features)).Msg("model artifact loaded")
	return e, nil
}

// Pair holds the two chained models. It is built once at startup and shared
// read-only by every pipeline pass.
type Pair struct {
	LoopQty Regressor
	WCET    Regressor
	Schema  *schema.Schema
}

// NewPair checks that the models can be chained: the loop model must not read
// its own target and the WCET model must read exactly the WCET schema, in
// order.
func NewPair(loopQty, wcet Regressor, wcetSchema *schema.Schema) (*Pair, error) {
	if loopQty == nil || wcet == nil {
		return nil, &wcetErrors.ModelLoadError{ErrorMsg: "both models are required"}
	}
	if slices.Contains(loopQty.FeatureNames(), LoopQtyColumn) {
		return nil, &wcetErrors.ModelLoadError{
			Path:     loopQty.Name(),
			ErrorMsg: fmt.Sprintf("loop count model reads its own target %q", LoopQtyColumn),
		}
	}
	if e, ok := loopQty.(*TreeEnsemble); ok && e.Target != "" && e.Target != LoopQtyColumn {
		return nil, &wcetErrors.ModelLoadError{
			Path:     loopQty.Name(),
			ErrorMsg: fmt.Sprintf("loop count model predicts %q, want %q", e.Target, LoopQtyColumn),
		}
	}
	if diff := wcetSchema.Diff(wcet.FeatureNames()); !diff.Empty() {
		return nil, &wcetErrors.ModelLoadError{
			Path:     wcet.Name(),
			ErrorMsg: fmt.Sprintf("WCET model features do not match schema %s: %s", wcetSchema.ID(), diff),
		}
	}
	return &Pair{LoopQty: loopQty, WCET: wcet, Schema: wcetSchema}, nil
}

// LoadPair loads both artifacts and chains them.
func LoadPair(loopQtyPath, wcetPath string, wcetSchema *schema.Schema) (*Pair, error) {
	loopQty, err := Load(loopQtyPath)
	if err != nil {
		return nil, err
	}
	wcet, err := Load(wcetPath)
	if err != nil {
		return nil, err
	}
	return NewPair(loopQty, wcet, wcetSchema)
}
