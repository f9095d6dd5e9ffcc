package handler

import (
	"errors"
	"io"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/pipeline"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/schema"
	"github.com/rs/zerolog/log"
)

// ErrNotReady is returned while no pipeline is attached to the handler.
var ErrNotReady = errors.New("wcet handler has no pipeline")

type WcetHandler interface {
	// Process runs one uploaded metrics CSV through the insight pipeline.
	Process(upload io.Reader, fileName string) (*pipeline.Result, error)
	// Schemas returns the upload schema and the WCET model input schema.
	Schemas() Schemas
}

type Schemas struct {
	Upload *schema.Schema `json:"upload"`
	Model  *schema.Schema `json:"model"`
}

type wcetHandler struct {
	pipeline *pipeline.Pipeline
}

func NewWcetHandler(p *pipeline.Pipeline) WcetHandler {
	return &wcetHandler{pipeline: p}
}

func (h *wcetHandler) Process(upload io.Reader, fileName string) (*pipeline.Result, error) {
	if h.pipeline == nil {
		return nil, ErrNotReady
	}
	res, err := h.pipeline.Run(upload)
	if err != nil {
		log.Warn().Err(err).Str("fileName", fileName).Msg("insight request failed")
		return nil, err
	}
	log.Info().Str("fileName", fileName).Str("uploadId", res.UploadID).Int("rows", res.Output.Len()).Msg("insight request served")
	return res, nil
}

func (h *wcetHandler) Schemas() Schemas {
	return Schemas{Upload: schema.Upload(), Model: schema.WCETFeatures()}
}
