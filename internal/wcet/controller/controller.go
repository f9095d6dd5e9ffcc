package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	wcetErrors "github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/errors"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/explain"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/normalizer"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/pipeline"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/render"
	wcethandler "github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/wcet/handler"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/pkg/api"
	"github.com/gin-gonic/gin"
)

// FileField is the multipart form field carrying the metrics CSV.
const FileField = "file"

type WcetController struct {
	handler        wcethandler.WcetHandler
	maxUploadBytes int64
}

func NewController(handler wcethandler.WcetHandler, maxUploadBytes int64) *WcetController {
	return &WcetController{handler: handler, maxUploadBytes: maxUploadBytes}
}

type Attachment struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

type InsightsResponse struct {
	UploadID           string                `json:"upload_id"`
	Warnings           []string              `json:"warnings"`
	Preview            []map[string]string   `json:"preview"`
	Normalization      normalizer.Report     `json:"normalization"`
	PredictionsPreview []map[string]string   `json:"predictions_preview"`
	Summary            *explain.Summary      `json:"summary"`
	Detail             *explain.Detail       `json:"detail"`
	Download           Attachment            `json:"download"`
	Plots              map[string]Attachment `json:"plots"`
}

func (c *WcetController) GetSchema(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.handler.Schemas())
}

// GetInsights answers with previews, explanations, the result CSV and both
// plots in one JSON document.
func (c *WcetController) GetInsights(ctx *gin.Context) {
	res, ok := c.process(ctx)
	if !ok {
		return
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	ctx.JSON(http.StatusOK, InsightsResponse{
		UploadID:           res.UploadID,
		Warnings:           warnings,
		Preview:            res.Preview.Rows(),
		Normalization:      res.Normalization,
		PredictionsPreview: res.PredictionsPreview.Rows(),
		Summary:            res.Explanation.Summary,
		Detail:             res.Explanation.Detail,
		Download: Attachment{
			FileName:    res.Download.FileName,
			ContentType: res.Download.ContentType,
			Data:        res.Download.Bytes,
		},
		Plots: map[string]Attachment{
			render.SummaryName: figureAttachment(res.SummaryFigure),
			render.DetailName:  figureAttachment(res.DetailFigure),
		},
	})
}

// GetPredictions answers with the result CSV as a download.
func (c *WcetController) GetPredictions(ctx *gin.Context) {
	res, ok := c.process(ctx)
	if !ok {
		return
	}
	attachment(ctx, res.Download.FileName, res.Download.ContentType, res.Download.Bytes)
}

// GetPlot answers with one rendered figure, selected by the name path param.
func (c *WcetController) GetPlot(ctx *gin.Context) {
	name := ctx.Param("name")
	if name != render.SummaryName && name != render.DetailName {
		_ = ctx.Error(api.NewNotFoundError(fmt.Sprintf("unknown plot %q", name)))
		return
	}
	res, ok := c.process(ctx)
	if !ok {
		return
	}
	figure := res.Figure(name)
	ctx.Header("X-Upload-Id", res.UploadID)
	ctx.Data(http.StatusOK, figure.ContentType, figure.Bytes)
}

func (c *WcetController) process(ctx *gin.Context) (*pipeline.Result, bool) {
	if c.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)
	}
	file, header, err := ctx.Request.FormFile(FileField)
	if err != nil {
		if tooLarge(err) {
			_ = ctx.Error(api.NewRequestEntityTooLargeError(fmt.Sprintf("upload exceeds %d bytes", c.maxUploadBytes)))
			return nil, false
		}
		_ = ctx.Error(api.NewBadRequestError(fmt.Sprintf("multipart field %q with a csv file is required", FileField)))
		return nil, false
	}
	defer file.Close()

	res, err := c.handler.Process(file, header.Filename)
	if err != nil {
		_ = ctx.Error(toAPIError(err))
		return nil, false
	}
	return res, true
}

func toAPIError(err error) *api.Error {
	var parseErr *wcetErrors.ParseError
	var insufficient *wcetErrors.InsufficientDataError
	var mismatch *wcetErrors.SchemaMismatchError
	switch {
	case errors.As(err, &parseErr):
		return api.NewBadRequestError(err.Error())
	case errors.As(err, &insufficient):
		return api.NewUnprocessableEntityError(err.Error())
	case errors.As(err, &mismatch):
		return api.NewUnprocessableEntityError(err.Error()).WithDetail("schema_diff", mismatch.Diff)
	case errors.Is(err, wcethandler.ErrNotReady):
		return api.NewServiceUnavailable(err.Error())
	case tooLarge(err):
		return api.NewRequestEntityTooLargeError(err.Error())
	default:
		return api.NewInternalServerError(err.Error())
	}
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

func attachment(ctx *gin.Context, fileName, contentType string, data []byte) {
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	ctx.Data(http.StatusOK, contentType, data)
}

func figureAttachment(f *render.Figure) Attachment {
	if f == nil {
		return Attachment{}
	}
	return Attachment{FileName: f.FileName, ContentType: f.ContentType, Data: f.Bytes}
}
