package controller

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	wcetErrors "github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/errors"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/explain"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/model"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/pipeline"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/schema"
	wcethandler "github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/wcet/handler"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockWcetHandler is a mock for WcetHandler
type MockWcetHandler struct {
	mock.Mock
}

func (m *MockWcetHandler) Process(upload io.Reader, fileName string) (*pipeline.Result, error) {
	args := m.Called(upload, fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pipeline.Result), args.Error(1)
}

func (m *MockWcetHandler) Schemas() wcethandler.Schemas {
	args := m.Called()
	return args.Get(0).(wcethandler.Schemas)
}

func setupRouter(handler wcethandler.WcetHandler, maxUploadBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.HTTPRecovery())
	c := NewController(handler, maxUploadBytes)
	group := router.Group("/api/v1/wcet")
	group.GET("/schema", c.GetSchema)
	group.POST("/insights", c.GetInsights)
	group.POST("/predictions", c.GetPredictions)
	group.POST("/plots/:name", c.GetPlot)
	return router
}

func realHandler(t *testing.T) wcethandler.WcetHandler {
	t.Helper()
	pair, err := model.LoadPair("../../../models/dt_loopQty_model.json", "../../../models/dt_wcet_model.json", schema.WCETFeatures())
	require.NoError(t, err)
	p, err := pipeline.New(pair, pipeline.Options{Explain: explain.Options{Seed: 42}})
	require.NoError(t, err)
	return wcethandler.NewWcetHandler(p)
}

func metricsCSV(t *testing.T, rows int) string {
	t.Helper()
	header := append([]string{"file", "class"}, schema.WCETFeatures().Without(model.LoopQtyColumn).Names()...)
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(header))
	for r := 0; r < rows; r++ {
		record := []string{"src/Unit" + strconv.Itoa(r) + ".java", "Unit" + strconv.Itoa(r)}
		for c := 2; c < len(header); c++ {
			record = append(record, strconv.Itoa((r+1)*(c%5+1)))
		}
		require.NoError(t, w.Write(record))
	}
	w.Flush()
	return buf.String()
}

func multipartRequest(t *testing.T, path, field, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if field != "" {
		part, err := writer.CreateFormFile(field, "metrics.csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestNewController(t *testing.T) {
	h := &MockWcetHandler{}
	c := NewController(h, 1024)
	assert.Equal(t, h, c.handler)
	assert.Equal(t, int64(1024), c.maxUploadBytes)
}

func TestWcetController_GetSchema(t *testing.T) {
	h := &MockWcetHandler{}
	h.On("Schemas").Return(wcethandler.Schemas{Upload: schema.Upload(), Model: schema.WCETFeatures()})
	router := setupRouter(h, 0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/wcet/schema", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Model struct {
			Columns []struct {
				Name string `json:"name"`
			} `json:"columns"`
		} `json:"model"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Model.Columns, len(schema.WCETFeatures().Names()))
	h.AssertExpectations(t)
}

func TestWcetController_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		field      string
		maxBytes   int64
		mockErr    error
		wantStatus int
		check      func(t *testing.T, body map[string]interface{})
	}{
		{
			name:       "Test 1: missing file field",
			path:       "/api/v1/wcet/insights",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Test 2: parse error",
			path:       "/api/v1/wcet/insights",
			field:      FileField,
			mockErr:    &wcetErrors.ParseError{ErrorMsg: "not a number", Row: 2, Column: "wmc"},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Contains(t, body["error"], "row 2")
			},
		},
		{
			name:       "Test 3: insufficient data",
			path:       "/api/v1/wcet/predictions",
			field:      FileField,
			mockErr:    &wcetErrors.InsufficientDataError{Column: "tcc"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "Test 4: schema mismatch carries the diff",
			path:       "/api/v1/wcet/plots/summary",
			field:      FileField,
			mockErr:    &wcetErrors.SchemaMismatchError{Schema: "wcet_upload", Diff: wcetErrors.SchemaDiff{Missing: []string{"cbo"}}},
			wantStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body map[string]interface{}) {
				diff, ok := body["schema_diff"].(map[string]interface{})
				require.True(t, ok)
				assert.Equal(t, []interface{}{"cbo"}, diff["missing"])
			},
		},
		{
			name:       "Test 5: unexpected error",
			path:       "/api/v1/wcet/insights",
			field:      FileField,
			mockErr:    assert.AnError,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "Test 6: handler without pipeline",
			path:       "/api/v1/wcet/predictions",
			field:      FileField,
			mockErr:    wcethandler.ErrNotReady,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "Test 7: unknown plot",
			path:       "/api/v1/wcet/plots/force",
			field:      FileField,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Test 8: upload too large",
			path:       "/api/v1/wcet/insights",
			field:      FileField,
			maxBytes:   16,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &MockWcetHandler{}
			if tt.mockErr != nil {
				h.On("Process", mock.Anything, "metrics.csv").Return(nil, tt.mockErr)
			}
			router := setupRouter(h, tt.maxBytes)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, multipartRequest(t, tt.path, tt.field, "file,class\na,b\n"))
			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			if tt.check != nil {
				tt.check(t, body)
			}
			h.AssertExpectations(t)
		})
	}
}

func TestWcetController_GetInsights(t *testing.T) {
	router := setupRouter(realHandler(t), 1<<20)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "/api/v1/wcet/insights", FileField, metricsCSV(t, 12)))
	require.Equal(t, http.StatusOK, w.Code)

	var body InsightsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.UploadID)
	assert.Empty(t, body.Warnings)
	assert.Len(t, body.Preview, pipeline.DefaultPreviewRows)
	assert.Len(t, body.PredictionsPreview, pipeline.DefaultPredictionPreviewRows)
	assert.Contains(t, body.PredictionsPreview[0], pipeline.PredictedWCETColumn)

	assert.Equal(t, pipeline.DownloadFileName, body.Download.FileName)
	assert.Equal(t, pipeline.ContentTypeCSV, body.Download.ContentType)
	records, err := csv.NewReader(bytes.NewReader(body.Download.Data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 13)

	require.NotNil(t, body.Summary)
	require.NotNil(t, body.Detail)
	assert.Equal(t, 12, body.Summary.Rows)
	for _, name := range []string{"summary", "detail"} {
		plot, ok := body.Plots[name]
		require.True(t, ok, name)
		_, err := png.Decode(bytes.NewReader(plot.Data))
		assert.NoError(t, err, name)
	}
}

func TestWcetController_GetPredictions(t *testing.T) {
	router := setupRouter(realHandler(t), 1<<20)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "/api/v1/wcet/predictions", FileField, metricsCSV(t, 3)))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, pipeline.ContentTypeCSV, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="wcet_predictions.csv"`, w.Header().Get("Content-Disposition"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[0], pipeline.PredictedLoopQtyColumn+","+pipeline.PredictedWCETColumn))
}

func TestWcetController_GetPlot(t *testing.T) {
	router := setupRouter(realHandler(t), 1<<20)

	for _, name := range []string{"summary", "detail"} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, multipartRequest(t, "/api/v1/wcet/plots/"+name, FileField, metricsCSV(t, 4)))
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
			assert.NotEmpty(t, w.Header().Get("X-Upload-Id"))
			_, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
			assert.NoError(t, err)
		})
	}
}
