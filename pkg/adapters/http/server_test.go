package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/branchmap"
	"github.com/aretw0/branchmap/internal/logging"
	"github.com/aretw0/branchmap/internal/metrics"
	httpadapter "github.com/aretw0/branchmap/pkg/adapters/http"
	"github.com/aretw0/branchmap/pkg/domain"
)

const source = `package orders

func Flow(ctx workflow.Context) error {
	workflow.ExecuteActivity(ctx, "Reserve")
	if ToDecision(ok, "InStock") {
		workflow.ExecuteActivity(ctx, "Ship")
	} else {
		workflow.ExecuteActivity(ctx, "Backorder")
	}
	return nil
}
`

func newHandler(t *testing.T) (http.Handler, *metrics.Collector) {
	t.Helper()
	collector := metrics.New()
	analyzer := branchmap.New(branchmap.WithLifecycleHooks(collector.Hooks()))
	return httpadapter.NewHandler(analyzer, logging.NewNop(), promhttp.HandlerFor(collector.Registry, promhttp.HandlerOpts{})), collector
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAnalyze_Source(t *testing.T) {
	h, _ := newHandler(t)
	w := post(t, h, "/analyze", map[string]any{"filename": "flow.go", "source": source, "compact": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Workflow string   `json:"workflow"`
		Diagram  string   `json:"diagram"`
		Paths    []string `json:"paths"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Flow", resp.Workflow)
	assert.Len(t, resp.Paths, 2)
	assert.Equal(t, "1. [d0=F] Start -> Reserve -> In Stock=no -> Backorder -> End", resp.Paths[0])
	assert.True(t, strings.HasPrefix(resp.Diagram, "flowchart LR\n"))
	assert.Len(t, strings.Split(strings.TrimSpace(resp.Diagram), "\n"), 3, "header plus two chains")
	assert.NotNil(t, resp.Warnings)
}

func TestAnalyze_Elements(t *testing.T) {
	h, _ := newHandler(t)
	body := domain.Workflow{
		Name: "review",
		Elements: []domain.SourceElement{
			domain.Activity("A", domain.Line(1)),
			domain.Decision("d1", "D1", domain.Line(2)),
			domain.Activity("B", domain.Line(3), domain.Then("d1")),
		},
		Registry: []string{"A", "B", "Unused"},
	}
	w := post(t, h, "/analyze/elements", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `activity \"Unused\" is declared but never called`)
}

func TestAnalyze_Errors(t *testing.T) {
	h, _ := newHandler(t)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		kind   string
	}{
		{"Unsupported", "/analyze", map[string]any{"source": "package x\nfunc F(ctx workflow.Context) { for { workflow.ExecuteActivity(ctx, \"a\") } }"}, http.StatusUnprocessableEntity, "unsupported_construct"},
		{"Malformed", "/analyze", map[string]any{"source": "package x\nfunc {"}, http.StatusUnprocessableEntity, "malformed_source"},
		{"NotFound", "/analyze", map[string]any{"source": source, "function": "Other"}, http.StatusNotFound, "workflow_not_found"},
		{"UnknownField", "/analyze", map[string]any{"source": source, "bogus": 1}, http.StatusBadRequest, "bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, h, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)

			var resp httpadapter.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.kind, resp.Kind)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h, _ := newHandler(t)
	post(t, h, "/analyze", map[string]any{"source": source})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `branchmap_analyses_total{outcome="success"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newHandler(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/analyze", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
