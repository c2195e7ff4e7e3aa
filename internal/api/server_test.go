package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/gasket/pkg/config"
	"github.com/matzehuels/gasket/pkg/errors"
	"github.com/matzehuels/gasket/pkg/observability"
	"github.com/matzehuels/gasket/pkg/observability/prom"
	"github.com/matzehuels/gasket/pkg/pipeline"
	"github.com/matzehuels/gasket/pkg/store"
)

const missingID = "0b9c6f2e-1d8a-4f5b-9e0c-1a2b3c4d5e6f"

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := log.New(io.Discard)
	return NewHandler(&Server{
		Runner:   pipeline.NewRunner(nil, nil, logger),
		Store:    store.NewMemoryStore(),
		Logger:   logger,
		Defaults: config.Default().Generate,
		MaxDepth: 6,
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v (body %q)", v, err, w.Body.String())
	}
	return v
}

func TestHealth(t *testing.T) {
	w := do(t, newTestHandler(t), "GET", "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode[map[string]string](t, w); got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
}

func TestCreateGasket(t *testing.T) {
	h := newTestHandler(t)
	w := do(t, h, "POST", "/v1/gaskets", `{"points":[{"x":0,"y":0},{"x":6,"y":0},{"x":2,"y":5}],"depth":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	resp := decode[GenerateResponse](t, w)
	if resp.ID == "" || resp.Saved {
		t.Errorf("response = %+v", resp)
	}
	if resp.Stats.Circles != 29 {
		t.Errorf("circles = %d, want 29", resp.Stats.Circles)
	}
	var doc struct {
		Version int    `json:"version"`
		Policy  string `json:"policy"`
		Circles []any  `json:"circles"`
	}
	if err := json.Unmarshal(resp.Gasket, &doc); err != nil {
		t.Fatalf("gasket field: %v", err)
	}
	if doc.Version != 1 || doc.Policy != "outer" || len(doc.Circles) != 29 {
		t.Errorf("document = version %d, policy %s, %d circles", doc.Version, doc.Policy, len(doc.Circles))
	}
}

func TestCreateGasketDefaults(t *testing.T) {
	w := do(t, newTestHandler(t), "POST", "/v1/gaskets", `{"seed":9}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	resp := decode[GenerateResponse](t, w)
	// default depth 4, outer policy
	if resp.Stats.Circles != 5+3*80 {
		t.Errorf("circles = %d, want %d", resp.Stats.Circles, 5+3*80)
	}
}

func TestRunLifecycle(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, "POST", "/v1/gaskets", `{"seed":3,"depth":1,"policy":"reflect","save":true}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body)
	}
	created := decode[GenerateResponse](t, w)
	if !created.Saved || w.Header().Get("Location") != "/v1/gaskets/"+created.ID {
		t.Errorf("saved = %v, location %q", created.Saved, w.Header().Get("Location"))
	}

	w = do(t, h, "GET", "/v1/gaskets/"+created.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	if !bytes.Equal(bytes.TrimSpace(w.Body.Bytes()), bytes.TrimSpace(created.Gasket)) {
		t.Errorf("stored document differs from the created one:\nget  %.60q\npost %.60q", w.Body.Bytes(), created.Gasket)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("\n  ")) {
		t.Errorf("stored document is indented: %.60q", w.Body.Bytes())
	}

	w = do(t, h, "GET", "/v1/gaskets/"+created.ID+".dot?detailed=true", "")
	if w.Code != http.StatusOK {
		t.Fatalf("dot status = %d, body %s", w.Code, w.Body)
	}
	if !strings.HasPrefix(w.Body.String(), "graph G {") || !strings.Contains(w.Body.String(), "c0 -- c1;") {
		t.Errorf("dot body = %.80s", w.Body.String())
	}

	w = do(t, h, "GET", "/v1/runs?limit=10", "")
	runs := decode[map[string][]RunSummary](t, w)["runs"]
	if len(runs) != 1 || runs[0].ID != created.ID || runs[0].Summary.Policy != "reflect" || runs[0].Summary.Circles != 11 {
		t.Errorf("runs = %+v", runs)
	}

	w = do(t, h, "DELETE", "/v1/runs/"+created.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = do(t, h, "GET", "/v1/gaskets/"+created.ID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", w.Code)
	}
	if got := decode[ErrorResponse](t, w); got.Code != "NOT_FOUND" {
		t.Errorf("error code = %s", got.Code)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"malformed body", "POST", "/v1/gaskets", `{`, 400, "INVALID_INPUT"},
		{"unknown field", "POST", "/v1/gaskets", `{"colour":"red"}`, 400, "INVALID_INPUT"},
		{"bad policy", "POST", "/v1/gaskets", `{"policy":"spiral"}`, 400, "INVALID_POLICY"},
		{"depth above server limit", "POST", "/v1/gaskets", `{"depth":7}`, 400, "INVALID_DEPTH"},
		{"negative depth", "POST", "/v1/gaskets", `{"depth":-1}`, 400, "INVALID_DEPTH"},
		{"zero seed", "POST", "/v1/gaskets", `{"seed":0}`, 400, "INVALID_INPUT"},
		{"points and seed", "POST", "/v1/gaskets", `{"seed":1,"points":[{"x":0,"y":0},{"x":1,"y":0},{"x":0,"y":1}]}`, 400, "INVALID_INPUT"},
		{"two points", "POST", "/v1/gaskets", `{"points":[{"x":0,"y":0},{"x":1,"y":0}]}`, 400, "INVALID_INPUT"},
		{"collinear seed", "POST", "/v1/gaskets", `{"points":[{"x":0,"y":0},{"x":1,"y":0},{"x":2,"y":0}],"depth":1}`, 422, "INVALID_SEED"},
		{"symmetric seed", "POST", "/v1/gaskets", `{"points":[{"x":-3,"y":0},{"x":3,"y":0},{"x":0,"y":4}],"depth":1}`, 422, "NO_UNIQUE_SOLUTION"},
		{"bad id", "GET", "/v1/gaskets/zz", "", 400, "INVALID_ID"},
		{"bad dot id", "GET", "/v1/gaskets/zz.dot", "", 400, "INVALID_ID"},
		{"missing run", "GET", "/v1/gaskets/" + missingID, "", 404, "NOT_FOUND"},
		{"missing delete", "DELETE", "/v1/runs/" + missingID, "", 404, "NOT_FOUND"},
		{"bad limit", "GET", "/v1/runs?limit=x", "", 400, "INVALID_INPUT"},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body)
			}
			if got := decode[ErrorResponse](t, w); got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeDegenerateInput, "x"), 422},
		{fmt.Errorf("generate: %w", errors.New(errors.ErrCodeNoUniqueSolution, "x")), 422},
		{errors.New(errors.ErrCodeInvalidFormat, "x"), 400},
		{errors.Wrap(errors.ErrCodeNotFound, store.ErrNotFound, "run"), 404},
		{errors.New(errors.ErrCodeUnsupported, "x"), 501},
		{context.DeadlineExceeded, 504},
		{fmt.Errorf("disk full"), 500},
	}
	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestMetricsRoute(t *testing.T) {
	defer observability.Reset()
	reg := prometheus.NewRegistry()
	prom.New(reg).Register()

	logger := log.New(io.Discard)
	h := NewHandler(&Server{
		Logger:   logger,
		Defaults: config.Default().Generate,
		Gatherer: reg,
	})

	do(t, h, "GET", "/healthz", "")
	w := do(t, h, "GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `gasket_http_requests_total{method="GET",route="/healthz",status="200"} 1`) {
		t.Errorf("metrics output missing request counter:\n%s", w.Body)
	}
}

func TestMetricsRouteDisabled(t *testing.T) {
	w := do(t, newTestHandler(t), "GET", "/metrics", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without a gatherer", w.Code)
	}
}
