package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gasket/pkg/buildinfo"
	"github.com/matzehuels/gasket/pkg/errors"
	"github.com/matzehuels/gasket/pkg/geom"
	pkgio "github.com/matzehuels/gasket/pkg/io"
	"github.com/matzehuels/gasket/pkg/pipeline"
	"github.com/matzehuels/gasket/pkg/store"
)

// GenerateRequest is the body of POST /v1/gaskets. Points and Seed are
// mutually exclusive; with neither, a random seed is drawn with the
// server's default RNG seed. An explicit seed must be non-zero.
type GenerateRequest struct {
	Points     []geom.Point `json:"points,omitempty"`
	Seed       *uint64      `json:"seed,omitempty"`
	Radius     float64      `json:"radius,omitempty"`
	Depth      *int         `json:"depth,omitempty"`
	Policy     string       `json:"policy,omitempty"`
	MaxCircles int          `json:"max_circles,omitempty"`
	Save       bool         `json:"save,omitempty"`
}

// GenerateResponse is returned by POST /v1/gaskets.
type GenerateResponse struct {
	ID     string          `json:"id"`
	Saved  bool            `json:"saved"`
	Cached bool            `json:"cached"`
	Stats  ResponseStats   `json:"stats"`
	Gasket json.RawMessage `json:"gasket"`
}

// ResponseStats summarizes a generation.
type ResponseStats struct {
	Circles    int     `json:"circles"`
	Tangencies int     `json:"tangencies"`
	Retries    int     `json:"retries"`
	DurationMS float64 `json:"duration_ms"`
}

// RunSummary is one entry of GET /v1/runs.
type RunSummary struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Summary   store.Summary `json:"summary"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) options(req GenerateRequest) (pipeline.Options, error) {
	d := s.Defaults
	opts := pipeline.Options{
		Points:     req.Points,
		Radius:     req.Radius,
		Attempts:   d.Attempts,
		MaxDepth:   d.Depth,
		Policy:     req.Policy,
		MaxCircles: req.MaxCircles,
		Formats:    []string{pipeline.FormatJSON},
		Logger:     s.Logger,
	}
	if req.Depth != nil {
		opts.MaxDepth = *req.Depth
	}
	if opts.Policy == "" {
		opts.Policy = d.Policy
	}
	if opts.Radius == 0 {
		opts.Radius = d.Radius
	}
	if opts.MaxCircles == 0 {
		opts.MaxCircles = d.MaxCircles
	}
	if req.Seed != nil {
		if len(req.Points) > 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "points and seed are mutually exclusive")
		}
		if err := errors.ValidateRNGSeed(*req.Seed); err != nil {
			return opts, err
		}
		opts.Random = true
		opts.Seed = *req.Seed
	}
	if len(req.Points) > 0 {
		opts.Radius = 0
	}
	if s.MaxDepth > 0 && opts.MaxDepth > s.MaxDepth {
		return opts, errors.New(errors.ErrCodeInvalidDepth, "depth %d above the server limit of %d", opts.MaxDepth, s.MaxDepth)
	}
	return opts, nil
}

func (s *Server) createGasket(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	opts, err := s.options(req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	status := http.StatusOK
	if req.Save {
		if err := s.Store.Save(r.Context(), res.Run()); err != nil {
			s.writeError(w, err)
			return
		}
		status = http.StatusCreated
		w.Header().Set("Location", "/v1/gaskets/"+res.ID)
	}

	writeJSON(w, status, GenerateResponse{
		ID:     res.ID,
		Saved:  req.Save,
		Cached: res.CacheInfo.GenerateHit,
		Stats: ResponseStats{
			Circles:    res.Stats.Circles,
			Tangencies: res.Stats.Tangencies,
			Retries:    res.Stats.Retries,
			DurationMS: float64(res.Stats.GenerateTime.Microseconds()) / 1000,
		},
		Gasket: res.Document,
	})
}

func (s *Server) getGasket(w http.ResponseWriter, r *http.Request) {
	run, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, run.Document); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "stored document is not valid JSON"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	buf.WriteByte('\n')
	w.Write(buf.Bytes())
}

func (s *Server) getGasketDOT(w http.ResponseWriter, r *http.Request) {
	run, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc, err := pkgio.UnmarshalDocument(run.Document)
	if err != nil {
		s.writeError(w, err)
		return
	}
	g, err := doc.Gasket()
	if err != nil {
		s.writeError(w, err)
		return
	}

	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(pkgio.ToDOT(g, pkgio.DOTOptions{Detailed: detailed})))
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}

	runs, err := s.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]RunSummary, len(runs))
	for i, run := range runs {
		out[i] = RunSummary{ID: run.ID, CreatedAt: run.CreatedAt, Summary: run.Summary}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": out})
}

func (s *Server) deleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
