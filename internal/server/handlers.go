package server

import (
	stderrors "errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/procflow/pkg/buildinfo"
	"github.com/matzehuels/procflow/pkg/errors"
	"github.com/matzehuels/procflow/pkg/geometry"
	pio "github.com/matzehuels/procflow/pkg/io"
	"github.com/matzehuels/procflow/pkg/layout"
	"github.com/matzehuels/procflow/pkg/pipeline"
	"github.com/matzehuels/procflow/pkg/process"
	"github.com/matzehuels/procflow/pkg/render"
	"github.com/matzehuels/procflow/pkg/store"
)

// =============================================================================
// Response Types
// =============================================================================

type layoutResponse struct {
	ID        string          `json:"id"`
	Panel     string          `json:"panel,omitempty"`
	Skipped   int             `json:"skipped,omitempty"`
	Cached    bool            `json:"cached"`
	ExpiresAt time.Time       `json:"expires_at"`
	Diagram   *layout.Diagram `json:"diagram"`
}

type createResponse struct {
	DocHash string           `json:"doc_hash"`
	Layouts []layoutResponse `json:"layouts"`
}

type hit struct {
	ID       string       `json:"id"`
	Kind     process.Kind `json:"kind"`
	Strategy string       `json:"strategy,omitempty"`
}

type hitsResponse struct {
	Hits []hit `json:"hits"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Short(),
	})
}

// handleCreateLayouts assembles every trellis panel of the posted document
// and stores one record per panel.
func (s *Server) handleCreateLayouts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)

	doc, err := pio.ReadJSON(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			err = errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		writeError(w, err)
		return
	}

	opts := pipeline.Options{Document: doc, Logger: s.opts.Logger}
	doc, panels, err := s.opts.Runner.Parse(ctx, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	cfg := opts.LayoutConfig(doc)
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return
	}

	resp := createResponse{DocHash: pipeline.DocumentHash(doc), Layouts: []layoutResponse{}}
	for _, p := range panels {
		d, cached, err := s.opts.Runner.GenerateLayoutWithCacheInfo(ctx, p.Model, resp.DocHash, p.Key, cfg)
		if err != nil {
			writeError(w, err)
			return
		}
		rec := store.NewRecord(d, resp.DocHash, s.opts.TTL)
		rec.Panel = p.Key
		if err := s.opts.Store.Put(ctx, rec); err != nil {
			s.opts.Logger.Error("store layout", "id", rec.ID, "err", err)
			writeError(w, err)
			return
		}
		resp.Layouts = append(resp.Layouts, layoutResponse{
			ID:        rec.ID,
			Panel:     rec.Panel,
			Skipped:   p.Skipped,
			Cached:    cached,
			ExpiresAt: rec.ExpiresAt,
			Diagram:   d,
		})
	}

	s.opts.Logger.Info("created layouts",
		"panels", len(resp.Layouts),
		"rows", len(doc.Rows),
		"mode", cfg.Mode)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHitTest(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var sel geometry.Rect
	if err := decodeJSON(w, r, s.opts.MaxBodyBytes, &sel); err != nil {
		writeError(w, err)
		return
	}
	if err := validateSelection(sel); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, hitsResponse{Hits: hitTest(rec.Diagram, sel)})
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var opts []render.SVGOption
	q := r.URL.Query()
	if v := q.Get("highlight"); v != "" {
		opts = append(opts, render.WithHighlight(strings.Split(v, ",")...))
	}
	if v := q.Get("title"); v != "" {
		opts = append(opts, render.WithTitle(v))
	}
	if v := q.Get("background"); v != "" {
		opts = append(opts, render.WithBackground(v))
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(render.RenderSVG(rec.Diagram, opts...))
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) record(r *http.Request) (*store.Record, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateID(id); err != nil {
		return nil, err
	}
	return s.opts.Store.Get(r.Context(), id)
}

func validateSelection(sel geometry.Rect) error {
	for _, v := range []float64{sel.X, sel.Y, sel.Width, sel.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "selection must be finite")
		}
	}
	if sel.Width < 0 || sel.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "selection size must not be negative")
	}
	return nil
}

// hitTest annotates layout hits with the routing strategy of edges.
func hitTest(d *layout.Diagram, sel geometry.Rect) []hit {
	hits := []hit{}
	for _, h := range d.HitTest(sel) {
		out := hit{ID: h.ID, Kind: h.Kind}
		if h.Kind == process.KindTransition {
			if e, ok := d.Edge(h.ID); ok {
				out.Strategy = string(e.Strategy)
			}
		}
		hits = append(hits, out)
	}
	return hits
}
