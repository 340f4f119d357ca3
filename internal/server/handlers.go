package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/modelviz/modelviz/pkg/cache"
	"github.com/modelviz/modelviz/pkg/errors"
	"github.com/modelviz/modelviz/pkg/graph"
	"github.com/modelviz/modelviz/pkg/pipeline"
	"github.com/modelviz/modelviz/pkg/store"
)

// pipelineRequest is the body of the derive, layout, and render endpoints.
type pipelineRequest struct {
	Document json.RawMessage  `json:"document"`
	Options  pipeline.Options `json:"options"`
}

// deriveResponse is the body returned by POST /api/derive.
type deriveResponse struct {
	Graph     graph.Graph        `json:"graph"`
	GraphHash string             `json:"graph_hash"`
	Stats     pipeline.Stats     `json:"stats"`
	CacheInfo pipeline.CacheInfo `json:"cache_info"`
}

// layoutResponse is the body returned by POST /api/layout.
type layoutResponse struct {
	Graph     graph.Graph        `json:"graph"`
	Layout    graph.Layout       `json:"layout"`
	GraphHash string             `json:"graph_hash"`
	Stats     pipeline.Stats     `json:"stats"`
	CacheInfo pipeline.CacheInfo `json:"cache_info"`
}

func (s *Server) decodePipelineRequest(w http.ResponseWriter, r *http.Request) (*pipelineRequest, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "read body: %v", err))
		return nil, false
	}

	var req pipelineRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid request body: %v", err))
		return nil, false
	}
	if len(req.Document) == 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "missing document"))
		return nil, false
	}
	if err := req.Options.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return nil, false
	}
	return &req, true
}

func (s *Server) handleDerive(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePipelineRequest(w, r)
	if !ok {
		return
	}

	t, hit, err := s.runner.DeriveWithCacheInfo(r.Context(), req.Document, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	g := graph.FromTree(t)
	data, _ := graph.MarshalGraph(t)
	writeJSON(w, http.StatusOK, deriveResponse{
		Graph:     g,
		GraphHash: cache.Hash(data),
		Stats:     pipeline.Stats{NodeCount: t.NodeCount(), EdgeCount: t.EdgeCount()},
		CacheInfo: pipeline.CacheInfo{DeriveHit: hit},
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePipelineRequest(w, r)
	if !ok {
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Document, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, layoutResponse{
		Graph:     result.Graph,
		Layout:    result.Layout,
		GraphHash: result.GraphHash,
		Stats:     result.Stats,
		CacheInfo: result.CacheInfo,
	})
}

// handleRender returns the first requested format as raw bytes with its
// native content type, for direct embedding by clients.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePipelineRequest(w, r)
	if !ok {
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Document, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	format := req.Options.Formats[0]
	w.Header().Set("Content-Type", contentTypeFor(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleSaveInspection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	req, ok := s.decodePipelineRequest(w, r)
	if !ok {
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Document, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	insp := &store.Inspection{
		Name:     name,
		Document: req.Document,
		Graph:    result.Graph,
		Layout:   &result.Layout,
	}
	if err := s.store.Save(r.Context(), insp); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, insp)
}

func (s *Server) handleLoadInspection(w http.ResponseWriter, r *http.Request) {
	insp, err := s.store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insp)
}

func (s *Server) handleListInspections(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"inspections": names})
}

func (s *Server) handleDeleteInspection(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Response Helpers
// =============================================================================

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var body errorBody
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	body.Error.Code = string(code)
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, statusFor(code), body)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDocument,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidName:
		return http.StatusBadRequest
	case errors.ErrCodeMalformedTree:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound,
		errors.ErrCodeInspectionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func contentTypeFor(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/json"
}
