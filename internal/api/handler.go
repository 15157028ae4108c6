package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/piwi3910/PanelNest/internal/engine"
	"github.com/piwi3910/PanelNest/internal/export"
	"github.com/piwi3910/PanelNest/internal/model"
	"github.com/piwi3910/PanelNest/internal/store"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	maxBodyBytes     = 4 << 20
	defaultListLimit = 50
)

// Optimizer runs the nesting engine.
type Optimizer interface {
	Optimize(panels []model.PanelSpec, stocks []model.StockSheetSpec, options model.Options) (model.OptimizationResult, error)
	CompareScenarios(scenarios []engine.ComparisonScenario, panels []model.PanelSpec, stocks []model.StockSheetSpec) ([]engine.ComparisonResult, error)
}

// RunStore persists optimization runs.
type RunStore interface {
	Save(ctx context.Context, name string, p model.Project) (store.Run, error)
	Get(ctx context.Context, id string) (store.Run, error)
	List(ctx context.Context, limit int) ([]store.Run, error)
	Delete(ctx context.Context, id string) error
}

// Handler wires the optimizer and run history into HTTP handlers.
type Handler struct {
	optimizer Optimizer
	runs      RunStore
	defaults  model.Options

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithDefaultOptions sets the options used when a request omits them.
func WithDefaultOptions(opts model.Options) HandlerOption {
	return func(h *Handler) {
		h.defaults = opts
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(opt Optimizer, runs RunStore, opts ...HandlerOption) *Handler {
	h := &Handler{
		optimizer: opt,
		runs:      runs,
		defaults:  model.DefaultOptions(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	})
}

func (h *Handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, ok := h.optimize(w, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !decodeBody(w, r, &req) {
		return
	}

	scenarios := req.Scenarios
	if len(scenarios) == 0 {
		scenarios = engine.BuildDefaultScenarios(h.options(req.Options))
	}

	results, err := h.optimizer.CompareScenarios(scenarios, req.Panels, req.StockSheets)
	if err != nil {
		writeOptimizeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, compareResponse{Results: results})
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid request", "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := h.runs.List(r.Context(), limit)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listRunsResponse{Runs: runs})
}

func (h *Handler) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, ok := h.optimize(w, req)
	if !ok {
		return
	}

	p := model.Project{
		Name:        req.Name,
		Panels:      req.Panels,
		StockSheets: req.StockSheets,
		Options:     h.options(req.Options),
		Result:      &result,
	}
	if p.Name == "" {
		p.Name = "Run " + h.clock().Format(time.RFC3339)
	}

	run, err := h.runs.Save(r.Context(), p.Name, p)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	w.Header().Set("Location", "/api/runs/"+run.ID)
	writeJSON(w, http.StatusCreated, run)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *Handler) handleRunPDF(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, run.Project); err != nil {
		if errors.Is(err, export.ErrNoLayout) {
			writeError(w, http.StatusUnprocessableEntity, "Nothing to export", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+run.ID+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	err := h.runs.Delete(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, store.ErrRunNotFound):
		writeError(w, http.StatusNotFound, "Not found", err.Error())
	case err != nil:
		writeInternalError(w, err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) lookupRun(w http.ResponseWriter, r *http.Request) (store.Run, bool) {
	run, err := h.runs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "Not found", err.Error())
		} else {
			writeInternalError(w, err)
		}
		return store.Run{}, false
	}
	return run, true
}

func (h *Handler) optimize(w http.ResponseWriter, req optimizeRequest) (model.OptimizationResult, bool) {
	result, err := h.optimizer.Optimize(req.Panels, req.StockSheets, h.options(req.Options))
	if err != nil {
		writeOptimizeError(w, err)
		return model.OptimizationResult{}, false
	}
	return result, true
}

func (h *Handler) options(opts *model.Options) model.Options {
	if opts == nil {
		return h.defaults
	}
	return *opts
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return false
	}
	return true
}

func writeOptimizeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNoPanels), errors.Is(err, engine.ErrNoStockSheets):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	default:
		writeInternalError(w, err)
	}
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type optimizeRequest struct {
	Name        string                 `json:"name,omitempty"`
	Panels      []model.PanelSpec      `json:"panels"`
	StockSheets []model.StockSheetSpec `json:"stockSheets"`
	Options     *model.Options         `json:"options,omitempty"`
}

type compareRequest struct {
	Panels      []model.PanelSpec           `json:"panels"`
	StockSheets []model.StockSheetSpec      `json:"stockSheets"`
	Options     *model.Options              `json:"options,omitempty"`
	Scenarios   []engine.ComparisonScenario `json:"scenarios,omitempty"`
}

type compareResponse struct {
	Results []engine.ComparisonResult `json:"results"`
}

type listRunsResponse struct {
	Runs []store.Run `json:"runs"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
