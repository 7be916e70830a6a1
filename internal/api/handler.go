package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rpv-lab/embrittlement/internal/baseline"
	"github.com/rpv-lab/embrittlement/internal/config"
	"github.com/rpv-lab/embrittlement/internal/e900"
	"github.com/rpv-lab/embrittlement/internal/models"
	"github.com/rpv-lab/embrittlement/internal/runs"
)

// Handler provides HTTP API endpoints
type Handler struct {
	report *baseline.Report
	store  *runs.Store
	cfg    config.Config
}

// NewHandler creates a new API handler. Either the report or the store may
// be nil when the corresponding component is unavailable.
func NewHandler(report *baseline.Report, store *runs.Store, cfg config.Config) *Handler {
	return &Handler{
		report: report,
		store:  store,
		cfg:    cfg,
	}
}

// RegisterRoutes sets up all API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Health and info
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/info", h.handleInfo).Methods("GET")

	// Baseline results
	r.HandleFunc("/report", h.handleReport).Methods("GET")
	r.HandleFunc("/runs", h.handleListRuns).Methods("GET")
	r.HandleFunc("/runs/{id}", h.handleGetRun).Methods("GET")

	// On-demand prediction
	r.HandleFunc("/predict", h.handlePredict).Methods("POST")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// handleHealth returns server health status
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleInfo returns server information
func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.InfoResponse{
		Version:       h.cfg.Version,
		DatasetLoaded: h.report != nil,
		HistoryLoaded: h.store != nil,
	})
}

// handleReport returns the baseline report computed at startup
func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if h.report == nil {
		respondError(w, http.StatusNotFound, "no baseline report available")
		return
	}
	respondJSON(w, http.StatusOK, h.report)
}

// handleListRuns returns the persisted run history
func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondJSON(w, http.StatusOK, []*baseline.Report{})
		return
	}

	reports, err := h.store.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if reports == nil {
		reports = []*baseline.Report{}
	}
	respondJSON(w, http.StatusOK, reports)
}

// handleGetRun returns a single persisted run
func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, http.StatusNotFound, "no run history loaded")
		return
	}

	id := mux.Vars(r)["id"]
	report, err := h.store.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// handlePredict evaluates the correlation for caller-supplied specimens
func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req models.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	batch := &e900.Batch{
		Cu:          req.Cu,
		Ni:          req.Ni,
		P:           req.P,
		Mn:          req.Mn,
		TempC:       req.TempC,
		Fluence:     req.Fluence,
		ProductForm: make([]e900.ProductForm, len(req.ProductForm)),
	}
	for i, form := range req.ProductForm {
		batch.ProductForm[i] = e900.ProductForm(form)
	}

	predictions, err := e900.PredictTTS(batch)
	if err != nil {
		var derr *e900.DomainError
		if errors.As(err, &derr) {
			respondError(w, http.StatusBadRequest, derr.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, models.PredictResponse{
		Predictions: predictions,
		Samples:     len(predictions),
	})
}
