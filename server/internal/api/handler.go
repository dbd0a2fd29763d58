package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dripguard/dripguard/server/internal/model"
	"github.com/dripguard/dripguard/server/internal/store"
)

// defaultHistoryLimit caps list endpoints when no ?limit is given.
const defaultHistoryLimit = 50

// maxHistoryLimit is the hard ceiling on ?limit.
const maxHistoryLimit = 500

// CommandPublisher publishes manual control commands to the device.
// *telemetry.Link satisfies it.
type CommandPublisher interface {
	PublishStart() error
	PublishStop() error
	PublishDripRate(rate float64) error
}

// HistoryReader serves persisted assessment and alert history.
// *store.Store satisfies it.
type HistoryReader interface {
	RecentAlerts(ctx context.Context, limit int) ([]model.Alert, error)
	RecentAssessments(ctx context.Context, limit int) ([]store.AssessmentRecord, error)
}

// Broadcaster pushes an event to connected dashboard clients and reports
// how many there are. *ws.Hub satisfies it.
type Broadcaster interface {
	Broadcast(event string, data interface{})
	Count() int
}

// Handler serves all /api/v1/* endpoints.
type Handler struct {
	history HistoryReader
	latest  *store.Latest
	pub     CommandPublisher
	hub     Broadcaster
	router  chi.Router
}

// New creates a Handler and registers its routes.
func New(history HistoryReader, latest *store.Latest, pub CommandPublisher, hub Broadcaster) http.Handler {
	h := &Handler{
		history: history,
		latest:  latest,
		pub:     pub,
		hub:     hub,
		router:  chi.NewRouter(),
	}

	h.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/assessment", h.assessment)
		r.Get("/readings", h.readings)
		r.Get("/assessments", h.assessments)
		r.Get("/alerts", h.alerts)
		r.Route("/control", func(r chi.Router) {
			r.Post("/start", h.controlStart)
			r.Post("/stop", h.controlStop)
			r.Post("/set-drip", h.controlSetDrip)
		})
	})

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// --- read endpoints ---------------------------------------------------------

// health returns GET /api/v1/health — liveness plus a coarse telemetry state.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Telemetry: "stale",
		Clients:   h.hub.Count(),
	}
	if e, ok := h.latest.Get(); ok {
		resp.Telemetry = "live"
		resp.LastSample = e.UpdatedAt.UTC().Format(time.RFC3339)
	}
	jsonResp(w, http.StatusOK, resp)
}

// assessment returns GET /api/v1/assessment — the most recent scored sample,
// or 404 when nothing fresh has been processed.
func (h *Handler) assessment(w http.ResponseWriter, r *http.Request) {
	e, ok := h.latest.Get()
	if !ok {
		jsonErr(w, http.StatusNotFound, "no recent assessment")
		return
	}
	jsonResp(w, http.StatusOK, e.Update)
}

// readings returns GET /api/v1/readings — just the raw sensor portion of the
// latest sample, for clients that do not care about scoring.
func (h *Handler) readings(w http.ResponseWriter, r *http.Request) {
	e, ok := h.latest.Get()
	if !ok {
		jsonErr(w, http.StatusNotFound, "no recent readings")
		return
	}
	jsonResp(w, http.StatusOK, readingsResponse{
		FlowRate:    e.Update.FlowRate,
		FSR:         e.Update.FSR,
		Temperature: e.Update.Temperature,
		Status:      e.Update.Status,
		Fault:       e.Update.Fault,
		UpdatedAt:   e.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

// assessments returns GET /api/v1/assessments?limit=N — persisted history,
// newest first.
func (h *Handler) assessments(w http.ResponseWriter, r *http.Request) {
	recs, err := h.history.RecentAssessments(r.Context(), historyLimit(r))
	if err != nil {
		jsonErr(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	if recs == nil {
		recs = []store.AssessmentRecord{}
	}
	jsonResp(w, http.StatusOK, recs)
}

// alerts returns GET /api/v1/alerts?limit=N — persisted alerts, newest first.
func (h *Handler) alerts(w http.ResponseWriter, r *http.Request) {
	out, err := h.history.RecentAlerts(r.Context(), historyLimit(r))
	if err != nil {
		jsonErr(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	if out == nil {
		out = []model.Alert{}
	}
	jsonResp(w, http.StatusOK, out)
}

// --- control endpoints ------------------------------------------------------

// controlStart handles POST /api/v1/control/start — resume the infusion.
func (h *Handler) controlStart(w http.ResponseWriter, r *http.Request) {
	if err := h.pub.PublishStart(); err != nil {
		jsonErr(w, http.StatusBadGateway, "device link unavailable")
		return
	}
	jsonResp(w, http.StatusOK, commandResponse{Status: "sent", Command: "start"})
}

// controlStop handles POST /api/v1/control/stop — manual emergency stop.
func (h *Handler) controlStop(w http.ResponseWriter, r *http.Request) {
	if err := h.pub.PublishStop(); err != nil {
		jsonErr(w, http.StatusBadGateway, "device link unavailable")
		return
	}
	jsonResp(w, http.StatusOK, commandResponse{Status: "sent", Command: "stop"})
}

// controlSetDrip handles POST /api/v1/control/set-drip — set a target drip
// rate. The new target is also broadcast so every dashboard converges
// without waiting for the next sample.
func (h *Handler) controlSetDrip(w http.ResponseWriter, r *http.Request) {
	var req setDripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Rate <= 0 {
		jsonErr(w, http.StatusBadRequest, "rate must be greater than zero")
		return
	}
	if err := h.pub.PublishDripRate(req.Rate); err != nil {
		jsonErr(w, http.StatusBadGateway, "device link unavailable")
		return
	}
	h.hub.Broadcast("dripUpdated", dripUpdate{Rate: req.Rate})
	jsonResp(w, http.StatusOK, commandResponse{Status: "sent", Command: "set-drip", Rate: req.Rate})
}

// --- helpers ----------------------------------------------------------------

// historyLimit parses ?limit with a default and a ceiling.
func historyLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultHistoryLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultHistoryLimit
	}
	if n > maxHistoryLimit {
		return maxHistoryLimit
	}
	return n
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
