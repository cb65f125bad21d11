package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
	"github.com/voxvote/parliament-pipeline/pkg/core/logging"
	"github.com/voxvote/parliament-pipeline/pkg/core/pipeline"
	"github.com/voxvote/parliament-pipeline/pkg/core/store"
	"github.com/voxvote/parliament-pipeline/pkg/core/transport"
)

// Handlers holds every dependency the admin surface needs to serve a
// request, one struct per concern.
type Handlers struct {
	Orchestrator *pipeline.Orchestrator
	DebateRepo   *store.DebateRepo
	Bus          *transport.Bus
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Errorf("api", "encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func brokerConnected(b *transport.Bus) bool {
	select {
	case <-b.Running():
		return true
	default:
		return false
	}
}

// HandleHealth reports liveness plus whether the store and broker are
// reachable, for the uptime checks in front of this process.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	storeConnected := false
	if pool := store.GetPool(); pool != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		storeConnected = pool.Ping(ctx) == nil
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"broker_connected": brokerConnected(h.Bus),
		"store_connected":  storeConnected,
	})
}

// pollResult reports one legislature's poll outcome, returned as a list
// from HandlePoll.
type pollResult struct {
	LegislatureCode string `json:"legislature_code"`
	Triggered       int    `json:"triggered"`
	Error           string `json:"error,omitempty"`
}

type pollRequest struct {
	LegislatureCode string `json:"legislature_code"`
}

// HandlePoll runs one or every tracked legislature's poller synchronously,
// returning each one's trigger count so an administrator gets immediate
// feedback instead of having to separately check /api/status.
func (h *Handlers) HandlePoll(w http.ResponseWriter, r *http.Request) {
	var req pollRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	codes := pipeline.TrackedLegislatureCodes
	if req.LegislatureCode != "" {
		codes = []string{req.LegislatureCode}
	}

	results := make([]pollResult, 0, len(codes))
	for _, code := range codes {
		triggered, err := h.Orchestrator.DispatchPoll(r.Context(), code)
		res := pollResult{LegislatureCode: code, Triggered: triggered}
		if err != nil {
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	writeJSON(w, http.StatusOK, results)
}

// HandleStatus reports debate counts by status plus the most recent errors,
// the one-glance operational view of the pipeline.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	counts, total, err := h.DebateRepo.StatusCounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	recent, err := h.DebateRepo.RecentErrors(r.Context(), 10)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":         total,
		"by_status":     counts,
		"recent_errors": recent,
	})
}

// HandleDebates lists debates, optionally narrowed by status and
// legislature, newest first.
func (h *Handlers) HandleDebates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 50
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	debates, err := h.DebateRepo.List(r.Context(), store.ListFilter{
		Status:          legislature.Status(q.Get("status")),
		LegislatureCode: q.Get("legislature_code"),
		Limit:           limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, debates)
}

type retriggerRequest struct {
	DebateID  string `json:"debate_id"`
	FromStage string `json:"from_stage"`
	Variant   string `json:"variant"`
}

// HandleRetrigger resumes a debate from a specific stage, optionally
// forcing the opposite acquisition variant from the one it was detected
// with. It does not reset the retry budget.
func (h *Handlers) HandleRetrigger(w http.ResponseWriter, r *http.Request) {
	var req retriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DebateID == "" || req.FromStage == "" {
		writeError(w, http.StatusBadRequest, "debate_id and from_stage are required")
		return
	}

	if err := h.Orchestrator.Retrigger(r.Context(), req.DebateID, legislature.Status(req.FromStage), req.Variant); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "queued", "debate_id": req.DebateID})
}

type testDebateRequest struct {
	VideoURL        string `json:"video_url"`
	Title           string `json:"title"`
	LegislatureCode string `json:"legislature_code"`
}

// HandleTestDebate seeds a debate from a known video URL and forces it
// through the audio-first chain, for verifying recognition and downstream
// stages without waiting on a poller.
func (h *Handlers) HandleTestDebate(w http.ResponseWriter, r *http.Request) {
	var req testDebateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VideoURL == "" {
		writeError(w, http.StatusBadRequest, "video_url is required")
		return
	}
	legCode := req.LegislatureCode
	if legCode == "" {
		legCode = "CA"
	}
	title := req.Title
	if title == "" {
		title = "Test debate (video)"
	}

	debate, err := h.Orchestrator.CreateVideoDebate(r.Context(), legCode, "test-"+uuid.NewString(), title, req.VideoURL, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "queued", "debate_id": debate.ID})
}

type testHansardRequest struct {
	SittingDate     string `json:"sitting_date"`
	Title           string `json:"title"`
	LegislatureCode string `json:"legislature_code"`
	HansardNumber   string `json:"hansard_number"`
}

// HandleTestHansard seeds a debate for a known sitting date and forces it
// through the transcript-first chain.
func (h *Handlers) HandleTestHansard(w http.ResponseWriter, r *http.Request) {
	var req testHansardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	date, err := time.Parse("2006-01-02", req.SittingDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "sitting_date must be YYYY-MM-DD")
		return
	}
	legCode := req.LegislatureCode
	if legCode == "" {
		legCode = "CA"
	}
	title := req.Title
	if title == "" {
		title = "Test debate (hansard)"
	}

	debate, err := h.Orchestrator.CreateHansardDebate(r.Context(), legCode, "test-"+uuid.NewString(), title, date, req.HansardNumber)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "queued", "debate_id": debate.ID})
}
