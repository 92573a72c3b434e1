package fakeapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/leetplan/plansync/internal/models"
)

// Response helpers

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondOK(w http.ResponseWriter) {
	respondJSON(w, http.StatusOK, successResponse{Success: true})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Success: false, Error: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "No data provided")
		return false
	}
	return true
}

func pathInt(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	return n, err == nil
}

// Health handler

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Plan handlers

func (s *Server) handleCurrentDay(w http.ResponseWriter, r *http.Request) {
	today := s.Today()
	start := s.data.startDate
	passed := today.DaysSince(start)

	respondJSON(w, http.StatusOK, models.CurrentDay{
		CurrentDay: models.ClampDay(passed + 1),
		StartDate:  start,
		Today:      today,
		DaysPassed: passed,
	})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	day, ok := pathInt(r, "day")
	if !ok {
		respondError(w, http.StatusNotFound, "unknown day")
		return
	}
	respondJSON(w, http.StatusOK, s.data.plan(day, s.Today()))
}

// progressBody keeps is_correct raw so that an absent field can be told
// apart from an explicit null.
type progressBody struct {
	QuestionID *int            `json:"question_id"`
	IsCorrect  json.RawMessage `json:"is_correct"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	var body progressBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.QuestionID == nil {
		respondError(w, http.StatusBadRequest, "question_id is required")
		return
	}

	// An absent is_correct means a correct answer
	result := models.Correct
	if len(body.IsCorrect) > 0 {
		if err := json.Unmarshal(body.IsCorrect, &result); err != nil {
			respondError(w, http.StatusBadRequest, "is_correct must be true, false or null")
			return
		}
	}

	if !s.data.setProgress(*body.QuestionID, result, s.Today()) {
		respondError(w, http.StatusNotFound, "question not found")
		return
	}
	slog.Debug("progress updated", "question_id", *body.QuestionID, "result", result.String())
	respondOK(w)
}

func (s *Server) handleDefer(w http.ResponseWriter, r *http.Request) {
	s.handleDeferral(w, r, true)
}

func (s *Server) handleUndefer(w http.ResponseWriter, r *http.Request) {
	s.handleDeferral(w, r, false)
}

func (s *Server) handleDeferral(w http.ResponseWriter, r *http.Request, deferred bool) {
	var body struct {
		QuestionID *int `json:"question_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.QuestionID == nil {
		respondError(w, http.StatusBadRequest, "question_id is required")
		return
	}
	if !s.data.setDeferred(*body.QuestionID, deferred, s.Today()) {
		respondError(w, http.StatusNotFound, "question not found")
		return
	}
	respondOK(w)
}

// Note handlers

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "question not found")
		return
	}
	respondJSON(w, http.StatusOK, models.NoteRequest{Note: s.data.note(id)})
}

func (s *Server) handleSaveNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "question not found")
		return
	}
	var body models.NoteRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if !s.data.setNote(id, body.Note) {
		respondError(w, http.StatusNotFound, "question not found")
		return
	}
	respondOK(w)
}

// Aggregate handlers

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.data.statistics(s.Today()))
}

func (s *Server) malformedLists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.malformed
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	if s.malformedLists() {
		respondJSON(w, http.StatusOK, map[string]string{"error": "review list unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, s.data.reviewList(s.Today()))
}

func (s *Server) handleDeferred(w http.ResponseWriter, r *http.Request) {
	if s.malformedLists() {
		respondJSON(w, http.StatusOK, map[string]string{"error": "deferred list unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, s.data.deferredList())
}
