package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/asealnassar/crna-prep-hub/internal/interview"
	"github.com/asealnassar/crna-prep-hub/internal/server/middleware"
)

// StartInterviewRequest is the request body for POST /interview/start.
type StartInterviewRequest struct {
	Category    string `json:"category" validate:"required"`
	CustomTopic string `json:"custom_topic,omitempty"`
}

// StartInterviewResponse is the response for POST /interview/start.
type StartInterviewResponse struct {
	SessionID string            `json:"session_id"`
	Message   interview.Message `json:"message"`
	Turn      int               `json:"turn"`
	MaxTurns  int               `json:"max_turns"`
}

// AnswerRequest is the request body for submitting a candidate answer.
type AnswerRequest struct {
	Text string `json:"text" validate:"required"`
}

// AnswerResponse is the response for a submitted answer.
type AnswerResponse struct {
	Message interview.Message `json:"message"`
	Turn    int               `json:"turn"`
	Ended   bool              `json:"ended"`
}

// handleStartInterview begins a mock-interview session for the caller.
func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	category, err := interview.ParseCategory(req.Category)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// The profile row may not exist yet for a first-time caller.
	profile, err := s.store.EnsureProfile(r.Context(), identity.UserID, identity.Email)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	ctx, cancel := s.modelContext(r.Context())
	defer cancel()

	res, err := s.interviews.Start(ctx, interview.StartParams{
		UserID:         identity.UserID,
		Tier:           interview.Tier(profile.SubscriptionTier),
		InterviewCount: profile.InterviewCount,
		Category:       category,
		CustomTopic:    req.CustomTopic,
	})
	if err != nil {
		s.errorFromStatus(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, StartInterviewResponse{
		SessionID: res.SessionID,
		Message:   res.Message,
		Turn:      res.TurnIndex,
		MaxTurns:  res.MaxTurns,
	})
}

// handleSubmitAnswer records the candidate's answer and returns the next
// interviewer message.
func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctrl, err := s.interviews.Get(r.PathValue("session_id"), identity.UserID)
	if err != nil {
		s.errorFromStatus(w, err)
		return
	}

	ctx, cancel := s.modelContext(r.Context())
	defer cancel()

	res, err := ctrl.SubmitAnswer(ctx, req.Text)
	if err != nil {
		s.errorFromStatus(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, AnswerResponse{
		Message: res.Message,
		Turn:    res.TurnIndex,
		Ended:   res.Ended,
	})
}

// handleResetInterview discards the session. Idempotent; unknown ids
// succeed.
func (s *Server) handleResetInterview(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	s.interviews.Reset(r.PathValue("session_id"), identity.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// handleInterviewSnapshot returns the current transcript view.
func (s *Server) handleInterviewSnapshot(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctrl, err := s.interviews.Get(r.PathValue("session_id"), identity.UserID)
	if err != nil {
		s.errorFromStatus(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ctrl.Snapshot())
}

// modelContext bounds a model-backed request. A slow model is treated as a
// failure, which the engine degrades to a fixed fallback message.
func (s *Server) modelContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.llmTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.llmTimeout)
}
