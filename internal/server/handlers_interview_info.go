package server

import (
	"encoding/json"
	"net/http"

	"github.com/asealnassar/crna-prep-hub/internal/db"
	"github.com/asealnassar/crna-prep-hub/internal/interview"
	"github.com/asealnassar/crna-prep-hub/internal/server/middleware"
)

// handleListInterviewInfo lists school interview-style records. Gated to
// the ultimate tier; admins see it regardless.
func (s *Server) handleListInterviewInfo(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := s.store.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if profile == nil || (!interview.Tier(profile.SubscriptionTier).Unlimited() && !profile.IsAdmin) {
		s.errorFromStatus(w, &ErrForbidden{Reason: "ultimate tier required"})
		return
	}

	infos, err := s.store.ListInterviewInfo(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"interview_info": infos})
}

// handleUpsertInterviewInfo creates or refreshes a record keyed by school
// name. Admin only.
func (s *Server) handleUpsertInterviewInfo(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		s.errorFromStatus(w, err)
		return
	}

	var info db.InterviewInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if info.SchoolName == "" {
		s.errorResponse(w, http.StatusBadRequest, "school_name is required")
		return
	}

	if err := s.store.UpsertInterviewInfo(r.Context(), &info); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.jsonResponse(w, http.StatusOK, info)
}

// ExpeditedRequestBody asks to prioritize interview info for a school.
type ExpeditedRequestBody struct {
	SchoolName string `json:"school_name" validate:"required"`
	Notes      string `json:"notes,omitempty" validate:"max=2000"`
}

// handleCreateExpeditedRequest records an expedited info request for the
// caller.
func (s *Server) handleCreateExpeditedRequest(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ExpeditedRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	id, err := s.store.CreateExpeditedRequest(r.Context(), &db.ExpeditedRequest{
		UserEmail:  identity.Email,
		SchoolName: req.SchoolName,
		Notes:      req.Notes,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{"id": id})
}
