package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/asealnassar/crna-prep-hub/internal/db"
)

// handleListSponsors lists sponsors ordered for display. Public.
func (s *Server) handleListSponsors(w http.ResponseWriter, r *http.Request) {
	sponsors, err := s.store.ListSponsors(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"sponsors": sponsors})
}

// handleCreateSponsor adds a sponsor. Admin only.
func (s *Server) handleCreateSponsor(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		s.errorFromStatus(w, err)
		return
	}

	var sponsor db.Sponsor
	if err := json.NewDecoder(r.Body).Decode(&sponsor); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if sponsor.Name == "" {
		s.errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := s.store.CreateSponsor(r.Context(), &sponsor)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	sponsor.ID = id

	s.jsonResponse(w, http.StatusCreated, sponsor)
}

// handleUpdateSponsor replaces a sponsor row. Admin only.
func (s *Server) handleUpdateSponsor(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		s.errorFromStatus(w, err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid sponsor ID")
		return
	}

	var sponsor db.Sponsor
	if err := json.NewDecoder(r.Body).Decode(&sponsor); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	sponsor.ID = id

	if err := s.store.UpdateSponsor(r.Context(), &sponsor); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.jsonResponse(w, http.StatusOK, sponsor)
}

// handleDeleteSponsor removes a sponsor. Admin only.
func (s *Server) handleDeleteSponsor(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		s.errorFromStatus(w, err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid sponsor ID")
		return
	}

	if err := s.store.DeleteSponsor(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
