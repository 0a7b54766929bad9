package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/asealnassar/crna-prep-hub/internal/db"
	"github.com/asealnassar/crna-prep-hub/internal/server/middleware"
)

// schoolFilterFromQuery builds a filter from list query parameters.
func schoolFilterFromQuery(r *http.Request) db.SchoolFilter {
	q := r.URL.Query()
	filter := db.SchoolFilter{
		State:       q.Get("state"),
		ProgramType: q.Get("program_type"),
		Search:      q.Get("search"),
	}
	if v := q.Get("max_tuition"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.MaxTuition = n
		}
	}
	if v := q.Get("max_gpa"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			filter.MaxGPARequirement = f
		}
	}
	if v := q.Get("accepts_new_grad_icu"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.AcceptsNewGradICU = &b
		}
	}
	return filter
}

// handleListSchools lists the schools directory with optional filters.
func (s *Server) handleListSchools(w http.ResponseWriter, r *http.Request) {
	schools, err := s.store.ListSchools(r.Context(), schoolFilterFromQuery(r))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"schools": schools,
		"total":   len(schools),
	})
}

// handleGetSchool retrieves a single school.
func (s *Server) handleGetSchool(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid school ID")
		return
	}

	school, err := s.store.GetSchool(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if school == nil {
		s.errorResponse(w, http.StatusNotFound, "School not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, school)
}

// handleCreateSchool adds a school row. Admin only.
func (s *Server) handleCreateSchool(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		s.errorFromStatus(w, err)
		return
	}

	var school db.School
	if err := json.NewDecoder(r.Body).Decode(&school); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if school.Name == "" {
		s.errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := s.store.CreateSchool(r.Context(), &school)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	school.ID = id

	s.jsonResponse(w, http.StatusCreated, school)
}

// handleUpdateSchool replaces a school row. Admin only.
func (s *Server) handleUpdateSchool(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		s.errorFromStatus(w, err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid school ID")
		return
	}

	var school db.School
	if err := json.NewDecoder(r.Body).Decode(&school); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	school.ID = id

	if err := s.store.UpdateSchool(r.Context(), &school); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.jsonResponse(w, http.StatusOK, school)
}

// handleDeleteSchool removes a school row. Admin only.
func (s *Server) handleDeleteSchool(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		s.errorFromStatus(w, err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid school ID")
		return
	}

	if err := s.store.DeleteSchool(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListSavedSchools lists the caller's saved schools.
func (s *Server) handleListSavedSchools(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	schools, err := s.store.ListSavedSchools(r.Context(), identity.UserID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"schools": schools})
}

// handleSaveSchool bookmarks a school for the caller. Saving twice is a
// no-op.
func (s *Server) handleSaveSchool(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	schoolID, err := uuid.Parse(r.PathValue("school_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid school ID")
		return
	}

	if err := s.store.SaveSchool(r.Context(), identity.UserID, schoolID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleUnsaveSchool removes a bookmark.
func (s *Server) handleUnsaveSchool(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	schoolID, err := uuid.Parse(r.PathValue("school_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid school ID")
		return
	}

	if err := s.store.UnsaveSchool(r.Context(), identity.UserID, schoolID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetMe returns the caller's profile, creating it on first sight.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := s.store.EnsureProfile(r.Context(), identity.UserID, identity.Email)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}
