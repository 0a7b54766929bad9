package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/asealnassar/crna-prep-hub/internal/db"
	"github.com/asealnassar/crna-prep-hub/internal/server/middleware"
)

// ReportRequest flags incorrect data on a school row.
type ReportRequest struct {
	SchoolName     string `json:"school_name" validate:"required"`
	FieldWithError string `json:"field_with_error" validate:"required"`
	Description    string `json:"description" validate:"required,max=2000"`
}

// handleCreateReport records a data error report from the caller.
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	id, err := s.store.CreateReport(r.Context(), &db.Report{
		SchoolName:     req.SchoolName,
		FieldWithError: req.FieldWithError,
		Description:    req.Description,
		ReporterEmail:  identity.Email,
		Status:         db.ReportStatusPending,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{"id": id})
}

// handleListReports lists all reports. Admin only.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		s.errorFromStatus(w, err)
		return
	}

	reports, err := s.store.ListReports(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"reports": reports})
}

// handleResolveReport marks a report resolved. Admin only.
func (s *Server) handleResolveReport(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		s.errorFromStatus(w, err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	if err := s.store.ResolveReport(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteReport removes a report. Admin only.
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		s.errorFromStatus(w, err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	if err := s.store.DeleteReport(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
