package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/jpalmerr/outreach/internal/store"
)

// statusInfo describes one selectable status for clients.
type statusInfo struct {
	Value store.Status `json:"value"`
	Label string       `json:"label"`
}

// handleListSchools returns every school, or those matching ?q=.
func (s *Server) handleListSchools(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")

	schools := s.store.Search(term)
	w.Header().Set("Cache-Control", "no-cache")
	render.JSON(w, r, schools)
}

// handleCreateSchool adds a school from a JSON draft.
func (s *Server) handleCreateSchool(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	var req createSchoolRequest
	if err := decodeAndBind(r, &req); err != nil {
		logger.Debug("create school rejected", "error", err)
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	school, ok := s.store.Add(req.draft())
	if !ok {
		logger.Error("failed to add school", "name", req.Name)
		renderError(w, r, http.StatusInternalServerError, "failed to add school")
		return
	}

	logger.Info("school added", "school_id", school.ID, "name", school.Name)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, school)
}

// handleGetSchool returns one school by id.
func (s *Server) handleGetSchool(w http.ResponseWriter, r *http.Request) {
	school, ok := s.store.Get(chi.URLParam(r, "id"))
	if !ok {
		renderError(w, r, http.StatusNotFound, "school not found")
		return
	}
	render.JSON(w, r, school)
}

// handleUpdateStatus moves a school to a new status.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := decodeAndBind(r, &req); err != nil {
		logger.Debug("status update rejected", "school_id", id, "error", err)
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	school, ok := s.store.UpdateStatus(id, store.Status(req.Status))
	if !ok {
		renderError(w, r, http.StatusNotFound, "school not found")
		return
	}

	logger.Info("school status updated", "school_id", id, "status", school.Status)
	render.JSON(w, r, school)
}

// handleCounts returns per-status totals.
func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	render.JSON(w, r, s.store.StatusCounts())
}

// handleStatuses lists the statuses in canonical order with their labels.
func (s *Server) handleStatuses(w http.ResponseWriter, r *http.Request) {
	statuses := store.Statuses()
	infos := make([]statusInfo, 0, len(statuses))
	for _, st := range statuses {
		infos = append(infos, statusInfo{Value: st, Label: st.Label()})
	}
	render.JSON(w, r, infos)
}
