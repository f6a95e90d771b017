package adapthttp

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req intakeRecordRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := s.intake.Create(r.Context(), currentUser(r).ID, toDraft(req))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	resp, err := toResponse(*rec)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := s.intake.GetByID(r.Context(), currentUser(r).ID, id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	resp, err := toResponse(*rec)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var req intakeRecordRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := s.intake.Update(r.Context(), currentUser(r).ID, id, toDraft(req))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	resp, err := toResponse(*rec)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.intake.Delete(r.Context(), currentUser(r).ID, id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseFilterCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	page, err := s.intake.List(r.Context(), currentUser(r).ID, criteria)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	resp, err := toPageResponse(*page)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func recordID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
