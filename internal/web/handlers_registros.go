package web

import (
	"math"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/registros/internal/core"
	"github.com/JonMunkholm/registros/internal/logging"
)

// handleRoot describes the service and its main endpoints.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	endpoints := map[string]string{
		"registros":     "/api/registros",
		"estudios":      "/api/estudios",
		"exportar":      "/api/excel/exportar",
		"importar":      "/api/excel/importar",
		"plantilla":     "/api/excel/plantilla",
		"importaciones": "/api/excel/importaciones",
		"health":        "/health",
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Registros API",
		"version":   Version,
		"endpoints": endpoints,
	})
}

// handleHealth reports database reachability and import capacity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	dbStatus := "ok"
	if err := s.service.Ping(r.Context()); err != nil {
		status, code = "unhealthy", http.StatusServiceUnavailable
		dbStatus = "unreachable"
		logging.FromContext(r.Context()).Error("health check failed", "error", err)
	}

	writeJSON(w, code, map[string]any{
		"status":   status,
		"version":  Version,
		"database": dbStatus,
		"imports":  s.service.Limiter().Status(),
	})
}

func (s *Server) handleListEstudios(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, "Study programs retrieved", s.service.Estudios())
}

func (s *Server) handleCreateRegistro(w http.ResponseWriter, r *http.Request) {
	var in core.RegistroInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err, 0)
		return
	}

	rec, err := s.service.CreateRegistro(r.Context(), in)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	writeOK(w, http.StatusCreated, "Registro created", rec)
}

// handleListRegistros returns a page of registros plus the total for the filter.
func (s *Server) handleListRegistros(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0, 0, core.MaxSkip)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	limit, err := queryInt(r, "limit", core.DefaultPageSize, 1, math.MaxInt32)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	page, err := s.service.ListRegistros(r.Context(), skip, limit, r.URL.Query().Get("estudio"))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	writeOK(w, http.StatusOK, "Registros retrieved", page)
}

func (s *Server) handleGetRegistro(w http.ResponseWriter, r *http.Request) {
	id, err := registroID(r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	rec, err := s.service.GetRegistro(r.Context(), id)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	writeOK(w, http.StatusOK, "Registro retrieved", rec)
}

func (s *Server) handleUpdateRegistro(w http.ResponseWriter, r *http.Request) {
	id, err := registroID(r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	var in core.RegistroInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err, 0)
		return
	}

	rec, err := s.service.UpdateRegistro(r.Context(), id, in)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	writeOK(w, http.StatusOK, "Registro updated", rec)
}

func (s *Server) handleDeleteRegistro(w http.ResponseWriter, r *http.Request) {
	id, err := registroID(r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	if err := s.service.DeleteRegistro(r.Context(), id); err != nil {
		respondError(w, r, err, 0)
		return
	}

	writeOK(w, http.StatusOK, "Registro "+strconv.FormatInt(id, 10)+" deleted", nil)
}
