package web

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/JonMunkholm/registros/internal/core"
)

// multipartOverhead is the slack allowed on top of the file size for the
// multipart envelope and the other form fields.
const multipartOverhead = 1 << 20

// multipartMemory is the part of a form kept in memory; the rest spills to disk.
const multipartMemory = 8 << 20

func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.Template()
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	sendFile(w, core.TemplateFile, data)
}

// handleExport downloads every registro, optionally filtered by ?estudio=.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.Export(r.Context(), r.URL.Query().Get("estudio"))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	sendFile(w, core.ExportFileName(time.Now()), data)
}

// handleImport imports the uploaded spreadsheet in form field "file".
// Optional "sheets" values restrict the import to the named sheets.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, r, core.ErrFileTooLarge, 0)
			return
		}
		respondError(w, r, badRequest("invalid multipart form: %v", err), 0)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, core.ErrNoFile, 0)
		return
	}
	defer file.Close()

	if header.Size > maxSize {
		respondError(w, r, core.ErrFileTooLarge, 0)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	result, err := s.service.ImportUpload(ctx, header.Filename, file, sheetNames(r.MultipartForm.Value["sheets"]))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: result.Success,
		Message: result.Message,
		Data:    result,
	})
}

// handleImportHistory lists the most recent imports, newest first.
func (s *Server) handleImportHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", core.DefaultHistoryLimit, 1, math.MaxInt32)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	records, err := s.service.ImportHistory(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	writeOK(w, http.StatusOK, "Import history retrieved", records)
}
