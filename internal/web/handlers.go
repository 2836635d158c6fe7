package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/errextract/internal/core"
	"github.com/JonMunkholm/errextract/internal/logging"
	"github.com/JonMunkholm/errextract/internal/web/templates"
)

// multipartOverhead leaves room for form boundaries and headers on top of
// the file size limit.
const multipartOverhead = 1 << 20

// ProcessResponse is the JSON body returned by POST /api/process.
type ProcessResponse struct {
	ID        string       `json:"id"`
	FileName  string       `json:"fileName"`
	TotalRows int          `json:"totalRows"`
	Dropped   int          `json:"dropped"`
	Columns   []string     `json:"columns"`
	Rows      []core.Entry `json:"rows"`
}

// HistoryResponse is the JSON body returned by GET /api/history.
type HistoryResponse struct {
	Runs []core.Run `json:"runs"`
}

// StatusResponse reports processing capacity.
type StatusResponse struct {
	Uploads        core.UploadLimiterStatus `json:"uploads"`
	HistoryEnabled bool                     `json:"historyEnabled"`
}

// handleIndex renders the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.UploadPage(s.service.HistoryEnabled(), nil).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render upload page", "error", err)
	}
}

// handleProcess runs an uploaded file and renders the cleaned table. The
// export is kept in the export store for the page's download button.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	result, err := s.processUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	data, err := core.ExportCSV(result.Table)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	s.exports.put(result.ID, data)

	rows := make([][]string, len(result.Table.Entries))
	for i, e := range result.Table.Entries {
		rows[i] = []string{e.Item, e.Error}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = templates.ResultsPage(templates.ResultsParams{
		FileName:    result.FileName,
		Columns:     result.Table.Columns(),
		Rows:        rows,
		DownloadID:  result.ID,
		ShowHistory: s.service.HistoryEnabled(),
	}).Render(r.Context(), w)
	if err != nil {
		logging.FromContext(r.Context()).Error("render results page", "error", err)
	}
}

// handleAPIProcess runs an uploaded file and returns the cleaned table as JSON.
func (s *Server) handleAPIProcess(w http.ResponseWriter, r *http.Request) {
	result, err := s.processUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, r, ProcessResponse{
		ID:        result.ID,
		FileName:  result.FileName,
		TotalRows: result.TotalRows,
		Dropped:   result.Dropped,
		Columns:   result.Table.Columns(),
		Rows:      result.Table.Entries,
	})
}

// handleAPIExport runs an uploaded file and returns processed_data.csv.
func (s *Server) handleAPIExport(w http.ResponseWriter, r *http.Request) {
	result, err := s.processUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	data, err := core.ExportCSV(result.Table)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeExport(w, result.ID, data)
}

// handleHistory renders recent runs.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.RecentRuns(r.Context(), s.cfg.History.PageSize)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.HistoryPage(runs).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render history page", "error", err)
	}
}

// handleAPIHistory returns recent runs as JSON. ?limit= caps the count.
func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", s.cfg.History.PageSize)

	runs, err := s.service.RecentRuns(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if runs == nil {
		runs = []core.Run{}
	}

	writeJSON(w, r, HistoryResponse{Runs: runs})
}

// handleAPIStatus reports processing slot usage.
func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, StatusResponse{
		Uploads:        s.service.LimiterStatus(),
		HistoryEnabled: s.service.HistoryEnabled(),
	})
}

// handleHealth is the liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// processUpload reads the multipart "file" field and runs it through the service.
func (s *Server) processUpload(w http.ResponseWriter, r *http.Request) (*core.Result, error) {
	file, header, err := s.readUploadedFile(w, r)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ctx := WithRequestMetadata(r.Context(), r)
	return s.service.Process(ctx, header.Filename, file)
}

// readUploadedFile parses the form and rejects unsupported extensions before
// any content is read.
func (s *Server) readUploadedFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, fmt.Errorf("%w: limit is %d bytes", core.ErrFileTooLarge, maxSize)
		}
		return nil, nil, fmt.Errorf("%w: %v", errNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, errNoFile
	}

	if header.Size > maxSize {
		file.Close()
		return nil, nil, fmt.Errorf("%w: limit is %d bytes", core.ErrFileTooLarge, maxSize)
	}

	if _, err := core.DetectFormat(header.Filename); err != nil {
		file.Close()
		return nil, nil, err
	}

	return file, header, nil
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
