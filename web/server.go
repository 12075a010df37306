// Package web serves a localhost-only single-user UI; it intentionally has no
// auth/CSRF protection in this mode.
package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"clientsplit/config"
	"clientsplit/importer"
	"clientsplit/splitter"
	"clientsplit/storage"
	"clientsplit/workbook"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	maxUploadBytes = 64 << 20
	xlsxMediaType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Server struct {
	cfg   config.Config
	store *storage.SQLiteStore
	mux   *http.ServeMux

	// runMu serializes split runs; each run owns its workbook exclusively.
	runMu sync.Mutex
}

type indexPageView struct {
	Title         string
	TemplateSheet string
	KeepTemplate  bool
	StartMode     string
	HistoryOn     bool
}

type columnsResponse struct {
	HeaderRow  int                  `json:"headerRow"`
	Columns    []string             `json:"columns"`
	Rows       int                  `json:"rows"`
	Candidates []splitter.Candidate `json:"candidates"`
	Warnings   []string             `json:"warnings"`
}

var errBadUpload = errors.New("bad upload")

// NewServer builds the upload UI. store may be nil, which disables the run
// history endpoint.
func NewServer(cfg config.Config, store *storage.SQLiteStore) http.Handler {
	server := &Server{
		cfg:   cfg,
		store: store,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleIndex)
	mux.HandleFunc("POST /api/columns", server.handleAPIColumns)
	mux.HandleFunc("POST /api/split", server.handleAPISplit)
	mux.HandleFunc("GET /api/runs", server.handleAPIRuns)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := indexPageView{
		Title:         "Split by client",
		TemplateSheet: s.cfg.Split.TemplateSheet,
		KeepTemplate:  s.cfg.Split.KeepTemplate,
		StartMode:     s.cfg.Split.StartMode,
		HistoryOn:     s.store != nil,
	}
	if err := renderTemplate(w, "index.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleAPIColumns(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("parse multipart form: %v", err), http.StatusBadRequest)
		return
	}

	rawPath, name, cleanup, err := saveUpload(r, "raw")
	if err != nil {
		http.Error(w, err.Error(), uploadErrorStatus(err))
		return
	}
	defer cleanup()

	grid, err := importer.ReadFile(rawPath, "", s.readerOptions(r))
	if err != nil {
		http.Error(w, strings.ReplaceAll(err.Error(), rawPath, name), http.StatusBadRequest)
		return
	}

	inspection := splitter.Inspect(grid, s.cfg.SplitOptions())
	response := columnsResponse{
		HeaderRow:  inspection.HeaderRow + 1,
		Columns:    inspection.Columns,
		Rows:       inspection.Rows,
		Candidates: inspection.Candidates,
		Warnings:   make([]string, 0, len(inspection.Warnings)),
	}
	for _, warning := range inspection.Warnings {
		response.Warnings = append(response.Warnings, warning.Error())
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleAPISplit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("parse multipart form: %v", err), http.StatusBadRequest)
		return
	}

	opts, err := s.splitOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rawPath, rawName, cleanupRaw, err := saveUpload(r, "raw")
	if err != nil {
		http.Error(w, err.Error(), uploadErrorStatus(err))
		return
	}
	defer cleanupRaw()

	templatePath, templateName, cleanupTemplate, err := saveUpload(r, "template")
	if err != nil {
		http.Error(w, err.Error(), uploadErrorStatus(err))
		return
	}
	defer cleanupTemplate()

	grid, err := importer.ReadFile(rawPath, "", s.readerOptions(r))
	if err != nil {
		http.Error(w, strings.ReplaceAll(err.Error(), rawPath, rawName), http.StatusBadRequest)
		return
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	book, err := workbook.Open(templatePath)
	if err != nil {
		http.Error(w, strings.ReplaceAll(err.Error(), templatePath, templateName), http.StatusBadRequest)
		return
	}
	defer book.Close()

	result, err := splitter.Run(book, grid, opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(result.Sheets) > 0 {
		if err := book.Activate(result.Sheets[0].Name); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	var body bytes.Buffer
	if _, err := book.WriteTo(&body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	downloadName := outputName(templateName)
	if s.store != nil {
		run := &storage.Run{
			Origin:        "web",
			Input:         rawName,
			Template:      templateName,
			Output:        downloadName,
			GroupColumn:   opts.GroupColumn,
			TemplateSheet: result.TemplateSheet,
			Sheets:        result.SheetNames(),
			RowsWritten:   result.RowsWritten,
			Warnings:      len(result.Warnings),
		}
		if err := s.store.InsertRun(run); err != nil {
			http.Error(w, fmt.Sprintf("record run: %v", err), http.StatusInternalServerError)
			return
		}
	}

	warnings := make([]string, 0, len(result.Warnings))
	for _, warning := range result.Warnings {
		warnings = append(warnings, warning.Error())
	}

	w.Header().Set("Content-Type", xlsxMediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	w.Header().Set("X-Generated-Sheets", headerJSON(result.SheetNames()))
	w.Header().Set("X-Split-Warnings", headerJSON(warnings))
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, &body)
}

// headerJSON encodes values as JSON with every non-ASCII rune written as a
// \uXXXX escape. Browsers read header bytes as Latin-1.
func headerJSON(values []string) string {
	encoded, _ := json.Marshal(values)

	var b strings.Builder
	for _, r := range string(encoded) {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		if r > 0xFFFF {
			high, low := utf16.EncodeRune(r)
			fmt.Fprintf(&b, "\\u%04x\\u%04x", high, low)
			continue
		}
		fmt.Fprintf(&b, "\\u%04x", r)
	}
	return b.String()
}

func (s *Server) handleAPIRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.NotFound(w, r)
		return
	}

	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit (expected positive integer)", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := s.store.ListRuns(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) splitOptions(r *http.Request) (splitter.Options, error) {
	opts := s.cfg.SplitOptions()
	opts.GroupColumn = strings.TrimSpace(r.FormValue("groupColumn"))
	if opts.GroupColumn == "" {
		return opts, fmt.Errorf("groupColumn is required")
	}
	if sheet := strings.TrimSpace(r.FormValue("templateSheet")); sheet != "" {
		opts.TemplateSheet = sheet
	}
	if raw := strings.TrimSpace(r.FormValue("keepTemplate")); raw != "" {
		keep, err := strconv.ParseBool(raw)
		if err != nil {
			if raw != "on" {
				return opts, fmt.Errorf("invalid keepTemplate %q", raw)
			}
			keep = true
		}
		opts.KeepTemplate = keep
	}
	switch mode := splitter.StartMode(strings.ToLower(strings.TrimSpace(r.FormValue("startMode")))); mode {
	case "":
	case splitter.StartAtHeader, splitter.StartAfterContent:
		opts.StartMode = mode
	default:
		return opts, fmt.Errorf("invalid startMode %q (valid: header, append)", mode)
	}
	return opts, nil
}

func (s *Server) readerOptions(r *http.Request) importer.Options {
	return importer.Options{
		Sheet:     strings.TrimSpace(r.FormValue("rawSheet")),
		Delimiter: s.cfg.Input.CSVDelimiter,
		Encoding:  s.cfg.Input.CSVEncoding,
		Charset:   s.cfg.Input.XLSCharset,
	}
}

func renderTemplate(w http.ResponseWriter, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// saveUpload stores the multipart file field in a temp file keeping its
// extension, which the readers use to pick a format.
func saveUpload(r *http.Request, field string) (string, string, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: missing %s file upload", errBadUpload, field)
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", tempUploadPattern(header.Filename))
	if err != nil {
		return "", "", nil, fmt.Errorf("create temp upload: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", "", nil, fmt.Errorf("save upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", "", nil, fmt.Errorf("close upload temp file: %w", err)
	}

	return tmpPath, filepath.Base(header.Filename), cleanup, nil
}

func uploadErrorStatus(err error) int {
	if errors.Is(err, errBadUpload) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func tempUploadPattern(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." {
		return "upload-*"
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "upload"
	}
	if ext == "" {
		return stem + "-*"
	}
	return stem + "-*" + ext
}

func outputName(templateName string) string {
	stem := strings.TrimSuffix(filepath.Base(templateName), filepath.Ext(templateName))
	if stem == "" || stem == "." {
		stem = "template"
	}
	return stem + "-by-client.xlsx"
}
