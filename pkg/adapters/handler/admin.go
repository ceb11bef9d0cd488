package handler

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/wadjakorntonsri/go-job-board/pkg/adapters/spreadsheet"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/moderation"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/validation"
	"github.com/wadjakorntonsri/go-job-board/pkg/ports"
)

// MaxUploadSize bounds a bulk-import spreadsheet
const MaxUploadSize = 10 << 20

type AdminHandler struct {
	admin    ports.AdminService
	importer ports.ImportService
	sheets   ports.SheetCodec
}

func NewAdminHandler(admin ports.AdminService, importer ports.ImportService, sheets ports.SheetCodec) *AdminHandler {
	return &AdminHandler{admin: admin, importer: importer, sheets: sheets}
}

// List returns jobs in one status, oldest first
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		raw = string(domain.StatusPending)
	}
	status, ok := domain.ParseStatus(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	jobs, err := h.admin.ListByStatus(r.Context(), status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs})
}

// Create stores an admin-authored job, approved immediately
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in validation.JobInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	job, err := h.admin.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "slug": job.Slug})
}

type moderateRequest struct {
	JobID      int64  `json:"jobId"`
	Action     string `json:"action"`
	IsFeatured bool   `json:"isFeatured"`
}

// Moderate applies an approve, reject, expire or feature action
func (h *AdminHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	var req moderateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.JobID <= 0 {
		writeError(w, http.StatusBadRequest, "Job ID required")
		return
	}
	action, err := moderation.ParseAction(req.Action)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid action")
		return
	}

	job, err := h.admin.Moderate(r.Context(), req.JobID, action, req.IsFeatured)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "job": job})
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Job ID required")
		return
	}

	if err := h.admin.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Template downloads the bulk-import workbook
func (h *AdminHandler) Template(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.sheets.WriteTemplate(&buf); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="job-import-template.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	buf.WriteTo(w)
}

// Upload imports every row of an uploaded spreadsheet and reports per row
func (h *AdminHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File is larger than 10 MB")
			return
		}
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()
	if header.Size > MaxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File is larger than 10 MB")
		return
	}

	rows, err := h.sheets.ReadRows(header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, spreadsheet.ErrUnsupportedFormat),
			errors.Is(err, spreadsheet.ErrNoSheets),
			errors.Is(err, spreadsheet.ErrNoDataRows):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[import] unreadable upload %q: %v", header.Filename, err)
			writeError(w, http.StatusBadRequest, "Could not read the spreadsheet")
		}
		return
	}

	writeJSON(w, http.StatusOK, h.importer.Import(r.Context(), rows))
}
