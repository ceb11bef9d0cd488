package handler

import (
	"context"
	"encoding/xml"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/listing"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/validation"
	"github.com/wadjakorntonsri/go-job-board/pkg/ports"
)

type HTTPHandler struct {
	jobs       ports.JobService
	newsletter ports.NewsletterService
	baseURL    string
}

func NewHTTPHandler(jobs ports.JobService, newsletter ports.NewsletterService, baseURL string) *HTTPHandler {
	return &HTTPHandler{jobs: jobs, newsletter: newsletter, baseURL: baseURL}
}

type listResponse struct {
	Jobs       []publicJob `json:"jobs"`
	Total      int         `json:"total"`
	TotalPages int         `json:"totalPages"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
}

// List runs the listing engine over approved jobs
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.jobs.Browse(r.Context(), listing.ParseQuery(r.URL.Query()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Jobs:       toPublic(res.Jobs),
		Total:      res.Total,
		TotalPages: res.TotalPages,
		Page:       res.Page,
		PageSize:   res.PageSize,
	})
}

// Submit accepts a public job posting for moderation
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in validation.JobInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	job, err := h.jobs.Submit(r.Context(), clientIP(r), in)
	if err != nil {
		var fe domain.FieldErrors
		if errors.As(err, &fe) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid input", FieldErrors: fe})
			return
		}
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"slug":    job.Slug,
		"status":  job.Status,
	})
}

// Get returns an approved job by slug
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, publicJob{Job: *job})
}

type trackRequest struct {
	JobID *int64 `json:"jobId"`
}

func (h *HTTPHandler) TrackView(w http.ResponseWriter, r *http.Request) {
	h.track(w, r, h.jobs.RecordView)
}

func (h *HTTPHandler) TrackClick(w http.ResponseWriter, r *http.Request) {
	h.track(w, r, h.jobs.RecordClick)
}

func (h *HTTPHandler) track(w http.ResponseWriter, r *http.Request, record func(ctx context.Context, id int64) error) {
	var req trackRequest
	if err := decodeJSON(w, r, &req); err != nil || req.JobID == nil || *req.JobID <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	if err := record(r.Context(), *req.JobID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Subscribe adds an email to the newsletter
func (h *HTTPHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var in validation.NewsletterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	if _, err := h.newsletter.Subscribe(r.Context(), in); err != nil {
		var fe domain.FieldErrors
		if errors.As(err, &fe) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid email address", FieldErrors: fe})
			return
		}
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap lists the static pages and every approved job
func (h *HTTPHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.ApprovedJobs(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	today := time.Now().UTC().Format("2006-01-02")
	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: h.baseURL, LastMod: today, ChangeFreq: "daily", Priority: 1},
			{Loc: h.baseURL + "/jobs", LastMod: today, ChangeFreq: "hourly", Priority: 0.9},
			{Loc: h.baseURL + "/post-job", LastMod: today, ChangeFreq: "monthly", Priority: 0.7},
		},
	}
	for _, job := range jobs {
		u := sitemapURL{Loc: h.baseURL + "/jobs/" + job.Slug, ChangeFreq: "weekly", Priority: 0.8}
		if !job.CreatedAt.IsZero() {
			u.LastMod = job.CreatedAt.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(set); err != nil {
		log.Printf("[http] encode sitemap: %v", err)
	}
}
