// Package listing filters and paginates approved jobs for the public board.
//
// Input jobs must already be in display order (featured first, then newest).
// Filtering never reorders them.
package listing

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
)

// PageSize is the fixed number of jobs per page
const PageSize = 20

// Query holds every optional listing filter. Zero values impose no constraint.
type Query struct {
	Text         string
	Category     string
	Seniority    string
	LocationType string
	Region       string
	Industry     string
	Salary       *SalaryRange
	PostedDays   int
	Page         int
}

// SalaryRange is a query bucket; a nil bound is open.
type SalaryRange struct {
	Min *int64
	Max *int64
}

// Result is one page of matching jobs
type Result struct {
	Jobs       []domain.Job `json:"jobs"`
	Total      int          `json:"total"`
	TotalPages int          `json:"totalPages"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
}

// ParseQuery reads a Query from URL parameters.
func ParseQuery(v url.Values) Query {
	q := Query{
		Text:         strings.TrimSpace(v.Get("q")),
		Category:     v.Get("category"),
		Seniority:    v.Get("seniority"),
		LocationType: v.Get("locationType"),
		Region:       v.Get("region"),
		Industry:     v.Get("industry"),
		Salary:       ParseSalaryRange(v.Get("salary")),
		Page:         1,
	}
	if days, err := strconv.Atoi(v.Get("posted")); err == nil && days > 0 {
		q.PostedDays = days
	}
	if page, err := strconv.Atoi(v.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	return q
}

// ParseSalaryRange parses "min-max". Either side may be empty; a side that is
// empty, zero or not a number is left open. Returns nil for an empty string.
func ParseSalaryRange(s string) *SalaryRange {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	lo, hi, _ := strings.Cut(s, "-")
	return &SalaryRange{Min: parseBound(lo), Max: parseBound(hi)}
}

func parseBound(s string) *int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

// Filter returns the jobs matching every active predicate of q, in input order.
func Filter(jobs []domain.Job, q Query, now time.Time) []domain.Job {
	var needle string
	fold := cases.Fold()
	if q.Text != "" {
		needle = fold.String(q.Text)
	}

	var cutoff time.Time
	if q.PostedDays > 0 {
		cutoff = now.AddDate(0, 0, -q.PostedDays)
	}

	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if needle != "" && !containsFolded(fold, needle, j.Title, j.CompanyName, j.Description) {
			continue
		}
		if !facet(q.Category, j.Category) ||
			!facet(q.Seniority, j.Seniority) ||
			!facet(q.LocationType, j.LocationType) ||
			!facet(q.Region, j.Region) ||
			!facet(q.Industry, j.Industry) {
			continue
		}
		if q.Salary != nil && !q.Salary.Overlaps(j) {
			continue
		}
		if q.PostedDays > 0 && (j.CreatedAt.IsZero() || j.CreatedAt.Before(cutoff)) {
			continue
		}
		out = append(out, j)
	}
	return out
}

// Overlaps reports whether j might pay within r. Only a job whose known
// bounds fall entirely outside r is rejected.
func (r *SalaryRange) Overlaps(j domain.Job) bool {
	if r.Min != nil && j.SalaryMax != nil && *j.SalaryMax < *r.Min {
		return false
	}
	if r.Max != nil && j.SalaryMin != nil && *j.SalaryMin > *r.Max {
		return false
	}
	return true
}

// Paginate slices one page out of jobs. Pages past the end are empty.
func Paginate(jobs []domain.Job, page int) Result {
	if page < 1 {
		page = 1
	}
	total := len(jobs)
	res := Result{
		Jobs:       []domain.Job{},
		Total:      total,
		TotalPages: (total + PageSize - 1) / PageSize,
		Page:       page,
		PageSize:   PageSize,
	}

	start := (page - 1) * PageSize
	if start >= total {
		return res
	}
	end := start + PageSize
	if end > total {
		end = total
	}
	res.Jobs = jobs[start:end]
	return res
}

// Run filters jobs by q and returns the requested page.
func Run(jobs []domain.Job, q Query, now time.Time) Result {
	return Paginate(Filter(jobs, q, now), q.Page)
}

func facet(want, got string) bool {
	return want == "" || want == got
}

func containsFolded(fold cases.Caser, needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(fold.String(f), needle) {
			return true
		}
	}
	return false
}
