package services

import (
	"context"
	"errors"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/validation"
	"github.com/wadjakorntonsri/go-job-board/pkg/ports"
)

const (
	dbErrorField     = "_db"
	msgRetriesFailed = "Database insert failed after retries."
	msgInsertFailed  = "Database insert failed."
	msgNotInteger    = "Expected integer"
)

// columns maps normalized spreadsheet headers to a setter on JobInput.
var columns = map[string]func(in *validation.JobInput, v string){
	"companyname":    func(in *validation.JobInput, v string) { in.CompanyName = v },
	"companywebsite": func(in *validation.JobInput, v string) { in.CompanyWebsite = v },
	"companylogourl": func(in *validation.JobInput, v string) { in.CompanyLogoURL = v },
	"title":          func(in *validation.JobInput, v string) { in.Title = v },
	"description":    func(in *validation.JobInput, v string) { in.Description = v },
	"category":       func(in *validation.JobInput, v string) { in.Category = v },
	"seniority":      func(in *validation.JobInput, v string) { in.Seniority = v },
	"industry":       func(in *validation.JobInput, v string) { in.Industry = v },
	"location":       func(in *validation.JobInput, v string) { in.Location = v },
	"locationtype":   func(in *validation.JobInput, v string) { in.LocationType = v },
	"region":         func(in *validation.JobInput, v string) { in.Region = v },
	"salarycurrency": func(in *validation.JobInput, v string) { in.SalaryCurrency = v },
	"applyurl":       func(in *validation.JobInput, v string) { in.ApplyURL = v },
	"contactemail":   func(in *validation.JobInput, v string) { in.ContactEmail = v },
}

type ImportService struct {
	repo    ports.JobRepository
	now     func() time.Time
	newSlug SlugFunc
}

func NewImportService(repo ports.JobRepository) *ImportService {
	return &ImportService{
		repo:    repo,
		now:     time.Now,
		newSlug: defaultSlug,
	}
}

// Import validates and inserts every row as an approved job. A failing row
// is recorded in the report and never stops the rows after it.
func (s *ImportService) Import(ctx context.Context, rows []domain.ImportRow) *domain.ImportReport {
	report := &domain.ImportReport{
		Total:   len(rows),
		Results: make([]domain.ImportResult, 0, len(rows)),
	}

	for _, row := range rows {
		res := s.importRow(ctx, row)
		if res.Status == domain.ImportSuccess {
			report.Success++
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, res)
	}

	log.Printf("[import] %d row(s): %d imported, %d failed", report.Total, report.Success, report.Failed)
	return report
}

func (s *ImportService) importRow(ctx context.Context, row domain.ImportRow) domain.ImportResult {
	in, fe := RowToInput(row)
	if vfe := validation.ValidateJob(in); vfe != nil {
		fe.Merge(vfe)
	}
	if len(fe) > 0 {
		return domain.ImportResult{Row: row.Number, Status: domain.ImportError, Errors: fe}
	}

	now := s.now().UTC()
	job := in.ToJob()
	job.CreatedAt = now
	job.Approve(now)

	err := createWithSlug(ctx, s.repo, s.newSlug, &job)
	switch {
	case err == nil:
		return domain.ImportResult{Row: row.Number, Status: domain.ImportSuccess, Slug: job.Slug}
	case errors.Is(err, domain.ErrSlugExhausted):
		return dbError(row.Number, msgRetriesFailed)
	default:
		log.Printf("[import] row %d: %v", row.Number, err)
		return dbError(row.Number, msgInsertFailed)
	}
}

func dbError(row int, msg string) domain.ImportResult {
	return domain.ImportResult{
		Row:    row,
		Status: domain.ImportError,
		Errors: domain.FieldErrors{dbErrorField: {msg}},
	}
}

// RowToInput maps a spreadsheet row onto a JobInput. Unknown columns are
// ignored and the leftmost of two columns for one field wins. Salaries that are empty, unparsable or zero are left unset; a
// fractional salary is reported as a field error.
func RowToInput(row domain.ImportRow) (validation.JobInput, domain.FieldErrors) {
	var in validation.JobInput
	fe := domain.FieldErrors{}

	seen := make(map[string]bool, len(row.Cells))
	for _, header := range headerOrder(row) {
		key := normalizeHeader(header)
		if seen[key] {
			// the first column for a field wins
			continue
		}
		seen[key] = true
		v := strings.TrimSpace(row.Cells[header])

		switch key {
		case "salarymin":
			in.SalaryMin = parseSalary(v, "salaryMin", fe)
		case "salarymax":
			in.SalaryMax = parseSalary(v, "salaryMax", fe)
		default:
			if set, ok := columns[key]; ok {
				set(&in, v)
			}
		}
	}
	return in, fe
}

// headerOrder returns the row's headers in sheet order, falling back to
// sorted keys for rows built without one.
func headerOrder(row domain.ImportRow) []string {
	if row.Headers != nil {
		return row.Headers
	}
	headers := make([]string, 0, len(row.Cells))
	for h := range row.Cells {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	return headers
}

func normalizeHeader(h string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' {
			return -1
		}
		return unicode.ToLower(r)
	}, h)
}

func parseSalary(v, field string, fe domain.FieldErrors) *int64 {
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || f == 0 {
		return nil
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		fe.Add(field, msgNotInteger)
		return nil
	}
	n := int64(f)
	return &n
}

// Ensure interface compliance
var _ ports.ImportService = (*ImportService)(nil)
