// Package spreadsheet reads bulk-import uploads (xlsx or csv) and writes the
// import template and job exports as xlsx workbooks.
package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
	"github.com/wadjakorntonsri/go-job-board/pkg/ports"
)

const (
	JobsSheet      = "Jobs"
	ReferenceSheet = "Valid Values"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	ErrUnsupportedFormat = errors.New("Please upload an Excel (.xlsx) or CSV (.csv) file")
	ErrNoSheets          = errors.New("Excel file has no sheets")
	ErrNoDataRows        = errors.New("No data rows found in the spreadsheet")
)

// Headers is the column layout of the import template.
var Headers = []string{
	"companyName", "companyWebsite", "companyLogoUrl", "title", "description", "category",
	"seniority", "industry", "location", "locationType", "region",
	"salaryMin", "salaryMax", "salaryCurrency", "applyUrl", "contactEmail",
}

var exampleRow = []interface{}{
	"Stripe", "https://stripe.com", "", "Pricing Manager",
	"We are looking for a Pricing Manager to lead our pricing strategy. You will work cross-functionally with product, finance, and sales teams to optimize our pricing models and drive revenue growth. Minimum 100 characters required for the description field.",
	"Pricing", "Manager", "Fintech", "San Francisco, CA", "Remote", "US",
	80000, 120000, "USD", "https://stripe.com/jobs/123", "hiring@stripe.com",
}

var referenceHeaders = []string{"Categories", "Seniority Levels", "Regions", "Location Types", "Currencies", "Industries"}

type Codec struct{}

func NewCodec() *Codec {
	return &Codec{}
}

// ReadRows parses the first sheet of an xlsx workbook, or a csv file, into
// data rows keyed by header. Wholly blank rows are skipped.
func (c *Codec) ReadRows(filename string, r io.Reader) ([]domain.ImportRow, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		records, err = readWorkbook(r)
	case ".csv":
		records, err = readCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return toRows(records)
}

func readWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	// raw values, so number formats like #,##0 do not leak into salaries
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}

// toRows keys every record after the first by the first record's headers.
// Row numbers are the 1-based positions in the sheet.
func toRows(records [][]string) ([]domain.ImportRow, error) {
	if len(records) < 2 {
		return nil, ErrNoDataRows
	}
	headers := records[0]

	var order []string
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if strings.TrimSpace(h) != "" && !seen[h] {
			seen[h] = true
			order = append(order, h)
		}
	}

	var rows []domain.ImportRow
	for i, record := range records[1:] {
		cells := make(map[string]string, len(headers))
		blank := true
		for col, value := range record {
			if col >= len(headers) || strings.TrimSpace(headers[col]) == "" {
				continue
			}
			if _, dup := cells[headers[col]]; dup {
				// a repeated header keeps its first column
				continue
			}
			if strings.TrimSpace(value) != "" {
				blank = false
			}
			cells[headers[col]] = value
		}
		if blank {
			continue
		}
		rows = append(rows, domain.ImportRow{Number: i + 2, Headers: order, Cells: cells})
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}
	return rows, nil
}

// WriteTemplate writes a workbook with the Jobs sheet (headers plus one
// example row) and a reference sheet listing every accepted enum value.
func (c *Codec) WriteTemplate(w io.Writer) error {
	f, err := newJobsWorkbook()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SetSheetRow(JobsSheet, "A2", &exampleRow); err != nil {
		return err
	}
	if err := writeReference(f); err != nil {
		return err
	}
	return f.Write(w)
}

// WriteJobs writes jobs in the template layout so an export can be edited
// and uploaded again. Slug and status trail the template columns.
func (c *Codec) WriteJobs(w io.Writer, jobs []domain.Job) error {
	f, err := newJobsWorkbook()
	if err != nil {
		return err
	}
	defer f.Close()

	extra := len(Headers) + 1
	for i, h := range []string{"slug", "status"} {
		cell, _ := excelize.CoordinatesToCellName(extra+i, 1)
		if err := f.SetCellValue(JobsSheet, cell, h); err != nil {
			return err
		}
	}

	for i, job := range jobs {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			job.CompanyName, job.CompanyWebsite, job.CompanyLogoURL, job.Title, job.Description, job.Category,
			job.Seniority, job.Industry, job.Location, job.LocationType, job.Region,
			optionalInt(job.SalaryMin), optionalInt(job.SalaryMax), job.SalaryCurrency, job.ApplyURL, job.ContactEmail,
			job.Slug, string(job.Status),
		}
		if err := f.SetSheetRow(JobsSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func newJobsWorkbook() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), JobsSheet); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(JobsSheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		err = f.SetRowStyle(JobsSheet, 1, 1, bold)
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, h := range Headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(len(h) + 5)
		if width < 20 {
			width = 20
		}
		if err := f.SetColWidth(JobsSheet, col, col, width); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeReference(f *excelize.File) error {
	if _, err := f.NewSheet(ReferenceSheet); err != nil {
		return err
	}

	columns := [][]string{
		domain.Categories,
		domain.SeniorityLevels,
		domain.Regions,
		domain.LocationTypes,
		domain.CurrencyCodes(),
		domain.Industries,
	}
	for col, values := range columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(ReferenceSheet, cell, referenceHeaders[col]); err != nil {
			return err
		}
		for row, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(ReferenceSheet, cell, v); err != nil {
				return err
			}
		}
	}

	last, _ := excelize.ColumnNumberToName(len(referenceHeaders))
	return f.SetColWidth(ReferenceSheet, "A", last, 25)
}

func optionalInt(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// Ensure interface compliance
var _ ports.SheetCodec = (*Codec)(nil)
