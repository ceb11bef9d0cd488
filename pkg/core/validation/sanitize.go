package validation

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
)

// descriptionPolicy allows user-generated formatting markup. Scripts, event
// handlers and non-http(s)/mailto URLs never survive it.
var descriptionPolicy = bluemonday.UGCPolicy()

// SanitizeHTML parses markup and rebuilds it from allowed elements only.
// Text is re-escaped, so fragments split around removed tags cannot
// recombine into live markup.
func SanitizeHTML(html string) string {
	return descriptionPolicy.Sanitize(html)
}

// ToJob converts validated input into a job record. The description is
// always sanitized here so no entry path can store raw markup. Status,
// slug and timestamps are left to the caller.
func (in JobInput) ToJob() domain.Job {
	in.Normalize()
	return domain.Job{
		CompanyName:    in.CompanyName,
		CompanyWebsite: in.CompanyWebsite,
		CompanyLogoURL: in.CompanyLogoURL,
		Title:          in.Title,
		Description:    SanitizeHTML(in.Description),
		Category:       in.Category,
		Seniority:      in.Seniority,
		Industry:       in.Industry,
		Location:       in.Location,
		LocationType:   in.LocationType,
		Region:         in.Region,
		SalaryMin:      positive(in.SalaryMin),
		SalaryMax:      positive(in.SalaryMax),
		SalaryCurrency: in.SalaryCurrency,
		ApplyURL:       in.ApplyURL,
		ContactEmail:   in.ContactEmail,
	}
}

// positive drops zero salaries; they carry no information.
func positive(v *int64) *int64 {
	if v == nil || *v <= 0 {
		return nil
	}
	n := *v
	return &n
}
