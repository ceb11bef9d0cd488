package domain

import "time"

// Status is the moderation state of a job posting
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// ListingLifetime is how long an approved job stays up before it expires
const ListingLifetime = 30 * 24 * time.Hour

// DefaultCurrency is used when a job does not name a salary currency
const DefaultCurrency = "EUR"

// Job represents a job posting
type Job struct {
	ID     int64  `json:"id"`
	Slug   string `json:"slug"`
	Status Status `json:"status"`

	CompanyName    string `json:"companyName"`
	CompanyWebsite string `json:"companyWebsite,omitempty"`
	CompanyLogoURL string `json:"companyLogoUrl,omitempty"`

	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Seniority    string `json:"seniority"`
	Industry     string `json:"industry,omitempty"`
	Location     string `json:"location"`
	LocationType string `json:"locationType"`
	Region       string `json:"region"`

	SalaryMin      *int64 `json:"salaryMin,omitempty"`
	SalaryMax      *int64 `json:"salaryMax,omitempty"`
	SalaryCurrency string `json:"salaryCurrency"`

	ApplyURL     string `json:"applyUrl"`
	ContactEmail string `json:"contactEmail"` // Never exposed on public routes

	IsFeatured bool  `json:"isFeatured"`
	Views      int64 `json:"views"`
	Clicks     int64 `json:"clicks"`

	CreatedAt  time.Time  `json:"createdAt"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// Approve moves the job into the approved state and restarts its listing window.
func (j *Job) Approve(now time.Time) {
	approvedAt := now
	expiresAt := now.Add(ListingLifetime)
	j.Status = StatusApproved
	j.ApprovedAt = &approvedAt
	j.ExpiresAt = &expiresAt
}

// HasSalary reports whether any salary bound is known
func (j *Job) HasSalary() bool {
	return j.SalaryMin != nil || j.SalaryMax != nil
}
