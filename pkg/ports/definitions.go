package ports

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/listing"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/moderation"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/validation"
)

// JobRepository defines storage operations for jobs.
// Lookups return (nil, nil) when nothing matches.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error // domain.ErrSlugTaken on slug collision
	GetByID(ctx context.Context, id int64) (*domain.Job, error)
	GetApprovedBySlug(ctx context.Context, slug string) (*domain.Job, error)
	ListApproved(ctx context.Context) ([]domain.Job, error) // featured first, then newest
	ListByStatus(ctx context.Context, status domain.Status) ([]domain.Job, error)
	Delete(ctx context.Context, id int64) (bool, error)

	// Moderation
	UpdateStatus(ctx context.Context, id int64, from, to domain.Status, approvedAt, expiresAt *time.Time) (bool, error)
	SetFeatured(ctx context.Context, id int64, featured bool) (bool, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)

	// Stats
	IncrementViews(ctx context.Context, id int64) (bool, error)
	IncrementClicks(ctx context.Context, id int64) (bool, error)
}

// SubscriberRepository stores newsletter signups
type SubscriberRepository interface {
	CreateSubscriber(ctx context.Context, sub *domain.Subscriber) error // domain.ErrAlreadySubscribed on duplicate
}

// RateLimiter decides whether key may perform one more action in the current window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Authenticator resolves the admin principal behind a request.
type Authenticator interface {
	Authenticate(r *http.Request) (*domain.Principal, error)
}

// SheetCodec reads and writes the bulk-import spreadsheet format.
type SheetCodec interface {
	ReadRows(filename string, r io.Reader) ([]domain.ImportRow, error)
	WriteTemplate(w io.Writer) error
	WriteJobs(w io.Writer, jobs []domain.Job) error
}

// JobService defines the public job operations
type JobService interface {
	Submit(ctx context.Context, clientKey string, in validation.JobInput) (*domain.Job, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Job, error)
	Browse(ctx context.Context, q listing.Query) (*listing.Result, error)
	ApprovedJobs(ctx context.Context) ([]domain.Job, error)

	// Stats
	RecordView(ctx context.Context, id int64) error
	RecordClick(ctx context.Context, id int64) error
}

// AdminService defines moderation and admin-authored operations
type AdminService interface {
	ListByStatus(ctx context.Context, status domain.Status) ([]domain.Job, error)
	Create(ctx context.Context, in validation.JobInput) (*domain.Job, error)
	Moderate(ctx context.Context, id int64, action moderation.Action, featured bool) (*domain.Job, error)
	Delete(ctx context.Context, id int64) error
	ExpireOverdue(ctx context.Context) (int64, error)
}

// ImportService turns spreadsheet rows into approved jobs
type ImportService interface {
	Import(ctx context.Context, rows []domain.ImportRow) *domain.ImportReport
}

// NewsletterService manages subscribers
type NewsletterService interface {
	Subscribe(ctx context.Context, in validation.NewsletterInput) (*domain.Subscriber, error)
}
