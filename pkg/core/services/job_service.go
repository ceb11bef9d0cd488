package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/listing"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/validation"
	"github.com/wadjakorntonsri/go-job-board/pkg/ports"
)

type JobService struct {
	repo    ports.JobRepository
	limiter ports.RateLimiter
	now     func() time.Time
	newSlug SlugFunc
}

func NewJobService(repo ports.JobRepository, limiter ports.RateLimiter) *JobService {
	return &JobService{
		repo:    repo,
		limiter: limiter,
		now:     time.Now,
		newSlug: defaultSlug,
	}
}

// Submit stores a public submission as pending after rate limiting and
// validation. Validation failures are returned as domain.FieldErrors.
func (s *JobService) Submit(ctx context.Context, clientKey string, in validation.JobInput) (*domain.Job, error) {
	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, clientKey)
		if err != nil {
			log.Printf("[jobs] rate limiter unavailable, allowing %s: %v", clientKey, err)
		} else if !ok {
			return nil, domain.ErrRateLimited
		}
	}

	if fe := validation.ValidateJob(in); fe != nil {
		return nil, fe
	}

	job := in.ToJob()
	job.Status = domain.StatusPending
	job.CreatedAt = s.now().UTC()

	if err := createWithSlug(ctx, s.repo, s.newSlug, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetBySlug returns an approved job and counts the view.
func (s *JobService) GetBySlug(ctx context.Context, slug string) (*domain.Job, error) {
	job, err := s.repo.GetApprovedBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get job %q: %w", slug, err)
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}

	if _, err := s.repo.IncrementViews(ctx, job.ID); err != nil {
		log.Printf("[jobs] failed to count view for job %d: %v", job.ID, err)
	} else {
		job.Views++
	}
	return job, nil
}

// Browse runs the listing engine over every approved job.
func (s *JobService) Browse(ctx context.Context, q listing.Query) (*listing.Result, error) {
	jobs, err := s.repo.ListApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("list approved jobs: %w", err)
	}
	res := listing.Run(jobs, q, s.now())
	return &res, nil
}

func (s *JobService) ApprovedJobs(ctx context.Context) ([]domain.Job, error) {
	return s.repo.ListApproved(ctx)
}

func (s *JobService) RecordView(ctx context.Context, id int64) error {
	return found(s.repo.IncrementViews(ctx, id))
}

func (s *JobService) RecordClick(ctx context.Context, id int64) error {
	return found(s.repo.IncrementClicks(ctx, id))
}

// found turns a (matched, err) repository result into ErrNotFound when
// nothing matched.
func found(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// Ensure interface compliance
var _ ports.JobService = (*JobService)(nil)
