package services

import (
	"context"
	"fmt"
	"time"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/moderation"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/validation"
	"github.com/wadjakorntonsri/go-job-board/pkg/ports"
)

type AdminService struct {
	repo    ports.JobRepository
	now     func() time.Time
	newSlug SlugFunc
}

func NewAdminService(repo ports.JobRepository) *AdminService {
	return &AdminService{
		repo:    repo,
		now:     time.Now,
		newSlug: defaultSlug,
	}
}

func (s *AdminService) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Job, error) {
	return s.repo.ListByStatus(ctx, status)
}

// Create stores an admin-authored job, approved on insert.
func (s *AdminService) Create(ctx context.Context, in validation.JobInput) (*domain.Job, error) {
	if fe := validation.ValidateJob(in); fe != nil {
		return nil, fe
	}

	now := s.now().UTC()
	job := in.ToJob()
	job.CreatedAt = now
	job.Approve(now)

	if err := createWithSlug(ctx, s.repo, s.newSlug, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Moderate applies action to the job. Feature sets the featured flag in any
// status; every other action must be an allowed status transition.
func (s *AdminService) Moderate(ctx context.Context, id int64, action moderation.Action, featured bool) (*domain.Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}

	to, changesStatus := action.Target()
	if !changesStatus {
		if err := found(s.repo.SetFeatured(ctx, id, featured)); err != nil {
			return nil, err
		}
		job.IsFeatured = featured
		return job, nil
	}

	from := job.Status
	if !moderation.IsTransitionAllowed(from, to) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, from, to)
	}

	var approvedAt, expiresAt *time.Time
	if to == domain.StatusApproved {
		job.Approve(s.now().UTC())
		approvedAt, expiresAt = job.ApprovedAt, job.ExpiresAt
	}

	ok, err := s.repo.UpdateStatus(ctx, id, from, to, approvedAt, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("update job %d: %w", id, err)
	}
	if !ok {
		// someone else moved the job first
		return nil, fmt.Errorf("%w: job %d is no longer %s", domain.ErrInvalidTransition, id, from)
	}
	job.Status = to
	return job, nil
}

func (s *AdminService) Delete(ctx context.Context, id int64) error {
	return found(s.repo.Delete(ctx, id))
}

// ExpireOverdue expires every approved job past its expiry time.
func (s *AdminService) ExpireOverdue(ctx context.Context) (int64, error) {
	return s.repo.ExpireOverdue(ctx, s.now().UTC())
}

// Ensure interface compliance
var _ ports.AdminService = (*AdminService)(nil)
