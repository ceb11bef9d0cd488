package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/slug"
	"github.com/wadjakorntonsri/go-job-board/pkg/ports"
)

// maxSlugAttempts bounds how often an insert is retried with a fresh slug.
const maxSlugAttempts = 3

// SlugFunc produces a candidate slug for a job
type SlugFunc func(companyName, title string) (string, error)

var defaultSlug SlugFunc = slug.Generate

// createWithSlug inserts job under a freshly generated slug, regenerating it
// when the store reports a collision. Any other storage error is returned
// at once.
func createWithSlug(ctx context.Context, repo ports.JobRepository, newSlug SlugFunc, job *domain.Job) error {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		s, err := newSlug(job.CompanyName, job.Title)
		if err != nil {
			return fmt.Errorf("generate slug: %w", err)
		}
		job.Slug = s

		err = repo.Create(ctx, job)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSlugTaken) {
			return fmt.Errorf("insert job: %w", err)
		}
	}
	job.Slug = ""
	return domain.ErrSlugExhausted
}
