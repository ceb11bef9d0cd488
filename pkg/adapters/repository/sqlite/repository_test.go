package sqlite

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	repo, err := NewSQLiteRepository("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newJob(slug string, createdAt time.Time) *domain.Job {
	salaryMin := int64(60000)
	return &domain.Job{
		Slug:           slug,
		Status:         domain.StatusPending,
		CompanyName:    "Acme",
		Title:          "Pricing Analyst",
		Description:    strings.Repeat("d", 120),
		Category:       "Pricing",
		Seniority:      "Analyst",
		Location:       "Berlin",
		LocationType:   "Onsite",
		Region:         "Europe",
		SalaryMin:      &salaryMin,
		SalaryCurrency: "EUR",
		ApplyURL:       "https://acme.example/apply",
		ContactEmail:   "hr@acme.example",
		CreatedAt:      createdAt,
	}
}

func approve(t *testing.T, repo *SQLiteRepository, job *domain.Job, now time.Time) {
	t.Helper()
	job.Approve(now)
	ok, err := repo.UpdateStatus(context.Background(), job.ID, domain.StatusPending, domain.StatusApproved, job.ApprovedAt, job.ExpiresAt)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	job := newJob("acme-pricing-analyst-ab12", base)
	require.NoError(t, repo.Create(ctx, job))
	assert.NotZero(t, job.ID)

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got.CompanyName)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.True(t, got.CreatedAt.Equal(base))
	require.NotNil(t, got.SalaryMin)
	assert.Equal(t, int64(60000), *got.SalaryMin)
	assert.Nil(t, got.SalaryMax)
	assert.Empty(t, got.CompanyWebsite)
	assert.Nil(t, got.ApprovedAt)

	// pending jobs are not public
	pub, err := repo.GetApprovedBySlug(ctx, job.Slug)
	require.NoError(t, err)
	assert.Nil(t, pub)

	approve(t, repo, job, base.Add(time.Hour))
	pub, err = repo.GetApprovedBySlug(ctx, job.Slug)
	require.NoError(t, err)
	require.NotNil(t, pub)
	require.NotNil(t, pub.ExpiresAt)
	assert.True(t, pub.ExpiresAt.Equal(base.Add(time.Hour).Add(domain.ListingLifetime)))

	missing, err := repo.GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreate_DuplicateSlug(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newJob("same-slug", base)))
	err := repo.Create(ctx, newJob("same-slug", base))
	assert.ErrorIs(t, err, domain.ErrSlugTaken)
}

func TestListApproved_Ordering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	old := newJob("old", base)
	mid := newJob("mid", base.Add(time.Hour))
	recent := newJob("recent", base.Add(2*time.Hour))
	pending := newJob("pending", base.Add(3*time.Hour))
	for _, j := range []*domain.Job{old, mid, recent, pending} {
		require.NoError(t, repo.Create(ctx, j))
	}
	for _, j := range []*domain.Job{old, mid, recent} {
		approve(t, repo, j, base.Add(4*time.Hour))
	}
	ok, err := repo.SetFeatured(ctx, old.ID, true)
	require.NoError(t, err)
	require.True(t, ok)

	jobs, err := repo.ListApproved(ctx)
	require.NoError(t, err)
	var slugs []string
	for _, j := range jobs {
		slugs = append(slugs, j.Slug)
	}
	assert.Equal(t, []string{"old", "recent", "mid"}, slugs)
	assert.True(t, jobs[0].IsFeatured)
}

func TestListByStatus_OldestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newJob("second", base.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, newJob("first", base)))

	jobs, err := repo.ListByStatus(ctx, domain.StatusPending)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "first", jobs[0].Slug)
	assert.Equal(t, "second", jobs[1].Slug)

	none, err := repo.ListByStatus(ctx, domain.StatusRejected)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUpdateStatus_CompareAndSet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	job := newJob("cas", base)
	require.NoError(t, repo.Create(ctx, job))

	ok, err := repo.UpdateStatus(ctx, job.ID, domain.StatusApproved, domain.StatusExpired, nil, nil)
	require.NoError(t, err)
	assert.False(t, ok, "status no longer matches")

	ok, err = repo.UpdateStatus(ctx, job.ID, domain.StatusPending, domain.StatusRejected, nil, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
	assert.Nil(t, got.ApprovedAt)
}

func TestExpireOverdue(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	stale := newJob("stale", base)
	fresh := newJob("fresh", base)
	require.NoError(t, repo.Create(ctx, stale))
	require.NoError(t, repo.Create(ctx, fresh))
	approve(t, repo, stale, base)
	approve(t, repo, fresh, base.Add(20*24*time.Hour))

	n, err := repo.ExpireOverdue(ctx, base.Add(31*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, got.Status)

	got, err = repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
}

func TestCountersAndDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	job := newJob("counted", base)
	require.NoError(t, repo.Create(ctx, job))

	for i := 0; i < 3; i++ {
		ok, err := repo.IncrementViews(ctx, job.ID)
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := repo.IncrementClicks(ctx, job.ID)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Views)
	assert.Equal(t, int64(1), got.Clicks)

	ok, err = repo.IncrementViews(ctx, 424242)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Delete(ctx, job.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateSubscriber_Duplicate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	sub := &domain.Subscriber{Email: "a@b.example", CreatedAt: base}
	require.NoError(t, repo.CreateSubscriber(ctx, sub))
	assert.NotZero(t, sub.ID)

	err := repo.CreateSubscriber(ctx, &domain.Subscriber{Email: "a@b.example", CreatedAt: base})
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)
}
