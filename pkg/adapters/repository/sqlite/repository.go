package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	msqlite "modernc.org/sqlite"                        // Local SQLite driver
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
	"github.com/wadjakorntonsri/go-job-board/pkg/ports"
)

// timeLayout is fixed width so text comparison orders like time.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const jobColumns = `id, slug, status, company_name, company_website, company_logo_url,
	title, description, category, seniority, industry, location, location_type, region,
	salary_min, salary_max, salary_currency, apply_url, contact_email,
	is_featured, views, clicks, created_at, approved_at, expires_at`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if driverName == "sqlite" {
		if strings.Contains(dbURL, "mode=memory") || strings.Contains(dbURL, ":memory:") {
			// each connection to a memory database would otherwise see its own copy
			db.SetMaxOpenConns(1)
		} else if err := enableWAL(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

// enableWAL lets readers proceed while a single writer holds the lock. The
// journal mode is stored in the database file, so one connection is enough.
func enableWAL(db *sql.DB) error {
	_, err := db.Exec(`PRAGMA journal_mode = WAL`)
	return err
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS jobs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		slug TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL DEFAULT 'pending',
		company_name TEXT NOT NULL,
		company_website TEXT,
		company_logo_url TEXT,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		seniority TEXT NOT NULL,
		industry TEXT,
		location TEXT NOT NULL,
		location_type TEXT NOT NULL,
		region TEXT NOT NULL,
		salary_min INTEGER,
		salary_max INTEGER,
		salary_currency TEXT DEFAULT 'EUR',
		apply_url TEXT NOT NULL,
		contact_email TEXT NOT NULL,
		is_featured INTEGER NOT NULL DEFAULT 0,
		views INTEGER NOT NULL DEFAULT 0,
		clicks INTEGER NOT NULL DEFAULT 0,
		created_at TEXT,
		approved_at TEXT,
		expires_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
	CREATE INDEX IF NOT EXISTS idx_jobs_category ON jobs(category);
	CREATE INDEX IF NOT EXISTS idx_jobs_region ON jobs(region);
	CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);

	CREATE TABLE IF NOT EXISTS subscribers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		created_at TEXT
	);
	`
	_, err := db.Exec(query)
	return err
}

// Close releases the underlying database handle
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (slug, status, company_name, company_website, company_logo_url,
			  title, description, category, seniority, industry, location, location_type, region,
			  salary_min, salary_max, salary_currency, apply_url, contact_email,
			  is_featured, views, clicks, created_at, approved_at, expires_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		job.Slug, string(job.Status), job.CompanyName, nullString(job.CompanyWebsite), nullString(job.CompanyLogoURL),
		job.Title, job.Description, job.Category, job.Seniority, nullString(job.Industry), job.Location, job.LocationType, job.Region,
		nullInt(job.SalaryMin), nullInt(job.SalaryMax), job.SalaryCurrency, job.ApplyURL, job.ContactEmail,
		job.IsFeatured, job.Views, job.Clicks, formatTime(job.CreatedAt), formatTimePtr(job.ApprovedAt), formatTimePtr(job.ExpiresAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	job.ID = id
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = ?`
	return r.getOne(ctx, query, id)
}

func (r *SQLiteRepository) GetApprovedBySlug(ctx context.Context, slug string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE slug = ? AND status = ?`
	return r.getOne(ctx, query, slug, string(domain.StatusApproved))
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, args ...interface{}) (*domain.Job, error) {
	job, err := scanJob(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (r *SQLiteRepository) ListApproved(ctx context.Context) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE status = ?
			  ORDER BY is_featured DESC, created_at DESC, id DESC`
	return r.list(ctx, query, string(domain.StatusApproved))
}

func (r *SQLiteRepository) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE status = ? ORDER BY created_at ASC, id ASC`
	return r.list(ctx, query, string(status))
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return r.execAffected(ctx, `DELETE FROM jobs WHERE id = ?`, id)
}

// UpdateStatus moves a job from one status to another only if it is still in
// the expected status. Nil timestamps leave the stored values untouched.
func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.Status, approvedAt, expiresAt *time.Time) (bool, error) {
	query := `UPDATE jobs SET status = ?,
			  approved_at = COALESCE(?, approved_at),
			  expires_at = COALESCE(?, expires_at)
			  WHERE id = ? AND status = ?`
	return r.execAffected(ctx, query, string(to), formatTimePtr(approvedAt), formatTimePtr(expiresAt), id, string(from))
}

func (r *SQLiteRepository) SetFeatured(ctx context.Context, id int64, featured bool) (bool, error) {
	return r.execAffected(ctx, `UPDATE jobs SET is_featured = ? WHERE id = ?`, featured, id)
}

// ExpireOverdue expires every approved job whose expiry has passed.
func (r *SQLiteRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE jobs SET status = ?
			  WHERE status = ? AND expires_at IS NOT NULL AND expires_at <= ?`
	res, err := r.db.ExecContext(ctx, query, string(domain.StatusExpired), string(domain.StatusApproved), formatTime(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) IncrementViews(ctx context.Context, id int64) (bool, error) {
	return r.execAffected(ctx, `UPDATE jobs SET views = views + 1 WHERE id = ?`, id)
}

func (r *SQLiteRepository) IncrementClicks(ctx context.Context, id int64) (bool, error) {
	return r.execAffected(ctx, `UPDATE jobs SET clicks = clicks + 1 WHERE id = ?`, id)
}

func (r *SQLiteRepository) CreateSubscriber(ctx context.Context, sub *domain.Subscriber) error {
	query := `INSERT INTO subscribers (email, created_at) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, sub.Email, formatTime(sub.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadySubscribed
		}
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	sub.ID = id
	return nil
}

func (r *SQLiteRepository) execAffected(ctx context.Context, query string, args ...interface{}) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(s scanner) (*domain.Job, error) {
	var (
		job                               domain.Job
		status                            string
		website, logo, industry, currency sql.NullString
		salaryMin, salaryMax              sql.NullInt64
		createdAt, approvedAt, expiresAt  sql.NullString
	)

	err := s.Scan(
		&job.ID, &job.Slug, &status, &job.CompanyName, &website, &logo,
		&job.Title, &job.Description, &job.Category, &job.Seniority, &industry, &job.Location, &job.LocationType, &job.Region,
		&salaryMin, &salaryMax, &currency, &job.ApplyURL, &job.ContactEmail,
		&job.IsFeatured, &job.Views, &job.Clicks, &createdAt, &approvedAt, &expiresAt,
	)
	if err != nil {
		return nil, err
	}

	job.Status = domain.Status(status)
	job.CompanyWebsite = website.String
	job.CompanyLogoURL = logo.String
	job.Industry = industry.String
	job.SalaryCurrency = currency.String
	if job.SalaryCurrency == "" {
		job.SalaryCurrency = domain.DefaultCurrency
	}
	if salaryMin.Valid {
		job.SalaryMin = &salaryMin.Int64
	}
	if salaryMax.Valid {
		job.SalaryMax = &salaryMax.Int64
	}
	if t := parseTime(createdAt); t != nil {
		job.CreatedAt = *t
	}
	job.ApprovedAt = parseTime(approvedAt)
	job.ExpiresAt = parseTime(expiresAt)
	return &job, nil
}

func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	// libsql and non-extended codes only surface the message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func formatTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	for _, layout := range []string{timeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}

// Ensure interface compliance
var (
	_ ports.JobRepository        = (*SQLiteRepository)(nil)
	_ ports.SubscriberRepository = (*SQLiteRepository)(nil)
)
