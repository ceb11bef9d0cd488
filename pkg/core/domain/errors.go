package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrSlugTaken         = errors.New("slug already exists")
	ErrSlugExhausted     = errors.New("could not allocate a unique slug")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrRateLimited       = errors.New("rate limit exceeded")
	ErrUnauthorized      = errors.New("unauthorized")
)

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Merge appends every message of other into fe
func (fe FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		fe[field] = append(fe[field], msgs...)
	}
}

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(fe[f], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
