package moderation_test

import (
	"testing"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/moderation"
)

// ── ParseAction ────────────────────────────────────────────────────────────

func TestParseAction_ValidValues(t *testing.T) {
	for _, s := range []string{"approve", "reject", "expire", "feature"} {
		got, err := moderation.ParseAction(s)
		if err != nil {
			t.Errorf("ParseAction(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseAction(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseAction_InvalidValue(t *testing.T) {
	for _, s := range []string{"", "APPROVE", "delete"} {
		if _, err := moderation.ParseAction(s); err == nil {
			t.Errorf("ParseAction(%q) expected error, got nil", s)
		}
	}
}

func TestFeatureHasNoTarget(t *testing.T) {
	if _, ok := moderation.ActionFeature.Target(); ok {
		t.Error("feature should not change status")
	}
	if to, ok := moderation.ActionApprove.Target(); !ok || to != domain.StatusApproved {
		t.Errorf("approve target = %q, %v", to, ok)
	}
}

// ── IsTransitionAllowed ────────────────────────────────────────────────────

func TestIsTransitionAllowed_Valid(t *testing.T) {
	cases := []struct{ from, to domain.Status }{
		{domain.StatusPending, domain.StatusApproved},
		{domain.StatusPending, domain.StatusRejected},
		{domain.StatusApproved, domain.StatusExpired},
		{domain.StatusRejected, domain.StatusApproved},
	}
	for _, c := range cases {
		if !moderation.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) = false, want true", c.from, c.to)
		}
	}
}

func TestIsTransitionAllowed_Invalid(t *testing.T) {
	cases := []struct{ from, to domain.Status }{
		{domain.StatusPending, domain.StatusExpired},
		{domain.StatusApproved, domain.StatusApproved},
		{domain.StatusApproved, domain.StatusRejected},
		{domain.StatusApproved, domain.StatusPending},
		{domain.StatusRejected, domain.StatusExpired},
		{domain.StatusRejected, domain.StatusRejected},
	}
	for _, c := range cases {
		if moderation.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) = true, want false", c.from, c.to)
		}
	}
}

func TestExpiredIsTerminal(t *testing.T) {
	for _, to := range []domain.Status{domain.StatusPending, domain.StatusApproved, domain.StatusRejected, domain.StatusExpired} {
		if moderation.IsTransitionAllowed(domain.StatusExpired, to) {
			t.Errorf("expired → %s should not be allowed", to)
		}
	}
}
