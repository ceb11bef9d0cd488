// Package moderation defines the job moderation state machine.
//
// Valid status graph:
//
//	pending ──► approved ──► expired
//	   │           ▲
//	   └──► rejected
//
// expired is terminal. Featuring is orthogonal to status.
package moderation

import (
	"fmt"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
)

// Action is an admin moderation request
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionExpire  Action = "expire"
	ActionFeature Action = "feature"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[domain.Status][]domain.Status{
	domain.StatusPending:  {domain.StatusApproved, domain.StatusRejected},
	domain.StatusApproved: {domain.StatusExpired},
	domain.StatusRejected: {domain.StatusApproved},
}

// ParseAction converts a raw string to an Action.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	switch a {
	case ActionApprove, ActionReject, ActionExpire, ActionFeature:
		return a, nil
	}
	return "", fmt.Errorf("unknown moderation action %q", s)
}

// Target returns the status an action moves a job to. Feature has none.
func (a Action) Target() (domain.Status, bool) {
	switch a {
	case ActionApprove:
		return domain.StatusApproved, true
	case ActionReject:
		return domain.StatusRejected, true
	case ActionExpire:
		return domain.StatusExpired, true
	}
	return "", false
}

// IsTransitionAllowed returns true when moving from → to is permitted.
func IsTransitionAllowed(from, to domain.Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
