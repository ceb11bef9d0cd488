package services

import (
	"context"
	"strings"
	"time"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/validation"
	"github.com/wadjakorntonsri/go-job-board/pkg/ports"
)

type NewsletterService struct {
	repo ports.SubscriberRepository
	now  func() time.Time
}

func NewNewsletterService(repo ports.SubscriberRepository) *NewsletterService {
	return &NewsletterService{repo: repo, now: time.Now}
}

// Subscribe stores the lowercased email. A repeat signup, in any letter
// case, returns domain.ErrAlreadySubscribed.
func (s *NewsletterService) Subscribe(ctx context.Context, in validation.NewsletterInput) (*domain.Subscriber, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if fe := validation.ValidateNewsletter(in); fe != nil {
		return nil, fe
	}

	sub := &domain.Subscriber{Email: in.Email, CreatedAt: s.now().UTC()}
	if err := s.repo.CreateSubscriber(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Ensure interface compliance
var _ ports.NewsletterService = (*NewsletterService)(nil)
