package service

import (
	"context"
	"errors"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/dto"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/metrics"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/repo"
)

func (s *service) Subscribe(ctx context.Context, req dto.NewsletterRequest) (*model.NewsletterSubscriber, error) {
	req.Normalize()
	if err := validate(ctx, req); err != nil {
		metrics.SubmissionsRejectedTotal.WithLabelValues("newsletter").Inc()
		return nil, err
	}

	sub := &model.NewsletterSubscriber{Email: req.Email, CreatedAt: s.now().UTC()}
	err := s.repo.CreateNewsletterSubscriber(ctx, sub)
	if errors.Is(err, repo.ErrDuplicateSubscriber) {
		return nil, &ConflictError{Entity: "newsletter subscriber", Field: "email", Value: req.Email}
	}
	if err != nil {
		s.log.Error().Err(err).Msg("failed to persist newsletter subscriber")
		return nil, &PersistenceError{Op: "create newsletter subscriber", Err: err}
	}

	metrics.NewsletterSubscriptionsTotal.Inc()
	s.log.Info().Int64("subscriber_id", sub.ID).Msg("newsletter subscription stored")
	return sub, nil
}

func (s *service) ListSubscribers(ctx context.Context) ([]model.NewsletterSubscriber, error) {
	subs, err := s.repo.ListNewsletterSubscribers(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list newsletter subscribers")
		return nil, &PersistenceError{Op: "list newsletter subscribers", Err: err}
	}
	return subs, nil
}
