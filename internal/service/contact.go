package service

import (
	"context"
	"errors"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/dto"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/metrics"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/repo"
)

func (s *service) SubmitContact(ctx context.Context, req dto.CreateContactRequest) (*model.ContactMessage, error) {
	req.Normalize()
	if err := validate(ctx, req); err != nil {
		metrics.SubmissionsRejectedTotal.WithLabelValues("contact").Inc()
		return nil, err
	}

	msg := req.ToModel()
	msg.CreatedAt = s.now().UTC()

	if err := s.repo.CreateContactMessage(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("email", msg.Email).Msg("failed to persist contact message")
		return nil, &PersistenceError{Op: "create contact message", Err: err}
	}

	metrics.ContactMessagesTotal.Inc()
	s.log.Info().Int64("contact_id", msg.ID).Str("enquiry_type", msg.EnquiryType).Msg("contact message stored")

	if !s.notifier.ContactReceived(context.WithoutCancel(ctx), *msg) {
		s.log.Warn().Int64("contact_id", msg.ID).Msg("contact message stored but operations notification failed")
	}
	return msg, nil
}

func (s *service) ListContacts(ctx context.Context, f model.ContactFilter) ([]model.ContactMessage, error) {
	if err := validatePaging(f.Limit, f.Offset); err != nil {
		return nil, err
	}
	msgs, err := s.repo.ListContactMessages(ctx, f)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list contact messages")
		return nil, &PersistenceError{Op: "list contact messages", Err: err}
	}
	return msgs, nil
}

// MarkContactRead flags message id as read. Repeating it is a no-op.
func (s *service) MarkContactRead(ctx context.Context, id int64) (*model.ContactMessage, error) {
	msg, err := s.repo.MarkContactMessageRead(ctx, id)
	if errors.Is(err, repo.ErrContactMessageNotFound) {
		return nil, &NotFoundError{Entity: "contact message", ID: id}
	}
	if err != nil {
		s.log.Error().Err(err).Int64("contact_id", id).Msg("failed to mark contact message read")
		return nil, &PersistenceError{Op: "mark contact message read", Err: err}
	}
	return msg, nil
}
