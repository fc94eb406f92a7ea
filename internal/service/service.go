package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/dto"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/export"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/metrics"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/repo"
	"github.com/IEC2025/UeabInnovationHub-sub000/pkg/validator"
)

// Notifier is the best-effort side channel fired after a successful write.
// Its result is informational only.
type Notifier interface {
	RegistrationReceived(ctx context.Context, reg model.Registration, fees model.FeeTable) bool
	ContactReceived(ctx context.Context, m model.ContactMessage) bool
}

type Service interface {
	CreateRegistration(ctx context.Context, req dto.CreateRegistrationRequest) (*model.Registration, error)
	ListRegistrations(ctx context.Context, f model.RegistrationFilter) ([]model.Registration, error)
	GetRegistration(ctx context.Context, id int64) (*model.Registration, error)
	SetRegistrationStatus(ctx context.Context, id int64, status string) (*model.Registration, error)
	ExportRegistrations(ctx context.Context, f model.RegistrationFilter) (*Report, error)

	SubmitContact(ctx context.Context, req dto.CreateContactRequest) (*model.ContactMessage, error)
	ListContacts(ctx context.Context, f model.ContactFilter) ([]model.ContactMessage, error)
	MarkContactRead(ctx context.Context, id int64) (*model.ContactMessage, error)

	Subscribe(ctx context.Context, req dto.NewsletterRequest) (*model.NewsletterSubscriber, error)
	ListSubscribers(ctx context.Context) ([]model.NewsletterSubscriber, error)
}

// Report is a rendered export ready for download.
type Report struct {
	Filename string
	Data     []byte
	Rows     int
}

type service struct {
	repo     repo.Repository
	notifier Notifier
	fees     model.FeeTable
	exporter *export.Generator
	log      *zerolog.Logger
	now      func() time.Time
}

func NewService(repo repo.Repository, notifier Notifier, fees model.FeeTable, logger *zerolog.Logger) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		fees:     fees,
		exporter: export.NewGenerator(fees),
		log:      logger,
		now:      time.Now,
	}
}

func (s *service) CreateRegistration(ctx context.Context, req dto.CreateRegistrationRequest) (*model.Registration, error) {
	req.Normalize()
	if err := validate(ctx, req); err != nil {
		metrics.SubmissionsRejectedTotal.WithLabelValues("registration").Inc()
		return nil, err
	}

	reg := req.ToModel()
	reg.Status = model.StatusPending
	reg.SubmittedAt = s.now().UTC()

	if err := s.repo.CreateRegistration(ctx, reg); err != nil {
		s.log.Error().Err(err).Str("email", reg.Email).Msg("failed to persist registration")
		return nil, &PersistenceError{Op: "create registration", Err: err}
	}

	metrics.RegistrationsCreatedTotal.WithLabelValues(string(reg.RegistrationType)).Inc()
	s.log.Info().
		Int64("registration_id", reg.ID).
		Str("registration_type", string(reg.RegistrationType)).
		Msg("registration created successfully")

	// The row is stored; a client disconnect must not abort the notification.
	if !s.notifier.RegistrationReceived(context.WithoutCancel(ctx), *reg, s.fees) {
		s.log.Warn().Int64("registration_id", reg.ID).Msg("registration stored but operations notification failed")
	}

	return reg, nil
}

func (s *service) ListRegistrations(ctx context.Context, f model.RegistrationFilter) ([]model.Registration, error) {
	if err := validateFilter(f); err != nil {
		return nil, err
	}

	regs, err := s.repo.ListRegistrations(ctx, f)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list registrations")
		return nil, &PersistenceError{Op: "list registrations", Err: err}
	}
	return regs, nil
}

func (s *service) GetRegistration(ctx context.Context, id int64) (*model.Registration, error) {
	reg, err := s.repo.GetRegistrationByID(ctx, id)
	if errors.Is(err, repo.ErrRegistrationNotFound) {
		return nil, &NotFoundError{Entity: "registration", ID: id}
	}
	if err != nil {
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to get registration")
		return nil, &PersistenceError{Op: "get registration", Err: err}
	}
	return reg, nil
}

// SetRegistrationStatus overwrites the status of registration id. Every
// legal status may follow every other.
func (s *service) SetRegistrationStatus(ctx context.Context, id int64, status string) (*model.Registration, error) {
	req := dto.UpdateStatusRequest{Status: status}
	req.Normalize()
	if err := validate(ctx, req); err != nil {
		return nil, err
	}
	st := model.Status(req.Status)

	reg, err := s.repo.UpdateRegistrationStatus(ctx, id, st)
	if errors.Is(err, repo.ErrRegistrationNotFound) {
		return nil, &NotFoundError{Entity: "registration", ID: id}
	}
	if err != nil {
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to update registration status")
		return nil, &PersistenceError{Op: "update registration status", Err: err}
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(st)).Inc()
	s.log.Info().
		Int64("registration_id", id).
		Str("status", string(st)).
		Msg("registration status updated")
	return reg, nil
}

func (s *service) ExportRegistrations(ctx context.Context, f model.RegistrationFilter) (*Report, error) {
	regs, err := s.ListRegistrations(ctx, f)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var buf bytes.Buffer
	if err := s.exporter.Write(&buf, regs, now); err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}

	s.log.Info().Int("rows", len(regs)).Msg("registrations exported")
	return &Report{Filename: export.Filename(now), Data: buf.Bytes(), Rows: len(regs)}, nil
}

func validateFilter(f model.RegistrationFilter) error {
	var errs validator.Errors
	if f.Status != "" && !f.Status.Valid() {
		errs = append(errs, validator.FieldError{Field: "status", Message: validator.ErrNotAllowed})
	}
	if f.Type != "" && !f.Type.Valid() {
		errs = append(errs, validator.FieldError{Field: "type", Message: validator.ErrNotAllowed})
	}
	errs = append(errs, pagingErrors(f.Limit, f.Offset)...)
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func validatePaging(limit, offset int) error {
	if errs := pagingErrors(limit, offset); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func pagingErrors(limit, offset int) validator.Errors {
	var errs validator.Errors
	if limit < 0 {
		errs = append(errs, validator.FieldError{Field: "limit", Message: validator.ErrInvalidFormat})
	}
	if offset < 0 {
		errs = append(errs, validator.FieldError{Field: "offset", Message: validator.ErrInvalidFormat})
	}
	return errs
}

// validate runs the struct validator and converts field failures into a
// ValidationError.
func validate(ctx context.Context, req any) error {
	err := validator.Validate(ctx, req)
	if err == nil {
		return nil
	}
	var fields validator.Errors
	if errors.As(err, &fields) {
		return &ValidationError{Fields: fields}
	}
	return fmt.Errorf("validate request: %w", err)
}
