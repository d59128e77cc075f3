package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/observability"
	"github.com/noah-isme/portfolio-api/internal/repository"
)

// PersistenceError wraps a failed document insert. It is the only error Submit returns
// after validation has passed.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return "failed to store contact submission"
	}
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// RequestValidator checks a decoded contact request.
type RequestValidator interface {
	Struct(req dto.ContactRequest) error
}

// ContactService exposes the contact submission workflow.
type ContactService interface {
	Submit(ctx context.Context, req dto.ContactRequest) (dto.ContactResponse, error)
}

type contactService struct {
	store     repository.DocumentStore
	validator RequestValidator
	notifier  ContactNotifier
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewContactService constructs a contact submission service.
func NewContactService(store repository.DocumentStore, validator RequestValidator, notifier ContactNotifier, logger zerolog.Logger) ContactService {
	return &contactService{
		store:     store,
		validator: validator,
		notifier:  notifier,
		logger:    logger.With().Str("component", "contact_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/portfolio-api/internal/service/contact"),
		now:       time.Now,
	}
}

// Submit stores the submission and then attempts a notification email.
// Persistence failures abort with *PersistenceError; notification failures only
// change the returned email status.
func (s *contactService) Submit(ctx context.Context, req dto.ContactRequest) (dto.ContactResponse, error) {
	ctx, span := s.tracer.Start(ctx, "contact.submit")
	defer span.End()

	if s.validator != nil {
		if err := s.validator.Struct(req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "validation failed")
			observability.ContactSubmissions().WithLabelValues("invalid").Inc()
			return dto.ContactResponse{}, err
		}
	}

	receivedAt := s.now().UTC()
	record := req.Record()
	record["server_received_at"] = receivedAt

	id, err := s.store.CreateDocument(ctx, models.ContactSubmissionCollection, record)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		observability.ContactSubmissions().WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Msg("failed to store contact submission")
		return dto.ContactResponse{}, &PersistenceError{Err: err}
	}
	span.SetAttributes(attribute.String("contact.id", id))
	observability.ContactSubmissions().WithLabelValues("stored").Inc()

	submittedAt := receivedAt
	if req.SubmittedAt != nil {
		submittedAt = req.SubmittedAt.UTC()
	}

	result := s.notifier.Notify(ctx, ContactNotification{
		Name:        req.Name,
		Email:       req.Email,
		Message:     req.Message,
		SubmittedAt: submittedAt,
		ReceivedAt:  receivedAt,
	})
	span.SetAttributes(attribute.Bool("contact.email_sent", result.Sent()))

	s.logger.Info().
		Str("id", id).
		Str("email", maskEmailAddress(req.Email)).
		Bool("email_sent", result.Sent()).
		Msg("contact submission processed")
	span.SetStatus(codes.Ok, "stored")

	return dto.ContactResponse{
		OK:          true,
		ID:          id,
		EmailStatus: result.Status(),
	}, nil
}
