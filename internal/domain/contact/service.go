// internal/domain/contact/service.go
package contact

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Message is a contact form submission
type Message struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Mailer forwards a contact message to the support inbox
type Mailer interface {
	SendContactMessage(ctx context.Context, msg *Message) error
}

// Service handles the contact form
type Service struct {
	mailer   Mailer
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewService creates a contact service. mailer may be nil, in which case
// messages are only logged.
func NewService(mailer Mailer, log logrus.FieldLogger) *Service {
	return &Service{
		mailer:   mailer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// Submit validates and forwards a message
func (s *Service) Submit(ctx context.Context, msg *Message) error {
	if err := s.validate.Struct(msg); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"from":    msg.Email,
		"subject": msg.Subject,
	}).Info("contact message received")

	if s.mailer == nil {
		return nil
	}
	if err := s.mailer.SendContactMessage(ctx, msg); err != nil {
		s.log.WithError(err).Error("failed to forward contact message")
		return fmt.Errorf("failed to forward contact message: %w", err)
	}
	return nil
}
