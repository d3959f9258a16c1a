// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"github.com/your-org/fireplay-backend/internal/config"
	"github.com/your-org/fireplay-backend/internal/domain/contact"
	"github.com/your-org/fireplay-backend/internal/domain/identity"
	"github.com/your-org/fireplay-backend/internal/domain/order"
)

const sendPath = "/v3/mail/send"

// EmailService sends transactional mail through SendGrid
type EmailService struct {
	config    config.EmailConfig
	templates map[string]*template.Template
	log       logrus.FieldLogger
}

// NewEmailService creates a new email service
func NewEmailService(cfg config.EmailConfig, log logrus.FieldLogger) *EmailService {
	if cfg.SendGridHost == "" {
		cfg.SendGridHost = "https://api.sendgrid.com"
	}
	return &EmailService{
		config: cfg,
		templates: map[string]*template.Template{
			string(EmailTypeOrderConfirmation): template.Must(template.New("order_confirmation").Parse(orderConfirmationTemplate)),
			string(EmailTypeContact):           template.Must(template.New("contact").Parse(contactTemplate)),
		},
		log: log,
	}
}

// SendEmail sends an email through the SendGrid v3 API
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}

	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(s.config.FromName, s.config.FromEmail))
	m.Subject = email.Subject

	p := mail.NewPersonalization()
	for _, to := range email.To {
		p.AddTos(mail.NewEmail("", to))
	}
	m.AddPersonalizations(p)

	if email.ReplyTo != "" {
		m.SetReplyTo(mail.NewEmail("", email.ReplyTo))
	}
	// SendGrid wants text/plain before text/html
	if email.TextContent != "" {
		m.AddContent(mail.NewContent("text/plain", email.TextContent))
	}
	m.AddContent(mail.NewContent("text/html", email.HTMLContent))

	request := sendgrid.GetRequest(s.config.SendGridAPIKey, sendPath, s.config.SendGridHost)
	request.Method = http.MethodPost
	request.Body = mail.GetRequestBody(m)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}

	s.log.WithFields(logrus.Fields{
		"type":       email.Type,
		"recipients": len(email.To),
	}).Info("Email sent")
	return nil
}

// SendOrderConfirmation mails the receipt of a placed order to the buyer
func (s *EmailService) SendOrderConfirmation(ctx context.Context, to identity.Identity, o *order.Order) error {
	if to.Email == "" {
		return fmt.Errorf("buyer has no email address")
	}

	data := OrderConfirmationData{
		EmailTemplateData: GetBaseTemplateData(s.config.FromName, to.DisplayName, to.Email),
		OrderNumber:       o.ID,
		OrderDate:         o.Date.Format("January 2, 2006"),
		OrderTotal:        o.Total,
	}
	for _, item := range o.Items {
		data.Items = append(data.Items, OrderItem{Name: item.Name, Price: item.Price, ImageURL: item.BackgroundImage})
	}

	htmlContent, err := s.renderTemplate(string(EmailTypeOrderConfirmation), data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{to.Email},
		Subject:     fmt.Sprintf("Order Confirmation - %s", o.ID),
		HTMLContent: htmlContent,
		TextContent: fmt.Sprintf("Thanks for your order %s. Total: $%d.", o.ID, o.Total),
		Type:        EmailTypeOrderConfirmation,
	})
}

// SendContactMessage forwards a contact form message to the support inbox
func (s *EmailService) SendContactMessage(ctx context.Context, msg *contact.Message) error {
	data := ContactData{
		EmailTemplateData: GetBaseTemplateData(s.config.FromName, msg.Name, msg.Email),
		Subject:           msg.Subject,
		Message:           msg.Message,
	}

	htmlContent, err := s.renderTemplate(string(EmailTypeContact), data)
	if err != nil {
		return fmt.Errorf("failed to render contact template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{s.config.ContactInbox},
		ReplyTo:     msg.Email,
		Subject:     "[Contact] " + msg.Subject,
		HTMLContent: htmlContent,
		TextContent: msg.Message,
		Type:        EmailTypeContact,
	})
}

// renderTemplate renders an email template with data
func (s *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := s.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}
