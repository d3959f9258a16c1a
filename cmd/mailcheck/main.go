// cmd/mailcheck/main.go
package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/fireplay-backend/internal/config"
	"github.com/your-org/fireplay-backend/internal/infrastructure/secrets"
	"github.com/your-org/fireplay-backend/internal/pkg/email"
	"github.com/your-org/fireplay-backend/internal/pkg/logger"
)

// mailcheck sends one test message through SendGrid with the API's settings
func main() {
	to := flag.String("to", "", "recipient address")
	flag.Parse()

	if *to == "" {
		logrus.Fatal("Usage: mailcheck -to <address>")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		logrus.Fatalf("Failed to set up logging: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if secrets.IsReference(cfg.Email.SendGridAPIKey) {
		accessor, err := secrets.NewManagerAccessor(ctx, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatalf("Failed to connect to Secret Manager: %v", err)
		}
		defer accessor.Close()

		key, err := secrets.NewResolver(accessor, cfg.Secrets.ProjectID, log).Resolve(ctx, cfg.Email.SendGridAPIKey)
		if err != nil {
			log.Fatalf("Failed to resolve SENDGRID_API_KEY: %v", err)
		}
		cfg.Email.SendGridAPIKey = key
	}
	if cfg.Email.SendGridAPIKey == "" {
		log.Fatal("SENDGRID_API_KEY is not set")
	}

	emailService := email.NewEmailService(cfg.Email, log)
	testEmail := &email.Email{
		To:          []string{*to},
		Subject:     "Test email from " + cfg.App.Name,
		HTMLContent: "<h1>Success!</h1><p>SendGrid delivery is working.</p>",
		TextContent: "Success! SendGrid delivery is working.",
		Type:        email.EmailTypeTest,
	}

	if err := emailService.SendEmail(ctx, testEmail); err != nil {
		log.Fatalf("Send failed: %v", err)
	}

	log.Info("✅ Email sent successfully!")
}
