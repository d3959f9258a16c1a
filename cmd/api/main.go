// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/fireplay-backend/internal/config"
	"github.com/your-org/fireplay-backend/internal/domain/cart"
	"github.com/your-org/fireplay-backend/internal/domain/catalog"
	"github.com/your-org/fireplay-backend/internal/domain/checkout"
	"github.com/your-org/fireplay-backend/internal/domain/collection"
	"github.com/your-org/fireplay-backend/internal/domain/contact"
	"github.com/your-org/fireplay-backend/internal/domain/identity"
	"github.com/your-org/fireplay-backend/internal/domain/order"
	"github.com/your-org/fireplay-backend/internal/domain/session"
	"github.com/your-org/fireplay-backend/internal/domain/store"
	"github.com/your-org/fireplay-backend/internal/domain/user"
	"github.com/your-org/fireplay-backend/internal/infrastructure/database/firestore"
	"github.com/your-org/fireplay-backend/internal/infrastructure/database/memory"
	"github.com/your-org/fireplay-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/fireplay-backend/internal/infrastructure/database/redis"
	"github.com/your-org/fireplay-backend/internal/infrastructure/identity/firebase"
	"github.com/your-org/fireplay-backend/internal/infrastructure/identity/local"
	"github.com/your-org/fireplay-backend/internal/infrastructure/messaging/rabbitmq"
	"github.com/your-org/fireplay-backend/internal/infrastructure/rawg"
	"github.com/your-org/fireplay-backend/internal/infrastructure/secrets"
	"github.com/your-org/fireplay-backend/internal/interfaces/http"
	"github.com/your-org/fireplay-backend/internal/interfaces/http/routes"
	"github.com/your-org/fireplay-backend/internal/pkg/auth"
	"github.com/your-org/fireplay-backend/internal/pkg/email"
	"github.com/your-org/fireplay-backend/internal/pkg/logger"
	"github.com/your-org/fireplay-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		logrus.Fatalf("Failed to set up logging: %v", err)
	}

	if err := resolveSecrets(ctx, cfg, log); err != nil {
		log.Fatalf("Failed to resolve secrets: %v", err)
	}

	log.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Per-user documents
	userStore, db, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Store.Backend, err)
	}
	defer userStore.Close()

	if err := userStore.Ping(ctx); err != nil {
		log.Fatalf("Store health check failed: %v", err)
	}

	idp, err := openIdentity(ctx, cfg, db, log)
	if err != nil {
		log.Fatalf("Failed to set up %s identity: %v", cfg.Identity.Provider, err)
	}

	checks := map[string]http.HealthCheck{"store": userStore.Ping}

	// Catalog, cached in Redis when enabled
	var catalogClient catalog.Client = rawg.NewClient(cfg.Catalog, log.WithField("component", "rawg"))
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewConnection(cfg, log)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		catalogClient = redis.NewCatalogCache(catalogClient, redisClient, cfg.Catalog, log)
		checks["redis"] = redisClient.Health
	}

	// One session and one collection controller per signed-in user
	pricing := cart.NewPricePolicy(cfg.Pricing.Mode)
	collectionLog := log.WithField("component", "collections")
	sessions := session.NewRegistry(func(s *session.Session) *collection.Controller {
		return collection.NewController(s, userStore, userStore, pricing, collectionLog)
	})

	var checkoutOpts []checkout.Option
	var mailer contact.Mailer

	if cfg.Messaging.RabbitMQURL != "" {
		publisher, err := rabbitmq.Dial(cfg.Messaging.RabbitMQURL, cfg.Messaging.OrderQueue, log)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
		checkoutOpts = append(checkoutOpts, checkout.WithPublisher(publisher))
	}

	if cfg.Email.SendGridAPIKey != "" {
		emailService := email.NewEmailService(cfg.Email, log.WithField("component", "email"))
		checkoutOpts = append(checkoutOpts, checkout.WithNotifier(emailService))
		mailer = emailService
	} else {
		log.Warn("SENDGRID_API_KEY not set, emails are disabled")
	}

	receipts := pdf.NewService(pdf.CompanyInfo{
		Name:    cfg.App.Name,
		Email:   cfg.Email.FromEmail,
		Website: "https://fireplay.example",
	})

	deps := routes.Dependencies{
		Identity: idp,
		Sessions: sessions,
		Catalog:  catalogClient,
		Users:    user.NewService(userStore, idp, log),
		Orders:   order.NewService(userStore, receipts, log),
		Checkout: checkout.NewService(userStore, userStore, log, checkoutOpts...),
		Contact:  contact.NewService(mailer, log),
	}

	log.Info("✅ All systems operational!")

	var rdb *goredis.Client
	if redisClient != nil {
		rdb = redisClient.GetClient()
	}
	server := http.NewServer(cfg, deps, rdb, checks, log)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Info("✅ Server shutdown completed")
}

// resolveSecrets replaces "sm://" values before anything connects
func resolveSecrets(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) error {
	if !secrets.NeedsResolution(cfg) {
		return nil
	}

	accessor, err := secrets.NewManagerAccessor(ctx, cfg.Firebase.CredentialsFile)
	if err != nil {
		return err
	}
	defer accessor.Close()

	if err := secrets.NewResolver(accessor, cfg.Secrets.ProjectID, log).ResolveConfig(ctx, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// openStore connects the configured backend. The gorm handle is returned
// for the postgres backend so the local identity provider can share it.
func openStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (store.UserStore, *gorm.DB, error) {
	switch cfg.Store.Backend {
	case config.StoreFirestore:
		client, err := firestore.NewClient(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile, log)
		if err != nil {
			return nil, nil, err
		}
		return firestore.NewStore(client), nil, nil

	case config.StorePostgres:
		db, err := postgres.NewConnection(cfg, log)
		if err != nil {
			return nil, nil, err
		}

		// Run database migrations
		migration := postgres.NewMigration(db, log)
		var extra []interface{}
		if cfg.Identity.Provider == config.IdentityLocal {
			extra = local.Models()
		}
		if err := migration.RunAutoMigrations(extra...); err != nil {
			return nil, nil, fmt.Errorf("database migration failed: %w", err)
		}
		if err := migration.CreateIndexes(); err != nil {
			log.Warnf("Index creation failed: %v", err)
		}
		return postgres.NewStore(db), db, nil

	case config.StoreMemory:
		log.Warn("Using the in-memory store, data is lost on restart")
		return memory.NewStore(), nil, nil
	}
	return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
}

// openIdentity creates the configured identity provider
func openIdentity(ctx context.Context, cfg *config.Config, db *gorm.DB, log logrus.FieldLogger) (identity.Provider, error) {
	switch cfg.Identity.Provider {
	case config.IdentityFirebase:
		client, err := firebase.NewAuthClient(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return firebase.NewProvider(client, firebase.Config{
			WebAPIKey:   cfg.Firebase.WebAPIKey,
			RESTBaseURL: cfg.Firebase.AuthRESTBaseURL,
		}, log.WithField("component", "firebase")), nil

	case config.IdentityLocal:
		if db == nil {
			return nil, fmt.Errorf("local identity requires the postgres store")
		}
		tokens := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.App.Name)
		passwords := auth.NewPasswordManager(cfg.Security.BcryptCost)
		return local.NewProvider(db, tokens, passwords, log.WithField("component", "identity")), nil
	}
	return nil, fmt.Errorf("unsupported identity provider %q", cfg.Identity.Provider)
}
