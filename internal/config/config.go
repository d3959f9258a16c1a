// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends for the per-user documents
const (
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
	StoreMemory    = "memory"
)

// Identity providers
const (
	IdentityFirebase = "firebase"
	IdentityLocal    = "local"
)

// Config holds all configuration for our application
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Store     StoreConfig
	Identity  IdentityConfig
	Firebase  FirebaseConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Security  SecurityConfig
	Catalog   CatalogConfig
	Pricing   PricingConfig
	Messaging MessagingConfig
	Email     EmailConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// StoreConfig selects where favorites, cart, orders and profiles live
type StoreConfig struct {
	Backend string
}

// IdentityConfig selects the identity provider
type IdentityConfig struct {
	Provider string
}

// FirebaseConfig contains Firestore and Firebase Auth settings
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
	WebAPIKey       string
	AuthRESTBaseURL string
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// JWTConfig contains JWT token configuration for the local identity provider
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	BcryptCost         int
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
}

// CatalogConfig contains the game catalog API configuration
type CatalogConfig struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	DefaultPageSize int
	MaxPageSize     int
	CacheTTL        time.Duration
}

// PricingConfig controls how a cart entry gets its price
type PricingConfig struct {
	Mode string
}

// MessagingConfig contains the order event broker configuration
type MessagingConfig struct {
	RabbitMQURL string
	OrderQueue  string
}

// EmailConfig contains email service configuration
type EmailConfig struct {
	SendGridAPIKey string
	SendGridHost   string
	FromEmail      string
	FromName       string
	ContactInbox   string
}

// SecretsConfig controls Secret Manager lookups for "sm://" values
type SecretsConfig struct {
	ProjectID string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	config := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Version:     v.GetString("APP_VERSION"),
			Environment: v.GetString("APP_ENV"),
			Debug:       v.GetBool("APP_DEBUG"),
		},
		Server: ServerConfig{
			Port:           v.GetString("APP_PORT"),
			ReadTimeout:    v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:    v.GetDuration("SERVER_IDLE_TIMEOUT"),
			RequestTimeout: v.GetDuration("SERVER_REQUEST_TIMEOUT"),
			MaxBodyBytes:   v.GetInt64("SERVER_MAX_BODY_BYTES"),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(v.GetString("STORE_BACKEND")),
		},
		Identity: IdentityConfig{
			Provider: strings.ToLower(v.GetString("IDENTITY_PROVIDER")),
		},
		Firebase: FirebaseConfig{
			ProjectID:       v.GetString("FIREBASE_PROJECT_ID"),
			CredentialsFile: v.GetString("FIREBASE_CREDENTIALS_FILE"),
			WebAPIKey:       v.GetString("FIREBASE_WEB_API_KEY"),
			AuthRESTBaseURL: v.GetString("FIREBASE_AUTH_REST_URL"),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			Name:         v.GetString("DB_NAME"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxLifetime:  v.GetDuration("DB_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Enabled:      v.GetBool("REDIS_ENABLED"),
			Host:         v.GetString("REDIS_HOST"),
			Port:         v.GetString("REDIS_PORT"),
			Password:     v.GetString("REDIS_PASSWORD"),
			DB:           v.GetInt("REDIS_DB"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
		},
		JWT: JWTConfig{
			Secret:            v.GetString("JWT_SECRET"),
			AccessTokenExpiry: v.GetDuration("JWT_ACCESS_EXPIRE"),
		},
		Security: SecurityConfig{
			BcryptCost:         v.GetInt("BCRYPT_COST"),
			RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
			CORSAllowedOrigins: getSlice(v, "CORS_ALLOWED_ORIGINS"),
			CORSAllowedMethods: getSlice(v, "CORS_ALLOWED_METHODS"),
			CORSAllowedHeaders: getSlice(v, "CORS_ALLOWED_HEADERS"),
		},
		Catalog: CatalogConfig{
			BaseURL:         strings.TrimRight(v.GetString("RAWG_BASE_URL"), "/"),
			APIKey:          v.GetString("RAWG_API_KEY"),
			Timeout:         v.GetDuration("RAWG_TIMEOUT"),
			DefaultPageSize: v.GetInt("CATALOG_DEFAULT_PAGE_SIZE"),
			MaxPageSize:     v.GetInt("CATALOG_MAX_PAGE_SIZE"),
			CacheTTL:        v.GetDuration("CATALOG_CACHE_TTL"),
		},
		Pricing: PricingConfig{
			Mode: strings.ToLower(v.GetString("PRICING_MODE")),
		},
		Messaging: MessagingConfig{
			RabbitMQURL: v.GetString("RABBITMQ_URL"),
			OrderQueue:  v.GetString("RABBITMQ_ORDER_QUEUE"),
		},
		Email: EmailConfig{
			SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
			SendGridHost:   v.GetString("SENDGRID_HOST"),
			FromEmail:      v.GetString("FROM_EMAIL"),
			FromName:       v.GetString("FROM_NAME"),
			ContactInbox:   v.GetString("CONTACT_INBOX"),
		},
		Secrets: SecretsConfig{
			ProjectID: v.GetString("SECRETS_PROJECT_ID"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			File:   v.GetString("LOG_FILE"),
		},
	}

	if config.Secrets.ProjectID == "" {
		config.Secrets.ProjectID = config.Firebase.ProjectID
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "Fireplay")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_DEBUG", true)

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("SERVER_REQUEST_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_MAX_BODY_BYTES", int64(1<<20))

	v.SetDefault("STORE_BACKEND", StoreFirestore)
	v.SetDefault("IDENTITY_PROVIDER", IdentityFirebase)

	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	v.SetDefault("FIREBASE_WEB_API_KEY", "")
	v.SetDefault("FIREBASE_AUTH_REST_URL", "https://identitytoolkit.googleapis.com/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "fireplay")
	v.SetDefault("DB_USER", "fireplay")
	v.SetDefault("DB_PASSWORD", "fireplay")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_MAX_LIFETIME", 300*time.Second)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ACCESS_EXPIRE", 24*time.Hour)

	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Accept,Authorization")

	v.SetDefault("RAWG_BASE_URL", "https://api.rawg.io/api")
	v.SetDefault("RAWG_API_KEY", "")
	v.SetDefault("RAWG_TIMEOUT", 10*time.Second)
	v.SetDefault("CATALOG_DEFAULT_PAGE_SIZE", 20)
	v.SetDefault("CATALOG_MAX_PAGE_SIZE", 40)
	v.SetDefault("CATALOG_CACHE_TTL", 10*time.Minute)

	v.SetDefault("PRICING_MODE", "random")

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_ORDER_QUEUE", "order_placed")

	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("SENDGRID_HOST", "https://api.sendgrid.com")
	v.SetDefault("FROM_EMAIL", "noreply@fireplay.example")
	v.SetDefault("FROM_NAME", "Fireplay")
	v.SetDefault("CONTACT_INBOX", "support@fireplay.example")

	v.SetDefault("SECRETS_PROJECT_ID", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_FILE", "")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	switch c.Store.Backend {
	case StoreFirestore:
		if c.Firebase.ProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore store")
		}
	case StorePostgres:
		if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
			return fmt.Errorf("DB_HOST, DB_NAME and DB_USER are required for the postgres store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND: %q", c.Store.Backend)
	}

	switch c.Identity.Provider {
	case IdentityFirebase:
		if c.Firebase.ProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for firebase identity")
		}
		if c.Firebase.WebAPIKey == "" {
			return fmt.Errorf("FIREBASE_WEB_API_KEY is required for firebase identity")
		}
	case IdentityLocal:
		// Validate JWT secret
		if len(c.JWT.Secret) < 32 && !strings.HasPrefix(c.JWT.Secret, "sm://") {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
		}
		if c.Store.Backend != StorePostgres {
			return fmt.Errorf("local identity requires STORE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unsupported IDENTITY_PROVIDER: %q", c.Identity.Provider)
	}

	if c.Catalog.APIKey == "" {
		return fmt.Errorf("RAWG_API_KEY is required")
	}
	if c.Catalog.DefaultPageSize <= 0 || c.Catalog.MaxPageSize < c.Catalog.DefaultPageSize {
		return fmt.Errorf("CATALOG_DEFAULT_PAGE_SIZE must be positive and not above CATALOG_MAX_PAGE_SIZE")
	}

	switch c.Pricing.Mode {
	case "random", "stable":
	default:
		return fmt.Errorf("unsupported PRICING_MODE: %q", c.Pricing.Mode)
	}

	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required when REDIS_ENABLED is set")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// getSlice reads a comma separated value; viper only splits real slices
func getSlice(v *viper.Viper, key string) []string {
	raw := v.GetString(key)
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
