// internal/infrastructure/secrets/resolver.go
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/sirupsen/logrus"
	"github.com/your-org/fireplay-backend/internal/config"
	"google.golang.org/api/option"
)

// Prefix marks a config value that names a secret instead of holding it
const Prefix = "sm://"

// ErrNoProject is returned when a short secret name has no project to live in
var ErrNoProject = errors.New("secrets: project id is empty")

// Accessor reads one secret version by its full resource name
type Accessor interface {
	Access(ctx context.Context, name string) ([]byte, error)
}

// Resolver replaces "sm://" config values with Secret Manager payloads
type Resolver struct {
	accessor  Accessor
	projectID string
	log       logrus.FieldLogger
}

// NewResolver creates a resolver
func NewResolver(accessor Accessor, projectID string, log logrus.FieldLogger) *Resolver {
	return &Resolver{accessor: accessor, projectID: projectID, log: log}
}

// IsReference reports whether a value names a secret
func IsReference(value string) bool {
	return strings.HasPrefix(value, Prefix)
}

// ResourceName expands a reference into a secret version resource name.
// Accepted forms: sm://name, sm://name/versions/N and sm://projects/P/secrets/S/versions/V.
func ResourceName(projectID, ref string) (string, error) {
	id := strings.TrimSpace(strings.TrimPrefix(ref, Prefix))
	if id == "" {
		return "", fmt.Errorf("secrets: empty reference %q", ref)
	}
	if strings.HasPrefix(id, "projects/") {
		if !strings.Contains(id, "/versions/") {
			id += "/versions/latest"
		}
		return id, nil
	}

	prj := strings.TrimSpace(projectID)
	if prj == "" {
		return "", ErrNoProject
	}

	version := "latest"
	if i := strings.Index(id, "/versions/"); i >= 0 {
		id, version = id[:i], id[i+len("/versions/"):]
	}
	if id == "" || version == "" || strings.Contains(id, "/") {
		return "", fmt.Errorf("secrets: malformed reference %q", ref)
	}
	return "projects/" + prj + "/secrets/" + id + "/versions/" + version, nil
}

// Resolve returns the secret payload for a reference and any other value unchanged
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	if !IsReference(value) {
		return value, nil
	}

	name, err := ResourceName(r.projectID, value)
	if err != nil {
		return "", err
	}

	data, err := r.accessor.Access(ctx, name)
	if err != nil {
		return "", fmt.Errorf("secrets: access %s: %w", name, err)
	}

	r.log.WithField("secret", name).Debug("Resolved secret")
	return strings.TrimSpace(string(data)), nil
}

// secretFields lists the config values that may hold references
func secretFields(cfg *config.Config) []*string {
	return []*string{
		&cfg.Catalog.APIKey,
		&cfg.Email.SendGridAPIKey,
		&cfg.Firebase.WebAPIKey,
		&cfg.JWT.Secret,
		&cfg.Database.Password,
		&cfg.Redis.Password,
		&cfg.Messaging.RabbitMQURL,
	}
}

// NeedsResolution reports whether any config value names a secret
func NeedsResolution(cfg *config.Config) bool {
	for _, field := range secretFields(cfg) {
		if IsReference(*field) {
			return true
		}
	}
	return false
}

// ResolveConfig resolves every reference in cfg in place
func (r *Resolver) ResolveConfig(ctx context.Context, cfg *config.Config) error {
	for _, field := range secretFields(cfg) {
		value, err := r.Resolve(ctx, *field)
		if err != nil {
			return err
		}
		*field = value
	}
	return nil
}

// ManagerAccessor reads secrets through the Secret Manager API
type ManagerAccessor struct {
	client *secretmanager.Client
}

// NewManagerAccessor connects to Secret Manager
func NewManagerAccessor(ctx context.Context, credentialsFile string) (*ManagerAccessor, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %w", err)
	}
	return &ManagerAccessor{client: client}, nil
}

// Access implements Accessor
func (a *ManagerAccessor) Access(ctx context.Context, name string) ([]byte, error) {
	resp, err := a.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return nil, err
	}
	if resp.GetPayload() == nil {
		return nil, fmt.Errorf("empty payload")
	}
	return resp.GetPayload().GetData(), nil
}

// Close closes the Secret Manager client
func (a *ManagerAccessor) Close() error {
	return a.client.Close()
}
