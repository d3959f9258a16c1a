// internal/infrastructure/database/firestore/client.go
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// NewClient creates a Firestore client. An empty credentialsFile uses
// Application Default Credentials (or the emulator when
// FIRESTORE_EMULATOR_HOST is set).
func NewClient(ctx context.Context, projectID, credentialsFile string, log logrus.FieldLogger) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	log.WithField("project_id", projectID).Info("✅ Firestore connected")
	return client, nil
}
