// Package firestore opens the optional Firestore client that receives load
// runs and the dataset overview after each load. The dashboard itself never
// reads from it.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/platform/config"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// ErrDisabled is returned by New when no Firebase project is configured.
var ErrDisabled = errors.New("firestore publishing disabled: FIREBASE_PROJECT_ID not set")

// New opens the publish sink client for cfg.FirebaseProjectID with credentials
// from FIREBASE_CREDS_BASE64 or FIREBASE_CREDS_FILE. The second return value names
// the credential source for the startup log. Without a project id it returns
// ErrDisabled and the server runs without publishing.
func New(ctx context.Context, cfg config.Config) (*firestore.Client, string, error) {
	if !cfg.FirestoreEnabled() {
		return nil, "", ErrDisabled
	}
	creds, source, err := cfg.FirebaseCredentialsJSON()
	if err != nil {
		return nil, "", err
	}

	client, err := firestore.NewClient(ctx, cfg.FirebaseProjectID, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, "", fmt.Errorf("init firestore client: %w", err)
	}
	return client, source, nil
}

// Ping checks that the publish sink is reachable before load hooks are
// registered, by reading the first collection name.
func Ping(ctx context.Context, client *firestore.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	iter := client.Collections(ctx)
	_, err := iter.Next()
	if err == nil || errors.Is(err, iterator.Done) {
		return nil
	}
	return fmt.Errorf("ping firestore: %w", err)
}
