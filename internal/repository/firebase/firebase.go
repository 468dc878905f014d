// Package firebase implements the repository interfaces on Firebase:
//   - users:            Cloud Firestore collection "users", doc id = uid
//   - decoration tips:  Cloud Firestore collection "decoration-tips"
//   - posts:            Realtime Database tree "posts/<push key>"
//
// All clients come from one firebase.App built at startup and are closed
// together by Backend.Close.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// Scopes needed by the Admin SDK services this backend touches.
var firebaseScopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/datastore",
	"https://www.googleapis.com/auth/devstorage.full_control",
	"https://www.googleapis.com/auth/firebase.database",
	"https://www.googleapis.com/auth/identitytoolkit",
	"https://www.googleapis.com/auth/userinfo.email",
}

type Config struct {
	CredentialsFile string // service-account JSON; empty means Application Default Credentials
	ProjectID       string
	DatabaseURL     string // e.g. https://<project>-default-rtdb.firebaseio.com
	StorageBucket   string // only needed for bucket media storage
}

// Backend holds every Firebase client the server uses.
type Backend struct {
	Auth      *fbauth.Client
	Firestore *firestore.Client
	Database  *db.Client

	app           *firebase.App
	storageBucket string
}

// New builds the firebase.App and its clients. Nothing here is lazy: a
// misconfigured project fails at startup rather than on the first request.
//
// The clients keep ctx for refreshing tokens, so they are built on a copy
// that drops ctx's deadline and cancellation. They live until Close.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("firebase: database URL is required")
	}
	ctx = context.WithoutCancel(ctx)

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("firebase: reading credentials: %w", err)
		}
		creds, err := loadCredentials(ctx, data)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithCredentials(creds))
		if cfg.ProjectID == "" {
			cfg.ProjectID = creds.ProjectID
		}
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		DatabaseURL:   cfg.DatabaseURL,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: initializing app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: auth client: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: firestore client: %w", err)
	}

	database, err := app.Database(ctx)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("firebase: database client: %w", err)
	}

	return &Backend{
		Auth:          authClient,
		Firestore:     fs,
		Database:      database,
		app:           app,
		storageBucket: cfg.StorageBucket,
	}, nil
}

// loadCredentials parses a service-account or authorized_user JSON file.
// The returned token source refreshes on a context without a deadline.
func loadCredentials(ctx context.Context, data []byte) (*google.Credentials, error) {
	creds, err := google.CredentialsFromJSON(context.WithoutCancel(ctx), data, firebaseScopes...)
	if err != nil {
		return nil, fmt.Errorf("firebase: parsing credentials: %w", err)
	}
	return creds, nil
}

// Bucket returns the project's default Cloud Storage bucket. The storage
// client outlives ctx the same way the clients built in New do.
func (b *Backend) Bucket(ctx context.Context) (*gcs.BucketHandle, error) {
	if b.storageBucket == "" {
		return nil, errors.New("firebase: storage bucket is not configured")
	}
	client, err := b.app.Storage(context.WithoutCancel(ctx))
	if err != nil {
		return nil, fmt.Errorf("firebase: storage client: %w", err)
	}
	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("firebase: default bucket: %w", err)
	}
	return bucket, nil
}

func (b *Backend) Users() *UserStore { return &UserStore{client: b.Firestore} }

func (b *Backend) Posts() *PostStore { return NewPostStore(b.Database) }

func (b *Backend) Tips() *TipStore { return &TipStore{client: b.Firestore} }

// Close releases the Firestore connection. The auth and database clients
// are plain HTTP clients with nothing to close.
func (b *Backend) Close() error {
	if b == nil || b.Firestore == nil {
		return nil
	}
	return b.Firestore.Close()
}
