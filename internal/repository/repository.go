// Package repository declares the storage contracts the services depend on.
//
// Two implementations exist:
//   - repository/firebase: Firestore (users, tips) and Realtime Database (posts)
//   - repository/sqlite:   a single local file, for development and tests
//
// Conventions shared by every implementation:
//   - GetByID returns an apperror.NotFound error when the record is absent.
//   - Delete of a missing id succeeds (idempotent).
//   - List methods return an empty, non-nil slice when nothing matches.
//   - Category filters are exact, case-sensitive equality.
package repository

import (
	"context"

	"github.com/sakif/food-gallery/internal/model"
)

type UserRepository interface {
	// GetUserByID looks a profile up by its subject id.
	GetUserByID(ctx context.Context, uid string) (*model.User, error)
	// Save writes the full record under user.UID, creating or replacing it.
	Save(ctx context.Context, user *model.User) error
}

type PostRepository interface {
	// Create writes the full record. When post.ID is empty a new key is
	// generated and set on the caller's struct.
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	ListByCategory(ctx context.Context, category string) ([]model.Post, error)
	Delete(ctx context.Context, id string) error
}

type TipRepository interface {
	// Save writes the full document, generating tip.ID when it is empty.
	Save(ctx context.Context, tip *model.DecorationTip) error
	GetByID(ctx context.Context, id string) (*model.DecorationTip, error)
	List(ctx context.Context) ([]model.DecorationTip, error)
	ListByCategory(ctx context.Context, category string) ([]model.DecorationTip, error)
	Delete(ctx context.Context, id string) error
}
