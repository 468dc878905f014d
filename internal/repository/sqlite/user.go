package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/food-gallery/internal/apperror"
	"github.com/sakif/food-gallery/internal/model"
	"github.com/sakif/food-gallery/internal/repository"
)

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// UserStore is the users table. Get one with DB.Users.
type UserStore struct {
	conn *sql.DB
}

// Save inserts or replaces the profile keyed by user.UID.
//
// The merge rules (what may be overwritten, when createdAt is set) live in
// the service layer; by the time a record gets here it is final.
func (s *UserStore) Save(ctx context.Context, user *model.User) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (uid, email, display_name, photo_url, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(uid) DO UPDATE SET
			email = excluded.email,
			display_name = excluded.display_name,
			photo_url = excluded.photo_url,
			created_at = excluded.created_at`,
		user.UID,
		user.Email,
		user.DisplayName,
		user.PhotoURL,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving user %s: %w", user.UID, err)
	}
	return nil
}

// GetUserByID retrieves a user by subject id.
// Returns apperror.ErrNotFound if no user exists with that id.
func (s *UserStore) GetUserByID(ctx context.Context, uid string) (*model.User, error) {
	var u model.User

	err := s.conn.QueryRowContext(ctx,
		`SELECT uid, email, display_name, photo_url, created_at
		 FROM users WHERE uid = ?`,
		uid,
	).Scan(
		&u.UID,
		&u.Email,
		&u.DisplayName,
		&u.PhotoURL,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", uid)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", uid, err)
	}

	return &u, nil
}
