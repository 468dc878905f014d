package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"
	"github.com/sakif/food-gallery/internal/apperror"
	"github.com/sakif/food-gallery/internal/model"
	"github.com/sakif/food-gallery/internal/repository"
)

var _ repository.PostRepository = (*PostStore)(nil)

// PostStore is the posts table. Get one with DB.Posts.
type PostStore struct {
	conn *sql.DB
}

// Create writes a post, generating its key when the caller left it empty.
//
// xid keys play the role of Realtime Database push keys here: 20 URL-safe
// characters that sort by creation time, e.g. "cv37rs3pp9olc6atsptg".
//
// A post that already exists under the same id is replaced in full. That is
// how updates work: fetch, overlay, Create again with the old id.
func (s *PostStore) Create(ctx context.Context, post *model.Post) error {
	if post.ID == "" {
		post.ID = xid.New().String()
	}

	media, err := encodeList(post.MediaURLs)
	if err != nil {
		return fmt.Errorf("sqlite: encoding media for post %s: %w", post.ID, err)
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO posts (id, title, description, media_urls, category)
		 VALUES (?, ?, ?, ?, ?)`,
		post.ID,
		post.Title,
		post.Description,
		media,
		post.Category,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post %s: %w", post.ID, err)
	}

	return nil
}

// GetByID returns apperror.ErrNotFound when no post has that id.
func (s *PostStore) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var (
		p     model.Post
		media string
	)

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, title, description, media_urls, category
		 FROM posts WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Title, &p.Description, &media, &p.Category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	if p.MediaURLs, err = decodeList(media); err != nil {
		return nil, fmt.Errorf("sqlite: decoding media for post %s: %w", id, err)
	}

	return &p, nil
}

// ListByCategory returns every post whose category equals the argument.
// SQLite's = on TEXT is case-sensitive under the default BINARY collation.
func (s *PostStore) ListByCategory(ctx context.Context, category string) ([]model.Post, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, title, description, media_urls, category
		 FROM posts WHERE category = ?
		 ORDER BY id`,
		category,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts in %q: %w", category, err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var (
			p     model.Post
			media string
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &media, &p.Category); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		if p.MediaURLs, err = decodeList(media); err != nil {
			return nil, fmt.Errorf("sqlite: decoding media for post %s: %w", p.ID, err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// Delete removes a post. Deleting an id that does not exist is not an error.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}
	return nil
}
