// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes Firebase or SQLite
//
// Services take repository interfaces, never a concrete store, so the same
// code runs against Firestore in production and an in-memory fake in tests.
// They return apperror values; only the handler knows about status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/food-gallery/internal/apperror"
	"github.com/sakif/food-gallery/internal/media"
	"github.com/sakif/food-gallery/internal/model"
	"github.com/sakif/food-gallery/internal/repository"
)

// DefaultWriteTimeout bounds how long a post write may wait for the store
// to acknowledge it.
const DefaultWriteTimeout = 5 * time.Second

type PostService struct {
	repo         repository.PostRepository
	media        media.Processor
	writeTimeout time.Duration
	logger       *slog.Logger
}

// NewPostService uses DefaultWriteTimeout when writeTimeout is not positive.
func NewPostService(repo repository.PostRepository, processor media.Processor, writeTimeout time.Duration, logger *slog.Logger) *PostService {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &PostService{
		repo:         repo,
		media:        processor,
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// PostInput is what a client submits to create or update a post.
// An empty Category means "default" on create and "unchanged" on update.
type PostInput struct {
	Title       string
	Description string
	Category    string
	Attachments []media.Attachment
}

// validate runs before any media is read or any write is attempted.
func (in PostInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return apperror.ValidationFailed("title", "title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return apperror.ValidationFailed("description", "description is required")
	}
	return nil
}

// Create validates, encodes the attachments and writes a new post.
func (s *PostService) Create(ctx context.Context, in PostInput) (*model.Post, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	urls, err := s.media.Process(ctx, in.Attachments)
	if err != nil {
		s.logger.Warn("media processing failed", slog.String("error", err.Error()))
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = model.DefaultPostCategory
	}

	post := &model.Post{
		Title:       in.Title,
		Description: in.Description,
		MediaURLs:   urls,
		Category:    category,
	}

	if err := s.write(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("category", post.Category),
		slog.Int("media", len(post.MediaURLs)),
	)
	return post, nil
}

// Update overwrites title and description, replaces the media list only when
// new attachments are supplied and keeps the category unless one is given.
// Concurrent updates are last-writer-wins.
func (s *PostService) Update(ctx context.Context, id string, in PostInput) (*model.Post, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.readError("get", id, err)
	}

	post.Title = in.Title
	post.Description = in.Description
	if in.Category != "" {
		post.Category = in.Category
	}

	if len(in.Attachments) > 0 {
		urls, err := s.media.Process(ctx, in.Attachments)
		if err != nil {
			s.logger.Warn("media processing failed", slog.String("id", id), slog.String("error", err.Error()))
			return nil, err
		}
		post.MediaURLs = urls
	}

	if err := s.write(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post updated", slog.String("id", post.ID))
	return post, nil
}

func (s *PostService) GetByID(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.readError("get", id, err)
	}
	return post, nil
}

func (s *PostService) ListByCategory(ctx context.Context, category string) ([]model.Post, error) {
	posts, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, s.readError("list", category, err)
	}
	return posts, nil
}

// Delete is idempotent: a missing post is not an error.
func (s *PostService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete post", slog.String("id", id), slog.String("error", err.Error()))
		return fmt.Errorf("service/post: deleting %s: %w", id, err)
	}
	s.logger.Info("post deleted", slog.String("id", id))
	return nil
}

// write bounds the store call with the configured deadline. A store that
// does not acknowledge in time yields WriteTimeout; any other failure is
// WriteFailed. In both cases the caller gets no post back.
func (s *PostService) write(ctx context.Context, post *model.Post) error {
	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	err := s.repo.Create(ctx, post)
	if err == nil {
		return nil
	}

	s.logger.Error("failed to write post",
		slog.String("id", post.ID),
		slog.String("error", err.Error()),
	)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperror.WriteTimeout("post", err)
	}
	return apperror.WriteFailed("post", err)
}

// readError passes NotFound through and logs everything else.
func (s *PostService) readError(op, key string, err error) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return err
	}
	s.logger.Error("failed to read posts",
		slog.String("op", op),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("service/post: %s %s: %w", op, key, err)
}
