package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/food-gallery/internal/model"
	"github.com/sakif/food-gallery/internal/repository"
)

// TipService passes decoration tips through to the store. Tips carry no
// validation rules: whatever the client sends is what gets stored.
type TipService struct {
	repo   repository.TipRepository
	logger *slog.Logger
}

func NewTipService(repo repository.TipRepository, logger *slog.Logger) *TipService {
	return &TipService{repo: repo, logger: logger}
}

// Create stores tip, generating an id when the client did not send one.
func (s *TipService) Create(ctx context.Context, tip *model.DecorationTip) (*model.DecorationTip, error) {
	normalizeTip(tip)
	if err := s.repo.Save(ctx, tip); err != nil {
		s.logger.Error("failed to create decoration tip", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/tip: creating: %w", err)
	}
	s.logger.Info("decoration tip created", slog.String("id", tip.ID), slog.String("category", tip.Category))
	return tip, nil
}

// Update forces tip.ID to id and overwrites the whole document. Updating an
// id that does not exist creates it.
func (s *TipService) Update(ctx context.Context, id string, tip *model.DecorationTip) (*model.DecorationTip, error) {
	tip.ID = id
	normalizeTip(tip)
	if err := s.repo.Save(ctx, tip); err != nil {
		s.logger.Error("failed to update decoration tip", slog.String("id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/tip: updating %s: %w", id, err)
	}
	s.logger.Info("decoration tip updated", slog.String("id", id))
	return tip, nil
}

func (s *TipService) GetByID(ctx context.Context, id string) (*model.DecorationTip, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TipService) List(ctx context.Context) ([]model.DecorationTip, error) {
	tips, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/tip: listing: %w", err)
	}
	return tips, nil
}

func (s *TipService) ListByCategory(ctx context.Context, category string) ([]model.DecorationTip, error) {
	tips, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("service/tip: listing %q: %w", category, err)
	}
	return tips, nil
}

func (s *TipService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete decoration tip", slog.String("id", id), slog.String("error", err.Error()))
		return fmt.Errorf("service/tip: deleting %s: %w", id, err)
	}
	s.logger.Info("decoration tip deleted", slog.String("id", id))
	return nil
}

// normalizeTip makes a tip sent without media serialize as "media": [],
// the same as it reads back from either store.
func normalizeTip(tip *model.DecorationTip) {
	if tip.Media == nil {
		tip.Media = []string{}
	}
}
