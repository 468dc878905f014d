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

var _ repository.TipRepository = (*TipStore)(nil)

// TipStore is the decoration_tips table. Get one with DB.Tips.
type TipStore struct {
	conn *sql.DB
}

const tipColumns = `id, title, description, category, difficulty, media, author, tip, media_type, created_at`

// Save writes the whole tip, replacing any row with the same id.
func (s *TipStore) Save(ctx context.Context, tip *model.DecorationTip) error {
	if tip.ID == "" {
		tip.ID = xid.New().String()
	}

	media, err := encodeList(tip.Media)
	if err != nil {
		return fmt.Errorf("sqlite: encoding media for tip %s: %w", tip.ID, err)
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO decoration_tips (`+tipColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tip.ID,
		tip.Title,
		tip.Description,
		tip.Category,
		tip.Difficulty,
		media,
		tip.Author,
		tip.Tip,
		tip.MediaType,
		tip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving tip %s: %w", tip.ID, err)
	}

	return nil
}

func (s *TipStore) GetByID(ctx context.Context, id string) (*model.DecorationTip, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+tipColumns+` FROM decoration_tips WHERE id = ?`, id)

	tip, err := scanTip(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("decoration tip", id)
		}
		return nil, fmt.Errorf("sqlite: getting tip %s: %w", id, err)
	}

	return tip, nil
}

func (s *TipStore) List(ctx context.Context) ([]model.DecorationTip, error) {
	return s.query(ctx, `SELECT `+tipColumns+` FROM decoration_tips ORDER BY id`)
}

func (s *TipStore) ListByCategory(ctx context.Context, category string) ([]model.DecorationTip, error) {
	return s.query(ctx,
		`SELECT `+tipColumns+` FROM decoration_tips WHERE category = ? ORDER BY id`,
		category)
}

// Delete is idempotent, same as the post store.
func (s *TipStore) Delete(ctx context.Context, id string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM decoration_tips WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting tip %s: %w", id, err)
	}
	return nil
}

func (s *TipStore) query(ctx context.Context, q string, args ...any) ([]model.DecorationTip, error) {
	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tips: %w", err)
	}
	defer rows.Close()

	tips := []model.DecorationTip{}
	for rows.Next() {
		tip, err := scanTip(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning tip row: %w", err)
		}
		tips = append(tips, *tip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tips: %w", err)
	}

	return tips, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTip(sc scanner) (*model.DecorationTip, error) {
	var (
		t     model.DecorationTip
		media string
	)
	err := sc.Scan(
		&t.ID, &t.Title, &t.Description, &t.Category, &t.Difficulty,
		&media, &t.Author, &t.Tip, &t.MediaType, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if t.Media, err = decodeList(media); err != nil {
		return nil, fmt.Errorf("decoding media for tip %s: %w", t.ID, err)
	}
	return &t, nil
}
