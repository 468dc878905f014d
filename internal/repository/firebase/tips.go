package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sakif/food-gallery/internal/apperror"
	"github.com/sakif/food-gallery/internal/model"
	"github.com/sakif/food-gallery/internal/repository"
)

const tipsCollection = "decoration-tips"

var _ repository.TipRepository = (*TipStore)(nil)

type TipStore struct {
	client *firestore.Client
}

// Save writes the full document. An empty ID gets a Firestore
// auto-generated document id, which is also stored in the "id" field.
func (s *TipStore) Save(ctx context.Context, tip *model.DecorationTip) error {
	col := s.client.Collection(tipsCollection)

	var ref *firestore.DocumentRef
	if tip.ID == "" {
		ref = col.NewDoc()
		tip.ID = ref.ID
	} else {
		ref = col.Doc(tip.ID)
	}

	if _, err := ref.Set(ctx, tip); err != nil {
		return fmt.Errorf("firestore: saving decoration tip %s: %w", tip.ID, err)
	}
	return nil
}

func (s *TipStore) GetByID(ctx context.Context, id string) (*model.DecorationTip, error) {
	snap, err := s.client.Collection(tipsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperror.NotFound("decoration tip", id)
		}
		return nil, fmt.Errorf("firestore: getting decoration tip %s: %w", id, err)
	}
	return decodeTip(snap)
}

func (s *TipStore) List(ctx context.Context) ([]model.DecorationTip, error) {
	return s.collect(ctx, s.client.Collection(tipsCollection).Query)
}

func (s *TipStore) ListByCategory(ctx context.Context, category string) ([]model.DecorationTip, error) {
	return s.collect(ctx, s.client.Collection(tipsCollection).Where("category", "==", category))
}

// Delete succeeds whether or not the document exists.
func (s *TipStore) Delete(ctx context.Context, id string) error {
	if _, err := s.client.Collection(tipsCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("firestore: deleting decoration tip %s: %w", id, err)
	}
	return nil
}

func (s *TipStore) collect(ctx context.Context, q firestore.Query) ([]model.DecorationTip, error) {
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore: listing decoration tips: %w", err)
	}

	tips := make([]model.DecorationTip, 0, len(snaps))
	for _, snap := range snaps {
		tip, err := decodeTip(snap)
		if err != nil {
			return nil, err
		}
		tips = append(tips, *tip)
	}
	return tips, nil
}

// decodeTip trusts the document id over the stored "id" field, which older
// documents may lack.
func decodeTip(snap *firestore.DocumentSnapshot) (*model.DecorationTip, error) {
	var tip model.DecorationTip
	if err := snap.DataTo(&tip); err != nil {
		return nil, fmt.Errorf("firestore: decoding decoration tip %s: %w", snap.Ref.ID, err)
	}
	tip.ID = snap.Ref.ID
	if tip.Media == nil {
		tip.Media = []string{}
	}
	return &tip, nil
}
