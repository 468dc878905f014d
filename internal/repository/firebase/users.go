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

const usersCollection = "users"

var _ repository.UserRepository = (*UserStore)(nil)

type UserStore struct {
	client *firestore.Client
}

func (s *UserStore) GetUserByID(ctx context.Context, uid string) (*model.User, error) {
	snap, err := s.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperror.NotFound("user", uid)
		}
		return nil, fmt.Errorf("firestore: getting user %s: %w", uid, err)
	}

	var u model.User
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("firestore: decoding user %s: %w", uid, err)
	}
	u.UID = snap.Ref.ID
	return &u, nil
}

// Save overwrites the whole document. Merging happens before this call.
func (s *UserStore) Save(ctx context.Context, user *model.User) error {
	if _, err := s.client.Collection(usersCollection).Doc(user.UID).Set(ctx, user); err != nil {
		return fmt.Errorf("firestore: saving user %s: %w", user.UID, err)
	}
	return nil
}
