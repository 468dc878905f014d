package firebase

import (
	"context"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/db"

	"github.com/sakif/food-gallery/internal/apperror"
	"github.com/sakif/food-gallery/internal/model"
	"github.com/sakif/food-gallery/internal/repository"
)

const postsPath = "posts"

var _ repository.PostRepository = (*PostStore)(nil)

// postNode is what lives under posts/<key>. The key itself is not stored;
// it is attached to model.Post on the way out.
type postNode struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	MediaURLs   []string `json:"mediaUrls"`
	Category    string   `json:"category"`
}

func toNode(p *model.Post) postNode {
	media := p.MediaURLs
	if media == nil {
		media = []string{}
	}
	return postNode{
		Title:       p.Title,
		Description: p.Description,
		MediaURLs:   media,
		Category:    p.Category,
	}
}

func (n postNode) toPost(key string) model.Post {
	media := n.MediaURLs
	if media == nil {
		// The Realtime Database drops empty arrays entirely.
		media = []string{}
	}
	return model.Post{
		ID:          key,
		Title:       n.Title,
		Description: n.Description,
		MediaURLs:   media,
		Category:    n.Category,
	}
}

type PostStore struct {
	ref *db.Ref
}

func NewPostStore(client *db.Client) *PostStore {
	return &PostStore{ref: client.NewRef(postsPath)}
}

// Create pushes a new child when post.ID is empty (the database assigns a
// chronologically ordered key), otherwise overwrites posts/<post.ID>.
func (s *PostStore) Create(ctx context.Context, post *model.Post) error {
	node := toNode(post)

	if post.ID == "" {
		ref, err := s.ref.Push(ctx, node)
		if err != nil {
			return fmt.Errorf("rtdb: pushing post: %w", err)
		}
		post.ID = ref.Key
		return nil
	}

	if err := s.ref.Child(post.ID).Set(ctx, node); err != nil {
		return fmt.Errorf("rtdb: setting post %s: %w", post.ID, err)
	}
	return nil
}

func (s *PostStore) GetByID(ctx context.Context, id string) (*model.Post, error) {
	// A missing path reads back as JSON null, which leaves the pointer nil.
	var node *postNode
	if err := s.ref.Child(id).Get(ctx, &node); err != nil {
		return nil, fmt.Errorf("rtdb: getting post %s: %w", id, err)
	}
	if node == nil {
		return nil, apperror.NotFound("post", id)
	}

	p := node.toPost(id)
	return &p, nil
}

// ListByCategory needs an ".indexOn": "category" rule on /posts in the
// database rules. Over REST an unindexed orderBy query is rejected, and the
// returned error names the missing index.
func (s *PostStore) ListByCategory(ctx context.Context, category string) ([]model.Post, error) {
	nodes, err := s.ref.OrderByChild("category").EqualTo(category).GetOrdered(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "Index not defined") {
			return nil, fmt.Errorf(`rtdb: listing posts in %q: add ".indexOn": "category" to /posts rules: %w`, category, err)
		}
		return nil, fmt.Errorf("rtdb: listing posts in %q: %w", category, err)
	}

	posts := make([]model.Post, 0, len(nodes))
	for _, n := range nodes {
		var node postNode
		if err := n.Unmarshal(&node); err != nil {
			return nil, fmt.Errorf("rtdb: decoding post %s: %w", n.Key(), err)
		}
		posts = append(posts, node.toPost(n.Key()))
	}
	return posts, nil
}

// Delete removes posts/<id>. Removing a missing path is a no-op upstream.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	if err := s.ref.Child(id).Delete(ctx); err != nil {
		return fmt.Errorf("rtdb: deleting post %s: %w", id, err)
	}
	return nil
}
