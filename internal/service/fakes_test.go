package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/sakif/food-gallery/internal/apperror"
	"github.com/sakif/food-gallery/internal/auth"
	"github.com/sakif/food-gallery/internal/media"
	"github.com/sakif/food-gallery/internal/model"
)

// =========================================================================
// FAKES
// =========================================================================
//
// Hand-written in-memory implementations of the repository and auth
// interfaces. Each one stores copies, never the caller's pointer, and
// counts writes so tests can assert that nothing was written.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeVerifier map[string]auth.Identity

func (f fakeVerifier) Verify(_ context.Context, token string) (*auth.Identity, error) {
	id, ok := f[token]
	if !ok {
		return nil, fmt.Errorf("%w: unknown token", auth.ErrVerification)
	}
	return &id, nil
}

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]model.User
	saves   int
	saveErr error
	getErr  error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]model.User)}
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, uid string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[uid]
	if !ok {
		return nil, apperror.NotFound("user", uid)
	}
	return &u, nil
}

func (f *fakeUserRepo) Save(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.users[user.UID] = *user
	return nil
}

type fakePostRepo struct {
	mu        sync.Mutex
	posts     map[string]model.Post
	nextID    int
	creates   int
	createErr error
	// block makes Create wait for its context, simulating a store that
	// never acknowledges the write.
	block bool
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]model.Post)}
}

func (f *fakePostRepo) Create(ctx context.Context, post *model.Post) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.creates++
	if post.ID == "" {
		f.nextID++
		post.ID = fmt.Sprintf("post-%d", f.nextID)
	}
	stored := *post
	stored.MediaURLs = append([]string{}, post.MediaURLs...)
	f.posts[post.ID] = stored
	return nil
}

func (f *fakePostRepo) GetByID(_ context.Context, id string) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	return &p, nil
}

func (f *fakePostRepo) ListByCategory(_ context.Context, category string) ([]model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Post{}
	for _, p := range f.posts {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.posts, id)
	return nil
}

type fakeTipRepo struct {
	tips   map[string]model.DecorationTip
	nextID int
	err    error
}

func newFakeTipRepo() *fakeTipRepo {
	return &fakeTipRepo{tips: make(map[string]model.DecorationTip)}
}

func (f *fakeTipRepo) Save(_ context.Context, tip *model.DecorationTip) error {
	if f.err != nil {
		return f.err
	}
	if tip.ID == "" {
		f.nextID++
		tip.ID = fmt.Sprintf("tip-%d", f.nextID)
	}
	f.tips[tip.ID] = *tip
	return nil
}

func (f *fakeTipRepo) GetByID(_ context.Context, id string) (*model.DecorationTip, error) {
	t, ok := f.tips[id]
	if !ok {
		return nil, apperror.NotFound("decoration tip", id)
	}
	return &t, nil
}

func (f *fakeTipRepo) List(context.Context) ([]model.DecorationTip, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.DecorationTip{}
	for _, t := range f.tips {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTipRepo) ListByCategory(_ context.Context, category string) ([]model.DecorationTip, error) {
	out := []model.DecorationTip{}
	for _, t := range f.tips {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTipRepo) Delete(_ context.Context, id string) error {
	delete(f.tips, id)
	return nil
}

// countingProcessor records how many times Process ran and returns one
// "url:<filename>" per attachment.
type countingProcessor struct {
	calls int
	err   error
}

func (c *countingProcessor) Process(_ context.Context, attachments []media.Attachment) ([]string, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	out := make([]string, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, "url:"+a.Filename)
	}
	return out, nil
}

var errStoreDown = errors.New("store unavailable")
