package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/oksasatya/go-posts-api/config"
	"github.com/oksasatya/go-posts-api/internal/domain/entity"
	"github.com/oksasatya/go-posts-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-posts-api/pkg/helpers"
	"github.com/oksasatya/go-posts-api/pkg/mailer"
)

type services struct {
	auth  *AuthService
	users *UserService
	posts *PostService
	votes *VoteService
	bus   *fakeBus
	cache *fakeCache
}

func newServices(t *testing.T) services {
	t.Helper()
	jwt, err := helpers.NewJWTManager("test-secret", "HS256", time.Minute)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	bus := &fakeBus{}
	cache := newFakeCache()
	cfg := &config.Config{AppName: "Posts API", MailSendEnabled: true}
	return services{
		auth:  NewAuthService(userRepo, jwt, nil),
		users: NewUserService(userRepo, cfg, nil, bus, nil, cache),
		posts: NewPostService(memory.NewPostRepository(store), nil, cache, nil),
		votes: NewVoteService(memory.NewVoteRepository(store), cache, nil),
		bus:   bus,
		cache: cache,
	}
}

func (s services) signup(t *testing.T, email string) *entity.User {
	t.Helper()
	u, err := s.users.Signup(context.Background(), nil, entity.UserInput{Email: email, Password: "pw12345678"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	return u
}

func (s services) post(t *testing.T, owner *entity.User, title string) *entity.Post {
	t.Helper()
	p, err := s.posts.Create(context.Background(), entity.PostInput{Title: title, Content: "C", Published: true}, owner.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return p
}

type fakeBus struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (b *fakeBus) PublishJSON(_ context.Context, body any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.jobs = append(b.jobs, body.(mailer.EmailJob))
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]entity.PostWithVotes
	flushes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]entity.PostWithVotes{}}
}

func (c *fakeCache) Get(_ context.Context, id string) (*entity.PostWithVotes, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pv, ok := c.entries[id]
	if !ok {
		return nil, false, nil
	}
	return &pv, true, nil
}

func (c *fakeCache) Set(_ context.Context, pv *entity.PostWithVotes) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[pv.Post.ID] = *pv
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

func (c *fakeCache) InvalidateAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]entity.PostWithVotes{}
	c.flushes++
	return nil
}

type fakeIndex struct {
	ids     []string
	err     error
	indexed []string
	removed []string
}

func (i *fakeIndex) Index(_ context.Context, p entity.Post) error {
	i.indexed = append(i.indexed, p.ID)
	return nil
}

func (i *fakeIndex) Remove(_ context.Context, id string) error {
	i.removed = append(i.removed, id)
	return nil
}

func (i *fakeIndex) Search(_ context.Context, _ string, _, _ int) ([]string, int, error) {
	if i.err != nil {
		return nil, 0, i.err
	}
	return i.ids, len(i.ids), nil
}

type fakeObjects struct {
	path, contentType string
	body              []byte
}

func (o *fakeObjects) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	o.path, o.contentType, o.body = objectPath, contentType, b
	return "https://storage.example/" + objectPath, nil
}

var errIndexDown = errors.New("index down")
