package application

import (
	"context"
	"errors"
	"testing"

	"github.com/oksasatya/go-posts-api/internal/domain/repository"
	"github.com/oksasatya/go-posts-api/pkg/apperror"
)

func TestVoteToggle(t *testing.T) {
	s := newServices(t)
	alice := s.signup(t, "alice@x.com")
	p := s.post(t, alice, "T")
	ctx := context.Background()

	msg, err := s.votes.SetVote(ctx, p.ID, alice.ID, true)
	if err != nil || msg != VoteAdded {
		t.Fatalf("vote: %q %v", msg, err)
	}
	if _, err := s.votes.SetVote(ctx, p.ID, alice.ID, true); !errors.Is(err, apperror.ErrAlreadyVoted) {
		t.Fatalf("expected already voted, got %v", err)
	}
	pv, err := s.posts.Get(ctx, p.ID)
	if err != nil || pv.Votes != 1 {
		t.Fatalf("expected 1 vote, got %v %v", pv, err)
	}

	msg, err = s.votes.SetVote(ctx, p.ID, alice.ID, false)
	if err != nil || msg != VoteDeleted {
		t.Fatalf("unvote: %q %v", msg, err)
	}
	pv, err = s.posts.Get(ctx, p.ID)
	if err != nil || pv.Votes != 0 {
		t.Fatalf("expected cached count to be refreshed, got %v %v", pv, err)
	}
	if _, err := s.votes.SetVote(ctx, p.ID, alice.ID, false); !errors.Is(err, apperror.ErrVoteNotFound) {
		t.Fatalf("expected vote not found, got %v", err)
	}
}

func TestVoteOnMissingPost(t *testing.T) {
	s := newServices(t)
	alice := s.signup(t, "alice@x.com")
	_, err := s.votes.SetVote(context.Background(), "6f1c1f3e-2b7a-4c55-9d5e-1f2f3a4b5c6d", alice.ID, true)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.votes.SetVote(context.Background(), "nope", alice.ID, true); !errors.Is(err, apperror.ErrInvalidIdentifier) {
		t.Fatalf("expected invalid identifier, got %v", err)
	}
}

func TestListUsesPostDefaults(t *testing.T) {
	s := newServices(t)
	alice := s.signup(t, "alice@x.com")
	for i := 0; i < 30; i++ {
		s.post(t, alice, "T")
	}
	page, err := s.posts.List(context.Background(), repository.ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Limit != DefaultPostLimit || len(page.Items) != DefaultPostLimit || page.Total != 30 {
		t.Fatalf("unexpected page limit=%d items=%d total=%d", page.Limit, len(page.Items), page.Total)
	}
}

func TestListByOwner(t *testing.T) {
	s := newServices(t)
	alice := s.signup(t, "alice@x.com")
	bob := s.signup(t, "bob@x.com")
	s.post(t, alice, "mine")
	s.post(t, bob, "theirs")

	page, err := s.posts.ListByOwner(context.Background(), alice.ID, repository.ListQuery{})
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if page.Total != 1 || page.Items[0].Post.Title != "mine" {
		t.Fatalf("unexpected page %#v", page)
	}
}

func TestSearchUsesIndexAndSkipsStaleHits(t *testing.T) {
	s := newServices(t)
	alice := s.signup(t, "alice@x.com")
	p := s.post(t, alice, "golang tips")
	idx := &fakeIndex{ids: []string{"6f1c1f3e-2b7a-4c55-9d5e-1f2f3a4b5c6d", p.ID}}
	s.posts.Index = idx

	page, err := s.posts.Search(context.Background(), "golang", 0, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != p.ID {
		t.Fatalf("unexpected items %#v", page.Items)
	}
}

func TestSearchFallsBackToSQL(t *testing.T) {
	s := newServices(t)
	alice := s.signup(t, "alice@x.com")
	s.post(t, alice, "Golang tips")
	s.post(t, alice, "cooking")
	s.posts.Index = &fakeIndex{err: errIndexDown}

	page, err := s.posts.Search(context.Background(), "golang", 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.Total != 1 || page.Items[0].Title != "Golang tips" {
		t.Fatalf("unexpected page %#v", page)
	}
	if _, err := s.posts.Search(context.Background(), "  ", 0, 10); !errors.Is(err, apperror.ErrQuery) {
		t.Fatalf("expected query error, got %v", err)
	}
}

func TestDeletePostRemovesFromIndex(t *testing.T) {
	s := newServices(t)
	idx := &fakeIndex{}
	s.posts.Index = idx
	alice := s.signup(t, "alice@x.com")
	p := s.post(t, alice, "T")

	if err := s.posts.Delete(context.Background(), p.ID, alice.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(idx.indexed) != 1 || len(idx.removed) != 1 || idx.removed[0] != p.ID {
		t.Fatalf("unexpected index calls %#v", idx)
	}
}
