package search

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/oksasatya/go-posts-api/internal/domain/entity"
)

func newTestIndex(t *testing.T, h http.HandlerFunc) *PostIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatalf("elasticsearch.NewClient: %v", err)
	}
	return NewPostIndex(es, "posts")
}

func TestSearchParsesHits(t *testing.T) {
	var body string
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/posts/_search") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":7},"hits":[{"_id":"a"},{"_id":"b"}]}}`)
	})

	ids, total, err := idx.Search(context.Background(), "golang", 5, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 7 || len(ids) != 2 || ids[0] != "a" {
		t.Fatalf("unexpected result %v %d", ids, total)
	}
	if !strings.Contains(body, `"multi_match"`) || !strings.Contains(body, `"from":5`) {
		t.Fatalf("unexpected query %s", body)
	}
}

func TestIndexReportsErrors(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"mapper_parsing_exception"}`)
	})
	err := idx.Index(context.Background(), entity.Post{ID: "p1", Title: "t", CreatedAt: time.Now()})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRemoveIgnoresMissingDocument(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	})
	if err := idx.Remove(context.Background(), "p1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
}

func TestEnsureIndexCreatesMissingIndex(t *testing.T) {
	var created string
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			b, _ := io.ReadAll(r.Body)
			created = r.URL.Path + " " + string(b)
			_, _ = io.WriteString(w, `{"acknowledged":true}`)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	if err := idx.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if !strings.HasPrefix(created, "/posts ") || !strings.Contains(created, `"user_id"`) {
		t.Fatalf("unexpected create request %q", created)
	}
}

func TestEnsureIndexSkipsExistingIndex(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})
	if err := idx.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
}
