package memory

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/go-posts-api/internal/domain/entity"
	"github.com/oksasatya/go-posts-api/internal/domain/repository"
	"github.com/oksasatya/go-posts-api/pkg/apperror"
)

var postFields = map[string]field[*postRow]{
	"id": {kind: "uuid", value: func(p *postRow) string { return p.ID },
		less: func(a, b *postRow) bool { return a.ID < b.ID }},
	"title": {kind: "text", value: func(p *postRow) string { return p.Title },
		less: func(a, b *postRow) bool { return a.Title < b.Title }},
	"content": {kind: "text", value: func(p *postRow) string { return p.Content },
		less: func(a, b *postRow) bool { return a.Content < b.Content }},
	"published": {kind: "bool", value: func(p *postRow) string { return strconv.FormatBool(p.Published) },
		less: func(a, b *postRow) bool { return !a.Published && b.Published }},
	"user_id": {kind: "uuid", value: func(p *postRow) string { return p.UserID },
		less: func(a, b *postRow) bool { return a.UserID < b.UserID }},
	"created_at": {kind: "time", value: func(p *postRow) string { return formatTime(p.CreatedAt) },
		less: func(a, b *postRow) bool { return a.seq < b.seq }},
	"updated_at": {kind: "time", value: func(p *postRow) string { return formatTime(p.UpdatedAt) },
		less: func(a, b *postRow) bool { return a.UpdatedAt.Before(b.UpdatedAt) }},
}

func newestFirst(a, b *postRow) bool { return a.seq > b.seq }

type PostRepository struct {
	s *Store
}

func NewPostRepository(s *Store) *PostRepository {
	return &PostRepository{s: s}
}

func (r *PostRepository) GetByID(_ context.Context, id string) (*entity.Post, error) {
	id, err := checkID("post", id)
	if err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.posts[id]
	if !ok {
		return nil, apperror.NotFound("post not found")
	}
	p := row.Post
	return &p, nil
}

func (r *PostRepository) filtered(q repository.ListQuery) ([]*postRow, error) {
	match, err := matchFilters(postFields, q.Filters)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))
	rows := make([]*postRow, 0, len(r.s.posts))
	for _, row := range r.s.posts {
		if !match(row) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(row.Title), search) &&
			!strings.Contains(strings.ToLower(row.Content), search) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *PostRepository) List(_ context.Context, q repository.ListQuery) ([]entity.Post, error) {
	q = q.Normalize(repository.DefaultLimit)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows, err := r.filtered(q)
	if err != nil {
		return nil, err
	}
	if err := sortRows(rows, postFields, q.OrderBy, newestFirst); err != nil {
		return nil, err
	}
	out := make([]entity.Post, 0, q.Limit)
	for _, row := range page(rows, q) {
		out = append(out, row.Post)
	}
	return out, nil
}

func (r *PostRepository) Count(_ context.Context, q repository.ListQuery) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows, err := r.filtered(q)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (r *PostRepository) Create(_ context.Context, in entity.PostInput, ownerID string) (*entity.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ownerID, err := checkID("owner", ownerID)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[ownerID]; !ok {
		return nil, apperror.Validation("user_id " + ownerID + " is not present in table users")
	}
	now := r.s.now()
	row := &postRow{
		Post: entity.Post{
			ID:        uuid.NewString(),
			Title:     in.Title,
			Content:   in.Content,
			Published: in.Published,
			UserID:    ownerID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		seq: r.s.nextSeq(),
	}
	r.s.posts[row.ID] = row
	p := row.Post
	return &p, nil
}

func (r *PostRepository) Update(ctx context.Context, id string, in entity.PostInput, callerID string) (*entity.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return r.PartialUpdate(ctx, id, entity.PostPatch{Title: &in.Title, Content: &in.Content, Published: &in.Published}, callerID)
}

func (r *PostRepository) PartialUpdate(_ context.Context, id string, patch entity.PostPatch, callerID string) (*entity.Post, error) {
	id, err := checkID("post", id)
	if err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, err := r.owned(id, callerID)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		p := row.Post
		return &p, nil
	}
	if patch.Title != nil {
		row.Title = *patch.Title
	}
	if patch.Content != nil {
		row.Content = *patch.Content
	}
	if patch.Published != nil {
		row.Published = *patch.Published
	}
	row.UpdatedAt = r.s.now()
	p := row.Post
	return &p, nil
}

func (r *PostRepository) Delete(_ context.Context, id string, callerID string) error {
	id, err := checkID("post", id)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, err := r.owned(id, callerID); err != nil {
		return err
	}
	r.s.deletePostLocked(id)
	return nil
}

func (r *PostRepository) owned(id, callerID string) (*postRow, error) {
	row, ok := r.s.posts[id]
	if !ok {
		return nil, apperror.NotFound("post not found")
	}
	if row.UserID != callerID {
		return nil, forbidden("post")
	}
	return row, nil
}

func (s *Store) deletePostLocked(id string) {
	for k := range s.votes {
		if k.postID == id {
			delete(s.votes, k)
		}
	}
	delete(s.posts, id)
}

func (s *Store) withVotesLocked(row *postRow) entity.PostWithVotes {
	var n int64
	for k := range s.votes {
		if k.postID == row.ID {
			n++
		}
	}
	owner := entity.PostOwner{ID: row.UserID}
	if u, ok := s.users[row.UserID]; ok {
		owner.Email = u.Email
	}
	return entity.PostWithVotes{Post: row.Post, Owner: owner, Votes: n}
}

func (r *PostRepository) GetWithVotes(_ context.Context, id string) (*entity.PostWithVotes, error) {
	id, err := checkID("post", id)
	if err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.posts[id]
	if !ok {
		return nil, apperror.NotFound("post not found")
	}
	pv := r.s.withVotesLocked(row)
	return &pv, nil
}

func (r *PostRepository) ListWithVotes(_ context.Context, q repository.ListQuery) ([]entity.PostWithVotes, int, error) {
	q = q.Normalize(repository.DefaultLimit)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows, err := r.filtered(q)
	if err != nil {
		return nil, 0, err
	}
	all := make([]entity.PostWithVotes, 0, len(rows))
	seqs := make(map[string]int64, len(rows))
	for _, row := range rows {
		all = append(all, r.s.withVotesLocked(row))
		seqs[row.ID] = row.seq
	}

	fields := make(map[string]field[entity.PostWithVotes], len(postFields)+1)
	for name, f := range postFields {
		f := f
		fields[name] = field[entity.PostWithVotes]{less: func(a, b entity.PostWithVotes) bool {
			return f.less(&postRow{Post: a.Post, seq: seqs[a.Post.ID]}, &postRow{Post: b.Post, seq: seqs[b.Post.ID]})
		}}
	}
	fields["votes"] = field[entity.PostWithVotes]{less: func(a, b entity.PostWithVotes) bool { return a.Votes < b.Votes }}

	err = sortRows(all, fields, q.OrderBy, func(a, b entity.PostWithVotes) bool {
		return seqs[a.Post.ID] > seqs[b.Post.ID]
	})
	if err != nil {
		return nil, 0, err
	}
	return append([]entity.PostWithVotes{}, page(all, q)...), len(all), nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
