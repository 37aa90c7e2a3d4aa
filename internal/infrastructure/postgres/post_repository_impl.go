package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-posts-api/internal/domain/entity"
	"github.com/oksasatya/go-posts-api/internal/domain/repository"
	"github.com/oksasatya/go-posts-api/pkg/apperror"
)

var postSchema = Schema[entity.Post]{
	Entity: "post",
	Table:  "posts",
	Columns: []Column{
		{Name: "id", Kind: ColUUID},
		{Name: "title", Kind: ColText, Writable: true, Required: true},
		{Name: "content", Kind: ColText, Writable: true, Required: true},
		{Name: "published", Kind: ColBool, Writable: true, Required: true},
		{Name: "user_id", Kind: ColUUID},
		{Name: "created_at", Kind: ColTime},
		{Name: "updated_at", Kind: ColTime},
	},
	OwnerColumn:  "user_id",
	DefaultOrder: "created_at DESC",
	Scan:         scanPost,
	Search:       searchPosts,
}

// searchPosts matches term case-insensitively in the title or the content.
func searchPosts(w *whereBuilder, alias, term string) {
	w.add(fmt.Sprintf("(%s ILIKE %%s OR %s ILIKE %%s)", qualify(alias, "title"), qualify(alias, "content")),
		"%"+escapeLike(term)+"%")
}

func scanPost(row pgx.Row) (*entity.Post, error) {
	p := &entity.Post{}
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Published, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

const postWithVotesSelect = `
	SELECT p.id, p.title, p.content, p.published, p.user_id, p.created_at, p.updated_at,
	       u.email, COUNT(v.post_id) AS votes
	FROM posts p
	JOIN users u ON u.id = p.user_id
	LEFT JOIN votes v ON v.post_id = p.id`

const postWithVotesGroup = ` GROUP BY p.id, u.email`

func scanPostWithVotes(row pgx.Row) (*entity.PostWithVotes, error) {
	pv := &entity.PostWithVotes{}
	p := &pv.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Published, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
		&pv.Owner.Email, &pv.Votes); err != nil {
		return nil, err
	}
	pv.Owner.ID = p.UserID
	return pv, nil
}

type PostRepository struct {
	db    DB
	store *Store[entity.Post]
}

func NewPostRepository(db DB) *PostRepository {
	return &PostRepository{db: db, store: NewStore(db, postSchema)}
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	return r.store.GetByID(ctx, id)
}

func (r *PostRepository) List(ctx context.Context, q repository.ListQuery) ([]entity.Post, error) {
	return r.store.List(ctx, q)
}

func (r *PostRepository) Count(ctx context.Context, q repository.ListQuery) (int, error) {
	return r.store.Count(ctx, q)
}

func (r *PostRepository) Create(ctx context.Context, in entity.PostInput, ownerID string) (*entity.Post, error) {
	fields, err := postInputFields(in)
	if err != nil {
		return nil, err
	}
	return r.store.Create(ctx, fields, ownerID)
}

func (r *PostRepository) Update(ctx context.Context, id string, in entity.PostInput, callerID string) (*entity.Post, error) {
	fields, err := postInputFields(in)
	if err != nil {
		return nil, err
	}
	return r.store.Update(ctx, id, fields, callerID)
}

func (r *PostRepository) PartialUpdate(ctx context.Context, id string, patch entity.PostPatch, callerID string) (*entity.Post, error) {
	fields, err := postPatchFields(patch)
	if err != nil {
		return nil, err
	}
	return r.store.PartialUpdate(ctx, id, fields, callerID)
}

func (r *PostRepository) Delete(ctx context.Context, id string, callerID string) error {
	return r.store.Delete(ctx, id, callerID)
}

func (r *PostRepository) GetWithVotes(ctx context.Context, id string) (*entity.PostWithVotes, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperror.InvalidIdentifier("invalid post id")
	}
	sql := postWithVotesSelect + ` WHERE p.id = $1` + postWithVotesGroup
	pv, err := scanPostWithVotes(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, translate(err)
	}
	return pv, nil
}

func (r *PostRepository) ListWithVotes(ctx context.Context, q repository.ListQuery) ([]entity.PostWithVotes, int, error) {
	q = q.Normalize(repository.DefaultLimit)
	w, err := postWhere(q)
	if err != nil {
		return nil, 0, err
	}
	order, err := orderClause(q.OrderBy, "p.created_at DESC", func(name string) (string, bool) {
		if name == "votes" {
			return "votes", true
		}
		return postSchema.resolveOrder("p")(name)
	})
	if err != nil {
		return nil, 0, err
	}

	var total int
	countSQL := `SELECT COUNT(*) FROM posts p` + w.sql()
	if err := r.db.QueryRow(ctx, countSQL, w.args...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	where := w.sql()
	limit := w.next(q.Limit)
	offset := w.next(q.Skip)
	sql := fmt.Sprintf("%s%s%s%s LIMIT %s OFFSET %s", postWithVotesSelect, where, postWithVotesGroup, order, limit, offset)

	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	out := make([]entity.PostWithVotes, 0, q.Limit)
	for rows.Next() {
		pv, err := scanPostWithVotes(rows)
		if err != nil {
			return nil, 0, translate(err)
		}
		out = append(out, *pv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate(err)
	}
	return out, total, nil
}

func postWhere(q repository.ListQuery) (*whereBuilder, error) {
	return postSchema.where("p", q.Filters, q.Search)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

func postInputFields(in entity.PostInput) ([]Field, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return []Field{
		{Column: "title", Value: in.Title},
		{Column: "content", Value: in.Content},
		{Column: "published", Value: in.Published},
	}, nil
}

func postPatchFields(p entity.PostPatch) ([]Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var fields []Field
	if p.Title != nil {
		fields = append(fields, Field{Column: "title", Value: *p.Title})
	}
	if p.Content != nil {
		fields = append(fields, Field{Column: "content", Value: *p.Content})
	}
	if p.Published != nil {
		fields = append(fields, Field{Column: "published", Value: *p.Published})
	}
	return fields, nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
