package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-posts-api/internal/domain/entity"
	"github.com/oksasatya/go-posts-api/internal/domain/repository"
	"github.com/oksasatya/go-posts-api/pkg/apperror"
	"github.com/oksasatya/go-posts-api/pkg/helpers"
)

var userSchema = Schema[entity.User]{
	Entity: "user",
	Table:  "users",
	Columns: []Column{
		{Name: "id", Kind: ColUUID},
		{Name: "email", Kind: ColText, Writable: true, Required: true},
		{Name: "password", Kind: ColText, Writable: true, Required: true},
		{Name: "avatar_url", Kind: ColText, Writable: true},
		{Name: "created_at", Kind: ColTime},
		{Name: "updated_at", Kind: ColTime},
	},
	OwnerColumn:  "id",
	DefaultOrder: "created_at ASC",
	Scan:         scanUser,
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

type UserRepository struct {
	db    DB
	store *Store[entity.User]
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db, store: NewStore(db, userSchema)}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.store.GetByID(ctx, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, email, password, avatar_url, created_at, updated_at
		FROM users
		WHERE email = $1
	`, normalizeEmail(email))

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, translate(err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, q repository.ListQuery) ([]entity.User, error) {
	return r.store.List(ctx, q)
}

func (r *UserRepository) Count(ctx context.Context, q repository.ListQuery) (int, error) {
	return r.store.Count(ctx, q)
}

func (r *UserRepository) Create(ctx context.Context, in entity.UserInput, _ string) (*entity.User, error) {
	fields, err := userInputFields(in)
	if err != nil {
		return nil, err
	}
	return r.store.Create(ctx, fields, "")
}

func (r *UserRepository) Update(ctx context.Context, id string, in entity.UserInput, callerID string) (*entity.User, error) {
	fields, err := userInputFields(in)
	if err != nil {
		return nil, err
	}
	return r.store.Update(ctx, id, fields, callerID)
}

func (r *UserRepository) PartialUpdate(ctx context.Context, id string, patch entity.UserPatch, callerID string) (*entity.User, error) {
	fields, err := userPatchFields(patch)
	if err != nil {
		return nil, err
	}
	return r.store.PartialUpdate(ctx, id, fields, callerID)
}

func (r *UserRepository) Delete(ctx context.Context, id string, callerID string) error {
	return r.store.Delete(ctx, id, callerID)
}

func (r *UserRepository) SetAvatar(ctx context.Context, id string, url string) (*entity.User, error) {
	return r.store.PartialUpdate(ctx, id, []Field{{Column: "avatar_url", Value: url}}, id)
}

func normalizeEmail(email string) string {
	return entity.NormalizeEmail(email)
}

func userInputFields(in entity.UserInput) ([]Field, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return []Field{{Column: "email", Value: normalizeEmail(in.Email)}, {Column: "password", Value: hash}}, nil
}

func userPatchFields(p entity.UserPatch) ([]Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var fields []Field
	if p.Email != nil {
		fields = append(fields, Field{Column: "email", Value: normalizeEmail(*p.Email)})
	}
	if p.Password != nil {
		hash, err := hashPassword(*p.Password)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Column: "password", Value: hash})
	}
	return fields, nil
}

func hashPassword(plain string) (string, error) {
	hash, err := helpers.HashPassword(plain)
	if err != nil {
		return "", apperror.Wrap(apperror.KindInternal, "hash password", err)
	}
	return hash, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
