package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/oksasatya/go-posts-api/internal/domain/entity"
	"github.com/oksasatya/go-posts-api/internal/domain/repository"
	"github.com/oksasatya/go-posts-api/pkg/apperror"
	"github.com/oksasatya/go-posts-api/pkg/helpers"
)

var userFields = map[string]field[*userRow]{
	"id": {kind: "uuid", value: func(u *userRow) string { return u.ID },
		less: func(a, b *userRow) bool { return a.ID < b.ID }},
	"email": {kind: "text", value: func(u *userRow) string { return u.Email },
		less: func(a, b *userRow) bool { return a.Email < b.Email }},
	"avatar_url": {kind: "text", value: func(u *userRow) string { return u.AvatarURL },
		less: func(a, b *userRow) bool { return a.AvatarURL < b.AvatarURL }},
	"created_at": {kind: "time", value: func(u *userRow) string { return formatTime(u.CreatedAt) },
		less: func(a, b *userRow) bool { return a.seq < b.seq }},
	"updated_at": {kind: "time", value: func(u *userRow) string { return formatTime(u.UpdatedAt) },
		less: func(a, b *userRow) bool { return a.UpdatedAt.Before(b.UpdatedAt) }},
}

type UserRepository struct {
	s *Store
}

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	id, err := checkID("user", id)
	if err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	u := row.User
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.users {
		if row.Email == email {
			u := row.User
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user not found")
}

func (r *UserRepository) filtered(q repository.ListQuery) ([]*userRow, error) {
	match, err := matchFilters(userFields, q.Filters)
	if err != nil {
		return nil, err
	}
	rows := make([]*userRow, 0, len(r.s.users))
	for _, row := range r.s.users {
		if match(row) {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (r *UserRepository) List(_ context.Context, q repository.ListQuery) ([]entity.User, error) {
	q = q.Normalize(repository.DefaultLimit)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows, err := r.filtered(q)
	if err != nil {
		return nil, err
	}
	if err := sortRows(rows, userFields, q.OrderBy, func(a, b *userRow) bool { return a.seq < b.seq }); err != nil {
		return nil, err
	}
	out := make([]entity.User, 0, q.Limit)
	for _, row := range page(rows, q) {
		out = append(out, row.User)
	}
	return out, nil
}

func (r *UserRepository) Count(_ context.Context, q repository.ListQuery) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows, err := r.filtered(q)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (r *UserRepository) emailTaken(email, exceptID string) bool {
	for id, row := range r.s.users {
		if id != exceptID && row.Email == email {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(_ context.Context, in entity.UserInput, _ string) (*entity.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	email := entity.NormalizeEmail(in.Email)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(email, "") {
		return nil, apperror.Validation("email " + email + " already exists")
	}
	now := r.s.now()
	row := &userRow{
		User: entity.User{
			ID:        uuid.NewString(),
			Email:     email,
			Password:  hash,
			CreatedAt: now,
			UpdatedAt: now,
		},
		seq: r.s.nextSeq(),
	}
	r.s.users[row.ID] = row
	u := row.User
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, in entity.UserInput, callerID string) (*entity.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return r.PartialUpdate(ctx, id, entity.UserPatch{Email: &in.Email, Password: &in.Password}, callerID)
}

func (r *UserRepository) PartialUpdate(_ context.Context, id string, patch entity.UserPatch, callerID string) (*entity.User, error) {
	id, err := checkID("user", id)
	if err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var hash string
	if patch.Password != nil {
		if hash, err = hashPassword(*patch.Password); err != nil {
			return nil, err
		}
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, err := r.owned(id, callerID)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		u := row.User
		return &u, nil
	}
	if patch.Email != nil {
		email := entity.NormalizeEmail(*patch.Email)
		if r.emailTaken(email, id) {
			return nil, apperror.Validation("email " + email + " already exists")
		}
		row.Email = email
	}
	if patch.Password != nil {
		row.Password = hash
	}
	row.UpdatedAt = r.s.now()
	u := row.User
	return &u, nil
}

func (r *UserRepository) SetAvatar(_ context.Context, id string, url string) (*entity.User, error) {
	id, err := checkID("user", id)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	row.AvatarURL = url
	row.UpdatedAt = r.s.now()
	u := row.User
	return &u, nil
}

// Delete removes the user together with their posts and every vote that
// referenced either.
func (r *UserRepository) Delete(_ context.Context, id string, callerID string) error {
	id, err := checkID("user", id)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, err := r.owned(id, callerID); err != nil {
		return err
	}
	for pid, p := range r.s.posts {
		if p.UserID == id {
			r.s.deletePostLocked(pid)
		}
	}
	for k := range r.s.votes {
		if k.userID == id {
			delete(r.s.votes, k)
		}
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepository) owned(id, callerID string) (*userRow, error) {
	row, ok := r.s.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	if row.ID != callerID {
		return nil, forbidden("user")
	}
	return row, nil
}

func hashPassword(plain string) (string, error) {
	hash, err := helpers.HashPassword(plain)
	if err != nil {
		return "", apperror.Wrap(apperror.KindInternal, "hash password", err)
	}
	return hash, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
