package handlers

import (
	"time"

	"github.com/oksasatya/go-posts-api/internal/domain/entity"
)

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUser(u *entity.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUsers(us []entity.User) []userResponse {
	out := make([]userResponse, 0, len(us))
	for i := range us {
		out = append(out, toUser(&us[i]))
	}
	return out
}

type postResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPost(p *entity.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		UserID:    p.UserID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPosts(ps []entity.Post) []postResponse {
	out := make([]postResponse, 0, len(ps))
	for i := range ps {
		out = append(out, toPost(&ps[i]))
	}
	return out
}

type ownerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type postWithOwnerResponse struct {
	postResponse
	Owner ownerResponse `json:"owner"`
}

type postVotesResponse struct {
	Post  postWithOwnerResponse `json:"post"`
	Votes int64                 `json:"votes"`
}

func toPostVotes(pv *entity.PostWithVotes) postVotesResponse {
	return postVotesResponse{
		Post: postWithOwnerResponse{
			postResponse: toPost(&pv.Post),
			Owner:        ownerResponse{ID: pv.Owner.ID, Email: pv.Owner.Email},
		},
		Votes: pv.Votes,
	}
}

type links struct {
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

type pageMetadata struct {
	Links       links `json:"links"`
	StatusCode  int   `json:"status_code"`
	Count       int   `json:"count"`
	Total       int   `json:"total"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
}

type postListResponse struct {
	Data     []postVotesResponse `json:"data"`
	Metadata pageMetadata        `json:"metadata"`
}

type searchResponse struct {
	Data     []postResponse `json:"data"`
	Metadata pageMetadata   `json:"metadata"`
}
