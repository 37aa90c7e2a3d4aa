package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-posts-api/config"
	"github.com/oksasatya/go-posts-api/internal/domain/entity"
	"github.com/oksasatya/go-posts-api/internal/domain/repository"
	pginfra "github.com/oksasatya/go-posts-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-posts-api/pkg/apperror"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	posts := pginfra.NewPostRepository(pool)

	email := "demo@example.com"
	password := "password123"

	u, err := users.GetByEmail(ctx, email)
	if errors.Is(err, apperror.ErrNotFound) {
		u, err = users.Create(ctx, entity.UserInput{Email: email, Password: password}, "")
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, u.Email, password)

	const title = "Hello world"
	existing, err := posts.List(ctx, repository.ListQuery{
		Filters: map[string]string{"user_id": u.ID, "title": title},
		Limit:   1,
	})
	if err != nil {
		log.Fatalf("failed to look up seed post: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("seed post exists: id=%s title=%q\n", existing[0].ID, existing[0].Title)
		return
	}

	p, err := posts.Create(ctx, entity.PostInput{
		Title:     title,
		Content:   "First post from the seed command.",
		Published: true,
	}, u.ID)
	if err != nil {
		log.Fatalf("failed to seed post: %v", err)
	}
	fmt.Printf("seeded post: id=%s title=%q\n", p.ID, p.Title)
}
