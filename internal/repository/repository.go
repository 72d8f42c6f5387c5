package repository

import (
	"context"

	"github.com/inkwell/inkwell/internal/domain"
)

// UserRepository persists accounts. The users table is append-only: records
// are created on signup and read on login, never updated or deleted.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// PostRepository persists blog posts.
type PostRepository interface {
	CreatePost(ctx context.Context, post *domain.Post) error
	GetPostByID(ctx context.Context, id string) (*domain.Post, error)
	ListPosts(ctx context.Context, limit int) ([]domain.Post, error)
	DeletePost(ctx context.Context, id string) error
}
