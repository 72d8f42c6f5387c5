package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/inkwell/inkwell/internal/domain"
	"github.com/inkwell/inkwell/internal/repository"
)

// ErrNotFound is returned when no post exists under the requested id.
var ErrNotFound = errors.New("post not found")

// The home page shows at most this many posts.
const homePageLimit = 100

// Service handles post publishing and browsing.
type Service struct {
	posts  repository.PostRepository
	logger *slog.Logger
}

// New constructs a Service.
func New(posts repository.PostRepository, logger *slog.Logger) Service {
	return Service{posts: posts, logger: logger}
}

// Create publishes a post authored by the given username.
func (s Service) Create(ctx context.Context, author, title, content string) (*domain.Post, error) {
	post := &domain.Post{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Author:    author,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.logger.Info("post published", "post_id", post.ID, "author", author)
	return post, nil
}

// Get returns a single post or ErrNotFound.
func (s Service) Get(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

// List returns the newest posts for the home page.
func (s Service) List(ctx context.Context) ([]domain.Post, error) {
	return s.posts.ListPosts(ctx, homePageLimit)
}

// Delete removes a post or returns ErrNotFound.
func (s Service) Delete(ctx context.Context, id string) error {
	if err := s.posts.DeletePost(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.logger.Info("post deleted", "post_id", id)
	return nil
}
