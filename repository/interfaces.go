package repository

import (
	"context"
	"errors"

	"discussionForum/models"
)

// ErrNotFound is returned by single-row reads and by mutations that matched no row.
var ErrNotFound = errors.New("record not found")

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

// PostRepositoryI defines operations on Post entities.
type PostRepositoryI interface {
	Create(ctx context.Context, username, title, content string) (int64, error)
	ListRanked(ctx context.Context, offset, limit int) ([]models.PostSummary, error)
	Count(ctx context.Context) (int, error)
	ListIDs(ctx context.Context) ([]int64, error)
	GetByID(ctx context.Context, id int64) (*models.PostDetail, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, username string, offset, limit int) ([]models.PostSummary, error)
	CountByUser(ctx context.Context, username string) (int, error)
}

// CommentRepositoryI defines operations on Comment entities.
type CommentRepositoryI interface {
	Create(ctx context.Context, postID int64, username, content string) (int64, error)
	ListByPost(ctx context.Context, postID int64, offset, limit int) ([]models.Comment, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListIDs(ctx context.Context) ([]int64, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
}

var (
	_ UserRepositoryI    = (*UserRepository)(nil)
	_ PostRepositoryI    = (*PostRepository)(nil)
	_ CommentRepositoryI = (*CommentRepository)(nil)
)
