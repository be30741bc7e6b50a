package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"discussionForum/internal/db"
	"discussionForum/models"
)

type PostRepository struct {
	db *db.DB
}

func NewPostRepository(d *db.DB) *PostRepository {
	return &PostRepository{db: d}
}

// Create inserts a post and returns its generated id. created_on is set by the store.
func (r *PostRepository) Create(ctx context.Context, username, title, content string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO posts (username, title, content) VALUES (?, ?, ?) RETURNING id`,
		username, title, content).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}
	return id, nil
}

// ListRanked returns one page of the "hot" listing: most commented first,
// then most recent. Rank is the position across the whole listing.
func (r *PostRepository) ListRanked(ctx context.Context, offset, limit int) ([]models.PostSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
SELECT p.id, p.username, p.title, p.created_on, COUNT(c.id) AS comments
FROM posts p
LEFT JOIN comments c ON c.post_id = p.id
GROUP BY p.id, p.username, p.title, p.created_on
ORDER BY comments DESC, p.created_on DESC, p.id DESC
LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows, offset)
}

func (r *PostRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(id) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// ListIDs returns the id of every post.
func (r *PostRepository) ListIDs(ctx context.Context) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM posts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list post ids: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// GetByID returns the post with its comment count, or ErrNotFound.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.PostDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var p models.PostDetail
	err := r.db.QueryRowContext(ctx, `SELECT id, username, title, content, created_on FROM posts WHERE id = ?`, id).
		Scan(&p.ID, &p.Username, &p.Title, &p.Content, &p.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select post: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(id) FROM comments WHERE post_id = ?`, id).Scan(&p.Comments); err != nil {
		return nil, fmt.Errorf("count post comments: %w", err)
	}
	return &p, nil
}

// UpdateContent replaces the body of a post. Title and created_on are untouched.
func (r *PostRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE posts SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a post and, through the cascade, its comments.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return expectAffected(res)
}

// ListByUser returns one page of a user's posts, newest first.
func (r *PostRepository) ListByUser(ctx context.Context, username string, offset, limit int) ([]models.PostSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
SELECT p.id, p.username, p.title, p.created_on, COUNT(c.id) AS comments
FROM posts p
LEFT JOIN comments c ON c.post_id = p.id
WHERE p.username = ?
GROUP BY p.id, p.username, p.title, p.created_on
ORDER BY p.created_on DESC, p.id DESC
LIMIT ? OFFSET ?`, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list user posts: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows, offset)
}

func (r *PostRepository) CountByUser(ctx context.Context, username string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(id) FROM posts WHERE username = ?`, username).Scan(&n); err != nil {
		return 0, fmt.Errorf("count user posts: %w", err)
	}
	return n, nil
}

func scanSummaries(rows *sql.Rows, offset int) ([]models.PostSummary, error) {
	out := []models.PostSummary{}
	for rows.Next() {
		var s models.PostSummary
		if err := rows.Scan(&s.ID, &s.Username, &s.Title, &s.CreatedOn, &s.Comments); err != nil {
			return nil, err
		}
		s.Rank = offset + len(out) + 1
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanIDs(rows *sql.Rows) ([]int64, error) {
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
