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

type CommentRepository struct {
	db *db.DB
}

func NewCommentRepository(d *db.DB) *CommentRepository {
	return &CommentRepository{db: d}
}

func (r *CommentRepository) Create(ctx context.Context, postID int64, username, content string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO comments (post_id, username, content) VALUES (?, ?, ?) RETURNING id`,
		postID, username, content).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert comment: %w", err)
	}
	return id, nil
}

// ListByPost returns one page of a post's comments, highest id first.
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64, offset, limit int) ([]models.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
SELECT id, post_id, username, content, created_on
FROM comments
WHERE post_id = ?
ORDER BY id DESC
LIMIT ? OFFSET ?`, postID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	out := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Username, &c.Content, &c.CreatedOn); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns ErrNotFound when the comment does not exist.
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var c models.Comment
	err := r.db.QueryRowContext(ctx, `SELECT id, post_id, username, content, created_on FROM comments WHERE id = ?`, id).
		Scan(&c.ID, &c.PostID, &c.Username, &c.Content, &c.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select comment: %w", err)
	}
	return &c, nil
}

func (r *CommentRepository) ListIDs(ctx context.Context) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM comments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list comment ids: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE comments SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return expectAffected(res)
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return expectAffected(res)
}
