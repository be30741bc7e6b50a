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

type UserRepository struct {
	db *db.DB
}

func NewUserRepository(d *db.DB) *UserRepository {
	return &UserRepository{db: d}
}

// Create inserts a user with an already hashed password.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `INSERT INTO users (username, password) VALUES (?, ?)`, username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &models.User{Username: username, PasswordHash: passwordHash}, nil
}

// GetByUsername returns ErrNotFound when no user has the given name.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u models.User
	err := r.db.QueryRowContext(ctx, `SELECT username, password FROM users WHERE username = ?`, username).
		Scan(&u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

// Delete removes a user. Their posts and comments go with them through the
// ON DELETE CASCADE foreign keys.
func (r *UserRepository) Delete(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectAffected(res)
}

// expectAffected maps a mutation that touched no row to ErrNotFound.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
