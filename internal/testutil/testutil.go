package testutil

import (
	"context"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"discussionForum/internal/db"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// The database is closed through t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *db.DB {
	t.Helper()
	// shared cache so the name identifies one database for the whole test
	d, err := db.Open(context.Background(), db.DialectSQLite, "file:"+name+"?mode=memory&cache=shared", nil)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// InsertPostAt inserts a post with an explicit creation time and returns its id.
// SQLite timestamps have second resolution, so ordering tests pin created_on.
func InsertPostAt(t *testing.T, d *db.DB, username, title, content string, at time.Time) int64 {
	t.Helper()
	var id int64
	err := d.QueryRowContext(context.Background(),
		`INSERT INTO posts (username, title, content, created_on) VALUES (?, ?, ?, ?) RETURNING id`,
		username, title, content, at.UTC().Format("2006-01-02 15:04:05")).Scan(&id)
	if err != nil {
		t.Fatalf("insert post: %v", err)
	}
	return id
}

// GenerateSessionToken returns a signed HS256 session token for username.
func GenerateSessionToken(t *testing.T, secret, username string) string {
	t.Helper()
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}
