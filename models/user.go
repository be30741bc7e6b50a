package models

// User represents a forum member.
// It maps to the `users` table; users are pre-seeded by the initial migration.
type User struct {
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password" json:"-"`
}
