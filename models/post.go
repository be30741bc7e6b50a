package models

import "time"

const (
	TitleMinLength = 1
	TitleMaxLength = 100
)

// Post is a row of the `posts` table.
// CreatedOn is assigned by the store and never updated.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedOn time.Time `db:"created_on" json:"created_on"`
}

// PostSummary is a post as it appears in a listing.
// Comments is derived from the comments table; Rank is the 1-based position
// of the post across the whole listing (offset + index + 1).
type PostSummary struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Title     string    `json:"title"`
	CreatedOn time.Time `json:"created_on"`
	Comments  int       `json:"comments"`
	Rank      int       `json:"rank"`
}

// PostDetail is a single post together with its comment count.
type PostDetail struct {
	Post
	Comments int `json:"comments"`
}
