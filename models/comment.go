package models

import "time"

// Comment is a reply attached to exactly one post.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	Username  string    `db:"username" json:"username"`
	Content   string    `db:"content" json:"content"`
	CreatedOn time.Time `db:"created_on" json:"created_on"`
}
