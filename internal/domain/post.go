package domain

import "time"

// Post is a user-authored article with nested comments.
type Post struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	Comments  []Comment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment is a remark left on a post by any user.
type Comment struct {
	ID        string
	PostID    string
	UserID    string
	Comment   string
	CreatedAt time.Time
}
