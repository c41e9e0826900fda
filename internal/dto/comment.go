package dto

import "time"

// Comment is one record of an article's comment forest. A nil ParentID marks
// a top-level comment; a non-nil one marks a reply to exactly one parent.
type Comment struct {
	ID          string    `json:"id"`
	ArticleID   string    `json:"articleId"`
	AuthorID    string    `json:"authorId"`
	AuthorName  string    `json:"authorName,omitempty"`
	Body        string    `json:"comment"`
	ParentID    *string   `json:"parentId,omitempty"`
	UpvoteCount int       `json:"upvoteCount"`
	UpvoterIDs  []string  `json:"upvoterIds,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// TopLevel reports whether the comment roots a thread.
func (c Comment) TopLevel() bool {
	return c.ParentID == nil
}

// UpvotedBy reports whether the given user is in the upvoter set.
func (c Comment) UpvotedBy(userID string) bool {
	for _, id := range c.UpvoterIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// CommentSort selects the ordering the backend applies to a comment fetch.
type CommentSort string

const (
	SortNewest CommentSort = "newest"
	SortOldest CommentSort = "oldest"
	SortTop    CommentSort = "top"
)
