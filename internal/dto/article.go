package dto

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// Article is the client-side projection of a backend article. ID stays empty
// until the backend has persisted the article and assigned one.
type Article struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Link        string    `json:"link"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
	SourceName  string    `json:"sourceName,omitempty"`
	Category    string    `json:"category,omitempty"`
	Country     string    `json:"country,omitempty"`
}

// Key returns a stable identity for the article. The backend ID wins when
// present; otherwise the key falls back to the content key.
func (a Article) Key() string {
	if a.ID != "" {
		return a.ID
	}
	return a.ContentKey()
}

// ContentKey derives identity from the article's content alone, ignoring
// the backend ID: a hash of the normalized link, so two distinct articles
// sharing a headline never collide. Title is the last resort for records
// that carry no link.
func (a Article) ContentKey() string {
	if a.Link != "" {
		return hashKey(normalizeLink(a.Link))
	}
	return hashKey(strings.ToLower(strings.TrimSpace(a.Title)))
}

// Persisted reports whether the backend has assigned an ID yet.
func (a Article) Persisted() bool {
	return a.ID != ""
}

func normalizeLink(link string) string {
	s := strings.ToLower(strings.TrimSpace(link))
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimSuffix(s, "/")
}

func hashKey(content string) string {
	hash := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", hash)
}
