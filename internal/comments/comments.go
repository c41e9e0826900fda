// Package comments fetches, structures and mutates the comment forest of
// one article. The flat backend list is indexed by ID; parent→children
// relationships are derived on demand and recomputed from scratch after
// every change, which is cheap at the comment volumes a single article sees.
package comments

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"newsreader/internal/apperr"
	"newsreader/internal/dto"
	"newsreader/internal/notify"
	"newsreader/internal/session"
)

// API is the slice of the REST client the store needs.
type API interface {
	Comments(ctx context.Context, articleID string, sort dto.CommentSort) ([]dto.Comment, error)
	CreateComment(ctx context.Context, articleID, body string, parentID *string) (dto.Comment, error)
	UpdateComment(ctx context.Context, articleID, commentID, body string) (dto.Comment, error)
	DeleteComment(ctx context.Context, articleID, commentID string) error
	UpvoteComment(ctx context.Context, articleID, commentID string) error
}

type Store struct {
	api      API
	sessions *session.Store
	notifier notify.Notifier

	mu        sync.RWMutex
	articleID string
	sortOrder dto.CommentSort
	byID      map[string]dto.Comment
	order     []string
}

func NewStore(api API, sessions *session.Store, notifier notify.Notifier) *Store {
	if notifier == nil {
		notifier = notify.NewLog(nil)
	}
	return &Store{
		api:      api,
		sessions: sessions,
		notifier: notifier,
		byID:     make(map[string]dto.Comment),
	}
}

// Fetch replaces the local comment set with the backend's list for the
// article, in the requested order. On failure local state is untouched.
func (s *Store) Fetch(ctx context.Context, articleID string, sortOrder dto.CommentSort) error {
	list, err := s.api.Comments(ctx, articleID, sortOrder)
	if err != nil {
		s.notifier.Failure("could not load comments")
		return fmt.Errorf("fetch comments: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(articleID, sortOrder, list)
	return nil
}

// replace rebuilds the index. Caller must hold the write lock.
func (s *Store) replace(articleID string, sortOrder dto.CommentSort, list []dto.Comment) {
	s.articleID = articleID
	s.sortOrder = sortOrder
	s.byID = make(map[string]dto.Comment, len(list))
	s.order = make([]string, 0, len(list))
	for _, c := range list {
		s.byID[c.ID] = c
		s.order = append(s.order, c.ID)
	}
}

// All returns every comment in backend order.
func (s *Store) All() []dto.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]dto.Comment, 0, len(s.order))
	for _, id := range s.order {
		if c, ok := s.byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Get returns one comment by ID.
func (s *Store) Get(id string) (dto.Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	return c, ok
}

// TopLevel derives the thread roots, preserving backend order.
func (s *Store) TopLevel() []dto.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]dto.Comment, 0, len(s.order))
	for _, id := range s.order {
		if c, ok := s.byID[id]; ok && c.TopLevel() {
			out = append(out, c)
		}
	}
	return out
}

// Replies derives the direct replies of one comment, oldest first. A
// comment without replies yields an empty slice, never nil.
func (s *Store) Replies(commentID string) []dto.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]dto.Comment, 0)
	for _, id := range s.order {
		c, ok := s.byID[id]
		if !ok || c.ParentID == nil {
			continue
		}
		if *c.ParentID == commentID {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Post creates a comment, or a reply when parentID is non-nil, then
// resynchronizes the whole list; there is no optimistic insert.
func (s *Store) Post(ctx context.Context, articleID, body string, parentID *string) error {
	user, ok := s.sessions.CurrentUser()
	if !ok {
		s.notifier.Prompt("login required to comment")
		return apperr.NewAuth("posting a comment requires a signed-in user")
	}

	if strings.TrimSpace(body) == "" {
		return apperr.NewValidation("comment body is empty")
	}

	if _, err := s.api.CreateComment(ctx, articleID, body, parentID); err != nil {
		s.notifier.Failure("could not post comment")
		return fmt.Errorf("post comment: %w", err)
	}

	slog.Debug("comment posted", slog.String("article", articleID), slog.String("author", user.ID))
	return s.Fetch(ctx, articleID, s.currentSort())
}

// Edit replaces one comment body. Author-only; on success the single record
// is patched in place without a full refetch.
func (s *Store) Edit(ctx context.Context, commentID, body string) error {
	target, ok := s.Get(commentID)
	if !ok {
		return apperr.NewValidation("unknown comment " + commentID)
	}
	if err := s.requireAuthor(target); err != nil {
		return err
	}

	updated, err := s.api.UpdateComment(ctx, target.ArticleID, commentID, body)
	if err != nil {
		s.notifier.Failure("could not save comment")
		return fmt.Errorf("edit comment: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byID[commentID]
	if !ok {
		return nil
	}
	// Some backends answer the update with an empty body; the request text
	// is then the source of truth.
	current.Body = body
	if updated.Body != "" {
		current.Body = updated.Body
	}
	if !updated.UpdatedAt.IsZero() {
		current.UpdatedAt = updated.UpdatedAt
	}
	s.byID[commentID] = current
	return nil
}

// Delete removes one comment. With refetch the whole list is resynchronized
// afterwards (the safer default); without it only the local record goes,
// for callers that already trust local state.
func (s *Store) Delete(ctx context.Context, commentID string, refetch bool) error {
	target, ok := s.Get(commentID)
	if !ok {
		return apperr.NewValidation("unknown comment " + commentID)
	}
	if err := s.requireAuthor(target); err != nil {
		return err
	}

	if err := s.api.DeleteComment(ctx, target.ArticleID, commentID); err != nil {
		s.notifier.Failure("could not delete comment")
		return fmt.Errorf("delete comment: %w", err)
	}

	if refetch {
		return s.Fetch(ctx, target.ArticleID, s.currentSort())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, commentID)
	return nil
}

// Upvote toggles the current user's upvote and refetches; the server is the
// source of truth for counts.
func (s *Store) Upvote(ctx context.Context, commentID string) error {
	if _, ok := s.sessions.CurrentUser(); !ok {
		s.notifier.Prompt("login required to upvote")
		return apperr.NewAuth("upvoting requires a signed-in user")
	}

	target, ok := s.Get(commentID)
	if !ok {
		return apperr.NewValidation("unknown comment " + commentID)
	}

	if err := s.api.UpvoteComment(ctx, target.ArticleID, commentID); err != nil {
		s.notifier.Failure("could not upvote comment")
		return fmt.Errorf("upvote comment: %w", err)
	}

	return s.Fetch(ctx, target.ArticleID, s.currentSort())
}

func (s *Store) requireAuthor(c dto.Comment) error {
	user, ok := s.sessions.CurrentUser()
	if !ok {
		s.notifier.Prompt("login required")
		return apperr.NewAuth("this action requires a signed-in user")
	}
	if c.AuthorID != user.ID {
		s.notifier.Failure("you can only change your own comments")
		return apperr.NewAuthorization("comment " + c.ID + " belongs to another user")
	}
	return nil
}

func (s *Store) currentSort() dto.CommentSort {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.sortOrder == "" {
		return dto.SortNewest
	}
	return s.sortOrder
}
