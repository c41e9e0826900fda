// Package engagement tracks which articles the current user has bookmarked
// and liked. Membership is keyed by the article's stable key, synchronized
// wholesale against the backend on login and cleared on logout. Toggles are
// optimistic with an explicit rollback: a flip is pending until the backend
// confirms it, and reverts if the call fails.
package engagement

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"newsreader/internal/apperr"
	"newsreader/internal/dto"
	"newsreader/internal/notify"
	"newsreader/internal/session"
	"newsreader/pkg/kvstore"
)

// API is the slice of the REST client the store needs.
type API interface {
	UpsertArticle(ctx context.Context, article dto.Article) (string, error)
	ToggleBookmark(ctx context.Context, articleID string) (bool, error)
	ToggleLike(ctx context.Context, articleID string) (bool, error)
	Bookmarks(ctx context.Context) ([]dto.Article, error)
	Likes(ctx context.Context) ([]dto.Article, error)
}

type Kind string

const (
	Bookmark Kind = "bookmark"
	Like     Kind = "like"
)

func (k Kind) snapshotKey() string {
	if k == Like {
		return kvstore.KeyLikes
	}
	return kvstore.KeyBookmarks
}

type Store struct {
	api      API
	sessions *session.Store
	notifier notify.Notifier
	kv       *kvstore.Store

	mu sync.Mutex
	// sets key articles by content key; ids maps backend ID to content key
	// so membership tests honor ID equality when both sides carry one.
	sets map[Kind]map[string]dto.Article
	ids  map[Kind]map[string]string
}

func NewStore(api API, sessions *session.Store, kv *kvstore.Store, notifier notify.Notifier) *Store {
	if notifier == nil {
		notifier = notify.NewLog(nil)
	}

	s := &Store{
		api:      api,
		sessions: sessions,
		notifier: notifier,
		kv:       kv,
		sets: map[Kind]map[string]dto.Article{
			Bookmark: make(map[string]dto.Article),
			Like:     make(map[string]dto.Article),
		},
		ids: map[Kind]map[string]string{
			Bookmark: make(map[string]string),
			Like:     make(map[string]string),
		},
	}
	s.restore()
	return s
}

// restore loads the persisted snapshot from the previous run.
func (s *Store) restore() {
	for _, kind := range []Kind{Bookmark, Like} {
		var articles []dto.Article
		found, err := s.kv.Get(kind.snapshotKey(), &articles)
		if err != nil || !found {
			continue
		}
		for _, a := range articles {
			s.add(kind, a)
		}
	}
}

// add and remove maintain both indexes. Caller must hold the lock (or own
// the store exclusively, as restore does).
func (s *Store) add(kind Kind, a dto.Article) {
	if a.ID != "" {
		// A stored copy with the same backend ID may derive a different
		// content key; drop it so one ID never owns two entries.
		if old, ok := s.ids[kind][a.ID]; ok && old != a.ContentKey() {
			delete(s.sets[kind], old)
		}
		s.ids[kind][a.ID] = a.ContentKey()
	}
	s.sets[kind][a.ContentKey()] = a
}

func (s *Store) remove(kind Kind, a dto.Article) {
	key := a.ContentKey()
	if a.ID != "" {
		if stored, ok := s.ids[kind][a.ID]; ok {
			key = stored
		}
		delete(s.ids[kind], a.ID)
	}
	if stored, ok := s.sets[kind][key]; ok && stored.ID != "" {
		delete(s.ids[kind], stored.ID)
	}
	delete(s.sets[kind], key)
}

// IsBookmarked reports bookmark membership for the article.
func (s *Store) IsBookmarked(article dto.Article) bool {
	return s.contains(Bookmark, article)
}

// IsLiked reports like membership for the article.
func (s *Store) IsLiked(article dto.Article) bool {
	return s.contains(Like, article)
}

func (s *Store) contains(kind Kind, article dto.Article) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.has(kind, article)
}

// has tests membership, ID equality before content key. Caller holds the lock.
func (s *Store) has(kind Kind, article dto.Article) bool {
	if article.ID != "" {
		if _, ok := s.ids[kind][article.ID]; ok {
			return true
		}
	}
	_, ok := s.sets[kind][article.ContentKey()]
	return ok
}

// Bookmarks returns the current bookmark set.
func (s *Store) Bookmarks() []dto.Article {
	return s.members(Bookmark)
}

// Likes returns the current like set.
func (s *Store) Likes() []dto.Article {
	return s.members(Like)
}

func (s *Store) members(kind Kind) []dto.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]dto.Article, 0, len(s.sets[kind]))
	for _, a := range s.sets[kind] {
		out = append(out, a)
	}
	return out
}

// ToggleBookmark flips bookmark membership for the article.
func (s *Store) ToggleBookmark(ctx context.Context, article dto.Article) error {
	return s.toggle(ctx, Bookmark, article)
}

// ToggleLike flips like membership for the article.
func (s *Store) ToggleLike(ctx context.Context, article dto.Article) error {
	return s.toggle(ctx, Like, article)
}

func (s *Store) toggle(ctx context.Context, kind Kind, article dto.Article) error {
	if _, ok := s.sessions.CurrentUser(); !ok {
		s.notifier.Prompt("login required")
		return apperr.NewAuth(string(kind) + " requires a signed-in user")
	}

	// The toggle endpoint needs a backend ID; resolve one first via the
	// upsert call. The toggle is never issued with a missing ID.
	if !article.Persisted() {
		id, err := s.api.UpsertArticle(ctx, article)
		if err != nil {
			s.notifier.Failure("could not save article")
			return fmt.Errorf("resolve article id: %w", err)
		}
		article.ID = id
	}

	// Optimistic flip, pending until the backend answers.
	wasPresent := s.flip(kind, article)

	active, err := s.callToggle(ctx, kind, article.ID)
	if err != nil {
		// Rolled back: the flip reverts, UI and server stay consistent.
		s.revert(kind, article, wasPresent)
		s.notifier.Failure("could not update " + string(kind))
		return fmt.Errorf("toggle %s: %w", kind, err)
	}

	// Committed; reconcile with the server's view in case a racing toggle
	// landed first.
	s.settle(kind, article, active)
	return nil
}

func (s *Store) callToggle(ctx context.Context, kind Kind, articleID string) (bool, error) {
	if kind == Like {
		return s.api.ToggleLike(ctx, articleID)
	}
	return s.api.ToggleBookmark(ctx, articleID)
}

// flip toggles local membership and returns the previous state.
func (s *Store) flip(kind Kind, article dto.Article) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.has(kind, article) {
		s.remove(kind, article)
		return true
	}
	s.add(kind, article)
	return false
}

func (s *Store) revert(kind Kind, article dto.Article, wasPresent bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if wasPresent {
		s.add(kind, article)
	} else {
		s.remove(kind, article)
	}
}

// settle pins local membership to the server's answer and persists.
func (s *Store) settle(kind Kind, article dto.Article, active bool) {
	s.mu.Lock()
	if active {
		s.add(kind, article)
	} else {
		s.remove(kind, article)
	}
	s.mu.Unlock()

	s.persist(kind)
}

// FetchBookmarks replaces the bookmark set with the backend's, guarded to
// run only while the local set is empty (once per session, on login).
func (s *Store) FetchBookmarks(ctx context.Context) error {
	return s.fetch(ctx, Bookmark, s.api.Bookmarks)
}

// FetchLikes replaces the like set with the backend's; same guard.
func (s *Store) FetchLikes(ctx context.Context) error {
	return s.fetch(ctx, Like, s.api.Likes)
}

func (s *Store) fetch(ctx context.Context, kind Kind, call func(context.Context) ([]dto.Article, error)) error {
	s.mu.Lock()
	if len(s.sets[kind]) > 0 {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	articles, err := call(ctx)
	if err != nil {
		s.notifier.Failure("could not load " + string(kind) + "s")
		return fmt.Errorf("fetch %ss: %w", kind, err)
	}

	s.mu.Lock()
	s.sets[kind] = make(map[string]dto.Article, len(articles))
	s.ids[kind] = make(map[string]string, len(articles))
	for _, a := range articles {
		s.add(kind, a)
	}
	s.mu.Unlock()

	s.persist(kind)
	slog.Debug("engagement set synchronized", slog.String("kind", string(kind)), slog.Int("count", len(articles)))
	return nil
}

// Clear empties both sets; invoked on logout.
func (s *Store) Clear() error {
	s.mu.Lock()
	for _, kind := range []Kind{Bookmark, Like} {
		s.sets[kind] = make(map[string]dto.Article)
		s.ids[kind] = make(map[string]string)
	}
	s.mu.Unlock()

	if err := s.kv.Delete(kvstore.KeyBookmarks); err != nil {
		return err
	}
	return s.kv.Delete(kvstore.KeyLikes)
}

func (s *Store) persist(kind Kind) {
	if err := s.kv.Set(kind.snapshotKey(), s.members(kind)); err != nil {
		slog.Error("failed to persist engagement snapshot", "kind", kind, "error", err)
	}
}
