package comments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsreader/internal/apperr"
	"newsreader/internal/dto"
	"newsreader/internal/notify"
	"newsreader/internal/session"
	"newsreader/pkg/kvstore"
)

type fakeAPI struct {
	comments []dto.Comment
	fetchErr error

	// updateEmpty makes UpdateComment answer 2xx with no payload.
	updateEmpty bool

	fetches int
	creates int
	updates int
	deletes int
	upvotes int
}

func (f *fakeAPI) Comments(_ context.Context, _ string, _ dto.CommentSort) ([]dto.Comment, error) {
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.comments, nil
}

func (f *fakeAPI) CreateComment(_ context.Context, articleID, body string, parentID *string) (dto.Comment, error) {
	f.creates++
	created := dto.Comment{ID: "cm-new", ArticleID: articleID, Body: body, ParentID: parentID}
	f.comments = append(f.comments, created)
	return created, nil
}

func (f *fakeAPI) UpdateComment(_ context.Context, _, commentID, body string) (dto.Comment, error) {
	f.updates++
	if f.updateEmpty {
		return dto.Comment{}, nil
	}
	return dto.Comment{ID: commentID, Body: body, UpdatedAt: time.Now()}, nil
}

func (f *fakeAPI) DeleteComment(_ context.Context, _, commentID string) error {
	f.deletes++
	kept := f.comments[:0]
	for _, c := range f.comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	f.comments = kept
	return nil
}

func (f *fakeAPI) UpvoteComment(_ context.Context, _, _ string) error {
	f.upvotes++
	return nil
}

func ptr(s string) *string { return &s }

func signedInStore(t *testing.T, api API) (*Store, *notify.Spy) {
	t.Helper()
	sessions := session.NewStore(kvstore.NewMemory())
	require.NoError(t, sessions.SetUser("tok", dto.User{ID: "u1", Name: "Mila"}))
	spy := &notify.Spy{}
	return NewStore(api, sessions, spy), spy
}

func anonymousStore(api API) (*Store, *notify.Spy) {
	spy := &notify.Spy{}
	return NewStore(api, session.NewStore(kvstore.NewMemory()), spy), spy
}

func forest() []dto.Comment {
	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	return []dto.Comment{
		{ID: "cm-2", ArticleID: "art-1", AuthorID: "u2", Body: "second root", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "cm-1", ArticleID: "art-1", AuthorID: "u1", Body: "first root", CreatedAt: base},
		{ID: "cm-1b", ArticleID: "art-1", AuthorID: "u2", Body: "late reply", ParentID: ptr("cm-1"), CreatedAt: base.Add(time.Hour)},
		{ID: "cm-1a", ArticleID: "art-1", AuthorID: "u1", Body: "early reply", ParentID: ptr("cm-1"), CreatedAt: base.Add(time.Minute)},
	}
}

func TestFetch_BuildsIndexAndTopLevel(t *testing.T) {
	api := &fakeAPI{comments: forest()}
	store, _ := signedInStore(t, api)

	require.NoError(t, store.Fetch(context.Background(), "art-1", dto.SortNewest))

	top := store.TopLevel()
	require.Len(t, top, 2)
	assert.Equal(t, "cm-2", top[0].ID, "backend order is preserved")
	assert.Equal(t, "cm-1", top[1].ID)
}

func TestReplies_SortedByCreatedAtAscending(t *testing.T) {
	api := &fakeAPI{comments: forest()}
	store, _ := signedInStore(t, api)
	require.NoError(t, store.Fetch(context.Background(), "art-1", dto.SortNewest))

	replies := store.Replies("cm-1")
	require.Len(t, replies, 2)
	assert.Equal(t, "cm-1a", replies[0].ID)
	assert.Equal(t, "cm-1b", replies[1].ID)
}

func TestReplies_LeafReturnsEmptyNeverNil(t *testing.T) {
	api := &fakeAPI{comments: forest()}
	store, _ := signedInStore(t, api)
	require.NoError(t, store.Fetch(context.Background(), "art-1", dto.SortNewest))

	replies := store.Replies("cm-2")
	assert.NotNil(t, replies)
	assert.Empty(t, replies)
}

func TestFetch_AllTopLevelInputStaysFlat(t *testing.T) {
	flat := []dto.Comment{
		{ID: "a", ArticleID: "art-1"},
		{ID: "b", ArticleID: "art-1"},
		{ID: "c", ArticleID: "art-1"},
	}
	store, _ := signedInStore(t, &fakeAPI{comments: flat})
	require.NoError(t, store.Fetch(context.Background(), "art-1", dto.SortOldest))

	top := store.TopLevel()
	require.Len(t, top, 3)
	for i, c := range flat {
		assert.Equal(t, c.ID, top[i].ID)
		assert.Empty(t, store.Replies(c.ID))
	}
}

func TestFetch_FailureLeavesStateUntouched(t *testing.T) {
	api := &fakeAPI{comments: forest()}
	store, spy := signedInStore(t, api)
	require.NoError(t, store.Fetch(context.Background(), "art-1", dto.SortNewest))

	api.fetchErr = errors.New("boom")
	err := store.Fetch(context.Background(), "art-1", dto.SortNewest)
	require.Error(t, err)

	assert.Len(t, store.All(), 4, "failed fetch must not clear local state")
	assert.Len(t, spy.Failures, 1)
}

func TestPost_AnonymousGetsPromptNotToast(t *testing.T) {
	api := &fakeAPI{}
	store, spy := anonymousStore(api)

	err := store.Post(context.Background(), "art-1", "hello", nil)

	var ae *apperr.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Zero(t, api.creates, "no network call for anonymous post")
	assert.Len(t, spy.Prompts, 1)
	assert.Empty(t, spy.Failures)
}

func TestPost_BlankBodyIsValidationError(t *testing.T) {
	api := &fakeAPI{}
	store, _ := signedInStore(t, api)

	err := store.Post(context.Background(), "art-1", "   \t ", nil)

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, api.creates)
}

func TestPost_ResynchronizesAfterCreate(t *testing.T) {
	api := &fakeAPI{comments: forest()}
	store, _ := signedInStore(t, api)
	require.NoError(t, store.Fetch(context.Background(), "art-1", dto.SortNewest))

	require.NoError(t, store.Post(context.Background(), "art-1", "a fresh take", nil))

	assert.Equal(t, 1, api.creates)
	assert.Equal(t, 2, api.fetches, "post triggers a full refetch, no optimistic insert")
	_, ok := store.Get("cm-new")
	assert.True(t, ok)
}

func TestEdit_AuthorOnlyInPlaceNoRefetch(t *testing.T) {
	api := &fakeAPI{comments: forest()}
	store, _ := signedInStore(t, api)
	require.NoError(t, store.Fetch(context.Background(), "art-1", dto.SortNewest))

	require.NoError(t, store.Edit(context.Background(), "cm-1", "hello world"))

	assert.Equal(t, 1, api.updates)
	assert.Equal(t, 1, api.fetches, "edit patches in place, never refetches")
	got, ok := store.Get("cm-1")
	require.True(t, ok)
	assert.Equal(t, "hello world", got.Body)
}

func TestEdit_EmptyResponseKeepsRequestBody(t *testing.T) {
	api := &fakeAPI{comments: forest(), updateEmpty: true}
	store, _ := signedInStore(t, api)
	require.NoError(t, store.Fetch(context.Background(), "art-1", dto.SortNewest))

	require.NoError(t, store.Edit(context.Background(), "cm-1", "revised text"))

	got, ok := store.Get("cm-1")
	require.True(t, ok)
	assert.Equal(t, "revised text", got.Body, "empty update response must not wipe the text")
}

func TestEdit_ForeignCommentIsAuthorizationError(t *testing.T) {
	api := &fakeAPI{comments: forest()}
	store, spy := signedInStore(t, api)
	require.NoError(t, store.Fetch(context.Background(), "art-1", dto.SortNewest))

	err := store.Edit(context.Background(), "cm-2", "hijack")

	var ae *apperr.AuthorizationError
	require.ErrorAs(t, err, &ae)
	assert.Zero(t, api.updates, "rejected edit must not hit the backend")
	assert.Len(t, spy.Failures, 1)

	got, _ := store.Get("cm-2")
	assert.Equal(t, "second root", got.Body, "local state unmodified")
}

func TestDelete_DefaultRefetches(t *testing.T) {
	api := &fakeAPI{comments: forest()}
	store, _ := signedInStore(t, api)
	require.NoError(t, store.Fetch(context.Background(), "art-1", dto.SortNewest))

	require.NoError(t, store.Delete(context.Background(), "cm-1", true))

	assert.Equal(t, 1, api.deletes)
	assert.Equal(t, 2, api.fetches)
	_, ok := store.Get("cm-1")
	assert.False(t, ok)
}

func TestDelete_LocalOnlySkipsRefetch(t *testing.T) {
	api := &fakeAPI{comments: forest()}
	store, _ := signedInStore(t, api)
	require.NoError(t, store.Fetch(context.Background(), "art-1", dto.SortNewest))

	require.NoError(t, store.Delete(context.Background(), "cm-1", false))

	assert.Equal(t, 1, api.fetches, "caller opted out of the refetch")
	_, ok := store.Get("cm-1")
	assert.False(t, ok)
}

func TestUpvote_TogglesThenRefetches(t *testing.T) {
	api := &fakeAPI{comments: forest()}
	store, _ := signedInStore(t, api)
	require.NoError(t, store.Fetch(context.Background(), "art-1", dto.SortNewest))

	require.NoError(t, store.Upvote(context.Background(), "cm-2"))

	assert.Equal(t, 1, api.upvotes)
	assert.Equal(t, 2, api.fetches, "server owns the count, so upvote refetches")
}

func TestUpvote_AnonymousIsPrompted(t *testing.T) {
	api := &fakeAPI{comments: forest()}
	store, spy := anonymousStore(api)

	err := store.Upvote(context.Background(), "cm-2")

	var ae *apperr.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Zero(t, api.upvotes)
	assert.Len(t, spy.Prompts, 1)
}
