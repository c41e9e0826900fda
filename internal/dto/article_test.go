package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArticleKey_PrefersBackendID(t *testing.T) {
	a := Article{ID: "art-1", Title: "Headline", Link: "https://n.example/a"}
	assert.Equal(t, "art-1", a.Key())
}

func TestArticleContentKey_SameHeadlineDifferentLinksDoNotCollide(t *testing.T) {
	a := Article{Title: "Markets Rally", Link: "https://a.example/rally"}
	b := Article{Title: "Markets Rally", Link: "https://b.example/markets"}

	assert.NotEqual(t, a.ContentKey(), b.ContentKey())
}

func TestArticleContentKey_NormalizesLinkVariants(t *testing.T) {
	variants := []Article{
		{Link: "https://www.example.com/story/"},
		{Link: "http://example.com/story"},
		{Link: "  HTTPS://Example.com/story "},
	}

	want := variants[0].ContentKey()
	for _, v := range variants[1:] {
		assert.Equal(t, want, v.ContentKey())
	}
}

func TestArticleContentKey_TitleFallbackWithoutLink(t *testing.T) {
	a := Article{Title: "Orphan Headline"}
	b := Article{Title: "  orphan headline "}

	assert.Equal(t, a.ContentKey(), b.ContentKey())
	assert.False(t, a.Persisted())
}

func TestCommentTopLevel(t *testing.T) {
	parent := "cm-1"
	assert.True(t, Comment{ID: "cm-1"}.TopLevel())
	assert.False(t, Comment{ID: "cm-2", ParentID: &parent}.TopLevel())
}

func TestCommentUpvotedBy(t *testing.T) {
	c := Comment{UpvoterIDs: []string{"u1", "u2"}}
	assert.True(t, c.UpvotedBy("u2"))
	assert.False(t, c.UpvotedBy("u3"))
}
