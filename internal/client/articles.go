package client

import (
	"context"
	"fmt"
	"net/http"

	"newsreader/internal/apperr"
	"newsreader/internal/dto"
)

type upsertResponse struct {
	ID string `json:"id"`
}

// UpsertArticle persists an article server-side and returns the
// backend-assigned ID. The backend deduplicates, so re-upserting an already
// known article returns the existing ID.
func (c *Client) UpsertArticle(ctx context.Context, article dto.Article) (string, error) {
	if article.Title == "" {
		return "", apperr.NewValidation("article has no title")
	}

	var resp upsertResponse
	if err := c.do(ctx, http.MethodPost, "/article/create", nil, article, &resp); err != nil {
		return "", fmt.Errorf("upsert article: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("upsert article: backend returned no id")
	}
	return resp.ID, nil
}

type toggleRequest struct {
	ArticleID string `json:"articleId"`
}

type toggleResponse struct {
	Active bool `json:"active"`
}

// ToggleBookmark flips bookmark membership for a persisted article and
// reports the resulting state. The article ID must already be resolved.
func (c *Client) ToggleBookmark(ctx context.Context, articleID string) (bool, error) {
	return c.toggle(ctx, "/article/bookmark", articleID)
}

// ToggleLike flips like membership for a persisted article.
func (c *Client) ToggleLike(ctx context.Context, articleID string) (bool, error) {
	return c.toggle(ctx, "/article/like", articleID)
}

func (c *Client) toggle(ctx context.Context, path, articleID string) (bool, error) {
	if articleID == "" {
		return false, apperr.NewValidation("article id is required for engagement toggles")
	}

	var resp toggleResponse
	if err := c.do(ctx, http.MethodPatch, path, nil, toggleRequest{ArticleID: articleID}, &resp); err != nil {
		return false, fmt.Errorf("toggle %s: %w", path, err)
	}
	return resp.Active, nil
}

// Bookmarks fetches the authenticated user's full bookmark set.
func (c *Client) Bookmarks(ctx context.Context) ([]dto.Article, error) {
	return c.engagementSet(ctx, "/article/bookmarks")
}

// Likes fetches the authenticated user's full like set.
func (c *Client) Likes(ctx context.Context) ([]dto.Article, error) {
	return c.engagementSet(ctx, "/article/likes")
}

func (c *Client) engagementSet(ctx context.Context, path string) ([]dto.Article, error) {
	var articles []dto.Article
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &articles); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	return articles, nil
}
