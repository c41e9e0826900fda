package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"newsreader/internal/dto"
)

type commentBody struct {
	CommentText string  `json:"commentText"`
	ParentID    *string `json:"parentId,omitempty"`
}

// Comments fetches the full comment list for an article in the requested
// order. The backend sorts; the client never re-sorts top-level comments.
func (c *Client) Comments(ctx context.Context, articleID string, sort dto.CommentSort) ([]dto.Comment, error) {
	query := url.Values{}
	if sort != "" {
		query.Set("sort", string(sort))
	}

	var comments []dto.Comment
	if err := c.do(ctx, http.MethodGet, "/comments/"+articleID, query, nil, &comments); err != nil {
		return nil, fmt.Errorf("fetch comments: %w", err)
	}
	return comments, nil
}

// CreateComment posts a comment or, with a non-nil parentID, a reply.
func (c *Client) CreateComment(ctx context.Context, articleID, body string, parentID *string) (dto.Comment, error) {
	var created dto.Comment
	payload := commentBody{CommentText: body, ParentID: parentID}
	if err := c.do(ctx, http.MethodPost, "/comments/"+articleID, nil, payload, &created); err != nil {
		return dto.Comment{}, fmt.Errorf("post comment: %w", err)
	}
	return created, nil
}

// UpdateComment replaces the body of one comment. Author-only; the backend
// answers 403 for anyone else.
func (c *Client) UpdateComment(ctx context.Context, articleID, commentID, body string) (dto.Comment, error) {
	var updated dto.Comment
	payload := commentBody{CommentText: body}
	if err := c.do(ctx, http.MethodPut, "/comments/"+articleID+"/"+commentID, nil, payload, &updated); err != nil {
		return dto.Comment{}, fmt.Errorf("edit comment: %w", err)
	}
	return updated, nil
}

// DeleteComment removes one comment. Author-only.
func (c *Client) DeleteComment(ctx context.Context, articleID, commentID string) error {
	if err := c.do(ctx, http.MethodDelete, "/comments/"+articleID+"/"+commentID, nil, nil, nil); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// UpvoteComment toggles the current user's membership in the comment's
// upvoter set. The server owns the resulting count.
func (c *Client) UpvoteComment(ctx context.Context, articleID, commentID string) error {
	if err := c.do(ctx, http.MethodPatch, "/comments/"+articleID+"/"+commentID+"/upvote", nil, nil, nil); err != nil {
		return fmt.Errorf("upvote comment: %w", err)
	}
	return nil
}
