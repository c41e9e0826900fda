// Package client is the typed REST surface of the news backend. All calls
// go through the session transport, which owns token routing and reacts to
// authorization failures; this package owns request shaping and the mapping
// of responses onto the client error taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"newsreader/internal/apperr"
	"newsreader/internal/session"
	"newsreader/internal/transport"
)

const defaultTimeout = 30 * time.Second

type Option func(*Client)

type Client struct {
	base        url.URL
	http        *http.Client
	sessions    *session.Store
	validate    *validator.Validate
	adminPrefix string
	navigator   transport.Navigator
	pageSize    int
	timeout     time.Duration

	inflight inflightSet
}

func New(baseURL string, sessions *session.Store, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	c := &Client{
		base:        *base,
		sessions:    sessions,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		adminPrefix: transport.DefaultAdminPrefix,
		pageSize:    20,
		timeout:     defaultTimeout,
		inflight:    newInflightSet(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		tr := transport.New(sessions, c.navigator)
		tr.AdminPrefix = c.adminPrefix
		c.http = &http.Client{
			Timeout:   c.timeout,
			Transport: tr,
		}
	}

	return c, nil
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
		if c.http != nil {
			c.http.Timeout = timeout
		}
	}
}

func WithNavigator(nav transport.Navigator) Option {
	return func(c *Client) {
		c.navigator = nav
	}
}

func WithAdminPrefix(prefix string) Option {
	return func(c *Client) {
		c.adminPrefix = prefix
	}
}

func WithPageSize(size int) Option {
	return func(c *Client) {
		c.pageSize = size
	}
}

// Sessions exposes the session store the client routes tokens from.
func (c *Client) Sessions() *session.Store {
	return c.sessions
}

func (c *Client) isAdminPath(path string) bool {
	return path == c.adminPrefix || strings.HasPrefix(path, c.adminPrefix+"/")
}

// checkInput runs struct-tag validation and converts failures into the
// client-side ValidationError, before any network call is made.
func (c *Client) checkInput(name string, req any) error {
	if err := c.validate.Struct(req); err != nil {
		return apperr.NewValidationWrap("invalid "+name, err)
	}
	return nil
}

// do issues one request and decodes the response into respData when non-nil.
// Non-2xx statuses come back as typed errors: 401 on an authenticated call
// is a session expiry (the transport has already cleared the token and
// redirected), 403 is an authorization rejection, everything else a
// StatusError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, reqData, respData any) error {
	var body io.Reader
	if reqData != nil {
		reqDataBytes, err := json.Marshal(reqData)
		if err != nil {
			return err
		}
		body = bytes.NewReader(reqDataBytes)
	}

	reqURL := c.base.JoinPath(path)
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	admin := c.isAdminPath(path)
	authed := c.tokenWillAttach(admin)

	resp, err := c.http.Do(request)
	if err != nil {
		return apperr.NewTransport(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.NewTransport(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if respData == nil || len(respBody) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, respData); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
		return nil
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if authed {
			return &apperr.SessionExpiredError{Admin: admin, Code: resp.StatusCode}
		}
		return apperr.NewStatus(resp.StatusCode, string(respBody))
	case http.StatusForbidden:
		return &apperr.AuthorizationError{
			Message: "action not permitted",
			Err:     apperr.NewStatus(resp.StatusCode, string(respBody)),
		}
	default:
		return apperr.NewStatus(resp.StatusCode, string(respBody))
	}
}

// tokenWillAttach mirrors the transport's routing rule so a 401 can be told
// apart from a rejected anonymous call.
func (c *Client) tokenWillAttach(admin bool) bool {
	if admin {
		return c.sessions.AdminToken() != ""
	}
	return c.sessions.AdminToken() == "" && c.sessions.UserToken() != ""
}
