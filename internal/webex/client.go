// Package webex is a small REST client for the Webex messaging API covering
// the calls the bot makes.
package webex

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

const DefaultBaseURL = "https://webexapis.com/v1"

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("webex: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// IsLengthLimited reports whether the API rejected a message for its size.
func IsLengthLimited(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "length limited")
}

type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	attempts uint
	delay    time.Duration
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetries sets how many times a rate limited call is attempted.
func WithRetries(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		token:    token,
		http:     &http.Client{Timeout: 30 * time.Second},
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.attempts == 0 {
		c.attempts = 1
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = codec.Marshal(body); err != nil {
			return errors.Wrap(err, "encode request")
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(payload))
		if err != nil {
			return retry.Unrecoverable(errors.Wrap(err, "failed to create request"))
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.Unrecoverable(errors.Wrapf(err, "%s %s", method, path))
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.Unrecoverable(errors.Wrap(err, "read response"))
		}
		if resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
		}
		if out == nil || len(data) == 0 {
			return nil
		}
		if err := codec.Unmarshal(data, out); err != nil {
			return retry.Unrecoverable(errors.Wrap(err, "decode response"))
		}
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.retryable()
		}),
	)
}

func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if codec.Unmarshal(body, &e) == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(body))
}

func (c *Client) Me(ctx context.Context) (*Person, error) {
	var p Person
	if err := c.do(ctx, http.MethodGet, "/people/me", nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetPerson(ctx context.Context, id string) (*Person, error) {
	var p Person
	if err := c.do(ctx, http.MethodGet, "/people/"+url.PathEscape(id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListPeople(ctx context.Context, q PeopleQuery) ([]Person, error) {
	params := url.Values{}
	if q.ID != "" {
		params.Set("id", q.ID)
	}
	if q.Email != "" {
		params.Set("email", q.Email)
	}
	var page struct {
		Items []Person `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/people", params, nil, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (c *Client) GetMessage(ctx context.Context, id string) (*Message, error) {
	var m Message
	if err := c.do(ctx, http.MethodGet, "/messages/"+url.PathEscape(id), nil, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) CreateMessage(ctx context.Context, msg MessageRequest) (*Message, error) {
	var m Message
	if err := c.do(ctx, http.MethodPost, "/messages", nil, msg, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/messages/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) GetAttachmentAction(ctx context.Context, id string) (*AttachmentAction, error) {
	var a AttachmentAction
	if err := c.do(ctx, http.MethodGet, "/attachment/actions/"+url.PathEscape(id), nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
