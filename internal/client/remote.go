package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/contactdesk/internal/core"
	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds a single Remote call, retries included.
const DefaultTimeout = 10 * time.Second

// Remote talks to a running server over HTTP. Reads are retried on network
// errors, 429 and 5xx answers; writes are sent once.
type Remote struct {
	http *resty.Client
}

var _ DataCentre = (*Remote)(nil)

// RemoteOption configures a Remote.
type RemoteOption func(*resty.Client)

// WithAPIKey sends key in the X-API-Key header.
func WithAPIKey(key string) RemoteOption {
	return func(c *resty.Client) {
		if key != "" {
			c.SetHeader("X-API-Key", key)
		}
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) RemoteOption {
	return func(c *resty.Client) {
		c.SetTimeout(d)
	}
}

// WithRetry sets how many times a read is retried and the base wait.
func WithRetry(count int, wait time.Duration) RemoteOption {
	return func(c *resty.Client) {
		c.SetRetryCount(count).
			SetRetryWaitTime(wait).
			SetRetryMaxWaitTime(wait * 10)
	}
}

// NewRemote returns a Remote for the API rooted at baseURL, for example
// "http://localhost:3000/api".
func NewRemote(baseURL string, opts ...RemoteOption) *Remote {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(retryCondition)

	for _, opt := range opts {
		opt(c)
	}
	return &Remote{http: c}
}

// retryCondition retries idempotent reads only.
func retryCondition(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
		return false
	}
	if err != nil {
		return !errors.Is(err, context.Canceled)
	}
	code := r.StatusCode()
	return code == http.StatusTooManyRequests || code >= 500
}

// errorBody is the server's failure envelope.
type errorBody struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields"`
}

func (c *Remote) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&errorBody{})
}

// check converts a transport error or non-2xx response into an error.
func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !resp.IsError() {
		return nil
	}

	aerr := &APIError{Status: resp.StatusCode(), Message: resp.Status()}
	if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
		aerr.Message = body.Error
		aerr.Code = body.Code
		aerr.Fields = body.Fields
	}
	return fmt.Errorf("%s: %w", op, aerr)
}

func (c *Remote) Health(ctx context.Context) (*Health, error) {
	var h Health
	resp, err := c.request(ctx).SetResult(&h).Get("/health")
	if err := check("health", resp, err); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Remote) Save(ctx context.Context, in core.NewSubmission) (*core.Submission, error) {
	var out struct {
		Data core.Submission `json:"data"`
	}
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(in).
		SetResult(&out).
		Post("/contacts")
	if err := check("save contact", resp, err); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

type listBody struct {
	Count int               `json:"count"`
	Data  []core.Submission `json:"data"`
}

func (c *Remote) All(ctx context.Context) ([]core.Submission, error) {
	var out listBody
	resp, err := c.request(ctx).SetResult(&out).Get("/contacts")
	if err := check("list contacts", resp, err); err != nil {
		return nil, err
	}
	return nonNil(out.Data), nil
}

func (c *Remote) Get(ctx context.Context, id int64) (*core.Submission, error) {
	var out struct {
		Data core.Submission `json:"data"`
	}
	resp, err := c.request(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetResult(&out).
		Get("/contacts/{id}")
	if err := check("get contact", resp, err); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Query posts the filter. It is a read, but as a POST it is not retried.
func (c *Remote) Query(ctx context.Context, req core.FilterRequest) ([]core.Submission, error) {
	var out listBody
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		Post("/contacts/query")
	if err := check("query contacts", resp, err); err != nil {
		return nil, err
	}
	return nonNil(out.Data), nil
}

func (c *Remote) Stats(ctx context.Context) (*core.Stats, error) {
	var out struct {
		Stats core.Stats `json:"stats"`
	}
	resp, err := c.request(ctx).SetResult(&out).Get("/stats")
	if err := check("stats", resp, err); err != nil {
		return nil, err
	}
	return &out.Stats, nil
}

func (c *Remote) ExportCSV(ctx context.Context) ([]byte, error) {
	resp, err := c.request(ctx).SetHeader("Accept", "text/csv").Get("/export/csv")
	if err := check("export csv", resp, err); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func (c *Remote) ImportCSV(ctx context.Context, r io.Reader) (*core.ImportResult, error) {
	var out core.ImportResult
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "text/csv").
		SetBody(r).
		SetResult(&out).
		Post("/import/csv")
	if err := check("import csv", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Remote) Delete(ctx context.Context, id int64) error {
	resp, err := c.request(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		Delete("/contacts/{id}")
	return check("delete contact", resp, err)
}

func (c *Remote) Clear(ctx context.Context) error {
	resp, err := c.request(ctx).Delete("/contacts")
	return check("clear contacts", resp, err)
}

func nonNil(subs []core.Submission) []core.Submission {
	if subs == nil {
		return []core.Submission{}
	}
	return subs
}
