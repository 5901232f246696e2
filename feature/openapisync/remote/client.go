package remote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"openapi-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
)

// ErrRemoteStatus is returned when a collaborator answers with an unexpected status.
var ErrRemoteStatus = errors.New("unexpected remote status")

// Client talks to the differencing service and the apply endpoint over HTTP.
//
// Comparisons are read from
//
//	GET {base}/collections/{collection}/spec-diff
//	GET {base}/collections/{collection}/local-diff?readFromDisk=true|false
//	GET {base}/collections/{collection}/remote-drift?readFromDisk=true|false
//
// A 404 or 204 answer means the comparison is unavailable. Apply requests are
// POSTed as JSON to the apply URL.
type Client struct {
	baseURL  string
	applyURL string
	token    string
	timeout  time.Duration
}

// NewClient creates a client. An empty applyURL makes Apply fail.
func NewClient(baseURL, applyURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		applyURL: applyURL,
		token:    token,
		timeout:  timeout,
	}
}

// SpecDiff implements reconcile.Source.
func (c *Client) SpecDiff(ctx context.Context, collection string) (*reconcile.DiffSet, error) {
	return c.fetch(ctx, collection, "spec-diff", nil)
}

// LocalDiff implements reconcile.Source.
func (c *Client) LocalDiff(ctx context.Context, collection string, readFromDisk bool) (*reconcile.DiffSet, error) {
	return c.fetch(ctx, collection, "local-diff", &readFromDisk)
}

// RemoteDrift implements reconcile.Source.
func (c *Client) RemoteDrift(ctx context.Context, collection string, readFromDisk bool) (*reconcile.DiffSet, error) {
	return c.fetch(ctx, collection, "remote-drift", &readFromDisk)
}

// Apply implements reconcile.Applier. It never retries.
func (c *Client) Apply(ctx context.Context, req reconcile.ApplyRequest) error {
	if c.applyURL == "" {
		return fmt.Errorf("apply endpoint is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.Post(c.applyURL).JSON(req).Timeout(c.deadline(ctx))
	c.authorize(agent)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("failed to send apply request: %w", errors.Join(errs...))
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("%w %d from apply endpoint: %s", ErrRemoteStatus, code, truncate(body))
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, collection, kind string, readFromDisk *bool) (*reconcile.DiffSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/collections/%s/%s", c.baseURL, url.PathEscape(collection), kind)
	agent := fiber.Get(endpoint).Timeout(c.deadline(ctx))
	if readFromDisk != nil {
		agent.QueryString("readFromDisk=" + strconv.FormatBool(*readFromDisk))
	}
	c.authorize(agent)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to fetch %s: %w", kind, errors.Join(errs...))
	}

	switch {
	case code == fiber.StatusNotFound || code == fiber.StatusNoContent:
		return nil, nil
	case code < 200 || code >= 300:
		return nil, fmt.Errorf("%w %d from %s: %s", ErrRemoteStatus, code, kind, truncate(body))
	}

	return reconcile.ParseDiffSet(body)
}

func (c *Client) authorize(agent *fiber.Agent) {
	if c.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
}

// deadline returns the request timeout, shortened to the context deadline.
// The fiber client has no context support, so cancellation is only honored
// before a request starts.
func (c *Client) deadline(ctx context.Context) time.Duration {
	timeout := c.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	return timeout
}

func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
