package teamkill

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/logger"
	"github.com/osse101/TeamkillBot_Go/internal/metrics"
)

// Client handles communication with the Teamkill.club API.
// It is stateless; every call carries its own timeout.
type Client struct {
	BaseURL string
	Client  *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// doJSON performs a request and decodes a 2xx body into out.
// It reports whether out was populated: a 2xx with an empty or unparsable
// body is success with no data, not an error.
func (c *Client) doJSON(ctx context.Context, endpoint, method, path string, header http.Header, body, out interface{}) (bool, error) {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", stripURL(err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	logger.FromContext(ctx).Debug("Teamkill API request", "endpoint", endpoint, "method", method)

	start := time.Now()
	resp, err := c.Client.Do(req)
	metrics.RemoteRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(endpoint, metrics.StatusTransportError).Inc()
		return false, fmt.Errorf("%w: %s: %w", ErrUnreachable, endpoint, stripURL(err))
	}
	defer resp.Body.Close()
	metrics.RemoteRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return false, fmt.Errorf("%w: %s: reading body: %v", ErrUnreachable, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, newAPIError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logger.FromContext(ctx).Debug("Teamkill API returned unparsable body",
			"endpoint", endpoint, "status", resp.StatusCode, "error", err)
		return false, nil
	}
	return true, nil
}

// stripURL drops the request URL from net/http errors. Query strings carry
// count tokens, which must not reach logs.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

func newAPIError(status int, raw []byte) *APIError {
	var errResp errorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Error != "" {
		return &APIError{StatusCode: status, Message: errResp.Error}
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}

// GetList fetches the current state of a list by slug.
func (c *Client) GetList(ctx context.Context, slug string) (*domain.Leaderboard, error) {
	var resp listResponse
	path := PathListGet + "?slug=" + url.QueryEscape(slug)
	ok, err := c.doJSON(ctx, EndpointListGet, http.MethodGet, path, nil, nil, &resp)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrListNotFound, slug)
		}
		return nil, err
	}
	if !ok || resp.List == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrListNotFound, slug)
	}

	board := &domain.Leaderboard{
		Slug:   slug,
		Name:   resp.List.Name,
		People: make([]domain.Person, 0, len(resp.People)),
	}
	for _, p := range resp.People {
		board.People = append(board.People, domain.Person{
			ID:    string(p.ID),
			Name:  p.Name,
			Count: int64(p.Count),
		})
	}
	return board, nil
}

// CreateList provisions a new list owned by the caller.
func (c *Client) CreateList(ctx context.Context, name string) (*CreatedList, error) {
	var created CreatedList
	ok, err := c.doJSON(ctx, EndpointOwnerCreate, http.MethodPost, PathOwnerCreate, nil,
		map[string]string{"name": name}, &created)
	if err != nil {
		return nil, err
	}
	if !ok || created.Slug == "" {
		return nil, fmt.Errorf("%w: owner_create returned no slug", domain.ErrIncompleteRemote)
	}
	return &created, nil
}

// OwnerSettings fetches the owner-scoped settings of a list.
func (c *Client) OwnerSettings(ctx context.Context, ownerToken string) (*OwnerSettings, error) {
	var settings OwnerSettings
	header := http.Header{}
	header.Set(HeaderOwnerToken, ownerToken)
	if _, err := c.doJSON(ctx, EndpointOwnerSetting, http.MethodGet, PathOwnerSetting, header, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// ResolveCountToken returns the slug a count token is bound to.
// Unknown tokens yield ErrUnknownToken; reachability problems keep their
// transient classification (see IsTransient).
func (c *Client) ResolveCountToken(ctx context.Context, token domain.Token) (string, error) {
	var resp resolveResponse
	path := PathResolveToken + "?token=" + url.QueryEscape(string(token))
	ok, err := c.doJSON(ctx, EndpointResolveToken, http.MethodGet, path, nil, nil, &resp)
	if err != nil {
		if IsTransient(err) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrUnknownToken, err)
	}
	if !ok || resp.Slug == "" {
		return "", ErrUnknownToken
	}
	return string(resp.Slug), nil
}

// PostDelta applies +1/-1 to one person. The count token is the bearer credential.
// A nil result with a nil error means the API accepted the delta without
// reporting the new count.
func (c *Client) PostDelta(ctx context.Context, token domain.Token, slug, personID string, delta domain.Delta) (*DeltaResult, error) {
	if !delta.Valid() {
		return nil, domain.ErrInvalidDelta
	}
	id, err := strconv.ParseInt(personID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: person id %q", domain.ErrInvalidSelection, personID)
	}

	header := http.Header{}
	header.Set(HeaderCountToken, string(token))

	var result DeltaResult
	ok, err := c.doJSON(ctx, EndpointDeltaPost, http.MethodPost, PathDeltaPost, header, deltaRequest{
		Slug:     slug,
		PersonID: id,
		Delta:    int(delta),
	}, &result)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &result, nil
}

// Ping checks whether the API answers at all.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doJSON(ctx, "ping", http.MethodGet, PathHealth, nil, nil, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		return nil
	}
	return err
}

// ViewURL returns the public page of a list.
func (c *Client) ViewURL(slug string) string {
	return c.BaseURL + RouteView + slug
}

// CountURL returns the counting page of a count token.
func (c *Client) CountURL(token domain.Token) string {
	return c.BaseURL + RouteCount + string(token)
}

// OwnerURL returns the owner page of an owner token.
func (c *Client) OwnerURL(ownerToken string) string {
	return c.BaseURL + RouteOwner + ownerToken
}
