package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	liberrors "github.com/lepinkainen/pdbrowse/internal/errors"
)

// Search runs a free-text search and returns at most 25 works in server
// order, unique by key. A blank query returns no works without calling the
// API. Failures are one of the kinds in internal/errors.
func (c *Client) Search(ctx context.Context, query string) ([]Work, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Work{}, nil
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %w", liberrors.ErrCancelled, err)
		}
		return nil, liberrors.NewTransportError(err, errors.Is(err, context.DeadlineExceeded))
	}

	endpoint, err := c.searchURL(query)
	if err != nil {
		return nil, liberrors.NewInvalidRequestError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, liberrors.NewInvalidRequestError(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	slog.Debug("Searching Open Library", "query", query)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, liberrors.NewServerError(resp.StatusCode)
	}

	works, err := decodeSearchResponse(resp)
	if err != nil {
		// A body read cut short by cancellation is not a schema problem.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, classifyTransportError(ctx, ctxErr)
		}
		return nil, err
	}

	slog.Debug("Open Library search complete", "query", query, "results", len(works))
	return works, nil
}

func (c *Client) searchURL(query string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("base URL %q is not absolute", c.baseURL)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("public_scan", "true")
	params.Set("limit", strconv.Itoa(searchLimit))

	base.Path = strings.TrimSuffix(base.Path, "/") + "/search.json"
	base.RawQuery = params.Encode()
	return base.String(), nil
}

func decodeSearchResponse(resp *http.Response) ([]Work, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, liberrors.NewDecodingError(err)
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, liberrors.NewDecodingError(err)
	}
	if payload.Docs == nil {
		return nil, liberrors.NewDecodingError(errors.New("response has no docs field"))
	}

	docs := *payload.Docs
	works := make([]Work, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for _, doc := range docs {
		work, err := doc.toWork()
		if err != nil {
			return nil, liberrors.NewDecodingError(err)
		}
		if seen[work.Key] {
			continue
		}
		seen[work.Key] = true
		works = append(works, work)
	}
	return works, nil
}

// classifyTransportError separates cancellation from other request failures.
// ctx is the per-request context, so a deadline here is the request timeout.
func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: %w", liberrors.ErrCancelled, err)
	}

	timeout := errors.Is(err, context.DeadlineExceeded)
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		timeout = true
	}
	return liberrors.NewTransportError(err, timeout)
}
