package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"marque/internal/bookmark/model"
	"marque/store"
)

// Error taxonomy surfaced to callers. None of these are retried.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrStoreFailure = errors.New("store failure")
)

// API calls the bookmark service on behalf of one authenticated session.
type API struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewAPI(baseURL, token string) *API {
	return &API{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    http.DefaultClient,
	}
}

// List fetches the full snapshot, newest first.
func (a *API) List(ctx context.Context) ([]store.Bookmark, error) {
	req, err := a.newRequest(ctx, http.MethodGet, "/bookmarks", nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := statusErr(resp.StatusCode, http.StatusOK); err != nil {
		return nil, err
	}
	var bookmarks []store.Bookmark
	if err := json.NewDecoder(resp.Body).Decode(&bookmarks); err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// Create validates and normalizes the URL locally, then submits the record.
// The created row comes back with its store-assigned id and timestamps.
func (a *API) Create(ctx context.Context, rawURL, title string) (*store.Bookmark, error) {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, fmt.Errorf("%w: empty title", ErrInvalidInput)
	}

	body, err := json.Marshal(model.CreateBookmarkRequest{URL: normalized, Title: title})
	if err != nil {
		return nil, err
	}
	req, err := a.newRequest(ctx, http.MethodPost, "/bookmarks", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := statusErr(resp.StatusCode, http.StatusCreated); err != nil {
		return nil, err
	}
	var b store.Bookmark
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Delete removes a bookmark by id. The server reports success regardless of
// prior existence, so a nil return does not confirm a row was removed.
func (a *API) Delete(ctx context.Context, id string) error {
	req, err := a.newRequest(ctx, http.MethodDelete, "/bookmarks/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	resp, err := a.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return statusErr(resp.StatusCode, http.StatusOK)
}

// NormalizeURL prefixes a missing scheme with https:// and rejects strings
// that still don't parse as an absolute URL with a host.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty url", ErrInvalidInput)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("%w: malformed url %q", ErrInvalidInput, raw)
	}
	return u.String(), nil
}

func (a *API) newRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, a.BaseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, a.BaseURL+path, nil)
	}
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+a.Token)
	return req, nil
}

func statusErr(got, want int) error {
	switch {
	case got == want:
		return nil
	case got == http.StatusUnauthorized:
		return ErrUnauthorized
	case got == http.StatusBadRequest:
		return ErrInvalidInput
	default:
		return fmt.Errorf("%w: unexpected status %d", ErrStoreFailure, got)
	}
}
