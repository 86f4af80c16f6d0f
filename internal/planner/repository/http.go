package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"planner/internal/planner/models"
	"planner/internal/planner/serializer"
)

// ============================================================
// Remote document API
// ============================================================

// HTTPStore saves documents with PUT <baseURL>/<id> and loads them with GET.
type HTTPStore struct {
	baseURL string
	token   string
	client  *http.Client
}

type HTTPOption func(*HTTPStore)

// WithBearerToken sends token in the Authorization header.
func WithBearerToken(token string) HTTPOption {
	return func(s *HTTPStore) { s.token = token }
}

func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPStore) { s.client = client }
}

func NewHTTPStore(baseURL string, opts ...HTTPOption) *HTTPStore {
	s := &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPStore) documentURL(id string) string {
	return s.baseURL + "/" + url.PathEscape(id)
}

func (s *HTTPStore) Save(ctx context.Context, id string, doc *models.DrawingData) error {
	data, err := serializer.Marshal(doc)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.documentURL(id), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("save %s: upstream status %d", id, resp.StatusCode)
	}
	return nil
}

func (s *HTTPStore) Load(ctx context.Context, id string) (*models.DrawingData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.documentURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("load %s: upstream status %d", id, resp.StatusCode)
	}
	return serializer.Deserialize(data)
}

func (s *HTTPStore) do(req *http.Request) (*http.Response, error) {
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reach document service: %w", err)
	}
	return resp, nil
}
