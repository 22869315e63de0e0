package lookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"LaunchCast/internal/domain/models"
	xhttp "LaunchCast/pkg/http"
)

type lookupRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

type lookupResponse struct {
	Snippets []models.RawCandidateSnippet `json:"snippets"`
}

// HTTPSource asks a remote lookup service for snippets about a target. The
// service receives {name, category, price} and answers {snippets: [...]}.
type HTTPSource struct {
	name     string
	url      string
	client   *xhttp.Client
	attempts int
}

// HTTPSourceOption configures HTTPSource.
type HTTPSourceOption func(*HTTPSource)

// WithClient overrides the HTTP client.
func WithClient(c *xhttp.Client) HTTPSourceOption {
	return func(s *HTTPSource) { s.client = c }
}

// WithAttempts sets how many times a failed lookup is tried.
func WithAttempts(n int) HTTPSourceOption {
	return func(s *HTTPSource) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// NewHTTPSource builds a source posting to url.
func NewHTTPSource(name, url string, timeout time.Duration, opts ...HTTPSourceOption) (*HTTPSource, error) {
	if name == "" {
		return nil, errors.New("http source requires a name")
	}
	if url == "" {
		return nil, errors.New("http source requires a url")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	s := &HTTPSource{
		name:     name,
		url:      url,
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
		attempts: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *HTTPSource) Name() string { return s.name }

// Fetch posts the target and labels unlabeled snippets with the source name.
func (s *HTTPSource) Fetch(ctx context.Context, target models.TargetProduct) ([]models.RawCandidateSnippet, error) {
	payload := lookupRequest{Name: target.Name, Category: target.Category, Price: target.Price}

	var resp lookupResponse
	var err error
	for i := 1; i <= s.attempts; i++ {
		err = s.client.PostJSON(ctx, s.url, payload, &resp)
		if err == nil {
			break
		}
		if i == s.attempts || !xhttp.Retryable(err) {
			return nil, fmt.Errorf("lookup %s: %w", s.name, err)
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	for i := range resp.Snippets {
		if resp.Snippets[i].Source == "" {
			resp.Snippets[i].Source = s.name
		}
	}
	return resp.Snippets, nil
}
