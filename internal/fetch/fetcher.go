// Package fetch downloads dictionary pages for a query.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
)

// PageKind selects which search page of a character is requested.
type PageKind string

const (
	PageKindKanji     PageKind = "kanji"
	PageKindSentences PageKind = "sentences"
)

//go:generate mockgen -source=fetcher.go -destination=../mocks/fetch/mock_fetcher.go -package=mock_fetch Fetcher

// Fetcher returns the raw markup of a page.
type Fetcher interface {
	Fetch(ctx context.Context, kind PageKind, query string) ([]byte, error)
}

// PageURL builds the search URL, e.g. https://jisho.org/search/語%20%23kanji.
func PageURL(baseURL string, kind PageKind, query string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + url.PathEscape(query+" #"+string(kind))
}

// StatusError is returned when the page answered with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("status code: %d, body: %s", e.StatusCode, body)
}

type Config struct {
	BaseURL       string
	UserAgent     string
	Timeout       time.Duration
	RetryAttempts uint
	RetryDelay    time.Duration
}

type HTTPFetcher struct {
	client *resty.Client
	config Config
}

var _ Fetcher = (*HTTPFetcher)(nil)

func NewHTTPFetcher(config Config) *HTTPFetcher {
	client := resty.New()
	if config.Timeout > 0 {
		client.SetTimeout(config.Timeout)
	}
	if config.UserAgent != "" {
		client.SetHeader("User-Agent", config.UserAgent)
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = 500 * time.Millisecond
	}

	return &HTTPFetcher{
		client: client,
		config: config,
	}
}

// Fetch requests the page, retrying server errors and rate limiting with exponential back-off.
func (f *HTTPFetcher) Fetch(ctx context.Context, kind PageKind, query string) ([]byte, error) {
	pageURL := PageURL(f.config.BaseURL, kind, query)

	var body []byte
	if err := retry.Do(
		func() error {
			response, err := f.get(ctx, pageURL)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			body = response
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(f.config.RetryAttempts+1),
		retry.Delay(f.config.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("Retrying page request",
				"attempt", n+1,
				"url", pageURL,
				"lastError", err)
		}),
	); err != nil {
		return nil, fmt.Errorf("retry.Do(%s) > %w", pageURL, err)
	}
	return body, nil
}

func (f *HTTPFetcher) get(ctx context.Context, pageURL string) ([]byte, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, &StatusError{StatusCode: res.StatusCode(), Body: string(res.Body())}
	}
	return res.Body(), nil
}

// isRetryableError retries 5xx responses, 429 and transport errors. Cancellation is left to retry.Context.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError ||
			statusErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}
