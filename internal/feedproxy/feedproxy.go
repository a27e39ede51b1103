// Package feedproxy relays external iCal, RSS and emergency-alert feeds on
// behalf of display clients, which cannot fetch them directly because of
// cross-origin restrictions.
package feedproxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// feedTimeout bounds iCal and RSS relay requests.
	feedTimeout = 10 * time.Second
	// feedUserAgent is sent on iCal and RSS relay requests; some feed hosts
	// reject requests without a browser-looking agent.
	feedUserAgent = "Mozilla/5.0"
)

// FailurePolicy decides what a handler does with an upstream failure.
type FailurePolicy int

const (
	// Surface propagates the upstream error to the caller. Used for
	// cosmetic feeds where the admin should see what is wrong.
	Surface FailurePolicy = iota
	// Swallow masks the upstream error behind an empty result. Used for the
	// alert feed, which must never break the display.
	Swallow
)

// Endpoint describes one proxied feed kind.
type Endpoint struct {
	Name        string
	ContentType string
	Timeout     time.Duration
	Header      map[string]string
	OnFailure   FailurePolicy
}

// ICal relays text/calendar feeds.
var ICal = Endpoint{
	Name:        "ical",
	ContentType: "text/calendar; charset=utf-8",
	Timeout:     feedTimeout,
	Header:      map[string]string{"User-Agent": feedUserAgent},
	OnFailure:   Surface,
}

// RSS relays RSS/Atom XML feeds.
var RSS = Endpoint{
	Name:        "rss",
	ContentType: "application/xml; charset=utf-8",
	Timeout:     feedTimeout,
	Header:      map[string]string{"User-Agent": feedUserAgent},
	OnFailure:   Surface,
}

// Fetch performs a bounded GET against the given URL and returns the raw
// response body. No retries; a slow upstream fails at the endpoint timeout.
func (e Endpoint) Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	for key, value := range e.Header {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("upstream %s returned status %d", e.Name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return body, nil
}
