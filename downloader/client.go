package downloader

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// HTTPClient fetches HTML pages over a cookie-backed session. The same
// client (and therefore the same cookie jar) is reused for the cover fetch
// and every page fetch of a book, so server-assigned session state persists
// across the whole download.
type HTTPClient struct {
	jar         *cookiejar.Jar
	httpClient  *http.Client
	userAgent   string
	maxRetries  int
	baseTimeout time.Duration
}

// NewHTTPClient creates a new session-scoped HTTP client. userAgent is sent
// as the client identity header on every request.
func NewHTTPClient(userAgent string) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &HTTPClient{
		jar:         jar,
		httpClient:  &http.Client{Timeout: 30 * time.Second, Jar: jar},
		userAgent:   userAgent,
		maxRetries:  5,
		baseTimeout: 10 * time.Second,
	}, nil
}

// CookieJar exposes the session jar so other clients of the same book
// session can share it.
func (c *HTTPClient) CookieJar() *cookiejar.Jar {
	return c.jar
}

// Fetch fetches the body at targetURL with automatic retry on timeouts.
func (c *HTTPClient) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		timeout := c.baseTimeout + (time.Duration(attempt) * 5 * time.Second)

		if attempt > 0 {
			log.Printf("[HTTPClient] Retry attempt %d/%d (timeout: %v) for: %s",
				attempt+1, c.maxRetries, timeout, targetURL)
		}

		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		body, err := c.fetchAttempt(reqCtx, targetURL)
		cancel()

		if err == nil {
			if attempt > 0 {
				log.Printf("[HTTPClient] ✓ Success after %d retries", attempt+1)
			}
			return body, nil
		}

		isTimeout := strings.Contains(err.Error(), "context deadline exceeded") ||
			strings.Contains(err.Error(), "Client.Timeout exceeded")

		lastErr = err

		// Not a timeout, don't retry.
		if !isTimeout {
			log.Printf("[HTTPClient] Non-timeout error, not retrying: %v", err)
			return nil, err
		}

		log.Printf("[HTTPClient] Timeout on attempt %d/%d: %v", attempt+1, c.maxRetries, err)

		if attempt < c.maxRetries-1 {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * time.Second
			log.Printf("[HTTPClient] Waiting %v before retry...", backoff)
			time.Sleep(backoff)
		}
	}

	log.Printf("[HTTPClient] ✗ Failed after %d attempts", c.maxRetries)
	return nil, fmt.Errorf("failed after %d retries: %w", c.maxRetries, lastErr)
}

// fetchAttempt performs a single HTTP request attempt
func (c *HTTPClient) fetchAttempt(ctx context.Context, targetURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	decompressed, wasCompressed, err := DecompressResponseBody(bodyBytes, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress response: %w", err)
	}
	if wasCompressed {
		bodyBytes = decompressed
	}

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return bodyBytes, nil
}
