package downloader

import (
	"context"
	"fmt"
	"log"
	"net/http/cookiejar"
	"time"

	"github.com/gocolly/colly"
)

// ImageClient fetches the final page image bytes. It rides a colly collector
// that shares the book session's cookie jar, so image fetches carry the same
// session state as the HTML fetches.
type ImageClient struct {
	collector *colly.Collector
}

// NewImageClient creates an image client for a book session. jar should be
// the HTML client's cookie jar; pass nil for an independent session.
func NewImageClient(userAgent string, jar *cookiejar.Jar) *ImageClient {
	collector := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)
	collector.SetRequestTimeout(30 * time.Second)

	if jar != nil {
		collector.SetCookieJar(jar)
	}

	return &ImageClient{collector: collector}
}

// Fetch downloads the raw bytes at targetURL.
func (c *ImageClient) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	collector := c.collector.Clone()

	var responseData []byte
	var statusCode int
	var fetchErr error

	collector.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		responseData = r.Body

		decompressed, wasCompressed, err := DecompressResponseBody(r.Body, r.Headers.Get("Content-Encoding"))
		if err != nil {
			log.Printf("[ImageClient] Failed to decompress response: %v", err)
		} else if wasCompressed {
			responseData = decompressed
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("request failed: %w", err)
	})

	if err := collector.Visit(targetURL); err != nil {
		return nil, fmt.Errorf("failed to visit URL: %w", err)
	}

	collector.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}

	if statusCode != 200 {
		return nil, fmt.Errorf("image request returned status %d", statusCode)
	}

	return responseData, nil
}
