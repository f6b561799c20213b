package downloader

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/kennygrant/sanitize"

	"tosho/config"
	"tosho/parser"
)

// Manager orchestrates the entire download of one book: cover metadata,
// page resolution, image download and PNG output.
type Manager struct {
	config   *DownloadConfig
	settings *config.Settings
}

// NewManager creates a new download manager
func NewManager(cfg *DownloadConfig, settings *config.Settings) *Manager {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return &Manager{
		config:   cfg,
		settings: settings,
	}
}

// FetchBookInfo fetches and parses the cover page for the configured book.
func (m *Manager) FetchBookInfo(ctx context.Context, fetcher Fetcher) (*parser.BookInfo, error) {
	bookID, err := parser.BookID(m.config.Book)
	if err != nil {
		return nil, err
	}

	coverHTML, err := fetcher.Fetch(ctx, parser.CoverURL(bookID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cover page: %w", err)
	}

	return parser.ParseBookInfo(coverHTML)
}

// Download executes the full download workflow
func (m *Manager) Download(ctx context.Context) error {
	callback := m.config.ProgressCallback

	// One session per book: page fetches and image fetches share the jar.
	client, err := NewHTTPClient(m.settings.UserAgent)
	if err != nil {
		return err
	}
	images := NewImageClient(m.settings.UserAgent, client.CookieJar())

	log.Printf("[Downloader] Fetching book info for %s", m.config.Book)
	if callback != nil {
		callback("Fetching book info...", 0, 0, 0, 0)
	}

	info, err := m.FetchBookInfo(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to get book info: %w", err)
	}

	log.Printf("[Downloader] Found %q by %q (%d pages, max %dx%d)",
		info.Title, info.Attribution, len(info.PageIDs), info.MaxWidth, info.MaxHeight)

	outputDir := filepath.Join(m.config.OutputDir, bookDirName(info))
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	it := NewPageIterator(info, client, images, m.config.PageStart, m.config.PageEnd, nil)

	total := it.Remaining()
	log.Printf("[Downloader] Downloading %d pages to %s", total, outputDir)

	rateLimiter := parser.NewRateLimiter(time.Duration(m.settings.RateLimitMs) * time.Millisecond)
	defer rateLimiter.Stop()

	downloaded := 0
	for current := 1; it.HasNext(); current++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Peek the upcoming index so existing files skip without a fetch.
		index := it.NextIndex()
		outputPath := filepath.Join(outputDir, pageFileName(index))

		if m.config.NoRedownload {
			if _, err := os.Stat(outputPath); err == nil {
				log.Printf("[Downloader] Output file %s exists, skipping", outputPath)
				it.Skip()
				continue
			}
		}

		rateLimiter.Wait()

		if callback != nil {
			callback(
				fmt.Sprintf("Downloading page %d of %d", current, total),
				float64(current)/float64(total),
				index+1,
				current,
				total,
			)
		}

		result, err := it.Next(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve page %d: %w", index+1, err)
		}

		if result.Image == nil {
			continue
		}

		if err := parser.ConvertImageToPNG(result.Image, outputPath); err != nil {
			return fmt.Errorf("failed to write page %d: %w", index+1, err)
		}
		downloaded++
		log.Printf("[Downloader] ✓ Saved %s", outputPath)
	}

	log.Printf("[Downloader] Download complete for %q (%d pages written)", info.Title, downloaded)
	if callback != nil {
		callback(fmt.Sprintf("Download complete! %d pages written", downloaded), 1.0, 0, total, total)
	}

	return nil
}

// pageFileName is the output name for a page: 1-based, zero-padded.
func pageFileName(index int) string {
	return fmt.Sprintf("%03d.png", index+1)
}

// bookDirName builds the per-book output directory name from the book's
// attribution and title.
func bookDirName(info *parser.BookInfo) string {
	return sanitize.BaseName(info.Attribution) + " - " + sanitize.BaseName(info.Title)
}
