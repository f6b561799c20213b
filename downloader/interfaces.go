package downloader

import (
	"context"
)

// Fetcher is the HTTP-fetch capability the pipeline depends on. Network
// failures (transport errors, non-success statuses) are returned as-is and
// never reclassified by the pipeline.
type Fetcher interface {
	Fetch(ctx context.Context, targetURL string) ([]byte, error)
}

// ProgressCallback is called during download to report progress.
// Parameters: status message, progress (0.0-1.0), page number (1-based),
// current download index, total pages selected.
type ProgressCallback func(string, float64, int, int, int)

// DownloadConfig holds configuration for a book download session
type DownloadConfig struct {
	// Book is the user-supplied book URL or bare book ID.
	Book string

	// PageStart/PageEnd select a half-open 0-based range over the book's
	// pages. PageEnd < 0 means "to the end".
	PageStart int
	PageEnd   int

	// OutputDir is the directory the per-book directory is created in.
	OutputDir string

	// NoRedownload skips pages whose output file already exists.
	NoRedownload bool

	ProgressCallback ProgressCallback
}
