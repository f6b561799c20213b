package downloader

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"testing"

	"github.com/andybalholm/brotli"
)

func TestDecompressResponseBody(t *testing.T) {
	payload := []byte("<html><body>cover page body</body></html>")

	t.Run("gzip by magic bytes", func(t *testing.T) {
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(payload); err != nil {
			t.Fatalf("gzip write failed: %v", err)
		}
		w.Close()

		// No Content-Encoding header: detection is by magic bytes.
		got, wasCompressed, err := DecompressResponseBody(buf.Bytes(), "")
		if err != nil {
			t.Fatalf("DecompressResponseBody returned error: %v", err)
		}
		if !wasCompressed {
			t.Fatal("gzip body not detected")
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("expected %q, got %q", payload, got)
		}
	})

	t.Run("brotli by header", func(t *testing.T) {
		var buf bytes.Buffer
		w := brotli.NewWriter(&buf)
		if _, err := w.Write(payload); err != nil {
			t.Fatalf("brotli write failed: %v", err)
		}
		w.Close()

		got, wasCompressed, err := DecompressResponseBody(buf.Bytes(), "br")
		if err != nil {
			t.Fatalf("DecompressResponseBody returned error: %v", err)
		}
		if !wasCompressed {
			t.Fatal("brotli body not detected")
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("expected %q, got %q", payload, got)
		}
	})

	t.Run("deflate by header", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			t.Fatalf("flate writer failed: %v", err)
		}
		if _, err := w.Write(payload); err != nil {
			t.Fatalf("flate write failed: %v", err)
		}
		w.Close()

		got, wasCompressed, err := DecompressResponseBody(buf.Bytes(), "deflate")
		if err != nil {
			t.Fatalf("DecompressResponseBody returned error: %v", err)
		}
		if !wasCompressed {
			t.Fatal("deflate body not detected")
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("expected %q, got %q", payload, got)
		}
	})

	t.Run("plain body passes through", func(t *testing.T) {
		got, wasCompressed, err := DecompressResponseBody(payload, "")
		if err != nil {
			t.Fatalf("DecompressResponseBody returned error: %v", err)
		}
		if wasCompressed {
			t.Error("plain body reported as compressed")
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("plain body altered: %q", got)
		}
	})

	t.Run("empty body passes through", func(t *testing.T) {
		got, wasCompressed, err := DecompressResponseBody(nil, "")
		if err != nil {
			t.Fatalf("DecompressResponseBody returned error: %v", err)
		}
		if wasCompressed || len(got) != 0 {
			t.Error("empty body must pass through untouched")
		}
	})
}
