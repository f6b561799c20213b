package downloader

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"io"

	"github.com/andybalholm/brotli"
)

// DecompressResponseBody decompresses an HTTP response body when the server
// sent it gzip-, deflate- or brotli-compressed. Gzip is detected by magic
// bytes so it also covers servers that compress without announcing it.
//
// Returns the (possibly replaced) body and whether decompression happened.
func DecompressResponseBody(body []byte, contentEncoding string) ([]byte, bool, error) {
	if len(body) == 0 {
		return body, false, nil
	}

	// Gzip (magic bytes 1f 8b)
	if len(body) >= 2 && body[0] == 0x1f && body[1] == 0x8b {
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, false, err
		}
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, false, err
		}
		return decompressed, true, nil
	}

	// Deflate, header-announced only
	if contentEncoding == "deflate" {
		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, false, err
		}
		return decompressed, true, nil
	}

	// Brotli
	if contentEncoding == "br" {
		reader := brotli.NewReader(bytes.NewReader(body))
		decompressed, err := io.ReadAll(reader)
		if err != nil {
			// Not brotli or corrupted
			return body, false, nil
		}
		return decompressed, true, nil
	}

	// Not compressed
	return body, false, nil
}
