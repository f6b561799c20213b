package parser

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/webp"
)

// detectImageFormat reads the magic bytes and returns the image format string
func detectImageFormat(data []byte) (string, error) {
	if len(data) < 12 {
		return "", errors.New("data too short to determine format")
	}

	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "jpeg", nil
	}
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "png", nil
	}
	if string(data[0:6]) == "GIF87a" || string(data[0:6]) == "GIF89a" {
		return "gif", nil
	}
	if string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return "webp", nil
	}

	return "", errors.New("unknown image format")
}

// ConvertImageToPNG converts image bytes to PNG and saves to outputPath.
// If already PNG, saves the raw bytes directly without re-encoding.
func ConvertImageToPNG(imgBytes []byte, outputPath string) error {
	if len(imgBytes) == 0 {
		return errors.New("empty image data")
	}

	format, err := detectImageFormat(imgBytes)
	if err != nil {
		return err
	}

	if format == "png" {
		return saveRawBytes(imgBytes, outputPath)
	}

	var img image.Image
	reader := bytes.NewReader(imgBytes)

	switch format {
	case "jpeg":
		img, err = jpeg.Decode(reader)
	case "gif":
		img, err = gif.Decode(reader)
	case "webp":
		img, err = webp.Decode(reader)
	default:
		return errors.New("unsupported image format: " + format)
	}

	if err != nil {
		return errors.New("failed to decode " + format + " image: " + err.Error())
	}

	return imaging.Save(img, outputPath)
}

// saveRawBytes saves bytes directly to file without conversion
func saveRawBytes(data []byte, outputPath string) error {
	return os.WriteFile(outputPath, data, 0644)
}
