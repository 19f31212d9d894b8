// Package media turns image files into the data URIs stored on products and
// orders.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxKB is the default size ceiling for an attached image.
const DefaultMaxKB = 1000

var (
	// ErrImageTooLarge is returned for files above the size ceiling.
	ErrImageTooLarge = errors.New("image too large")
	// ErrNotImage is returned for files whose content is not an image.
	ErrNotImage = errors.New("not an image")
)

// LoadImage reads the image at path and returns it as a base64 data URI.
// Files larger than maxKB kilobytes (1 KB = 1024 bytes) are rejected with
// ErrImageTooLarge. A maxKB of zero or less selects DefaultMaxKB.
func LoadImage(path string, maxKB int) (string, error) {
	if maxKB <= 0 {
		maxKB = DefaultMaxKB
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("load image %s: %w: is a directory", path, ErrNotImage)
	}
	if info.Size() > int64(maxKB)*1024 {
		return "", fmt.Errorf("%w: %s exceeds %d KB", ErrImageTooLarge, path, maxKB)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}
	return Encode(data)
}

// Encode returns data as a data URI after checking that it is an image.
func Encode(data []byte) (string, error) {
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mime.String())
	}
	// Detect may append parameters such as charset; the URI needs the bare type.
	mediaType, _, _ := strings.Cut(mime.String(), ";")
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// MediaType returns the MIME type of a data URI, or "" if uri is not one.
func MediaType(uri string) string {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return ""
	}
	mediaType, _, ok := strings.Cut(rest, ";")
	if !ok {
		return ""
	}
	return mediaType
}
