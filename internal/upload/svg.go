// Package upload turns a chosen image file into the SVG payload stored as
// a user's profile image.
package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

// ErrTooLarge is returned for files above the converter's limit.
var ErrTooLarge = errors.New("image too large")

// ErrUnsupported is returned for files that are not images.
var ErrUnsupported = errors.New("unsupported image type")

var rasterTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// SVGConverter reads image files and returns SVG source.
type SVGConverter struct {
	fs       afero.Fs
	maxBytes int64
	// Size is the width and height of wrapped raster images.
	Size int
}

// NewSVGConverter reads from fs and rejects files above maxBytes.
func NewSVGConverter(fs afero.Fs, maxBytes int64) *SVGConverter {
	return &SVGConverter{fs: fs, maxBytes: maxBytes, Size: 128}
}

// Convert returns SVG files verbatim and wraps raster images in an
// <svg><image/></svg> document with an inline data URI.
func (c *SVGConverter) Convert(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := c.fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, c.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(b)) > c.maxBytes {
		return "", fmt.Errorf("%s: %w (limit %d bytes)", path, ErrTooLarge, c.maxBytes)
	}

	mt := mimetype.Detect(b)
	if mt.Is("image/svg+xml") {
		return strings.TrimSpace(string(b)), nil
	}
	if !mimetype.EqualsAny(mt.String(), rasterTypes...) {
		return "", fmt.Errorf("%s is %s: %w", path, mt.String(), ErrUnsupported)
	}
	return c.wrap(mt.String(), b), nil
}

func (c *SVGConverter) wrap(mime string, b []byte) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		c.Size, c.Size, c.Size, c.Size)
	fmt.Fprintf(&sb, `<image href="data:%s;base64,%s" width="%d" height="%d" preserveAspectRatio="xMidYMid slice"/>`,
		mime, base64.StdEncoding.EncodeToString(b), c.Size, c.Size)
	sb.WriteString(`</svg>`)
	return sb.String()
}
