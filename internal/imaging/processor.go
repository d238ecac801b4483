// Package imaging validates uploaded product and carousel media and
// produces catalog thumbnails.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Thumbnail bounds for catalog grid images.
const (
	ThumbWidth  = 400
	ThumbHeight = 400
)

// Result describes a stored upload.
type Result struct {
	// URL paths under /uploads/ for the original and the thumbnail.
	ImagePath string
	ThumbPath string
	Width     int
	Height    int
	MimeType  string
}

// Processor stores uploads beneath a root directory.
type Processor struct {
	uploadsDir string
}

// NewProcessor creates a processor writing under uploadsDir.
func NewProcessor(uploadsDir string) *Processor {
	return &Processor{uploadsDir: uploadsDir}
}

// SaveImage validates, re-encodes, and stores an uploaded image together
// with a grid thumbnail. Returned paths are relative to the uploads root.
func (p *Processor) SaveImage(reader io.Reader, filename string) (*Result, error) {
	data, err := io.ReadAll(io.LimitReader(reader, 20<<20))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	bounds := img.Bounds()

	id := uuid.NewString()
	name := safeBaseName(filename, format)

	// Re-encode so stored files carry no original metadata.
	original, err := encodeImage(img, format, 95)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	imagePath, err := p.save(filepath.Join("images", id), name, original)
	if err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}

	thumbImg := imaging.Fit(img, ThumbWidth, ThumbHeight, imaging.Lanczos)
	thumb, err := encodeImage(thumbImg, format, 85)
	if err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	thumbPath, err := p.save(filepath.Join("thumbs", id), name, thumb)
	if err != nil {
		return nil, fmt.Errorf("saving thumbnail: %w", err)
	}

	return &Result{
		ImagePath: imagePath,
		ThumbPath: thumbPath,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		MimeType:  formatToMimeType(format),
	}, nil
}

func (p *Processor) save(subDir, filename string, data []byte) (string, error) {
	dir := filepath.Join(p.uploadsDir, subDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return "", err
	}
	return filepath.ToSlash(filepath.Join(subDir, filename)), nil
}

func detectFormat(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return "jpeg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	default:
		return ""
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return buf.Bytes(), nil
}

// safeBaseName keeps the upload's base name but forces a extension that
// matches the detected format.
func safeBaseName(filename, format string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)
	if base == "" || strings.Trim(base, "-") == "" {
		base = "upload"
	}

	ext := ".jpg"
	switch format {
	case "png":
		ext = ".png"
	case "gif":
		ext = ".gif"
	}
	return base + ext
}
