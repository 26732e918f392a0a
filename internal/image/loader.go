// Package image provides utilities for loading and processing images.
package image

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrUnsupportedFormat is returned for files that are not JPEG or PNG.
var ErrUnsupportedFormat = errors.New("unsupported image format (supported: jpg, jpeg, png)")

// sniffLen is the number of bytes http.DetectContentType inspects.
const sniffLen = 512

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path.
// Supported formats: JPEG, PNG.
func (l *FileLoader) Load(path string) (image.Image, error) {
	if err := ValidateImagePath(path); err != nil {
		return nil, err
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := Decode(file, filepath.Base(path))
	return img, err
}

// ValidateImagePath checks that path names an existing regular file with a
// supported extension.
func ValidateImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image file not found: %s", path)
		}
		return fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !IsImageFile(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return nil
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png"}
}

// SupportedContentTypes returns the MIME types accepted for uploads.
func SupportedContentTypes() []string {
	return []string{"image/jpeg", "image/png"}
}

// IsImageFile checks if a file has a supported image extension.
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(SupportedImageExtensions(), ext)
}

// Decode decodes a JPEG or PNG image from r. An empty filename skips the
// extension check; the content is always sniffed. It returns the decoded
// image and the detected content type.
func Decode(r io.Reader, filename string) (image.Image, string, error) {
	if filename != "" && !IsImageFile(filename) {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}

	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	contentType := http.DetectContentType(head)
	if !slices.Contains(SupportedContentTypes(), contentType) {
		return nil, "", fmt.Errorf("%w: detected %s", ErrUnsupportedFormat, contentType)
	}

	img, format, err := image.Decode(br)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return img, contentType, nil
}

// DecodeBytes is Decode for an in-memory file.
func DecodeBytes(data []byte, filename string) (image.Image, string, error) {
	return Decode(bytes.NewReader(data), filename)
}

// Thumbnail scales img down to fit within maxSize x maxSize, keeping its
// aspect ratio. Images that already fit are returned unchanged.
func Thumbnail(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	if maxSize <= 0 || (b.Dx() <= maxSize && b.Dy() <= maxSize) {
		return img
	}
	return imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
}

// EncodeJPEG writes img to w as JPEG.
func EncodeJPEG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(85))
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}
