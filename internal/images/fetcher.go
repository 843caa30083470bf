package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxImageBytes caps uploads and downloads.
const MaxImageBytes = 10 * 1024 * 1024

// ErrDecode matches every *DecodeError.
var ErrDecode = errors.New("decode error")

// DecodeError reports that a source could not be turned into pixels.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image from %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Source is a decoded, immutable source image.
type Source struct {
	Image  image.Image
	Format string
	Name   string
	Width  int
	Height int
	Bytes  int
}

// Fetcher loads images from bytes, files, data URLs and http(s) URLs.
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
}

// NewFetcher creates a fetcher with a 30 second HTTP timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxBytes: MaxImageBytes,
	}
}

// Decode turns raw bytes into a Source.
func (f *Fetcher) Decode(data []byte, name string) (*Source, error) {
	if int64(len(data)) > f.maxBytes() {
		return nil, &DecodeError{Source: name, Err: fmt.Errorf("image too large (%d bytes, max %d)", len(data), f.maxBytes())}
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Source: name, Err: err}
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, &DecodeError{Source: name, Err: fmt.Errorf("image has no pixels (%dx%d)", b.Dx(), b.Dy())}
	}
	// Paletted and premultiplied sources are normalised so every pixel read
	// afterwards sees straight alpha.
	if _, ok := img.(*image.NRGBA); !ok {
		img = imaging.Clone(img)
	}
	slog.Debug("Image decoded", "source", name, "format", format, "width", b.Dx(), "height", b.Dy())
	return &Source{
		Image:  img,
		Format: format,
		Name:   name,
		Width:  b.Dx(),
		Height: b.Dy(),
		Bytes:  len(data),
	}, nil
}

// DecodeFile reads and decodes the file at path.
func (f *Fetcher) DecodeFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	return f.Decode(data, filepath.Base(path))
}

// DecodeURL fetches rawURL (http, https or data) and decodes it. Sources whose
// pixels cannot be read fail with a DecodeError rather than blank data.
func (f *Fetcher) DecodeURL(ctx context.Context, rawURL string) (*Source, error) {
	if strings.HasPrefix(rawURL, "data:") {
		_, data, err := ParseDataURL(rawURL)
		if err != nil {
			return nil, &DecodeError{Source: "data URL", Err: err}
		}
		return f.Decode(data, "data URL")
	}

	data, err := f.download(ctx, rawURL)
	if err != nil {
		return nil, &DecodeError{Source: rawURL, Err: err}
	}
	return f.Decode(data, urlFilename(rawURL))
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes()+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return imageData, nil
}

func (f *Fetcher) maxBytes() int64 {
	if f.MaxBytes <= 0 {
		return MaxImageBytes
	}
	return f.MaxBytes
}

// ParseDataURL splits a base64 data URL into its media type and payload.
func ParseDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URL has no payload")
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		decoded, err := url.PathUnescape(payload)
		if err != nil {
			return "", nil, fmt.Errorf("failed to unescape data URL: %w", err)
		}
		return mediaType, []byte(decoded), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}
	return mediaType, data, nil
}

func urlFilename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "image"
	}
	name := filepath.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "image"
	}
	return name
}
