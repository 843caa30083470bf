package images

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// Encoder turns a raster into an encoded buffer.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
	MIMEType() string
}

// PNGEncoder writes lossless PNG.
type PNGEncoder struct{}

func (PNGEncoder) Encode(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

func (PNGEncoder) MIMEType() string { return "image/png" }

// EncodeBytes runs enc into a fresh buffer.
func EncodeBytes(enc Encoder, img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeFrame decodes an encoded frame buffer.
func DecodeFrame(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return img, nil
}
