package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 7, A: 200})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	f := NewFetcher()
	src, err := f.Decode(testPNG(t, 12, 5), "sheet.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if src.Width != 12 || src.Height != 5 || src.Format != "png" {
		t.Errorf("Expected 12x5 png, got %dx%d %s", src.Width, src.Height, src.Format)
	}
	got := src.Image.At(3, 4).(color.NRGBA)
	if got != (color.NRGBA{R: 3, G: 4, B: 7, A: 200}) {
		t.Errorf("Expected exact pixel, got %v", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	f := NewFetcher()
	f.MaxBytes = 64

	tests := []struct {
		name string
		data []byte
	}{
		{name: "garbage", data: []byte("not an image")},
		{name: "too large", data: bytes.Repeat([]byte{0}, 65)},
		{name: "empty", data: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Decode(tt.data, tt.name)
			if !errors.Is(err, ErrDecode) {
				t.Errorf("Expected ErrDecode, got %v", err)
			}
			var de *DecodeError
			if !errors.As(err, &de) || de.Source != tt.name {
				t.Errorf("Expected *DecodeError for %s, got %#v", tt.name, err)
			}
		})
	}
}

func TestDecodeURL(t *testing.T) {
	data := testPNG(t, 4, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer server.Close()

	f := NewFetcher()
	ctx := context.Background()

	src, err := f.DecodeURL(ctx, server.URL+"/walk.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if src.Name != "walk.png" || src.Width != 4 {
		t.Errorf("Expected walk.png 4px wide, got %s %d", src.Name, src.Width)
	}

	if _, err := f.DecodeURL(ctx, server.URL+"/missing.png"); !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode for 404, got %v", err)
	}
	if _, err := f.DecodeURL(ctx, "ftp://example.com/a.png"); !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode for ftp, got %v", err)
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
	src, err = f.DecodeURL(ctx, dataURL)
	if err != nil {
		t.Fatalf("Unexpected error for data URL: %v", err)
	}
	if src.Height != 4 {
		t.Errorf("Expected height 4, got %d", src.Height)
	}
}

func TestParseDataURL(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		mediaType string
		payload   string
		wantErr   bool
	}{
		{name: "base64", in: "data:image/png;base64,aGk=", mediaType: "image/png", payload: "hi"},
		{name: "plain", in: "data:text/plain,a%20b", mediaType: "text/plain", payload: "a b"},
		{name: "no comma", in: "data:image/png;base64", wantErr: true},
		{name: "not data", in: "http://x", wantErr: true},
		{name: "bad base64", in: "data:image/png;base64,***", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt, payload, err := ParseDataURL(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if mt != tt.mediaType || string(payload) != tt.payload {
				t.Errorf("Expected %s %q, got %s %q", tt.mediaType, tt.payload, mt, payload)
			}
		})
	}
}

func TestPNGEncoderIsLossless(t *testing.T) {
	f := NewFetcher()
	src, err := f.Decode(testPNG(t, 8, 8), "a.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	encoded, err := EncodeBytes(PNGEncoder{}, src.Image)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	img, err := DecodeFrame(encoded)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := src.Image.(*image.NRGBA).NRGBAAt(x, y)
			got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if want != got {
				t.Fatalf("Pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
}
