package placeholder

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pixel-adventure/spritekit/internal/images"
	"github.com/pixel-adventure/spritekit/internal/providers"
)

const Size = 32

var objectColors = map[string]color.NRGBA{
	"goblin": {R: 0x8B, G: 0xC3, B: 0x4A, A: 0xFF},
	"knight": {R: 0x3F, G: 0x51, B: 0xB5, A: 0xFF},
	"mage":   {R: 0x9C, G: 0x27, B: 0xB0, A: 0xFF},
	"archer": {R: 0xFF, G: 0x98, B: 0x00, A: 0xFF},
}

var defaultColor = color.NRGBA{R: 0x21, G: 0x96, B: 0xF3, A: 0xFF}

// Placeholder draws simple animated blocks so the editor works offline.
type Placeholder struct {
	Style  string
	Object string
	Action string
}

func New() *Placeholder { return &Placeholder{} }

func (p *Placeholder) Name() string { return "placeholder" }

// GenerateImages ignores the prompt and returns config.Count frames.
func (p *Placeholder) GenerateImages(ctx context.Context, config providers.Config) ([]providers.Image, error) {
	count := config.Count
	if count <= 0 {
		count = 8
	}
	out := make([]providers.Image, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := images.EncodeBytes(images.PNGEncoder{}, p.Frame(i, count))
		if err != nil {
			return nil, err
		}
		out = append(out, providers.Image{MIMEType: "image/png", Data: data})
	}
	return out, nil
}

// Frame draws frame index of count.
func (p *Placeholder) Frame(index, count int) *image.NRGBA {
	img := imaging.New(Size, Size, color.White)
	c, ok := objectColors[strings.ToLower(p.Object)]
	if !ok {
		c = defaultColor
	}

	switch strings.ToLower(p.Action) {
	case "walking", "running":
		dx := (index % 4) * 2
		fill(img, image.Rect(8+dx, 8, 24+dx, 24), c)
		fill(img, image.Rect(12+dx, 24, 14+dx, 32), c)
		fill(img, image.Rect(18+dx, 24, 20+dx, 32), c)
	case "attacking":
		arm := min(8, (index%4)*3)
		fill(img, image.Rect(8, 8, 24, 24), c)
		fill(img, image.Rect(24, 12, 24+arm, 14), c)
	case "dancing":
		angle := float64(index) / float64(count) * 2 * math.Pi
		dx := int(math.Round(math.Cos(angle) * 4))
		dy := int(math.Round(math.Sin(angle) * 4))
		fill(img, image.Rect(8+dx, 8+dy, 24+dx, 24+dy), c)
	default:
		size := 16 + math.Sin(float64(index)/2)*2
		off := int(math.Round((16 - size) / 2))
		s := int(math.Round(size))
		fill(img, image.Rect(8+off, 8+off, 8+off+s, 8+off+s), c)
	}

	switch strings.ToLower(p.Style) {
	case "8-bit":
		outline(img, image.Rect(8, 8, 24, 24), color.NRGBA{A: 0xFF})
	case "16-bit":
		draw.Draw(img, image.Rect(16, 8, 24, 24), image.NewUniform(color.NRGBA{A: 0x4D}), image.Point{}, draw.Over)
	case "pixel-art":
		draw.Draw(img, image.Rect(10, 10, 12, 12), image.NewUniform(color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x80}), image.Point{}, draw.Over)
	}
	return img
}

func fill(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

func outline(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, c)
		img.SetNRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, c)
		img.SetNRGBA(r.Max.X-1, y, c)
	}
}
