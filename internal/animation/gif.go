package animation

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"time"
)

var ErrNoFrames = errors.New("no frames to export")

// GIFOptions controls GIF export.
type GIFOptions struct {
	FPS    float64
	Loop   bool
	Easing Easing
	Mode   Mode
}

// EncodeGIF writes frames as an animated GIF. Every frame is drawn onto a
// canvas the size of the first frame.
func EncodeGIF(w io.Writer, frames []image.Image, opts GIFOptions) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	bounds := image.Rect(0, 0, frames[0].Bounds().Dx(), frames[0].Bounds().Dy())
	pal, exact := buildPalette(frames)
	base := BaseDuration(opts.FPS)

	anim := &gif.GIF{LoopCount: -1}
	if opts.Loop {
		anim.LoopCount = 0
	}
	for _, idx := range Cycle(opts.Mode, len(frames)) {
		src := frames[idx]
		dst := image.NewPaletted(bounds, pal)
		if exact {
			draw.Draw(dst, bounds, src, src.Bounds().Min, draw.Src)
		} else {
			draw.FloydSteinberg.Draw(dst, bounds, src, src.Bounds().Min)
		}
		anim.Image = append(anim.Image, dst)
		anim.Delay = append(anim.Delay, centiseconds(FrameDuration(opts.Easing, base, len(frames), idx)))
		anim.Disposal = append(anim.Disposal, gif.DisposalBackground)
	}

	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("failed to encode gif: %w", err)
	}
	return nil
}

// buildPalette collects the exact colours used when they fit in a GIF
// palette, falling back to Plan9 otherwise. Index 0 is transparent.
func buildPalette(frames []image.Image) (color.Palette, bool) {
	seen := map[color.NRGBA]struct{}{}
	pal := color.Palette{color.NRGBA{}}
	for _, f := range frames {
		b := f.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(f.At(x, y)).(color.NRGBA)
				if c.A == 0 {
					continue
				}
				c.A = 0xff
				if _, ok := seen[c]; ok {
					continue
				}
				if len(pal) == 256 {
					return append(color.Palette{color.NRGBA{}}, palette.Plan9[:255]...), false
				}
				seen[c] = struct{}{}
				pal = append(pal, c)
			}
		}
	}
	return pal, true
}

func centiseconds(d time.Duration) int {
	cs := int(d / (10 * time.Millisecond))
	if cs < 1 {
		return 1
	}
	return cs
}
