package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/pixel-adventure/spritekit/internal/geometry"
	"github.com/pixel-adventure/spritekit/internal/grid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	LineColor   = color.NRGBA{R: 0x00, G: 0xBF, B: 0xFF, A: 0xFF}
	ActiveColor = color.NRGBA{R: 0xFF, G: 0x8C, B: 0x00, A: 0xFF}
	LabelColor  = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

const (
	LineWidth    = 2
	HandleRadius = 8
)

// Options controls what is drawn on top of the scaled image.
type Options struct {
	// ActiveAxis and ActiveIndex highlight the line being dragged.
	ActiveAxis  grid.Axis
	ActiveIndex int
	// Labels numbers each cell in slice order.
	Labels   bool
	Topology grid.Topology
}

// Render draws src at display size with cut lines and drag handles on top.
func Render(src image.Image, t geometry.Transform, lines grid.Lines, opts Options) *image.NRGBA {
	w := max(1, int(math.Round(t.DisplayWidth)))
	h := max(1, int(math.Round(t.DisplayHeight)))

	var canvas *image.NRGBA
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		canvas = imaging.Clone(src)
	} else {
		canvas = imaging.Resize(src, w, h, imaging.NearestNeighbor)
	}

	for i, x := range lines.X {
		c := pick(opts, grid.AxisX, i)
		fillRect(canvas, image.Rect(int(x)-LineWidth/2, 0, int(x)-LineWidth/2+LineWidth, h), c)
		fillCircle(canvas, int(x), h/2, HandleRadius, c)
	}
	for i, y := range lines.Y {
		c := pick(opts, grid.AxisY, i)
		fillRect(canvas, image.Rect(0, int(y)-LineWidth/2, w, int(y)-LineWidth/2+LineWidth), c)
		fillCircle(canvas, w/2, int(y), HandleRadius, c)
	}
	if opts.Labels {
		drawLabels(canvas, lines, opts.Topology)
	}
	return canvas
}

func pick(opts Options, axis grid.Axis, index int) color.NRGBA {
	if opts.ActiveAxis == axis && opts.ActiveIndex == index {
		return ActiveColor
	}
	return LineColor
}

func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

func fillCircle(img *image.NRGBA, cx, cy, radius int, c color.NRGBA) {
	b := img.Bounds()
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy > radius*radius || !image.Pt(x, y).In(b) {
				continue
			}
			img.SetNRGBA(x, y, c)
		}
	}
}

// drawLabels writes the 1-based frame number in the top-left of each cell.
func drawLabels(img *image.NRGBA, lines grid.Lines, topology grid.Topology) {
	b := img.Bounds()
	xs := edges(lines.X, float64(b.Dx()), topology.Active(grid.AxisX))
	ys := edges(lines.Y, float64(b.Dy()), topology.Active(grid.AxisY))

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(LabelColor),
		Face: basicfont.Face7x13,
	}
	n := 1
	for row := 0; row < len(ys)-1; row++ {
		for col := 0; col < len(xs)-1; col++ {
			d.Dot = fixed.P(int(xs[col])+3, int(ys[row])+13)
			d.DrawString(strconv.Itoa(n))
			n++
		}
	}
}

func edges(lines []float64, dimension float64, active bool) []float64 {
	out := []float64{0}
	if active {
		out = append(out, lines...)
	}
	return append(out, dimension)
}
