package animation

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// SheetOptions controls sprite sheet layout.
type SheetOptions struct {
	Columns int
	Padding int
}

// FrameRect is where one frame sits inside a sheet.
type FrameRect struct {
	Index  int `json:"index"`
	Row    int `json:"row"`
	Column int `json:"column"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SheetMetadata describes a generated sheet for game engines.
type SheetMetadata struct {
	SpriteSheet string      `json:"spriteSheet"`
	Frames      int         `json:"frames"`
	FrameWidth  int         `json:"frameWidth"`
	FrameHeight int         `json:"frameHeight"`
	Columns     int         `json:"columns"`
	Rows        int         `json:"rows"`
	Padding     int         `json:"padding"`
	SpriteSet   *SheetOwner `json:"spriteSet,omitempty"`
	FrameData   []FrameRect `json:"frameData"`
}

// SheetOwner identifies the sprite set a sheet was built from.
type SheetOwner struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Metadata any    `json:"metadata,omitempty"`
}

// BuildSpriteSheet lays frames out left to right, top to bottom, in cells
// the size of the first frame.
func BuildSpriteSheet(frames []image.Image, opts SheetOptions) (*image.NRGBA, SheetMetadata, error) {
	if len(frames) == 0 {
		return nil, SheetMetadata{}, ErrNoFrames
	}
	cols := opts.Columns
	if cols <= 0 {
		cols = 4
	}
	cols = min(cols, len(frames))
	pad := max(0, opts.Padding)
	rows := (len(frames) + cols - 1) / cols

	fw := frames[0].Bounds().Dx()
	fh := frames[0].Bounds().Dy()
	width := (fw+pad)*cols - pad
	height := (fh+pad)*rows - pad

	sheet := imaging.New(width, height, color.NRGBA{})
	meta := SheetMetadata{
		Frames:      len(frames),
		FrameWidth:  fw,
		FrameHeight: fh,
		Columns:     cols,
		Rows:        rows,
		Padding:     pad,
		FrameData:   make([]FrameRect, 0, len(frames)),
	}
	for i, f := range frames {
		row, col := i/cols, i%cols
		x, y := col*(fw+pad), row*(fh+pad)
		sheet = imaging.Paste(sheet, imaging.Crop(f, image.Rect(f.Bounds().Min.X, f.Bounds().Min.Y, f.Bounds().Min.X+fw, f.Bounds().Min.Y+fh)), image.Pt(x, y))
		meta.FrameData = append(meta.FrameData, FrameRect{
			Index: i, Row: row, Column: col, X: x, Y: y, Width: fw, Height: fh,
		})
	}
	return sheet, meta, nil
}
