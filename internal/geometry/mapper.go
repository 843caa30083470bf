package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDimension is returned when a width, height or bounding box is not positive.
var ErrInvalidDimension = errors.New("invalid dimension")

// Transform maps between source pixel space and the scaled display space
// the image is drawn in.
type Transform struct {
	Scale         float64 `json:"scale"`
	OriginX       float64 `json:"origin_x"`
	OriginY       float64 `json:"origin_y"`
	DisplayWidth  float64 `json:"display_width"`
	DisplayHeight float64 `json:"display_height"`
}

// Fit computes a uniform scale that fits a source image inside a bounding
// box while preserving aspect ratio. Images smaller than the box keep their
// native size.
func Fit(sourceWidth, sourceHeight int, maxWidth, maxHeight float64) (Transform, error) {
	if sourceWidth <= 0 || sourceHeight <= 0 {
		return Transform{}, fmt.Errorf("%w: source is %dx%d", ErrInvalidDimension, sourceWidth, sourceHeight)
	}
	if !positive(maxWidth) || !positive(maxHeight) {
		return Transform{}, fmt.Errorf("%w: bounding box is %gx%g", ErrInvalidDimension, maxWidth, maxHeight)
	}

	w := float64(sourceWidth)
	h := float64(sourceHeight)
	scale := math.Min(1, math.Min(maxWidth/w, maxHeight/h))

	return Transform{
		Scale:         scale,
		DisplayWidth:  w * scale,
		DisplayHeight: h * scale,
	}, nil
}

// Identity returns a transform where display space equals source space.
func Identity(sourceWidth, sourceHeight int) (Transform, error) {
	if sourceWidth <= 0 || sourceHeight <= 0 {
		return Transform{}, fmt.Errorf("%w: source is %dx%d", ErrInvalidDimension, sourceWidth, sourceHeight)
	}
	return Transform{
		Scale:         1,
		DisplayWidth:  float64(sourceWidth),
		DisplayHeight: float64(sourceHeight),
	}, nil
}

// ToSource converts a display-space coordinate to source space.
func ToSource(displayCoord, scale float64) float64 {
	return displayCoord / scale
}

// ToDisplay converts a source-space coordinate to display space.
func ToDisplay(sourceCoord, scale float64) float64 {
	return sourceCoord * scale
}

// ToSource converts a display-space coordinate using the transform's scale.
func (t Transform) ToSource(displayCoord float64) float64 {
	return ToSource(displayCoord, t.Scale)
}

// ToDisplay converts a source-space coordinate using the transform's scale.
func (t Transform) ToDisplay(sourceCoord float64) float64 {
	return ToDisplay(sourceCoord, t.Scale)
}

// Local translates a pointer position into coordinates relative to the
// drawn image.
func (t Transform) Local(x, y float64) (float64, float64) {
	return x - t.OriginX, y - t.OriginY
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
