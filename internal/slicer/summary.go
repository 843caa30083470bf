package slicer

import (
	"github.com/pixel-adventure/spritekit/internal/models"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the frame sizes a slice produced. Uneven cuts show up as
// a non-zero standard deviation.
type Summary struct {
	Frames       int     `json:"frames"`
	MeanWidth    float64 `json:"mean_width"`
	StdDevWidth  float64 `json:"stddev_width"`
	MeanHeight   float64 `json:"mean_height"`
	StdDevHeight float64 `json:"stddev_height"`
	MinWidth     int     `json:"min_width"`
	MinHeight    int     `json:"min_height"`
	Uniform      bool    `json:"uniform"`
}

func Summarize(seq *models.FrameSequence) Summary {
	if seq == nil || len(seq.Frames) == 0 {
		return Summary{}
	}
	widths := make([]float64, len(seq.Frames))
	heights := make([]float64, len(seq.Frames))
	s := Summary{Frames: len(seq.Frames), Uniform: true, MinWidth: seq.Frames[0].Width, MinHeight: seq.Frames[0].Height}
	for i, f := range seq.Frames {
		widths[i] = float64(f.Width)
		heights[i] = float64(f.Height)
		if f.Width != seq.Frames[0].Width || f.Height != seq.Frames[0].Height {
			s.Uniform = false
		}
		s.MinWidth = min(s.MinWidth, f.Width)
		s.MinHeight = min(s.MinHeight, f.Height)
	}
	s.MeanWidth = stat.Mean(widths, nil)
	s.MeanHeight = stat.Mean(heights, nil)
	if len(widths) > 1 {
		s.StdDevWidth = stat.StdDev(widths, nil)
		s.StdDevHeight = stat.StdDev(heights, nil)
	}
	return s
}
