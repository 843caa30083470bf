package animation

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Easing shapes how frame durations change across an animation.
type Easing string

const (
	Linear    Easing = "linear"
	EaseIn    Easing = "ease-in"
	EaseOut   Easing = "ease-out"
	EaseInOut Easing = "ease-in-out"
)

// ParseEasing accepts the dashed names and their camelCase spellings.
func ParseEasing(s string) (Easing, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "")) {
	case "", "linear":
		return Linear, nil
	case "easein":
		return EaseIn, nil
	case "easeout":
		return EaseOut, nil
	case "easeinout":
		return EaseInOut, nil
	}
	return "", fmt.Errorf("unknown easing %q", s)
}

// Apply maps progress t in [0,1] through the easing curve.
func Apply(e Easing, t float64) float64 {
	switch e {
	case EaseIn:
		return t * t
	case EaseOut:
		return t * (2 - t)
	case EaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	}
	return t
}

// FrameDuration is base stretched between 0.5x and 1.5x by the eased
// position of frame index within count frames.
func FrameDuration(e Easing, base time.Duration, count, index int) time.Duration {
	if e == Linear || e == "" || count <= 1 {
		return base
	}
	progress := float64(index) / float64(count-1)
	return time.Duration(float64(base) * (0.5 + Apply(e, progress)))
}

const (
	MinFPS = 1
	MaxFPS = 24
)

// FPSFromSpeed converts the 1-10 speed slider into frames per second.
func FPSFromSpeed(speed float64) float64 {
	return math.Max(MinFPS, math.Min(MaxFPS, speed*2.4))
}

// BaseDuration is the time one frame is shown at fps.
func BaseDuration(fps float64) time.Duration {
	if fps <= 0 {
		fps = MinFPS
	}
	return time.Duration(float64(time.Second) / fps)
}
