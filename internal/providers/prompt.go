package providers

import (
	"fmt"
	"strings"
)

// SpriteRequest describes a sprite strip to generate and then slice.
type SpriteRequest struct {
	Subject   string `json:"prompt"`
	Action    string `json:"action,omitempty"`
	Direction string `json:"direction,omitempty"`
	ViewType  string `json:"view_type,omitempty"`
	GridSize  int    `json:"grid_size,omitempty"`
	Frames    int    `json:"frames,omitempty"`
	Colors    int    `json:"colors,omitempty"`
}

// WithDefaults fills unset fields with the editor's defaults.
func (r SpriteRequest) WithDefaults() SpriteRequest {
	if r.GridSize <= 0 {
		r.GridSize = 32
	}
	if r.Frames <= 0 {
		r.Frames = 4
	}
	if r.Colors <= 0 {
		r.Colors = 16
	}
	return r
}

// SpritePrompt builds the prompt for a whole animation strip.
func SpritePrompt(r SpriteRequest) string {
	r = r.WithDefaults()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate a %dx%d pixel sprite of a %s", r.GridSize, r.GridSize, strings.TrimSpace(r.Subject))
	if r.Action != "" {
		fmt.Fprintf(&sb, " %s", r.Action)
	}
	if r.Direction != "" {
		fmt.Fprintf(&sb, " facing %s", r.Direction)
	}
	if r.ViewType != "" {
		fmt.Fprintf(&sb, " in %s view", r.ViewType)
	}
	fmt.Fprintf(&sb, ". The animation consists of %d frames, each showing a natural movement cycle "+
		"while maintaining a consistent pixel grid and limited color palette of %d colors. ", r.Frames, r.Colors)
	sb.WriteString("Ensure the character's proportions, shading, and perspective remain the same, only adjusting limb positions. ")
	sb.WriteString("Avoid AI artifacts, blurring, or misplaced pixels.")
	return sb.String()
}

// FramesPrompt is the base prompt for a sprite set described by style,
// object, action and background.
func FramesPrompt(style, object, action, background string) string {
	subject := strings.Join(strings.Fields(fmt.Sprintf("%s pixel art of a %s %s %s", style, object, action, background)), " ")
	return "Create a " + subject + "." +
		" The image should be a square format with dimensions of 32x32 pixels." +
		" Use clear outlines and limited color palette appropriate for pixel art."
}

// BatchPrompt asks for count frames in a single request.
func BatchPrompt(base string, count int) string {
	return fmt.Sprintf("%s - Create a sequence of %d frames for a pixel art animation. "+
		"Each frame should be part of a coherent animation sequence. "+
		"Make each frame 32x32 pixels with clear outlines and limited color palette.", base, count)
}

// SequentialPrompt asks for frame i (0-based) of count.
func SequentialPrompt(base string, i, count int) string {
	return fmt.Sprintf("%s - frame %d of %d in an animation sequence. Make it a pixel art style image.", base, i+1, count)
}
