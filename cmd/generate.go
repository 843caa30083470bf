package cmd

import (
	"fmt"
	"os"

	"github.com/pixel-adventure/spritekit/internal/generation"
	"github.com/pixel-adventure/spritekit/internal/images"
	"github.com/pixel-adventure/spritekit/internal/models"
	"github.com/pixel-adventure/spritekit/internal/providers"
	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		provider string
		model    string
		strip    bool
		out      string
		req      providers.SpriteRequest
		frames   generation.FrameRequest
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate sprite frames with an image model",
		Long: `Generates pixel art with Gemini or OpenAI. Without an API key for the
chosen provider, simple placeholder frames are drawn instead.

By default each frame is generated separately and the result is saved as a
sprite set. With --strip a single sprite strip is written to --out, ready for
"spritekit slice".`,
		Example: `  spritekit generate --style 8-bit --object knight --action walking --count 6
  spritekit generate --strip --prompt "green slime" --action bouncing --frames 4 --out slime.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("provider") {
				provider = a.cfg.Generation.Provider
			}
			if !cmd.Flags().Changed("model") {
				model = a.cfg.Generation.Model
			}
			svc := generation.NewService(a.cfg.Generation.Provider, a.cfg.Generation.Temperature)

			if strip {
				if req.Subject == "" {
					return fmt.Errorf("--prompt is required with --strip")
				}
				if out == "" {
					out = "sprite.png"
				}
				req.Action = frames.Action
				img, used, err := svc.GenerateSprite(cmd.Context(), provider, model, req)
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, img.Data, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s using %s\n", out, used)
				return nil
			}

			frames.Prompt = req.Subject
			imgs, used, err := svc.GenerateFrames(cmd.Context(), provider, model, frames)
			if err != nil {
				return err
			}
			seqFrames := make([]models.Frame, 0, len(imgs))
			for i, img := range imgs {
				decoded, err := images.DecodeFrame(img.Data)
				if err != nil {
					return fmt.Errorf("generated frame %d: %w", i+1, err)
				}
				b := decoded.Bounds()
				seqFrames = append(seqFrames, models.Frame{Width: b.Dx(), Height: b.Dy(), MIMEType: img.MIMEType, Data: img.Data})
			}

			set := models.NewSpriteSet("", models.NewFrameSequence(seqFrames), models.Metadata{
				Style:      frames.Style,
				Object:     frames.Object,
				Action:     frames.Action,
				Background: frames.Background,
				Prompt:     frames.Prompt,
			})
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.SaveSpriteSet(cmd.Context(), set); err != nil {
				return err
			}
			if out != "" {
				if err := writeFrames(out, set.Frames); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved sprite set %s (%s, %d frames) using %s\n", set.ID, set.Name, len(set.Frames), used)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "gemini", "Image provider (gemini, openai, placeholder)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (provider default when empty)")
	cmd.Flags().BoolVar(&strip, "strip", false, "Generate one sprite strip instead of separate frames")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file with --strip, otherwise a directory for frame PNGs")
	cmd.Flags().StringVar(&req.Subject, "prompt", "", "Subject or full prompt")
	cmd.Flags().StringVar(&req.Direction, "direction", "", "Facing direction for --strip")
	cmd.Flags().StringVar(&req.ViewType, "view", "", "View type for --strip (side, top-down, isometric)")
	cmd.Flags().IntVar(&req.GridSize, "grid-size", 32, "Frame size in pixels for --strip")
	cmd.Flags().IntVar(&req.Frames, "frames", 4, "Frames in the strip for --strip")
	cmd.Flags().IntVar(&req.Colors, "colors", 16, "Palette size for --strip")
	cmd.Flags().StringVar(&frames.Style, "style", "pixel-art", "Art style")
	cmd.Flags().StringVar(&frames.Object, "object", "", "Object to animate")
	cmd.Flags().StringVar(&frames.Action, "action", "", "Action to animate")
	cmd.Flags().StringVar(&frames.Background, "background", "", "Background description")
	cmd.Flags().IntVar(&frames.Count, "count", 8, "Number of frames to generate")

	return cmd
}
