package cmd

import (
	"fmt"
	"os"

	"github.com/pixel-adventure/spritekit/internal/animation"
	"github.com/pixel-adventure/spritekit/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format  string
		out     string
		fps     float64
		easing  string
		mode    string
		loop    bool
		columns int
		padding int
	)

	cmd := &cobra.Command{
		Use:   "export <sprite-id>",
		Short: "Export a saved sprite set as a GIF or sprite sheet",
		Example: `  spritekit export 3f1c... --format gif --fps 8 --mode bounce
  spritekit export 3f1c... --format sheet --columns 8 --out walk.png
  spritekit export 3f1c... --format sheet-json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			opts, err := export.OptionsFromConfig(a.cfg.Export)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("fps") {
				opts.GIF.FPS = fps
			}
			if flags.Changed("easing") {
				if opts.GIF.Easing, err = animation.ParseEasing(easing); err != nil {
					return err
				}
			}
			if flags.Changed("mode") {
				if opts.GIF.Mode, err = animation.ParseMode(mode); err != nil {
					return err
				}
			}
			if flags.Changed("loop") {
				opts.GIF.Loop = loop
			}
			if flags.Changed("columns") {
				opts.Sheet.Columns = columns
			}
			if flags.Changed("padding") {
				opts.Sheet.Padding = padding
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			set, err := store.GetSpriteSet(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if out == "" {
				out = f.Filename(set)
			}
			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer file.Close()
			if err := export.Write(file, set, f, opts); err != nil {
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d frames)\n", out, len(set.Frames))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "gif", "Export format (gif, sheet, sheet-json)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (defaults to a name derived from the sprite set)")
	cmd.Flags().Float64Var(&fps, "fps", 12, "GIF frames per second")
	cmd.Flags().StringVar(&easing, "easing", "linear", "GIF frame timing (linear, ease-in, ease-out, ease-in-out)")
	cmd.Flags().StringVar(&mode, "mode", "loop", "GIF playback order (loop, bounce, once, reverse)")
	cmd.Flags().BoolVar(&loop, "loop", true, "Loop the GIF forever")
	cmd.Flags().IntVar(&columns, "columns", 4, "Sprite sheet columns")
	cmd.Flags().IntVar(&padding, "padding", 0, "Sprite sheet padding in pixels")

	return cmd
}
