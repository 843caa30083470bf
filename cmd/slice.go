package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pixel-adventure/spritekit/internal/geometry"
	"github.com/pixel-adventure/spritekit/internal/grid"
	"github.com/pixel-adventure/spritekit/internal/images"
	"github.com/pixel-adventure/spritekit/internal/models"
	"github.com/pixel-adventure/spritekit/internal/slicer"
	"github.com/spf13/cobra"
)

func newSliceCmd(a *app) *cobra.Command {
	var (
		frameCount int
		topology   string
		xLines     string
		yLines     string
		outDir     string
		save       bool
		name       string
	)

	cmd := &cobra.Command{
		Use:   "slice <image>",
		Short: "Cut an image into frames along grid lines",
		Long: `Cuts a sprite strip or sheet into frames without the editor.

Lines are given in source pixels. Without --x/--y the grid is spaced evenly
for --frames and --topology. Frames are written as frame_N.png.`,
		Example: `  # Four columns, evenly spaced
  spritekit slice walk.png --frames 4 --out ./frames

  # Custom cut positions, saved to the sprite database
  spritekit slice walk.png --frames 3 --x 30,70 --save --name "walk cycle"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetcher := images.NewFetcher()
			var (
				src *images.Source
				err error
			)
			if strings.HasPrefix(args[0], "http://") || strings.HasPrefix(args[0], "https://") || strings.HasPrefix(args[0], "data:") {
				src, err = fetcher.DecodeURL(cmd.Context(), args[0])
			} else {
				src, err = fetcher.DecodeFile(args[0])
			}
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("frames") {
				frameCount = a.cfg.Grid.DefaultFrameCount
			}
			if !cmd.Flags().Changed("topology") {
				topology = a.cfg.Grid.DefaultTopology
			}
			topo, err := grid.ParseTopology(topology)
			if err != nil {
				return err
			}

			t, err := geometry.Identity(src.Width, src.Height)
			if err != nil {
				return err
			}
			lines, err := grid.Initialize(frameCount, topo, t.DisplayWidth, t.DisplayHeight)
			if err != nil {
				return err
			}
			if xLines != "" {
				if lines.X, err = parseLines(xLines); err != nil {
					return err
				}
			}
			if yLines != "" {
				if lines.Y, err = parseLines(yLines); err != nil {
					return err
				}
			}

			seq, err := slicer.SliceImage(cmd.Context(), src, frameCount, topo, lines, t, nil)
			if err != nil {
				return err
			}

			if outDir != "" {
				if err := writeFrames(outDir, seq.Frames); err != nil {
					return err
				}
			}
			if save {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				defer store.Close()
				if name == "" {
					name = strings.TrimSuffix(src.Name, filepath.Ext(src.Name))
				}
				set := models.NewSpriteSet(name, seq, models.Metadata{})
				if err := store.SaveSpriteSet(cmd.Context(), set); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved sprite set %s (%s)\n", set.ID, set.Name)
			}

			s := slicer.Summarize(seq)
			fmt.Fprintf(cmd.OutOrStdout(), "%d frames, width %.1f±%.1f, height %.1f±%.1f, uniform=%t\n",
				s.Frames, s.MeanWidth, s.StdDevWidth, s.MeanHeight, s.StdDevHeight, s.Uniform)
			return nil
		},
	}

	cmd.Flags().IntVarP(&frameCount, "frames", "n", 4, "Number of frames per active axis")
	cmd.Flags().StringVarP(&topology, "topology", "t", "columns", "Grid topology (rows, columns, grid)")
	cmd.Flags().StringVar(&xLines, "x", "", "Comma separated vertical cut positions in pixels")
	cmd.Flags().StringVar(&yLines, "y", "", "Comma separated horizontal cut positions in pixels")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory to write frame PNGs into")
	cmd.Flags().BoolVar(&save, "save", false, "Save the frames as a sprite set")
	cmd.Flags().StringVar(&name, "name", "", "Sprite set name when saving")

	return cmd
}

func parseLines(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid line position %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func writeFrames(dir string, frames []models.Frame) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, f := range frames {
		path := filepath.Join(dir, f.Filename)
		if err := os.WriteFile(path, f.Data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		slog.Debug("Frame written", "path", path, "width", f.Width, "height", f.Height)
	}
	slog.Info("Frames written", "dir", dir, "count", len(frames))
	return nil
}
