package cmd

import (
	"fmt"
	"log/slog"

	"github.com/pixel-adventure/spritekit/internal/project"
	"github.com/spf13/cobra"
)

func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Back up and restore sprite sets",
		Long: `Writes every saved sprite set to a project file and reads it back.

Files ending in .parquet hold one row per frame; anything else is written
as JSON with frames inlined as data URLs.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write all sprite sets to a project file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			sets, err := store.ListSpriteSets(cmd.Context())
			if err != nil {
				return err
			}
			if err := project.ExportFile(args[0], sets); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sprite sets to %s\n", len(sets), args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Load sprite sets from a project file",
		Long:  "Loads sprite sets from a project file. Sets with an existing id are replaced.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, err := project.ImportFile(args[0])
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			for _, set := range sets {
				if err := store.SaveSpriteSet(cmd.Context(), set); err != nil {
					return fmt.Errorf("failed to import %q: %w", set.Name, err)
				}
				slog.Debug("Sprite set imported", "sprite_id", set.ID, "name", set.Name, "frames", len(set.Frames))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sprite sets from %s\n", len(sets), args[0])
			return nil
		},
	})

	return cmd
}
