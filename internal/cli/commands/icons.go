package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lectern-dev/lectern/internal/resources"
)

// NewIconsCommand creates the icons command group.
func NewIconsCommand(getConfig ConfigFn) *cobra.Command {
	var archivePath string

	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Inspect icons bundled in a plugin archive",
	}
	cmd.PersistentFlags().StringVarP(&archivePath, "archive", "a", "", "plugin zip file (required)")
	_ = cmd.MarkPersistentFlagRequired("archive")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the archive's entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resources.OpenArchive(archivePath, GetLogger(cmd.Context()))
			if err != nil {
				return err
			}
			names := a.Names()
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})

	extract := &cobra.Command{
		Use:   "get <name>",
		Short: "Resolve one icon, honoring the configured theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd.Context())
			a, err := resources.OpenArchive(archivePath, GetLogger(cmd.Context()))
			if err != nil {
				return err
			}

			ic := &resources.Icons{
				ConfigDir: cfg.ConfigDir,
				Theme:     cfg.Theme,
				Archive:   a,
				Log:       GetLogger(cmd.Context()),
			}
			data := ic.Get(args[0])
			if data == nil {
				return fmt.Errorf("icon %q not found", args[0])
			}

			out, _ := cmd.Flags().GetString("output")
			if out == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bytes\n", args[0], len(data))
				return nil
			}
			return os.WriteFile(out, data, 0o644)
		},
	}
	extract.Flags().StringP("output", "o", "", "write the icon bytes to this file")
	cmd.AddCommand(extract)

	return cmd
}
