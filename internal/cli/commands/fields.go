package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewFieldsCommand creates the fields command.
func NewFieldsCommand(getConfig ConfigFn) *cobra.Command {
	var writableOnly bool

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the field names templates and plugins can reference",
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := openLibrary(cmd.Context(), getConfig(cmd.Context()))
			if err != nil {
				return err
			}
			defer lib.Close()

			set, err := lib.Columns(cmd.Context())
			if err != nil {
				return err
			}

			all, writable := set.PossibleFields()
			names := all
			if writableOnly {
				names = writable
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&writableOnly, "writable", false, "only show fields whose value can be set")
	return cmd
}
