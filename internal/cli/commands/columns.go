package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lectern-dev/lectern/internal/field"
)

// NewColumnsCommand creates the columns command.
func NewColumnsCommand(getConfig ConfigFn) *cobra.Command {
	var (
		kindFilter  string
		customOnly  bool
		builtinOnly bool
	)

	cmd := &cobra.Command{
		Use:   "columns",
		Short: "List the library's columns with their classification",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if customOnly && builtinOnly {
				return fmt.Errorf("--custom and --builtin are mutually exclusive")
			}

			lib, err := openLibrary(cmd.Context(), getConfig(cmd.Context()))
			if err != nil {
				return err
			}
			defer lib.Close()

			set, err := lib.Columns(cmd.Context())
			if err != nil {
				return err
			}

			columns := set.Where(func(c *field.Column) bool {
				if customOnly && !c.IsCustom() {
					return false
				}
				if builtinOnly && c.IsCustom() {
					return false
				}
				return kindFilter == "" || string(c.Kind()) == kindFilter
			})

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Name", "Display", "Kind", "Datatype", "Custom", "Category"})
			for _, c := range columns {
				t.AppendRow(table.Row{
					c.Name(), c.DisplayName(), c.Kind(), c.Datatype(),
					yesNo(c.IsCustom()), yesNo(c.IsCategory()),
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFilter, "kind", "", "only show columns of this kind")
	cmd.Flags().BoolVar(&customOnly, "custom", false, "only show custom columns")
	cmd.Flags().BoolVar(&builtinOnly, "builtin", false, "only show built-in columns")

	_ = cmd.RegisterFlagCompletionFunc("kind", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		kinds := field.Kinds()
		out := make([]string, len(kinds))
		for i, k := range kinds {
			out[i] = string(k)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
