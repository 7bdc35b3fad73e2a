package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lectern-dev/lectern/internal/prefs"
)

// NewPrefsCommand creates the prefs command group.
func NewPrefsCommand(getConfig ConfigFn) *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read and write plugin preferences stored in a library",
	}
	cmd.PersistentFlags().StringVarP(&namespace, "namespace", "n", "", "plugin preference namespace (required)")
	_ = cmd.MarkPersistentFlagRequired("namespace")

	openStore := func(cmd *cobra.Command) (*prefs.LibraryStore, func() error, error) {
		lib, err := openLibrary(cmd.Context(), getConfig(cmd.Context()))
		if err != nil {
			return nil, nil, err
		}
		store, err := lib.Prefs(namespace, "", nil)
		if err != nil {
			lib.Close()
			return nil, nil, err
		}
		return store, lib.Close, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the preference keys in the namespace",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeLib, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeLib()
			for _, key := range store.Keys() {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one preference value as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeLib, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeLib()

			value, ok := store.Get(args[0])
			if !ok {
				return fmt.Errorf("preference %q not set", args[0])
			}
			raw, err := json.MarshalIndent(value, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <json-value>",
		Short: "Set one preference from a JSON value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value any
			if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
				// Bare words are a common way to pass strings.
				value = args[1]
			}

			store, closeLib, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeLib()
			return store.Set(args[0], value)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "del <key>",
		Short: "Delete one preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeLib, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeLib()
			return store.Delete(args[0])
		},
	})

	return cmd
}
