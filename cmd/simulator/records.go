package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"prouni-simulator/internal/common/observability"
)

var recordsJSON bool

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Inspect saved simulations",
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved simulations, most recent first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := withIdentity(cmd.Context())

		a, err := newApp(ctx, observability.NewNoop(), 1)
		if err != nil {
			return err
		}
		defer a.Close()

		recs, err := a.store.List(ctx)
		if err != nil {
			return err
		}

		if recordsJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(recs)
		}
		printRecords(cmd.OutOrStdout(), recs)
		return nil
	},
}

var recordsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one saved simulation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := withIdentity(cmd.Context())

		a, err := newApp(ctx, observability.NewNoop(), 1)
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.store.Get(ctx, args[0])
		if err != nil {
			return err
		}

		if recordsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}
		printResult(cmd.OutOrStdout(), rec)
		return nil
	},
}

var recordsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved simulation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := withIdentity(cmd.Context())

		a, err := newApp(ctx, observability.NewNoop(), 1)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Simulação %s excluída.\n", args[0])
		return nil
	},
}

func init() {
	recordsCmd.PersistentFlags().BoolVar(&recordsJSON, "json", false, "print JSON instead of tables")
	recordsCmd.AddCommand(recordsListCmd, recordsGetCmd, recordsDeleteCmd)
	rootCmd.AddCommand(recordsCmd)
}
