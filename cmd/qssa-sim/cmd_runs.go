package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/daniacca/qssa/internal/export"
)

func newRunsCmd() *cobra.Command {
	var resolvers []configResolver
	for _, r := range runResolvers() {
		if r.flagName == "sqlite" || r.flagName == "postgres" {
			resolvers = append(resolvers, r)
		}
	}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List runs stored in a SQLite or Postgres database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, resolvers)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var store *export.SQLStore
			switch {
			case cfg.PostgresDSN != "":
				store, err = export.OpenPostgres(ctx, cfg.PostgresDSN)
			case cfg.SQLitePath != "":
				store, err = export.OpenSQLite(ctx, cfg.SQLitePath)
			default:
				return fmt.Errorf("one of --sqlite or --postgres is required")
			}
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(ctx)
			if err != nil {
				return err
			}

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs stored")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tTRAJECTORIES\tSHAPE\tSEED\tCREATED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.RunID,
					humanize.Comma(int64(r.Trajectories)), humanize.Comma(int64(r.Shape)), r.Seed, humanize.Time(r.CreatedAt))
			}
			return tw.Flush()
		},
	}
	registerConfigFlags(cmd, resolvers)
	return cmd
}
