package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/daniacca/qssa/internal/qssa"
	sim "github.com/daniacca/qssa/pkg/qssa"
)

type validateResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Issues   []string `json:"issues,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <params-file>...",
		Short: "Check parameter files without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			out := cmd.OutOrStdout()

			results := make([]validateResult, 0, len(args))
			invalid := 0
			for _, file := range args {
				res := validateResult{File: file, Valid: true}
				cfg, err := sim.LoadParametersFile(file)
				if err == nil {
					res.Warnings = sim.Warnings(cfg)
				} else {
					res.Valid = false
					invalid++
					var verr *qssa.ValidationError
					if errors.As(err, &verr) {
						res.Issues = verr.Issues
					} else {
						res.Issues = []string{err.Error()}
					}
				}
				results = append(results, res)

				if jsonOut {
					continue
				}
				if res.Valid {
					samples := uint64(*cfg.Nc) * uint64(*cfg.Shape+1)
					fmt.Fprintf(out, "%s: ok (%s trajectories x %s steps, %s samples)\n", file,
						humanize.Comma(int64(*cfg.Nc)), humanize.Comma(int64(*cfg.Shape)), humanize.Comma(int64(samples)))
					for _, w := range res.Warnings {
						fmt.Fprintf(out, "  warning: %s\n", w)
					}
					continue
				}
				fmt.Fprintf(out, "%s: invalid\n", file)
				for _, issue := range res.Issues {
					fmt.Fprintf(out, "  - %s\n", issue)
				}
			}

			if jsonOut {
				if err := json.NewEncoder(out).Encode(results); err != nil {
					return err
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d parameter files invalid", invalid, len(args))
			}
			return nil
		},
	}
}
