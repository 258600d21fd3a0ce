package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func historyCommand(deps Dependencies) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent detections and canary checks from the audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.Store == nil {
				return fmt.Errorf("audit store is disabled; enable store in promptsentry.yaml")
			}

			out := cmd.OutOrStdout()

			detections, err := deps.Store.ListDetections(cmd.Context(), limit)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Detections:")
			if len(detections) == 0 {
				fmt.Fprintln(out, "  (none)")
			}
			for _, d := range detections {
				verdict := "safe"
				if !d.Safe {
					verdict = "FLAGGED"
				}
				if d.FailOpen {
					verdict = "fail-open"
				}
				fmt.Fprintf(out, "  %s  %-9s  id=%s  prompt=%d chars  %dms\n",
					d.CreatedAt.Format(time.RFC3339), verdict, orDash(d.DetectionID), d.PromptChars, d.LatencyMS)
				if d.Error != "" {
					fmt.Fprintf(out, "      error: %s\n", d.Error)
				}
			}

			checks, err := deps.Store.ListCanaryChecks(cmd.Context(), limit)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Canary checks:")
			if len(checks) == 0 {
				fmt.Fprintln(out, "  (none)")
			}
			for _, c := range checks {
				verdict := "clean"
				if c.Leaked {
					verdict = "LEAKED"
				}
				fmt.Fprintf(out, "  %s  %-7s  word=%s\n",
					c.CreatedAt.Format(time.RFC3339), verdict, c.CanaryWord)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows to list per section")

	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
