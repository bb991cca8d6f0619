package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/panglihaoshuai/context-summarizer-skill/backend/summary"
	"github.com/panglihaoshuai/context-summarizer-skill/backend/usage"
	"github.com/panglihaoshuai/context-summarizer-skill/frontend/cli/pkg/terminal"
	"github.com/panglihaoshuai/context-summarizer-skill/shared"
)

type statusOptions struct {
	Usage     float64
	UsageFile string
	Threshold float64
}

func NewStatusCmd() *cobra.Command {
	options := &statusOptions{}

	cmd := &cobra.Command{
		Use:   "status [flags]",
		Short: "Check whether summary generation is recommended",
		Long: `Compare the current token-usage ratio against the configured threshold
and report whether a summary should be generated now.

The ratio comes from --usage when given, from a usage file dropped by the
host session with --usage-file, or from a rough process-memory estimate
otherwise.`,
		Example: `  # Check a host-reported ratio against the default threshold
  ctxsum status --usage 0.85

  # Poll the usage file the host session maintains
  ctxsum status --usage-file .ctxsum/usage.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := getFileSystem(cmd.Context())
			userInfo := getUserInfo(cmd.Context())

			config, err := shared.NewConfigManager(fs, userInfo).Load()
			if err != nil {
				return err
			}

			threshold := config.TokenThreshold
			if cmd.Flags().Changed("threshold") {
				if options.Threshold < 0 || options.Threshold > 1 {
					return shared.Errorf(shared.ErrorSourceInput,
						"threshold must be in [0,1], got %v", options.Threshold)
				}
				threshold = options.Threshold
			}

			var reporter summary.Reporter
			switch {
			case cmd.Flags().Changed("usage"):
				reporter = usage.StaticReporter{Ratio: options.Usage}
			case options.UsageFile != "":
				reporter = usage.NewFileReporter(fs, options.UsageFile)
			default:
				reporter = usage.RuntimeReporter{}
			}

			monitor := summary.NewMonitor(threshold)
			recommended, ratio, err := monitor.Check(cmd.Context(), reporter)
			if err != nil {
				return err
			}

			defaultMetrics.ObserveUsageRatio(ratio)

			fmt.Fprintf(cmd.OutOrStdout(), "Token usage: %.0f%%\n", ratio*100)
			if recommended {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Token usage is at or above %.0f%%. Run 'ctxsum generate' to capture a summary.\n",
					terminal.WarningSymbol, monitor.Threshold()*100)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Below the %.0f%% threshold, no summary needed yet.\n",
					terminal.SuccessSymbol, monitor.Threshold()*100)
			}

			return nil
		},
	}

	cmd.Flags().Float64Var(&options.Usage, "usage", 0, "Token usage ratio reported by the host session")
	cmd.Flags().StringVar(&options.UsageFile, "usage-file", "", "Path to a usage document maintained by the host")
	cmd.Flags().Float64Var(&options.Threshold, "threshold", shared.DefaultTokenThreshold, "Recommendation threshold in [0,1]")

	return cmd
}
