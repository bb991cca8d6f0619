package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/panglihaoshuai/context-summarizer-skill/backend/store"
	"github.com/panglihaoshuai/context-summarizer-skill/frontend/cli/pkg/fail"
	"github.com/panglihaoshuai/context-summarizer-skill/frontend/cli/pkg/terminal"
	"github.com/panglihaoshuai/context-summarizer-skill/shared"
)

type sessionsShowOptions struct {
	JSON   bool
	Pretty bool
	Width  int
}

func NewSessionsShowCmd() *cobra.Command {
	options := &sessionsShowOptions{}

	cmd := &cobra.Command{
		Use:   "show <session-id> [flags]",
		Short: "Print a stored session summary",
		Args:  cobra.ExactArgs(1),
		Example: `  # Print the stored markdown summary
  ctxsum sessions show session_20260823120000

  # Print the structured document instead
  ctxsum sessions show session_20260823120000 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := args[0]

			storePath, err := resolveStorePath(cmd.Context())
			if err != nil {
				return err
			}

			sessionStore, err := store.Open(storePath)
			if err != nil {
				return fail.NewStoreOpenError(storePath, err)
			}
			defer sessionStore.Close()

			record, err := sessionStore.GetSummary(cmd.Context(), sessionID)
			if errors.Is(err, store.ErrNotFound) {
				return shared.Errorf(shared.ErrorSourceInput, "no stored summary for session %q", sessionID)
			}
			if err != nil {
				return err
			}

			if options.JSON {
				_, err = cmd.OutOrStdout().Write(record.Summary)
				return err
			}

			if options.Pretty {
				fmt.Fprintln(cmd.OutOrStdout(), terminal.FormatAsMarkdown(record.Markdown, options.Width))
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), record.Markdown)
			return nil
		},
	}

	cmd.Flags().BoolVar(&options.JSON, "json", false, "Print the structured document")
	cmd.Flags().BoolVar(&options.Pretty, "pretty", false, "Render the markdown with terminal styling")
	cmd.Flags().IntVar(&options.Width, "width", 100, "Word-wrap width for styled output")

	return cmd
}
