package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/panglihaoshuai/context-summarizer-skill/backend/store"
	"github.com/panglihaoshuai/context-summarizer-skill/frontend/cli/pkg/fail"
	"github.com/panglihaoshuai/context-summarizer-skill/shared"
)

type sessionsDeleteOptions struct {
	Force bool
}

func NewSessionsDeleteCmd() *cobra.Command {
	options := &sessionsDeleteOptions{}

	cmd := &cobra.Command{
		Use:     "delete <session-id>... [flags]",
		Short:   "Delete stored session summaries",
		Aliases: []string{"rm"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !options.Force && !confirmDeletion(cmd.InOrStdin(), cmd.OutOrStdout(), "session", args) {
				fmt.Fprintln(cmd.OutOrStdout(), "Deletion aborted")
				return nil
			}

			storePath, err := resolveStorePath(cmd.Context())
			if err != nil {
				return err
			}

			sessionStore, err := store.Open(storePath)
			if err != nil {
				return fail.NewStoreOpenError(storePath, err)
			}
			defer sessionStore.Close()

			for _, sessionID := range args {
				err := sessionStore.DeleteSession(cmd.Context(), sessionID)
				if errors.Is(err, store.ErrNotFound) {
					return shared.Errorf(shared.ErrorSourceInput, "no stored summary for session %q", sessionID)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Session %q deleted\n", sessionID)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&options.Force, "force", false, "Delete without confirmation")

	return cmd
}
