package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/panglihaoshuai/context-summarizer-skill/backend/store"
	"github.com/panglihaoshuai/context-summarizer-skill/frontend/cli/pkg/fail"
)

type sessionsListOptions struct {
	RenderOptions RenderOptions
}

func NewSessionsListCmd() *cobra.Command {
	options := &sessionsListOptions{}

	cmd := &cobra.Command{
		Use:     "list [flags]",
		Short:   "List stored session summaries",
		Aliases: []string{"ls"},
		Example: `  # List stored sessions
  ctxsum sessions list

  # List stored sessions in JSON format
  ctxsum sessions ls -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			storePath, err := resolveStorePath(cmd.Context())
			if err != nil {
				return err
			}

			sessionStore, err := store.Open(storePath)
			if err != nil {
				return fail.NewStoreOpenError(storePath, err)
			}
			defer sessionStore.Close()

			records, err := sessionStore.ListSessions(cmd.Context())
			if err != nil {
				return err
			}

			displays := make([]*SessionDisplay, len(records))
			for i, record := range records {
				displays[i] = &SessionDisplay{
					SessionID: record.SessionID,
					Version:   record.Version,
					CreatedAt: record.CreatedAt.Format(time.RFC3339),
					UpdatedAt: record.UpdatedAt.Format(time.RFC3339),
				}
			}

			return getRenderer(cmd.Context(), cmd.OutOrStdout()).Render(displays, &options.RenderOptions)
		},
	}

	addRenderOptions(cmd, &options.RenderOptions)

	return cmd
}
