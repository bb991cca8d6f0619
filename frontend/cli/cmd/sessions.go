package cmd

import (
	"github.com/spf13/cobra"
)

func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Short:   "Manage summaries kept in the session store",
		Aliases: []string{"session"},
	}

	cmd.AddCommand(NewSessionsListCmd())
	cmd.AddCommand(NewSessionsShowCmd())
	cmd.AddCommand(NewSessionsDeleteCmd())

	return cmd
}

type SessionDisplay struct {
	SessionID string `json:"session_id"`
	Version   string `json:"version"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
