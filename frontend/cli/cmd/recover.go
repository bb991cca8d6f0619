package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/panglihaoshuai/context-summarizer-skill/backend/store"
	"github.com/panglihaoshuai/context-summarizer-skill/backend/summary"
	"github.com/panglihaoshuai/context-summarizer-skill/frontend/cli/pkg/terminal"
	"github.com/panglihaoshuai/context-summarizer-skill/shared"
)

type recoverOptions struct {
	Session string
	Path    string
	Raw     bool
	Plain   bool
	Width   int
}

func NewRecoverCmd() *cobra.Command {
	options := &recoverOptions{}

	cmd := &cobra.Command{
		Use:   "recover [flags]",
		Short: "Load a previous summary for session recovery",
		Long: `Read session_summary.json (or a stored session) and print it so a new
session can pick up where the previous one left off.`,
		Example: `  # Recover from the summary files in the current directory
  ctxsum recover

  # Recover a stored session by id
  ctxsum recover --session session_20260823120000

  # Print the raw structured document
  ctxsum recover --raw`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, markdown, err := loadSummaryDocument(cmd, options)
			if err != nil {
				return err
			}

			version := gjson.GetBytes(data, "version")
			if !version.Exists() {
				return shared.Errorf(shared.ErrorSourceInput, "summary is missing its version tag")
			}
			if !summary.IsSupportedVersion(version.String()) {
				return shared.Errorf(shared.ErrorSourceInput,
					"summary version %q is not supported", version.String())
			}

			if options.Raw {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if markdown == "" {
				var contextSummary summary.ContextSummary
				if err := json.Unmarshal(data, &contextSummary); err != nil {
					return shared.Wrap(shared.ErrorSourceInput, err, "failed to decode summary")
				}
				markdown, _ = summary.NewRenderer(summary.Config{}).RenderText(&contextSummary)
			}

			if options.Plain {
				fmt.Fprint(cmd.OutOrStdout(), markdown)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), terminal.FormatAsMarkdown(markdown, options.Width))
			return nil
		},
	}

	cmd.Flags().StringVarP(&options.Session, "session", "s", "", "Recover a stored session by id")
	cmd.Flags().StringVarP(&options.Path, "path", "p", "", "Directory holding the summary files (default: current directory)")
	cmd.Flags().BoolVar(&options.Raw, "raw", false, "Print the raw structured document")
	cmd.Flags().BoolVar(&options.Plain, "plain", false, "Print the markdown without terminal styling")
	cmd.Flags().IntVar(&options.Width, "width", 100, "Word-wrap width for styled output")

	return cmd
}

func loadSummaryDocument(cmd *cobra.Command, options *recoverOptions) ([]byte, string, error) {
	if options.Session != "" {
		storePath, err := resolveStorePath(cmd.Context())
		if err != nil {
			return nil, "", err
		}

		sessionStore, err := store.Open(storePath)
		if err != nil {
			return nil, "", err
		}
		defer sessionStore.Close()

		record, err := sessionStore.GetSummary(cmd.Context(), options.Session)
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", shared.Errorf(shared.ErrorSourceInput,
				"no stored summary for session %q", options.Session)
		}
		if err != nil {
			return nil, "", shared.Wrap(shared.ErrorSourceStore, err, "failed to load session %q", options.Session)
		}
		return record.Summary, record.Markdown, nil
	}

	fs := getFileSystem(cmd.Context())

	dir := options.Path
	if dir == "" {
		cwd, err := getUserInfo(cmd.Context()).Cwd()
		if err != nil {
			return nil, "", err
		}
		dir = cwd
	}

	summaryPath := filepath.Join(dir, summary.JSONFileName)
	exists, err := fs.Exists(summaryPath)
	if err != nil {
		return nil, "", shared.Wrap(shared.ErrorSourceIO, err, "failed to check %s", summaryPath)
	}
	if !exists {
		return nil, "", shared.Errorf(shared.ErrorSourceInput, "no previous summary found in %s", dir)
	}

	data, err := fs.ReadFile(summaryPath)
	if err != nil {
		return nil, "", shared.Wrap(shared.ErrorSourceIO, err, "failed to read %s", summaryPath)
	}
	return data, "", nil
}
