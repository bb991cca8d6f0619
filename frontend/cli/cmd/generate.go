package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/panglihaoshuai/context-summarizer-skill/backend/store"
	"github.com/panglihaoshuai/context-summarizer-skill/backend/summary"
	"github.com/panglihaoshuai/context-summarizer-skill/backend/workspace"
	"github.com/panglihaoshuai/context-summarizer-skill/frontend/cli/pkg/fail"
	"github.com/panglihaoshuai/context-summarizer-skill/frontend/cli/pkg/terminal"
	"github.com/panglihaoshuai/context-summarizer-skill/shared"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatBoth = "both"
)

// defaultMetrics backs the generation counters for the lifetime of the
// process. Commands share it so repeated invocations in one process do not
// re-register collectors.
var defaultMetrics = summary.NewMetricsProvider(prometheus.NewRegistry())

type generateOptions struct {
	Session     string
	Format      string
	Output      string
	Input       string
	Sections    []string
	MaxWords    int
	Truncate    bool
	Store       bool
	Interactive bool
}

func NewGenerateCmd() *cobra.Command {
	options := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [flags]",
		Short: "Generate the session summary artifacts",
		Long: `Render the current session snapshot into session_summary.md and
session_summary.json so a new session can recover the context.

The snapshot is read from --input when given, collected interactively with
--interactive, or assembled from workspace probes (AGENTS.md, recorded tech
decisions, source files, git status) otherwise.`,
		Example: `  # Generate both artifacts from the workspace into the current directory
  ctxsum generate

  # Generate from a prepared snapshot, markdown only
  ctxsum generate --input snapshot.yaml --format text

  # Keep a copy in the session store for later recovery
  ctxsum generate --session session_20260823120000 --store`,
		Aliases: []string{"gen"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := getFileSystem(cmd.Context())
			userInfo := getUserInfo(cmd.Context())

			config, err := shared.NewConfigManager(fs, userInfo).Load()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("max-words") {
				config.MaxWords = options.MaxWords
			}
			if cmd.Flags().Changed("truncate") {
				config.TruncateOnOverflow = options.Truncate
			}
			if cmd.Flags().Changed("sections") {
				config.Sections = options.Sections
			}

			sections := summary.NewSectionSet(summary.AllSections()...)
			if len(config.Sections) > 0 {
				sections, err = summary.ParseSections(config.Sections)
				if err != nil {
					return err
				}
			}

			format := strings.ToLower(options.Format)
			if format != FormatText && format != FormatJSON && format != FormatBoth {
				return shared.Errorf(shared.ErrorSourceInput,
					"format must be one of %q, %q, or %q", FormatText, FormatJSON, FormatBoth)
			}

			snapshot, err := buildSnapshot(cmd, fs, options)
			if err != nil {
				return err
			}
			snapshot.SessionID = options.Session

			renderer := summary.NewRenderer(summary.Config{
				MaxWords: config.MaxWords,
				Sections: sections,
				Truncate: config.TruncateOnOverflow,
			})
			contextSummary := renderer.Summarize(snapshot, time.Now())

			needJSON := format == FormatJSON || format == FormatBoth || options.Store
			needText := format == FormatText || format == FormatBoth || options.Store

			var jsonContent []byte
			if needJSON {
				jsonContent, err = renderer.RenderJSON(contextSummary)
				if err != nil {
					return err
				}
			}

			var text string
			if needText {
				var warnings []string
				text, warnings = renderer.RenderText(contextSummary)
				if len(warnings) > 0 {
					defaultMetrics.IncrementOverruns()
				}
				for _, warning := range warnings {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", terminal.WarningSymbol, warning)
				}
			}

			outputDir := options.Output
			if outputDir == "" {
				outputDir = config.OutputDir
			}
			if outputDir == "" {
				outputDir, err = userInfo.Cwd()
				if err != nil {
					return err
				}
			}

			artifacts := summary.Artifacts{}
			if format == FormatJSON || format == FormatBoth {
				artifacts.JSON = jsonContent
			}
			if format == FormatText || format == FormatBoth {
				artifacts.Markdown = text
			}

			saved, err := summary.NewArtifactWriter(fs).Write(outputDir, artifacts)
			if err != nil {
				return fail.NewWriteError(outputDir, err)
			}

			defaultMetrics.IncrementGenerated(format)

			fmt.Fprintln(cmd.OutOrStdout(), "Summary generated:")
			if saved.JSONPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  [JSON] %s\n", saved.JSONPath)
			}
			if saved.MarkdownPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  [TEXT] %s\n", saved.MarkdownPath)
			}

			if options.Store {
				if err := storeSummary(cmd, contextSummary, text, jsonContent); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  [STORE] session %s\n", contextSummary.SessionID)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "\nReady for new session recovery! 🚀")
			return nil
		},
	}

	cmd.Flags().StringVarP(&options.Session, "session", "s",
		fmt.Sprintf("session_%s", time.Now().Format("20060102150405")), "Session ID")
	cmd.Flags().StringVarP(&options.Format, "format", "f", FormatBoth, "Output format (text, json, both)")
	cmd.Flags().StringVarP(&options.Output, "output", "o", "", "Output directory (default: current directory)")
	cmd.Flags().StringVarP(&options.Input, "input", "i", "", "Snapshot file (YAML or JSON) to render")
	cmd.Flags().StringSliceVar(&options.Sections, "sections", nil,
		"Sections to include (project, tasks, decisions, code, history)")
	cmd.Flags().IntVar(&options.MaxWords, "max-words", shared.DefaultMaxWords, "Maximum words in the text summary")
	cmd.Flags().BoolVar(&options.Truncate, "truncate", false, "Drop low-priority sections when over the word budget")
	cmd.Flags().BoolVar(&options.Store, "store", false, "Also save the summary to the session store")
	cmd.Flags().BoolVar(&options.Interactive, "interactive", false, "Collect snapshot fields interactively")

	return cmd
}

func buildSnapshot(cmd *cobra.Command, fs *afero.Afero, options *generateOptions) (*summary.Snapshot, error) {
	if options.Input != "" {
		return loadSnapshotFile(fs, options.Input)
	}

	root, err := getUserInfo(cmd.Context()).Cwd()
	if err != nil {
		return nil, err
	}

	inspector := workspace.NewInspector(fs, getCommandRunner(cmd.Context()), root)
	snapshot := inspector.Snapshot(cmd.Context(), options.Session)

	if options.Interactive {
		if err := collectSnapshot(getPromptDriver(cmd.Context()), snapshot); err != nil {
			return nil, err
		}
	}

	return snapshot, nil
}

func loadSnapshotFile(fs *afero.Afero, path string) (*summary.Snapshot, error) {
	content, err := fs.ReadFile(path)
	if err != nil {
		return nil, shared.Wrap(shared.ErrorSourceInput, err, "failed to read snapshot file %s", path)
	}

	var snapshot summary.Snapshot
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(content, &snapshot)
	} else {
		err = yaml.Unmarshal(content, &snapshot)
	}
	if err != nil {
		return nil, shared.Wrap(shared.ErrorSourceInput, err, "failed to parse snapshot file %s", path)
	}

	return &snapshot, nil
}

func storeSummary(cmd *cobra.Command, contextSummary *summary.ContextSummary, markdown string, jsonContent []byte) error {
	storePath, err := resolveStorePath(cmd.Context())
	if err != nil {
		return err
	}

	sessionStore, err := store.Open(storePath)
	if err != nil {
		return fail.NewStoreOpenError(storePath, err)
	}
	defer sessionStore.Close()

	return sessionStore.SaveSummary(cmd.Context(), &store.Record{
		SessionID: contextSummary.SessionID,
		Version:   contextSummary.Version,
		Markdown:  markdown,
		Summary:   jsonContent,
	})
}
