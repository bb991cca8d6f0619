// Package workspace populates snapshot defaults by probing the project
// directory: task lists, recorded decisions, source files, and pending git
// changes. Every probe degrades to defaults when its input is missing.
package workspace

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/panglihaoshuai/context-summarizer-skill/backend/summary"
	"github.com/panglihaoshuai/context-summarizer-skill/shared"
)

const (
	maxCurrentFiles        = 15
	maxRecentChanges       = 5
	maxDecisions           = 10
	maxArchitectureMarkers = 5
)

var decisionPattern = regexp.MustCompile(`(?m)^[-•]\s*(.+?):\s*(.+)$`)

type Inspector struct {
	fs     *afero.Afero
	runner shared.CommandRunner
	root   string
}

func NewInspector(fs *afero.Afero, runner shared.CommandRunner, root string) *Inspector {
	return &Inspector{
		fs:     fs,
		runner: runner,
		root:   root,
	}
}

// Snapshot assembles a session snapshot from what the workspace reveals.
// Conversation history cannot be inferred from disk and stays empty.
func (i *Inspector) Snapshot(ctx context.Context, sessionID string) *summary.Snapshot {
	return &summary.Snapshot{
		SessionID:    sessionID,
		Project:      i.projectStatus(),
		PendingTasks: []summary.PendingTask{},
		Decisions:    i.techDecisions(),
		Code: summary.CodeContext{
			CurrentFiles:         i.currentFiles(),
			RecentChanges:        i.recentChanges(ctx),
			ArchitecturePatterns: i.architecturePatterns(),
		},
		History: summary.ConversationHistory{
			KeyDiscussions:       []string{},
			ConfirmedItems:       []string{},
			PendingConfirmations: []string{},
		},
	}
}

func (i *Inspector) projectStatus() summary.ProjectStatus {
	project := summary.ProjectStatus{
		Name:        "Project",
		Description: "A coding project",
		Phase:       1,
	}

	agentsPath := filepath.Join(i.root, "AGENTS.md")
	if content, err := i.fs.ReadFile(agentsPath); err == nil {
		text := string(content)
		completed := strings.Count(text, "[x]") + strings.Count(text, "✅")
		total := completed + strings.Count(text, "[ ]")
		project.CompletedTasks = completed
		project.TotalTasks = total
	}

	configPath := filepath.Join(i.root, "config", "project.json")
	if content, err := i.fs.ReadFile(configPath); err == nil {
		var overrides struct {
			Name        *string `json:"name"`
			Description *string `json:"description"`
			Phase       *int    `json:"phase"`
			TotalTasks  *int    `json:"total_tasks"`
		}
		if err := json.Unmarshal(content, &overrides); err != nil {
			slog.Warn("failed to parse project config", "path", configPath, "error", err)
		} else {
			if overrides.Name != nil {
				project.Name = *overrides.Name
			}
			if overrides.Description != nil {
				project.Description = *overrides.Description
			}
			if overrides.Phase != nil {
				project.Phase = *overrides.Phase
			}
			if overrides.TotalTasks != nil {
				project.TotalTasks = *overrides.TotalTasks
			}
		}
	}

	return project
}

func (i *Inspector) techDecisions() []summary.TechDecision {
	defaults := []summary.TechDecision{
		{
			Decision: "Standard architecture",
			Status:   summary.DecisionConfirmed,
			Reason:   "Default decision for new projects",
		},
	}

	decisionsPath := filepath.Join(i.root, "docs", "tech_decisions.md")
	content, err := i.fs.ReadFile(decisionsPath)
	if err != nil {
		return defaults
	}

	matches := decisionPattern.FindAllStringSubmatch(string(content), maxDecisions)
	if len(matches) == 0 {
		return defaults
	}

	decisions := make([]summary.TechDecision, 0, len(matches))
	for _, match := range matches {
		decisions = append(decisions, summary.TechDecision{
			Decision: strings.TrimSpace(match[1]),
			Status:   summary.DecisionConfirmed,
			Reason:   strings.TrimSpace(match[2]),
		})
	}
	return decisions
}

func (i *Inspector) currentFiles() []string {
	files := []string{}

	srcRoot := filepath.Join(i.root, "src")
	_ = i.fs.Walk(srcRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if len(files) >= maxCurrentFiles {
			return filepath.SkipAll
		}
		if rel, err := filepath.Rel(i.root, path); err == nil {
			files = append(files, rel)
		}
		return nil
	})

	configRoot := filepath.Join(i.root, "config")
	entries, err := i.fs.ReadDir(configRoot)
	if err != nil {
		return files
	}
	for _, entry := range entries {
		if entry.IsDir() || len(files) >= maxCurrentFiles {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".json" || ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join("config", entry.Name()))
		}
	}

	return files
}

func (i *Inspector) recentChanges(ctx context.Context) []string {
	changes := []string{}

	output, err := i.runner.Run(ctx, "git", "-C", i.root, "status", "--short")
	if err != nil {
		return changes
	}

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		changes = append(changes, line)
		if len(changes) >= maxRecentChanges {
			break
		}
	}
	return changes
}

func (i *Inspector) architecturePatterns() []string {
	patterns := []string{}

	for _, dir := range []string{"src", "tests", "config", "docs", "scripts"} {
		if exists, _ := i.fs.DirExists(filepath.Join(i.root, dir)); exists {
			patterns = append(patterns, dir)
		}
	}

	markers := []struct {
		file    string
		pattern string
	}{
		{"go.mod", "Go module"},
		{"package.json", "Node.js project"},
		{"requirements.txt", "Python project"},
		{"pyproject.toml", "Python (Poetry)"},
		{"docker-compose.yml", "Docker"},
		{"AGENTS.md", "Agent workflow"},
	}
	for _, marker := range markers {
		if exists, _ := i.fs.Exists(filepath.Join(i.root, marker.file)); exists {
			patterns = append(patterns, marker.pattern)
		}
	}

	if len(patterns) > maxArchitectureMarkers {
		patterns = patterns[:maxArchitectureMarkers]
	}
	return patterns
}
