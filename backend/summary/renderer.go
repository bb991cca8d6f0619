package summary

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/panglihaoshuai/context-summarizer-skill/shared"
)

const (
	maxReasonLength = 100
	footerRule      = "=================================================="
)

// truncationOrder lists the sections dropped on word-budget overrun, lowest
// priority first. The project section is never dropped.
var truncationOrder = []Section{SectionHistory, SectionCode, SectionDecisions, SectionTasks}

type Config struct {
	MaxWords int
	Sections SectionSet
	Truncate bool
}

// Renderer turns a session snapshot into the two output documents. It holds
// no state across calls; rendering the same snapshot twice produces
// byte-identical output.
type Renderer struct {
	config Config
}

func NewRenderer(config Config) *Renderer {
	if config.MaxWords <= 0 {
		config.MaxWords = shared.DefaultMaxWords
	}
	if config.Sections == nil {
		config.Sections = NewSectionSet(AllSections()...)
	}
	return &Renderer{config: config}
}

// CompletionRate computes completed/total clamped to [0,1] and rounded to
// two decimals, so the structured and text outputs agree on the percentage.
func CompletionRate(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	rate := float64(completed) / float64(total)
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	return math.Round(rate*100) / 100
}

// Summarize builds the structured document from a snapshot. Excluded
// sections are left nil so they never appear in either output. Missing
// input fields fall back to defaults instead of failing.
func (r *Renderer) Summarize(snapshot *Snapshot, generatedAt time.Time) *ContextSummary {
	if snapshot == nil {
		snapshot = &Snapshot{}
	}

	project := snapshot.Project
	if project.Name == "" {
		project.Name = "Project"
	}
	if project.Description == "" {
		project.Description = "A coding project"
	}
	if project.Phase <= 0 {
		project.Phase = 1
	}
	project.CompletionRate = CompletionRate(project.CompletedTasks, project.TotalTasks)

	summary := &ContextSummary{
		Version:     SummaryVersion,
		GeneratedAt: Timestamp(generatedAt),
		SessionID:   snapshot.SessionID,
	}

	if r.config.Sections.Has(SectionProject) {
		summary.Project = &project
	}
	if r.config.Sections.Has(SectionTasks) {
		tasks := snapshot.PendingTasks
		if tasks == nil {
			tasks = []PendingTask{}
		}
		summary.PendingTasks = tasks
	}
	if r.config.Sections.Has(SectionDecisions) {
		decisions := snapshot.Decisions
		if decisions == nil {
			decisions = []TechDecision{}
		}
		summary.TechDecisions = decisions
	}
	if r.config.Sections.Has(SectionCode) {
		code := snapshot.Code
		summary.CodeContext = &code
	}
	if r.config.Sections.Has(SectionHistory) {
		history := snapshot.History
		summary.ConversationHistory = &history
	}

	if snapshot.Recovery != nil {
		summary.RecoveryInstructions = *snapshot.Recovery
	} else {
		summary.RecoveryInstructions = deriveRecovery(project, snapshot.PendingTasks)
	}

	return summary
}

func deriveRecovery(project ProjectStatus, tasks []PendingTask) RecoveryInstructions {
	continueFrom := fmt.Sprintf("Phase %d completion", project.Phase)
	if len(tasks) > 0 {
		continueFrom = fmt.Sprintf("Task %s: %s", tasks[0].ID, tasks[0].Name)
	}

	return RecoveryInstructions{
		ReadFirst:    []string{"README.md", "AGENTS.md"},
		ContinueFrom: continueFrom,
		KeyContext: fmt.Sprintf("%s - Phase %d, %.0f%% complete",
			project.Name, project.Phase, project.CompletionRate*100),
	}
}

// RenderJSON serializes the structured document with two-space indentation
// and a trailing newline.
func (r *Renderer) RenderJSON(summary *ContextSummary) ([]byte, error) {
	content, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, shared.Wrap(shared.ErrorSourceInput, err, "failed to encode summary")
	}
	return append(content, '\n'), nil
}

// RenderText produces the human-readable markdown document. When the result
// exceeds the word budget a warning is returned; with truncation enabled,
// whole sections are dropped lowest-priority-first until the text fits.
func (r *Renderer) RenderText(summary *ContextSummary) (string, []string) {
	var warnings []string

	text := renderText(summary)
	words := countWords(text)
	if words <= r.config.MaxWords {
		return text, nil
	}

	warnings = append(warnings, fmt.Sprintf(
		"summary is %d words, exceeding the budget of %d", words, r.config.MaxWords))

	if !r.config.Truncate {
		return text, warnings
	}

	trimmed := *summary
	var dropped []Section
	for _, section := range truncationOrder {
		switch section {
		case SectionHistory:
			if trimmed.ConversationHistory == nil {
				continue
			}
			trimmed.ConversationHistory = nil
		case SectionCode:
			if trimmed.CodeContext == nil {
				continue
			}
			trimmed.CodeContext = nil
		case SectionDecisions:
			if trimmed.TechDecisions == nil {
				continue
			}
			trimmed.TechDecisions = nil
		case SectionTasks:
			if trimmed.PendingTasks == nil {
				continue
			}
			trimmed.PendingTasks = nil
		}
		dropped = append(dropped, section)

		text = renderText(&trimmed)
		if countWords(text) <= r.config.MaxWords {
			break
		}
	}

	names := make([]string, len(dropped))
	for i, section := range dropped {
		names[i] = string(section)
	}
	warnings = append(warnings, fmt.Sprintf(
		"truncated sections to fit the word budget: %s", strings.Join(names, ", ")))

	return text, warnings
}

func renderText(summary *ContextSummary) string {
	var b strings.Builder

	b.WriteString("# Context Summary\n")
	fmt.Fprintf(&b, "\nGenerated: %s\n", summary.GeneratedAt)
	fmt.Fprintf(&b, "Session: %s\n", summary.SessionID)

	if summary.Project != nil {
		writeProjectSection(&b, summary.Project)
	}
	if summary.PendingTasks != nil {
		writeTasksSection(&b, summary.PendingTasks)
	}
	if summary.TechDecisions != nil {
		writeDecisionsSection(&b, summary.TechDecisions)
	}
	if summary.CodeContext != nil {
		writeCodeSection(&b, summary.CodeContext)
	}
	if summary.ConversationHistory != nil {
		writeHistorySection(&b, summary.ConversationHistory)
	}

	writeRecoverySection(&b, summary.RecoveryInstructions)

	b.WriteString("\n" + footerRule + "\n")
	b.WriteString("Ready for new session recovery! 🚀\n")

	return b.String()
}

func writeProjectSection(b *strings.Builder, project *ProjectStatus) {
	b.WriteString("\n## Project Status\n")
	fmt.Fprintf(b, "**%s** - %s\n", project.Name, project.Description)
	fmt.Fprintf(b, "- Current Phase: Phase %d\n", project.Phase)
	fmt.Fprintf(b, "- Completion: %d/%d tasks (%.0f%%)\n",
		project.CompletedTasks, project.TotalTasks, project.CompletionRate*100)
}

func writeTasksSection(b *strings.Builder, tasks []PendingTask) {
	b.WriteString("\n## Pending Tasks\n")

	groups := []struct {
		priority TaskPriority
		label    string
	}{
		{PriorityHigh, "🔴 High Priority:"},
		{PriorityMedium, "🟡 Medium Priority:"},
		{PriorityLow, "🟢 Low Priority:"},
	}

	for _, group := range groups {
		var lines []string
		for _, task := range tasks {
			if task.Priority != group.priority {
				continue
			}
			lines = append(lines, fmt.Sprintf("- Task %s: %s", task.ID, task.Name))
		}
		if len(lines) == 0 {
			continue
		}
		b.WriteString(group.label + "\n")
		for _, line := range lines {
			b.WriteString(line + "\n")
		}
	}
}

func writeDecisionsSection(b *strings.Builder, decisions []TechDecision) {
	b.WriteString("\n## Technical Decisions\n")

	groups := []struct {
		status string
		label  string
	}{
		{DecisionConfirmed, "✅ Confirmed:"},
		{DecisionPending, "⏳ Pending:"},
		{DecisionRejected, "❌ Rejected:"},
	}

	for _, group := range groups {
		var lines []string
		for _, decision := range decisions {
			if decision.Status != group.status {
				continue
			}
			lines = append(lines, fmt.Sprintf("- %s", decision.Decision))
			if decision.Reason != "" {
				lines = append(lines, fmt.Sprintf("  Reason: %s", truncateString(decision.Reason, maxReasonLength)))
			}
		}
		if len(lines) == 0 {
			continue
		}
		b.WriteString(group.label + "\n")
		for _, line := range lines {
			b.WriteString(line + "\n")
		}
	}
}

func writeCodeSection(b *strings.Builder, code *CodeContext) {
	b.WriteString("\n## Code Context\n")

	if len(code.CurrentFiles) > 0 {
		b.WriteString("📁 Current Files:\n")
		for _, file := range code.CurrentFiles {
			fmt.Fprintf(b, "- %s\n", file)
		}
	}

	if len(code.RecentChanges) > 0 {
		b.WriteString("\n📝 Recent Changes:\n")
		for _, change := range code.RecentChanges {
			fmt.Fprintf(b, "- %s\n", change)
		}
	}

	if len(code.ArchitecturePatterns) > 0 {
		fmt.Fprintf(b, "\n📐 Architecture: %s\n", strings.Join(code.ArchitecturePatterns, ", "))
	}
}

func writeHistorySection(b *strings.Builder, history *ConversationHistory) {
	b.WriteString("\n## Conversation History\n")

	if len(history.KeyDiscussions) > 0 {
		b.WriteString("💬 Key Discussions:\n")
		for _, discussion := range history.KeyDiscussions {
			fmt.Fprintf(b, "- %s\n", discussion)
		}
	}

	if len(history.ConfirmedItems) > 0 {
		b.WriteString("\n✅ Confirmed:\n")
		for _, item := range history.ConfirmedItems {
			fmt.Fprintf(b, "- %s\n", item)
		}
	}

	if len(history.PendingConfirmations) > 0 {
		b.WriteString("\n❓ Pending:\n")
		for _, item := range history.PendingConfirmations {
			fmt.Fprintf(b, "- %s\n", item)
		}
	}
}

func writeRecoverySection(b *strings.Builder, recovery RecoveryInstructions) {
	b.WriteString("\n## Recovery Instructions\n")

	b.WriteString("\n📖 Read First:\n")
	for _, file := range recovery.ReadFirst {
		fmt.Fprintf(b, "- %s\n", file)
	}

	fmt.Fprintf(b, "\n🚀 Continue from: %s\n", recovery.ContinueFrom)
	fmt.Fprintf(b, "\n🔑 Key Context: %s\n", recovery.KeyContext)
}

func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func countWords(s string) int {
	return len(strings.Fields(s))
}
