package summary

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var renderTime = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		SessionID: "session_test",
		Project: ProjectStatus{
			Name:           "Acme",
			Description:    "Payment gateway",
			Phase:          2,
			TotalTasks:     50,
			CompletedTasks: 47,
		},
		PendingTasks: []PendingTask{
			{ID: "12", Name: "Implement webhooks", Priority: PriorityHigh},
			{ID: "13", Name: "Write docs", Priority: PriorityMedium},
			{ID: "14", Name: "Polish logging", Priority: PriorityLow},
		},
		Decisions: []TechDecision{
			{Decision: "Use sqlite", Status: DecisionConfirmed, Reason: "Local persistence"},
			{Decision: "Adopt gRPC", Status: DecisionRejected, Reason: "No remote callers"},
		},
		Code: CodeContext{
			CurrentFiles:         []string{"src/api.go", "src/webhooks.go"},
			RecentChanges:        []string{" M src/api.go"},
			ArchitecturePatterns: []string{"src", "tests"},
		},
		History: ConversationHistory{
			KeyDiscussions:       []string{"Webhook retry strategy"},
			ConfirmedItems:       []string{"Use exponential backoff"},
			PendingConfirmations: []string{"Rate limit defaults"},
		},
	}
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		expected  float64
	}{
		{name: "example from the docs", completed: 47, total: 50, expected: 0.94},
		{name: "zero total", completed: 3, total: 0, expected: 0},
		{name: "all done", completed: 50, total: 50, expected: 1},
		{name: "overshoot clamps to one", completed: 60, total: 50, expected: 1},
		{name: "negative clamps to zero", completed: -1, total: 50, expected: 0},
		{name: "rounds to two decimals", completed: 1, total: 3, expected: 0.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompletionRate(tt.completed, tt.total); got != tt.expected {
				t.Errorf("CompletionRate(%d, %d) = %v, want %v", tt.completed, tt.total, got, tt.expected)
			}
		})
	}
}

func TestBothOutputsAgreeOnCompletion(t *testing.T) {
	renderer := NewRenderer(Config{})
	summary := renderer.Summarize(sampleSnapshot(), renderTime)

	if summary.Project.CompletionRate != 0.94 {
		t.Fatalf("completion rate = %v, want 0.94", summary.Project.CompletionRate)
	}

	jsonContent, err := renderer.RenderJSON(summary)
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	if !bytes.Contains(jsonContent, []byte(`"completion_rate": 0.94`)) {
		t.Errorf("structured output missing completion rate 0.94:\n%s", jsonContent)
	}

	text, warnings := renderer.RenderText(summary)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if !strings.Contains(text, "47/50 tasks (94%)") {
		t.Errorf("text output missing 94%% completion:\n%s", text)
	}
}

func TestRenderingIsIdempotent(t *testing.T) {
	renderer := NewRenderer(Config{})

	first := renderer.Summarize(sampleSnapshot(), renderTime)
	second := renderer.Summarize(sampleSnapshot(), renderTime)

	firstJSON, err := renderer.RenderJSON(first)
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	secondJSON, err := renderer.RenderJSON(second)
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	if !bytes.Equal(firstJSON, secondJSON) {
		t.Errorf("JSON rendering is not idempotent:\n%s", cmp.Diff(string(firstJSON), string(secondJSON)))
	}

	firstText, _ := renderer.RenderText(first)
	secondText, _ := renderer.RenderText(second)
	if firstText != secondText {
		t.Errorf("text rendering is not idempotent:\n%s", cmp.Diff(firstText, secondText))
	}
}

func TestSectionFiltering(t *testing.T) {
	renderer := NewRenderer(Config{
		Sections: NewSectionSet(SectionProject, SectionTasks),
	})
	summary := renderer.Summarize(sampleSnapshot(), renderTime)

	jsonContent, err := renderer.RenderJSON(summary)
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	text, _ := renderer.RenderText(summary)

	included := []string{"## Project Status", "## Pending Tasks", "## Recovery Instructions"}
	for _, heading := range included {
		if !strings.Contains(text, heading) {
			t.Errorf("text output missing %q", heading)
		}
	}

	excludedHeadings := []string{"## Technical Decisions", "## Code Context", "## Conversation History"}
	for _, heading := range excludedHeadings {
		if strings.Contains(text, heading) {
			t.Errorf("text output contains excluded section %q", heading)
		}
	}

	excludedFields := []string{`"tech_decisions"`, `"code_context"`, `"conversation_history"`}
	for _, field := range excludedFields {
		if bytes.Contains(jsonContent, []byte(field)) {
			t.Errorf("structured output contains excluded field %s", field)
		}
	}
}

func TestEmptyPendingTasksSectionIsKept(t *testing.T) {
	snapshot := sampleSnapshot()
	snapshot.PendingTasks = []PendingTask{}

	renderer := NewRenderer(Config{})
	summary := renderer.Summarize(snapshot, renderTime)

	text, _ := renderer.RenderText(summary)
	if !strings.Contains(text, "## Pending Tasks") {
		t.Errorf("empty task list must still render the section heading:\n%s", text)
	}
	if strings.Contains(text, "- Task ") {
		t.Errorf("empty task list must not render items:\n%s", text)
	}

	jsonContent, err := renderer.RenderJSON(summary)
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	if !bytes.Contains(jsonContent, []byte(`"pending_tasks": []`)) {
		t.Errorf("structured output must keep an empty pending_tasks list:\n%s", jsonContent)
	}
}

func TestTaskGrouping(t *testing.T) {
	renderer := NewRenderer(Config{})
	text, _ := renderer.RenderText(renderer.Summarize(sampleSnapshot(), renderTime))

	highIndex := strings.Index(text, "🔴 High Priority:")
	mediumIndex := strings.Index(text, "🟡 Medium Priority:")
	lowIndex := strings.Index(text, "🟢 Low Priority:")

	if highIndex == -1 || mediumIndex == -1 || lowIndex == -1 {
		t.Fatalf("missing priority groups:\n%s", text)
	}
	if !(highIndex < mediumIndex && mediumIndex < lowIndex) {
		t.Errorf("priority groups out of order:\n%s", text)
	}
}

func TestWordBudgetWarning(t *testing.T) {
	renderer := NewRenderer(Config{MaxWords: 10})
	summary := renderer.Summarize(sampleSnapshot(), renderTime)

	text, warnings := renderer.RenderText(summary)
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "exceeding the budget of 10") {
		t.Errorf("warning does not mention the budget: %q", warnings[0])
	}
	if !strings.Contains(text, "## Conversation History") {
		t.Errorf("without truncation the text must stay complete:\n%s", text)
	}
}

func TestWordBudgetTruncationDropsLowestPriorityFirst(t *testing.T) {
	snapshot := sampleSnapshot()
	for i := 0; i < 100; i++ {
		snapshot.History.KeyDiscussions = append(snapshot.History.KeyDiscussions,
			"A long discussion entry that inflates the history section word count")
	}

	renderer := NewRenderer(Config{MaxWords: 200, Truncate: true})
	summary := renderer.Summarize(snapshot, renderTime)

	text, warnings := renderer.RenderText(summary)
	if len(warnings) != 2 {
		t.Fatalf("expected overrun and truncation warnings, got %v", warnings)
	}
	if !strings.Contains(warnings[1], "history") {
		t.Errorf("truncation warning does not name the dropped section: %q", warnings[1])
	}

	if strings.Contains(text, "## Conversation History") {
		t.Errorf("history section must be dropped first:\n%s", text)
	}
	for _, heading := range []string{"## Project Status", "## Pending Tasks", "## Technical Decisions", "## Code Context"} {
		if !strings.Contains(text, heading) {
			t.Errorf("section %q should survive truncation:\n%s", heading, text)
		}
	}
}

func TestMissingInputRendersDefaults(t *testing.T) {
	renderer := NewRenderer(Config{})
	summary := renderer.Summarize(nil, renderTime)

	if summary.Project.Name != "Project" {
		t.Errorf("default name = %q, want %q", summary.Project.Name, "Project")
	}
	if summary.Project.Phase != 1 {
		t.Errorf("default phase = %d, want 1", summary.Project.Phase)
	}

	text, _ := renderer.RenderText(summary)
	if !strings.Contains(text, "Phase 1") {
		t.Errorf("defaults missing from text output:\n%s", text)
	}
	if !strings.Contains(text, "Continue from: Phase 1 completion") {
		t.Errorf("derived recovery instructions missing:\n%s", text)
	}
}

func TestDerivedRecoveryPointsAtFirstPendingTask(t *testing.T) {
	renderer := NewRenderer(Config{})
	summary := renderer.Summarize(sampleSnapshot(), renderTime)

	expected := RecoveryInstructions{
		ReadFirst:    []string{"README.md", "AGENTS.md"},
		ContinueFrom: "Task 12: Implement webhooks",
		KeyContext:   "Acme - Phase 2, 94% complete",
	}
	if diff := cmp.Diff(expected, summary.RecoveryInstructions); diff != "" {
		t.Errorf("recovery instructions mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSections(t *testing.T) {
	set, err := ParseSections([]string{"project", "tasks"})
	if err != nil {
		t.Fatalf("ParseSections() error = %v", err)
	}
	if !set.Has(SectionProject) || !set.Has(SectionTasks) || set.Has(SectionHistory) {
		t.Errorf("unexpected section set: %v", set.Names())
	}

	if _, err := ParseSections([]string{"bogus"}); err == nil {
		t.Errorf("expected error for unknown section")
	}
}
