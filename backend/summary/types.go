package summary

import (
	"sort"
	"strings"
	"time"

	"github.com/panglihaoshuai/context-summarizer-skill/shared"
)

// SummaryVersion is the version tag written into every structured summary.
// Readers must check it before decoding the rest of the document.
const SummaryVersion = "1.0"

type Section string

const (
	SectionProject   Section = "project"
	SectionTasks     Section = "tasks"
	SectionDecisions Section = "decisions"
	SectionCode      Section = "code"
	SectionHistory   Section = "history"
)

func AllSections() []Section {
	return []Section{SectionProject, SectionTasks, SectionDecisions, SectionCode, SectionHistory}
}

// SectionSet is the set of sections a rendering should include. The zero
// value includes nothing; use NewSectionSet(AllSections()...) for everything.
type SectionSet map[Section]struct{}

func NewSectionSet(sections ...Section) SectionSet {
	set := make(SectionSet, len(sections))
	for _, section := range sections {
		set[section] = struct{}{}
	}
	return set
}

func ParseSections(names []string) (SectionSet, error) {
	set := make(SectionSet, len(names))
	for _, name := range names {
		section := Section(name)
		switch section {
		case SectionProject, SectionTasks, SectionDecisions, SectionCode, SectionHistory:
			set[section] = struct{}{}
		default:
			return nil, shared.Errorf(shared.ErrorSourceInput, "unknown section %q", name)
		}
	}
	return set, nil
}

func (s SectionSet) Has(section Section) bool {
	_, ok := s[section]
	return ok
}

func (s SectionSet) Names() []string {
	names := make([]string, 0, len(s))
	for section := range s {
		names = append(names, string(section))
	}
	sort.Strings(names)
	return names
}

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

type PendingTask struct {
	ID       string       `json:"id" yaml:"id"`
	Name     string       `json:"name" yaml:"name"`
	Priority TaskPriority `json:"priority" yaml:"priority"`
	Status   string       `json:"status,omitempty" yaml:"status,omitempty"`
}

type ProjectStatus struct {
	Name           string  `json:"name" yaml:"name"`
	Description    string  `json:"description" yaml:"description"`
	Phase          int     `json:"phase" yaml:"phase"`
	TotalTasks     int     `json:"total_tasks" yaml:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks" yaml:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate" yaml:"completion_rate"`
}

type TechDecision struct {
	Decision string `json:"decision" yaml:"decision"`
	Status   string `json:"status" yaml:"status"`
	Reason   string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

const (
	DecisionConfirmed = "confirmed"
	DecisionPending   = "pending"
	DecisionRejected  = "rejected"
)

type CodeContext struct {
	CurrentFiles         []string `json:"current_files" yaml:"current_files"`
	RecentChanges        []string `json:"recent_changes" yaml:"recent_changes"`
	ArchitecturePatterns []string `json:"architecture_patterns" yaml:"architecture_patterns"`
}

type ConversationHistory struct {
	KeyDiscussions       []string `json:"key_discussions" yaml:"key_discussions"`
	ConfirmedItems       []string `json:"confirmed_items" yaml:"confirmed_items"`
	PendingConfirmations []string `json:"pending_confirmations" yaml:"pending_confirmations"`
}

type RecoveryInstructions struct {
	ReadFirst    []string `json:"read_first" yaml:"read_first"`
	ContinueFrom string   `json:"continue_from" yaml:"continue_from"`
	KeyContext   string   `json:"key_context" yaml:"key_context"`
}

// Snapshot is the caller-supplied record describing one coding session. It
// has no lifecycle: it is built, rendered, and discarded. Missing fields
// render as defaults.
type Snapshot struct {
	SessionID    string                `json:"session_id" yaml:"session_id"`
	Project      ProjectStatus         `json:"project" yaml:"project"`
	PendingTasks []PendingTask         `json:"pending_tasks" yaml:"pending_tasks"`
	Decisions    []TechDecision        `json:"tech_decisions" yaml:"tech_decisions"`
	Code         CodeContext           `json:"code_context" yaml:"code_context"`
	History      ConversationHistory   `json:"conversation_history" yaml:"conversation_history"`
	Recovery     *RecoveryInstructions `json:"recovery_instructions,omitempty" yaml:"recovery_instructions,omitempty"`
}

// ContextSummary is the structured output document. Section fields are nil
// when the corresponding section was excluded from the rendering.
type ContextSummary struct {
	Version              string               `json:"version"`
	GeneratedAt          string               `json:"generated_at"`
	SessionID            string               `json:"session_id"`
	Project              *ProjectStatus       `json:"project,omitempty"`
	PendingTasks         []PendingTask        `json:"pending_tasks,omitzero"`
	TechDecisions        []TechDecision       `json:"tech_decisions,omitzero"`
	CodeContext          *CodeContext         `json:"code_context,omitempty"`
	ConversationHistory  *ConversationHistory `json:"conversation_history,omitempty"`
	RecoveryInstructions RecoveryInstructions `json:"recovery_instructions"`
}

// Timestamp formats a generation time the way the structured document
// expects it: RFC 3339 in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// IsSupportedVersion reports whether a version tag belongs to the 1.x line
// this reader understands.
func IsSupportedVersion(version string) bool {
	return version == "1" || version == "1.0" || strings.HasPrefix(version, "1.")
}
