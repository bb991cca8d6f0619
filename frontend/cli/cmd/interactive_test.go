package cmd

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/panglihaoshuai/context-summarizer-skill/backend/summary"
)

// scriptedDriver replays canned answers so prompt flows can run headless.
type scriptedDriver struct {
	inputs   []string
	confirms []bool
	selects  []int
}

func (d *scriptedDriver) Input(cfg InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", fmt.Errorf("unexpected input prompt %q", cfg.Message)
	}
	answer := d.inputs[0]
	d.inputs = d.inputs[1:]
	return answer, nil
}

func (d *scriptedDriver) Confirm(cfg ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, fmt.Errorf("unexpected confirm prompt %q", cfg.Message)
	}
	answer := d.confirms[0]
	d.confirms = d.confirms[1:]
	return answer, nil
}

func (d *scriptedDriver) Select(cfg SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return 0, fmt.Errorf("unexpected select prompt %q", cfg.Message)
	}
	answer := d.selects[0]
	d.selects = d.selects[1:]
	return answer, nil
}

func TestCollectSnapshot(t *testing.T) {
	driver := &scriptedDriver{
		inputs: []string{
			"Acme",               // project name
			"Payment gateway",    // description
			"2",                  // phase
			"10",                 // total tasks
			"5",                  // completed tasks
			"12",                 // task id
			"Implement webhooks", // task name
			"Use sqlite",         // decision
			"Local persistence",  // reason
			"Webhook retries",    // key discussion
			"",                   // end discussions
			"",                   // end confirmed items
			"",                   // end open questions
		},
		confirms: []bool{
			true, false, // one pending task
			true, false, // one decision
		},
		selects: []int{
			0, // high priority
			0, // confirmed
		},
	}

	snapshot := &summary.Snapshot{}
	if err := collectSnapshot(driver, snapshot); err != nil {
		t.Fatalf("collectSnapshot() error = %v", err)
	}

	expected := &summary.Snapshot{
		Project: summary.ProjectStatus{
			Name:           "Acme",
			Description:    "Payment gateway",
			Phase:          2,
			TotalTasks:     10,
			CompletedTasks: 5,
		},
		PendingTasks: []summary.PendingTask{
			{ID: "12", Name: "Implement webhooks", Priority: summary.PriorityHigh, Status: "pending"},
		},
		Decisions: []summary.TechDecision{
			{Decision: "Use sqlite", Status: summary.DecisionConfirmed, Reason: "Local persistence"},
		},
		History: summary.ConversationHistory{
			KeyDiscussions:       []string{"Webhook retries"},
			ConfirmedItems:       []string{},
			PendingConfirmations: []string{},
		},
	}
	if diff := cmp.Diff(expected, snapshot); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectSnapshotRejectsNonNumericAnswer(t *testing.T) {
	driver := &scriptedDriver{
		inputs: []string{"Acme", "Payment gateway", "two"},
	}

	err := collectSnapshot(driver, &summary.Snapshot{})
	if err == nil {
		t.Fatalf("expected an error for a non-numeric phase")
	}
	if !strings.Contains(err.Error(), `"two" is not a number`) {
		t.Errorf("unexpected error: %v", err)
	}
}
