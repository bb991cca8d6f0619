package cmd

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"

	"github.com/panglihaoshuai/context-summarizer-skill/backend/summary"
	"github.com/panglihaoshuai/context-summarizer-skill/shared"
)

type InputConfig struct {
	Message string
	Default string
	Help    string
}

type ConfirmConfig struct {
	Message string
	Default bool
}

type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
}

// PromptDriver abstracts the interactive prompts so collection logic can be
// tested without a real terminal.
type PromptDriver interface {
	Input(cfg InputConfig) (string, error)
	Confirm(cfg ConfirmConfig) (bool, error)
	Select(cfg SelectConfig) (int, error)
}

type surveyDriver struct{}

func (d *surveyDriver) Input(cfg InputConfig) (string, error) {
	prompt := &survey.Input{
		Message: cfg.Message,
		Default: cfg.Default,
		Help:    cfg.Help,
	}

	var out string
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (d *surveyDriver) Confirm(cfg ConfirmConfig) (bool, error) {
	prompt := &survey.Confirm{
		Message: cfg.Message,
		Default: cfg.Default,
	}

	var out bool
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, err
	}
	return out, nil
}

func (d *surveyDriver) Select(cfg SelectConfig) (int, error) {
	if cfg.DefaultIndex < 0 || cfg.DefaultIndex >= len(cfg.Options) {
		cfg.DefaultIndex = 0
	}

	prompt := &survey.Select{
		Message: cfg.Message,
		Options: cfg.Options,
		Default: cfg.Options[cfg.DefaultIndex],
	}

	var out string
	if err := survey.AskOne(prompt, &out); err != nil {
		return 0, err
	}

	for i, option := range cfg.Options {
		if option == out {
			return i, nil
		}
	}
	return 0, nil
}

// collectSnapshot fills the snapshot from interactive prompts, starting
// from whatever the workspace probes already found.
func collectSnapshot(driver PromptDriver, snapshot *summary.Snapshot) error {
	var err error

	if snapshot.Project.Name, err = driver.Input(InputConfig{
		Message: "Project name:",
		Default: snapshot.Project.Name,
	}); err != nil {
		return err
	}

	if snapshot.Project.Description, err = driver.Input(InputConfig{
		Message: "Project description:",
		Default: snapshot.Project.Description,
	}); err != nil {
		return err
	}

	if snapshot.Project.Phase, err = promptInt(driver, "Current phase:", snapshot.Project.Phase); err != nil {
		return err
	}
	if snapshot.Project.TotalTasks, err = promptInt(driver, "Total tasks:", snapshot.Project.TotalTasks); err != nil {
		return err
	}
	if snapshot.Project.CompletedTasks, err = promptInt(driver, "Completed tasks:", snapshot.Project.CompletedTasks); err != nil {
		return err
	}

	if err := collectPendingTasks(driver, snapshot); err != nil {
		return err
	}
	if err := collectDecisions(driver, snapshot); err != nil {
		return err
	}

	if snapshot.History.KeyDiscussions, err = collectList(driver, "Key discussion"); err != nil {
		return err
	}
	if snapshot.History.ConfirmedItems, err = collectList(driver, "Confirmed item"); err != nil {
		return err
	}
	if snapshot.History.PendingConfirmations, err = collectList(driver, "Open question"); err != nil {
		return err
	}

	return nil
}

func collectPendingTasks(driver PromptDriver, snapshot *summary.Snapshot) error {
	priorities := []string{string(summary.PriorityHigh), string(summary.PriorityMedium), string(summary.PriorityLow)}

	for {
		more, err := driver.Confirm(ConfirmConfig{Message: "Add a pending task?"})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}

		var task summary.PendingTask
		if task.ID, err = driver.Input(InputConfig{Message: "Task id:"}); err != nil {
			return err
		}
		if task.Name, err = driver.Input(InputConfig{Message: "Task name:"}); err != nil {
			return err
		}

		index, err := driver.Select(SelectConfig{
			Message:      "Priority:",
			Options:      priorities,
			DefaultIndex: 1,
		})
		if err != nil {
			return err
		}
		task.Priority = summary.TaskPriority(priorities[index])
		task.Status = "pending"

		snapshot.PendingTasks = append(snapshot.PendingTasks, task)
	}
}

func collectDecisions(driver PromptDriver, snapshot *summary.Snapshot) error {
	statuses := []string{summary.DecisionConfirmed, summary.DecisionPending, summary.DecisionRejected}

	for {
		more, err := driver.Confirm(ConfirmConfig{Message: "Add a technical decision?"})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}

		var decision summary.TechDecision
		if decision.Decision, err = driver.Input(InputConfig{Message: "Decision:"}); err != nil {
			return err
		}

		index, err := driver.Select(SelectConfig{Message: "Status:", Options: statuses})
		if err != nil {
			return err
		}
		decision.Status = statuses[index]

		if decision.Reason, err = driver.Input(InputConfig{Message: "Reason:"}); err != nil {
			return err
		}

		snapshot.Decisions = append(snapshot.Decisions, decision)
	}
}

func collectList(driver PromptDriver, label string) ([]string, error) {
	items := []string{}
	for {
		item, err := driver.Input(InputConfig{
			Message: fmt.Sprintf("%s (empty to finish):", label),
		})
		if err != nil {
			return nil, err
		}
		if item == "" {
			return items, nil
		}
		items = append(items, item)
	}
}

func promptInt(driver PromptDriver, message string, current int) (int, error) {
	answer, err := driver.Input(InputConfig{
		Message: message,
		Default: strconv.Itoa(current),
	})
	if err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(answer)
	if err != nil {
		return 0, shared.Wrap(shared.ErrorSourceInput, err, "%q is not a number", answer)
	}
	return value, nil
}
