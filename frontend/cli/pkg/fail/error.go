package fail

import (
	"fmt"
	"os"
	"strings"

	"github.com/panglihaoshuai/context-summarizer-skill/frontend/cli/pkg/terminal"
)

type UserError struct {
	Cause       error
	UserMessage string
	Solutions   []string
	TechDetails string
}

func (e *UserError) Error() string {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("%s %s\n\n", terminal.ErrorSymbol, terminal.Bold(e.UserMessage)))

	if len(e.Solutions) > 0 {
		msg.WriteString(fmt.Sprintf("%s Try these solutions:\n", terminal.InfoSymbol))
		for i, solution := range e.Solutions {
			msg.WriteString(fmt.Sprintf("  %d. %s\n", i+1, solution))
		}
		msg.WriteString("\n")
	}

	if e.TechDetails != "" {
		msg.WriteString(fmt.Sprintf("Technical details: %s\n", e.TechDetails))
	}

	return msg.String()
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

func NewWriteError(path string, err error) *UserError {
	return &UserError{
		Cause:       err,
		UserMessage: fmt.Sprintf("Failed to write summary to %s", path),
		Solutions: []string{
			"Check that the output directory exists",
			"Check file permissions and ownership",
			"Pass a writable directory with --output",
		},
		TechDetails: fmt.Sprintf("Write to %s failed: %v", path, err),
	}
}

func NewStoreOpenError(path string, err error) *UserError {
	return &UserError{
		Cause:       err,
		UserMessage: fmt.Sprintf("Failed to open the session store at %s", path),
		Solutions: []string{
			"Check that the data directory is writable",
			"Delete the database file if it is corrupted; stored summaries will be lost",
		},
		TechDetails: fmt.Sprintf("Open %s failed: %v", path, err),
	}
}

func EnhanceError(err error, context map[string]interface{}) error {
	if err == nil {
		return nil
	}

	if _, ok := err.(*UserError); ok {
		return err
	}

	if os.IsPermission(err) {
		if path, ok := context["path"].(string); ok {
			return NewWriteError(path, err)
		}
	}

	return err
}
