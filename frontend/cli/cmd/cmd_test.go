package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"go.uber.org/mock/gomock"

	"github.com/panglihaoshuai/context-summarizer-skill/shared/mocks"
)

// TestScenario drives one CLI invocation against an in-memory file system
// and mocked host services.
type TestScenario struct {
	Name               string
	Command            []string
	Stdin              string
	Env                map[string]string
	StorePath          string
	PromptDriver       PromptDriver
	SetupFileSystem    func(t *testing.T, fs *afero.Afero)
	SetupUserInfo      func(userInfo *mocks.MockUserInfo)
	SetupCommandRunner func(runner *mocks.MockCommandRunner)
	Expected           TestExpectation
	Verify             func(t *testing.T, fs *afero.Afero)
}

type TestExpectation struct {
	Contains    []string
	NotContains []string
	Error       string
}

func RunTestScenarios(t *testing.T, scenarios []TestScenario) {
	t.Helper()

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			fs := &afero.Afero{Fs: afero.NewMemMapFs()}
			if scenario.SetupFileSystem != nil {
				scenario.SetupFileSystem(t, fs)
			}

			userInfo := mocks.NewMockUserInfo(ctrl)
			if scenario.SetupUserInfo != nil {
				scenario.SetupUserInfo(userInfo)
			} else {
				setupDefaultUserInfo(userInfo)
			}

			runner := mocks.NewMockCommandRunner(ctrl)
			if scenario.SetupCommandRunner != nil {
				scenario.SetupCommandRunner(runner)
			} else {
				runner.EXPECT().
					Run(gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", nil).
					AnyTimes()
			}

			for key, value := range scenario.Env {
				t.Setenv(key, value)
			}

			ctx := testContext(fs, userInfo, runner)
			if scenario.StorePath != "" {
				ctx = context.WithValue(ctx, ContextKeyStorePath, scenario.StorePath)
			}
			if scenario.PromptDriver != nil {
				ctx = context.WithValue(ctx, ContextKeyPromptDriver, scenario.PromptDriver)
			}

			stdout, err := executeCommand(ctx, scenario.Stdin, scenario.Command...)

			if scenario.Expected.Error != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got none\nstdout:\n%s", scenario.Expected.Error, stdout)
				}
				if !strings.Contains(err.Error(), scenario.Expected.Error) {
					t.Fatalf("error %q does not contain %q", err, scenario.Expected.Error)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v\nstdout:\n%s", err, stdout)
			}

			for _, want := range scenario.Expected.Contains {
				if !strings.Contains(stdout, want) {
					t.Errorf("stdout does not contain %q:\n%s", want, stdout)
				}
			}
			for _, unwanted := range scenario.Expected.NotContains {
				if strings.Contains(stdout, unwanted) {
					t.Errorf("stdout contains %q:\n%s", unwanted, stdout)
				}
			}

			if scenario.Verify != nil {
				scenario.Verify(t, fs)
			}
		})
	}
}

func testContext(fs *afero.Afero, userInfo *mocks.MockUserInfo, runner *mocks.MockCommandRunner) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, ContextKeyFileSystem, fs)
	ctx = context.WithValue(ctx, ContextKeyUserInfo, userInfo)
	ctx = context.WithValue(ctx, ContextKeyCommandRunner, runner)
	ctx = context.WithValue(ctx, ContextKeyDisableFileLogs, true)
	return ctx
}

func executeCommand(ctx context.Context, stdin string, args ...string) (string, error) {
	cmd := NewRootCmd()
	cmd.SetArgs(args)

	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.ExecuteContext(ctx)
	return stdout.String(), err
}

func setupDefaultUserInfo(userInfo *mocks.MockUserInfo) {
	userInfo.EXPECT().HomeDir().Return("/home/user", nil).AnyTimes()
	userInfo.EXPECT().ConfigDir().Return("/home/user/.config/ctxsum", nil).AnyTimes()
	userInfo.EXPECT().DataDir().Return("/home/user/.local/share/ctxsum", nil).AnyTimes()
	userInfo.EXPECT().LogDir().Return("/home/user/.local/state/ctxsum", nil).AnyTimes()
	userInfo.EXPECT().Cwd().Return("/work", nil).AnyTimes()
}

const sampleSnapshotYaml = `session_id: ignored
project:
  name: Acme
  description: Payment gateway
  phase: 2
  total_tasks: 50
  completed_tasks: 47
pending_tasks:
  - id: "12"
    name: Implement webhooks
    priority: high
tech_decisions:
  - decision: Use sqlite
    status: confirmed
    reason: Local persistence
code_context:
  current_files:
    - src/api.go
  recent_changes:
    - "M src/api.go"
  architecture_patterns:
    - src
conversation_history:
  key_discussions:
    - Webhook retries
  confirmed_items:
    - Use exponential backoff
  pending_confirmations:
    - Rate limit strategy
`

func writeSampleSnapshot(t *testing.T, fs *afero.Afero, path string) {
	t.Helper()
	if err := fs.WriteFile(path, []byte(sampleSnapshotYaml), 0644); err != nil {
		t.Fatal(err)
	}
}
