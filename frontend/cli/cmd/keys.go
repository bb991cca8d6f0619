package cmd

import (
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/panglihaoshuai/context-summarizer-skill/shared"
)

type contextKey string

const (
	ContextKeyFileSystem      contextKey = "filesystem"
	ContextKeyUserInfo        contextKey = "userinfo"
	ContextKeyCommandRunner   contextKey = "commandrunner"
	ContextKeyRuntimeInfo     contextKey = "runtimeinfo"
	ContextKeyOutputRenderer  contextKey = "outputrenderer"
	ContextKeyPromptDriver    contextKey = "promptdriver"
	ContextKeyStorePath       contextKey = "storepath"
	ContextKeyDisableFileLogs contextKey = "disablefilelogs"
)

func getFileSystem(ctx context.Context) *afero.Afero {
	if fs, ok := ctx.Value(ContextKeyFileSystem).(*afero.Afero); ok {
		return fs
	}
	return &afero.Afero{Fs: afero.NewOsFs()}
}

func getUserInfo(ctx context.Context) shared.UserInfo {
	if userInfo, ok := ctx.Value(ContextKeyUserInfo).(shared.UserInfo); ok {
		return userInfo
	}
	return shared.NewDefaultUserInfo(getFileSystem(ctx))
}

func getCommandRunner(ctx context.Context) shared.CommandRunner {
	if runner, ok := ctx.Value(ContextKeyCommandRunner).(shared.CommandRunner); ok {
		return runner
	}
	return &shared.DefaultCommandRunner{}
}

func getRuntimeInfo(ctx context.Context) shared.RuntimeInfo {
	if info, ok := ctx.Value(ContextKeyRuntimeInfo).(shared.RuntimeInfo); ok {
		return info
	}
	return &shared.DefaultRuntimeInfo{}
}

func getRenderer(ctx context.Context, out io.Writer) Renderer {
	if renderer, ok := ctx.Value(ContextKeyOutputRenderer).(Renderer); ok {
		return renderer
	}
	return &consoleRenderer{out: out}
}

func getPromptDriver(ctx context.Context) PromptDriver {
	if driver, ok := ctx.Value(ContextKeyPromptDriver).(PromptDriver); ok {
		return driver
	}
	return &surveyDriver{}
}

func resolveStorePath(ctx context.Context) (string, error) {
	if path, ok := ctx.Value(ContextKeyStorePath).(string); ok && path != "" {
		return path, nil
	}

	dataDir, err := getUserInfo(ctx).DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "sessions.db"), nil
}
