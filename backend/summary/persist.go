package summary

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/panglihaoshuai/context-summarizer-skill/shared"
)

const (
	MarkdownFileName = "session_summary.md"
	JSONFileName     = "session_summary.json"
)

// Artifacts holds the rendered documents to persist. A nil/empty field is
// skipped, so callers can write just one of the two formats.
type Artifacts struct {
	Markdown string
	JSON     []byte
}

type Saved struct {
	MarkdownPath string
	JSONPath     string
}

// ArtifactWriter writes the rendered documents to their fixed filenames,
// overwriting any prior content. File-system errors surface to the caller;
// there is no retry or partial-write handling.
type ArtifactWriter struct {
	fs *afero.Afero
}

func NewArtifactWriter(fs *afero.Afero) *ArtifactWriter {
	return &ArtifactWriter{fs: fs}
}

func (w *ArtifactWriter) Write(dir string, artifacts Artifacts) (Saved, error) {
	var saved Saved

	if artifacts.JSON != nil {
		jsonPath := filepath.Join(dir, JSONFileName)
		if err := w.fs.WriteFile(jsonPath, artifacts.JSON, 0644); err != nil {
			return saved, shared.Wrap(shared.ErrorSourceIO, err, "failed to write %s", jsonPath)
		}
		saved.JSONPath = jsonPath
	}

	if artifacts.Markdown != "" {
		markdownPath := filepath.Join(dir, MarkdownFileName)
		if err := w.fs.WriteFile(markdownPath, []byte(artifacts.Markdown), 0644); err != nil {
			return saved, shared.Wrap(shared.ErrorSourceIO, err, "failed to write %s", markdownPath)
		}
		saved.MarkdownPath = markdownPath
	}

	return saved, nil
}
