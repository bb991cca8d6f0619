package summary

import (
	"testing"

	"github.com/spf13/afero"

	"github.com/panglihaoshuai/context-summarizer-skill/shared"
)

func TestWriteBothArtifacts(t *testing.T) {
	fs := &afero.Afero{Fs: afero.NewMemMapFs()}
	writer := NewArtifactWriter(fs)

	saved, err := writer.Write("/work", Artifacts{
		Markdown: "# Context Summary\n",
		JSON:     []byte("{\"version\": \"1.0\"}\n"),
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if saved.MarkdownPath != "/work/session_summary.md" {
		t.Errorf("markdown path = %q", saved.MarkdownPath)
	}
	if saved.JSONPath != "/work/session_summary.json" {
		t.Errorf("structured path = %q", saved.JSONPath)
	}

	markdown, err := fs.ReadFile(saved.MarkdownPath)
	if err != nil {
		t.Fatalf("reading markdown: %v", err)
	}
	if string(markdown) != "# Context Summary\n" {
		t.Errorf("markdown content = %q", markdown)
	}
}

func TestWriteOverwritesExistingFiles(t *testing.T) {
	fs := &afero.Afero{Fs: afero.NewMemMapFs()}
	writer := NewArtifactWriter(fs)

	if _, err := writer.Write("/work", Artifacts{Markdown: "old\n"}); err != nil {
		t.Fatalf("first Write() error = %v", err)
	}
	if _, err := writer.Write("/work", Artifacts{Markdown: "new\n"}); err != nil {
		t.Fatalf("second Write() error = %v", err)
	}

	content, err := fs.ReadFile("/work/session_summary.md")
	if err != nil {
		t.Fatalf("reading markdown: %v", err)
	}
	if string(content) != "new\n" {
		t.Errorf("content after overwrite = %q, want %q", content, "new\n")
	}
}

func TestWriteSkipsEmptyFormats(t *testing.T) {
	fs := &afero.Afero{Fs: afero.NewMemMapFs()}
	writer := NewArtifactWriter(fs)

	saved, err := writer.Write("/work", Artifacts{JSON: []byte("{}\n")})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if saved.MarkdownPath != "" {
		t.Errorf("markdown path should be empty, got %q", saved.MarkdownPath)
	}

	exists, err := fs.Exists("/work/session_summary.md")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Errorf("markdown file must not be created when no markdown was rendered")
	}
}

func TestWriteSurfacesFileSystemErrors(t *testing.T) {
	fs := &afero.Afero{Fs: afero.NewReadOnlyFs(afero.NewMemMapFs())}
	writer := NewArtifactWriter(fs)

	_, err := writer.Write("/work", Artifacts{JSON: []byte("{}\n")})
	if err == nil {
		t.Fatalf("expected an error on a read-only file system")
	}
	if source := shared.SourceOf(err); source != shared.ErrorSourceIO {
		t.Errorf("error source = %v, want %v", source, shared.ErrorSourceIO)
	}
}
