// Package usage provides the token-usage reporters the threshold monitor
// polls. A reporter answers one question: what fraction of the context
// budget has the current session consumed.
package usage

import (
	"context"
	"runtime"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/panglihaoshuai/context-summarizer-skill/backend/summary"
	"github.com/panglihaoshuai/context-summarizer-skill/shared"
)

// DefaultContextWindow is the assumed token budget when the host does not
// report one.
const DefaultContextWindow = 200_000

// StaticReporter returns a fixed ratio, typically supplied on the command
// line by the host session.
type StaticReporter struct {
	Ratio float64
}

func (r StaticReporter) UsageRatio(ctx context.Context) (float64, error) {
	return clamp(r.Ratio), nil
}

// FileReporter reads a usage document dropped by the host. The document is
// JSON with either a "ratio" field or a "used"/"budget" pair; a "version"
// field, when present, must carry a 1.x tag.
type FileReporter struct {
	fs   *afero.Afero
	path string
}

func NewFileReporter(fs *afero.Afero, path string) *FileReporter {
	return &FileReporter{fs: fs, path: path}
}

func (r *FileReporter) UsageRatio(ctx context.Context) (float64, error) {
	content, err := r.fs.ReadFile(r.path)
	if err != nil {
		return 0, shared.Wrap(shared.ErrorSourceIO, err, "failed to read usage file %s", r.path)
	}

	if !gjson.ValidBytes(content) {
		return 0, shared.Errorf(shared.ErrorSourceInput, "usage file %s is not valid JSON", r.path)
	}

	if version := gjson.GetBytes(content, "version"); version.Exists() {
		if !summary.IsSupportedVersion(version.String()) {
			return 0, shared.Errorf(shared.ErrorSourceInput,
				"usage file %s has unsupported version %q", r.path, version.String())
		}
	}

	if ratio := gjson.GetBytes(content, "ratio"); ratio.Exists() {
		return clamp(ratio.Float()), nil
	}

	used := gjson.GetBytes(content, "used")
	budget := gjson.GetBytes(content, "budget")
	if used.Exists() && budget.Exists() && budget.Float() > 0 {
		return clamp(used.Float() / budget.Float()), nil
	}

	return 0, shared.Errorf(shared.ErrorSourceInput,
		"usage file %s has neither a ratio nor a used/budget pair", r.path)
}

// RuntimeReporter estimates usage from process memory. The heuristic is
// rough (1MB of heap taken as ~100K tokens of working context) and exists
// only as a fallback when the host reports nothing.
type RuntimeReporter struct {
	ContextWindow int64
}

func (r RuntimeReporter) UsageRatio(ctx context.Context) (float64, error) {
	window := r.ContextWindow
	if window <= 0 {
		window = DefaultContextWindow
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	estimatedTokens := float64(stats.HeapAlloc) / 1024 / 1024 * 100
	return clamp(estimatedTokens / float64(window)), nil
}

func clamp(ratio float64) float64 {
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}
