package summary

import (
	"context"

	"github.com/panglihaoshuai/context-summarizer-skill/shared"
)

// Reporter supplies the current token-usage ratio in [0,1]. Implementations
// live in backend/usage.
type Reporter interface {
	UsageRatio(ctx context.Context) (float64, error)
}

// Monitor recommends summary generation once the usage ratio reaches the
// configured threshold. The comparison is boundary inclusive: a ratio equal
// to the threshold already triggers the recommendation.
type Monitor struct {
	threshold float64
}

func NewMonitor(threshold float64) *Monitor {
	if threshold < 0 || threshold > 1 {
		threshold = shared.DefaultTokenThreshold
	}
	return &Monitor{threshold: threshold}
}

func (m *Monitor) Threshold() float64 {
	return m.threshold
}

func (m *Monitor) ShouldSummarize(ratio float64) bool {
	return ratio >= m.threshold
}

// Check polls the reporter and returns the recommendation together with the
// observed ratio.
func (m *Monitor) Check(ctx context.Context, reporter Reporter) (bool, float64, error) {
	ratio, err := reporter.UsageRatio(ctx)
	if err != nil {
		return false, 0, err
	}
	return m.ShouldSummarize(ratio), ratio, nil
}
