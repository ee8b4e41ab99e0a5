package normalize

import (
	"sync"

	"apartment-estimator/internal/common/logger"
	"apartment-estimator/internal/common/metrics"
)

// Diagnostic records a text attribute that normalized to missing.
type Diagnostic struct {
	Field  string
	Input  string
	Reason string
}

// Reporter receives parse-failure diagnostics. Implementations must be safe
// for concurrent use.
type Reporter interface {
	Report(d Diagnostic)
}

// Discard drops every diagnostic.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}

// LogReporter logs each diagnostic at WARN and counts it per field.
type LogReporter struct {
	log logger.Logger
}

func NewLogReporter(log logger.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) Report(d Diagnostic) {
	metrics.ParseFailures.WithLabelValues(d.Field).Inc()
	r.log.Warn("could not normalize attribute", map[string]interface{}{
		"field":  d.Field,
		"input":  d.Input,
		"reason": d.Reason,
	})
}

// Collector keeps diagnostics in memory, for tests and training summaries.
type Collector struct {
	mu    sync.Mutex
	items []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()
}

func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Tee forwards every diagnostic to each reporter.
func Tee(reporters ...Reporter) Reporter {
	return tee(reporters)
}

type tee []Reporter

func (t tee) Report(d Diagnostic) {
	for _, r := range t {
		r.Report(d)
	}
}
