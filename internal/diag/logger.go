package diag

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Logger is the ErrorLogger of spec.md §4.7: it filters, deduplicates, and
// renders Messages. Logger must be safe for concurrent Emit calls — the
// only state shared across translation units when the driver runs them in
// parallel (spec.md §5) — everything else about a Logger is per-run.
type Logger struct {
	mu sync.Mutex

	runID string

	fileSuppressions []Suppression
	inline           map[string]*InlineSuppressions // file -> inline index

	minSeverity Severity
	enabled     map[Severity]bool

	template string

	seen      map[dedupKey]bool
	published []Message
	supHits   map[Suppression]int
}

// NewLogger creates a Logger with the default template and every severity
// enabled. A fresh UUID run id (google/uuid) is stamped so diagnostics from
// this run can be correlated across the fingerprint store and log output.
func NewLogger() *Logger {
	return &Logger{
		runID:       uuid.NewString(),
		inline:      map[string]*InlineSuppressions{},
		minSeverity: SeverityInformation,
		enabled:     map[Severity]bool{SeverityError: true, SeverityWarning: true, SeverityStyle: true, SeverityPerformance: true, SeverityPortability: true, SeverityInformation: true},
		template:    DefaultTemplate,
		seen:        map[dedupKey]bool{},
		supHits:     map[Suppression]int{},
	}
}

// RunID returns this logger's run identifier.
func (lg *Logger) RunID() string { return lg.runID }

// SetTemplate overrides the rendering template.
func (lg *Logger) SetTemplate(tmpl string) { lg.template = tmpl }

// SetMinSeverity sets the minimum severity (by rank; error is always the
// most urgent) a Message must meet to be published.
func (lg *Logger) SetMinSeverity(s Severity) { lg.minSeverity = s }

// SetEnabledCategories restricts publication to exactly the given
// severities (the CLI's --enable flag); passing none leaves the default
// (all enabled).
func (lg *Logger) SetEnabledCategories(cats []Severity) {
	if len(cats) == 0 {
		return
	}
	next := map[Severity]bool{}
	for _, c := range cats {
		next[c] = true
	}
	lg.enabled = next
}

// AddFileSuppressions registers suppressions loaded from a suppressions
// file (spec.md §6).
func (lg *Logger) AddFileSuppressions(sups []Suppression) {
	lg.fileSuppressions = append(lg.fileSuppressions, sups...)
}

// SetInlineSuppressions registers a file's inline-comment suppression
// index, built by the Tokenizer while scanning comments.
func (lg *Logger) SetInlineSuppressions(file string, idx *InlineSuppressions) {
	lg.inline[file] = idx
}

// Emit applies suppression matching, deduplication, and severity/category
// filtering in that order (spec.md §4.7), then records m for Published.
// It reports whether m was actually published (true) or dropped (false).
func (lg *Logger) Emit(m Message) bool {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	loc, _ := m.Primary()

	for _, sup := range lg.fileSuppressions {
		if sup.Matches(m.ID, loc.File, loc.Line) {
			lg.supHits[sup]++
			return false
		}
	}
	if idx := lg.inline[loc.File]; idx != nil && idx.Suppressed(m.ID, loc.Line) {
		return false
	}

	key := m.dedupKey()
	if lg.seen[key] {
		return false
	}

	if !lg.enabled[m.Severity] {
		return false
	}
	if m.Severity.rank() > lg.minSeverity.rank() {
		return false
	}

	lg.seen[key] = true
	lg.published = append(lg.published, m)
	return true
}

// Published returns every published Message in source order: by file path
// then by line/column of the primary location, matching spec.md §5's
// "diagnostics within a TU are emitted in source order" rule.
func (lg *Logger) Published() []Message {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	out := append([]Message(nil), lg.published...)
	sort.SliceStable(out, func(i, j int) bool {
		li, _ := out[i].Primary()
		lj, _ := out[j].Primary()
		if li.File != lj.File {
			return li.File < lj.File
		}
		if li.Line != lj.Line {
			return li.Line < lj.Line
		}
		return li.Col < lj.Col
	})
	return out
}

// Render renders every published message with this logger's template.
func (lg *Logger) Render() []string {
	msgs := lg.Published()
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = Render(lg.template, m)
	}
	return out
}

// UnusedSuppressions returns every registered file suppression that never
// matched a diagnostic, for --enable=unusedSuppression-style reporting.
func (lg *Logger) UnusedSuppressions() []Suppression {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	var out []Suppression
	for _, sup := range lg.fileSuppressions {
		if lg.supHits[sup] == 0 {
			out = append(out, sup)
		}
	}
	return out
}

// ResetDedup clears the cross-field dedup set, used by the driver between
// translation units: spec.md §4.7 scopes dedup to "this TU", with
// cross-TU deduplication left to the driver once all TUs complete.
func (lg *Logger) ResetDedup() {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	lg.seen = map[dedupKey]bool{}
}
