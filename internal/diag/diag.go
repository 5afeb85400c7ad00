// Package diag implements the diagnostic taxonomy of spec.md §3/§4.7/§7:
// the ErrorMessage shape, severity filtering, suppressions (file-based and
// inline), cross-field deduplication, and template-formatted rendering.
package diag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/cppgo/pkg/token"
)

// Severity is one of the six taxonomy categories named in spec.md §3/§6.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityStyle
	SeverityPerformance
	SeverityPortability
	SeverityInformation
)

var severityNames = map[Severity]string{
	SeverityError: "error", SeverityWarning: "warning", SeverityStyle: "style",
	SeverityPerformance: "performance", SeverityPortability: "portability",
	SeverityInformation: "information",
}

func (s Severity) String() string { return severityNames[s] }

// ParseSeverity parses one of the six taxonomy names, case-sensitively
// matching the CLI's --enable vocabulary.
func ParseSeverity(s string) (Severity, bool) {
	for sev, name := range severityNames {
		if name == s {
			return sev, true
		}
	}
	return 0, false
}

// rank orders severities from most to least urgent, for --min-severity
// thresholding.
func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityPortability:
		return 2
	case SeverityPerformance:
		return 3
	case SeverityStyle:
		return 4
	default:
		return 5
	}
}

// Location is one entry of an ErrorMessage's call-stack: a file/line/column
// plus a short description of what happens there.
type Location struct {
	File  string
	Line  int
	Col   int
	Short string
}

// FromPosition resolves a token.Position through a file table into a
// Location.
func FromPosition(files *token.FileTable, pos token.Position, short string) Location {
	return Location{File: files.Path(pos.File), Line: pos.Line, Col: pos.Column, Short: short}
}

// Message is the ErrorMessage of spec.md §3: the unit a checker produces
// and hands to an ErrorLogger.
type Message struct {
	ID             string
	Severity       Severity
	Inconclusive   bool
	Message        string
	Verbose        string
	CallStack      []Location
	Classification string // CWE/MISRA/CERT tag, optional
	Certain        bool   // false marks a heuristic/best-effort finding
}

// Primary returns the first call-stack entry, the location diagnostics are
// ordered and deduplicated by.
func (m Message) Primary() (Location, bool) {
	if len(m.CallStack) == 0 {
		return Location{}, false
	}
	return m.CallStack[0], true
}

// dedupKey is (id, file, line, column, message) per spec.md §4.7 step 2.
type dedupKey struct {
	id      string
	file    string
	line    int
	col     int
	message string
}

func (m Message) dedupKey() dedupKey {
	loc, _ := m.Primary()
	return dedupKey{id: m.ID, file: loc.File, line: loc.Line, col: loc.Col, message: m.Message}
}

// DefaultTemplate is cppgo's default rendering template, matching the
// placeholder grammar of spec.md §4.7 step 4.
const DefaultTemplate = "{file}:{line}:{column}: {severity}:{inconclusive:inconclusive:} {message} [{id}]"

// Render expands template against m. Supported placeholders: {file},
// {line}, {column}, {severity}, {message}, {verbose}, {id},
// {classification}, and the conditional form {inconclusive:TEXT} which
// expands to TEXT (everything up to the closing brace) when m.Inconclusive
// is true, and to nothing otherwise; the default template's
// {inconclusive:inconclusive:} therefore expands to "inconclusive:".
func Render(tmpl string, m Message) string {
	loc, _ := m.Primary()
	out := tmpl
	out = expandConditional(out, "inconclusive", m.Inconclusive)
	replacer := strings.NewReplacer(
		"{file}", loc.File,
		"{line}", strconv.Itoa(loc.Line),
		"{column}", strconv.Itoa(loc.Col),
		"{severity}", m.Severity.String(),
		"{message}", m.Message,
		"{verbose}", m.Verbose,
		"{id}", m.ID,
		"{classification}", m.Classification,
	)
	return replacer.Replace(out)
}

// expandConditional resolves a single {name:TEXT} placeholder to TEXT
// when cond is true, or "" otherwise.
func expandConditional(s, name string, cond bool) string {
	open := "{" + name + ":"
	start := strings.Index(s, open)
	if start < 0 {
		return s
	}
	rest := s[start+len(open):]
	end := strings.Index(rest, "}")
	if end < 0 {
		return s
	}
	text := rest[:end]
	var expansion string
	if cond {
		expansion = text
	}
	return s[:start] + expansion + rest[end+1:]
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}
