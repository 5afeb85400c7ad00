package checks

import (
	"github.com/cwbudde/cppgo/internal/checker"
	"github.com/cwbudde/cppgo/internal/diag"
	"github.com/cwbudde/cppgo/pkg/token"
)

// StringLiteralWrite is spec.md §8 scenario S5:
// `char* f(){ char* p="abc"; p[0]='x'; return p; }` flags the subscript
// assignment. String literals live in read-only storage; writing through
// a pointer initialized from one is undefined behavior. Grounded on
// original_source/lib/checkstring.cpp's checkSuspiciousStringCompare sibling
// checkAssignString / writing-to-string-literal detection, reimplemented
// here as a single forward scan: record every variable assigned directly
// from a string literal, forget it once the variable is assigned anything
// else, and flag any subscript assignment (`v [ ... ] =`) through a
// variable that still holds a literal at that point.
type StringLiteralWrite struct{}

func (StringLiteralWrite) ID() string { return "stringLiteralWrite" }

func (StringLiteralWrite) GetErrorMessages(logger *diag.Logger) {}

func (StringLiteralWrite) RunChecks(tu checker.TU, logger *diag.Logger) {
	files := tu.Tokenizer.List.Files()
	literalPointers := map[int]bool{}

	for t := tu.Tokenizer.List.Front(); t != nil; t = t.Next() {
		if t.VarID == 0 {
			continue
		}
		switch {
		case token.Match(t, "%var% = %str%"):
			literalPointers[t.VarID] = true
			continue
		case token.Match(t, "%var% ="):
			// any other reassignment clears the "points into a literal" fact.
			delete(literalPointers, t.VarID)
			continue
		}
		if !literalPointers[t.VarID] {
			continue
		}
		next := t.Next()
		if next == nil || next.Spelling != "[" || next.Link == nil {
			continue
		}
		assign := next.Link.Next()
		if assign == nil || assign.Spelling != "=" {
			continue
		}
		emit(logger, files, next, "stringLiteralWrite", diag.SeverityError,
			"Writing through a pointer that was initialized from a string literal")
	}
}
