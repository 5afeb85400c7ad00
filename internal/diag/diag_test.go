package diag

import "testing"

func TestRenderDefaultTemplate(t *testing.T) {
	m := Message{
		ID:       "zerodiv",
		Severity: SeverityError,
		Message:  "Division by zero",
		CallStack: []Location{
			{File: "main.c", Line: 3, Col: 14},
		},
	}
	got := Render(DefaultTemplate, m)
	want := "main.c:3:14: error: Division by zero [zerodiv]"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestRenderInconclusiveConditional(t *testing.T) {
	m := Message{
		ID:           "knownConditionTrueFalse",
		Severity:     SeverityStyle,
		Inconclusive: true,
		Message:      "Condition is always false",
		CallStack:    []Location{{File: "a.c", Line: 1, Col: 1}},
	}
	got := Render(DefaultTemplate, m)
	want := "a.c:1:1: style:inconclusive: Condition is always false [knownConditionTrueFalse]"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestLoggerDeduplicatesWithinTU(t *testing.T) {
	lg := NewLogger()
	m := Message{ID: "zerodiv", Severity: SeverityError, Message: "Division by zero", CallStack: []Location{{File: "a.c", Line: 1, Col: 1}}}
	if !lg.Emit(m) {
		t.Fatalf("first Emit should publish")
	}
	if lg.Emit(m) {
		t.Fatalf("second identical Emit should be deduplicated")
	}
	if len(lg.Published()) != 1 {
		t.Fatalf("Published() = %d, want 1", len(lg.Published()))
	}
}

func TestLoggerResetDedupAllowsNextTU(t *testing.T) {
	lg := NewLogger()
	m := Message{ID: "zerodiv", Severity: SeverityError, Message: "Division by zero", CallStack: []Location{{File: "a.c", Line: 1, Col: 1}}}
	lg.Emit(m)
	lg.ResetDedup()
	if !lg.Emit(m) {
		t.Fatalf("Emit after ResetDedup should publish again")
	}
}

func TestLoggerFileSuppressionDropsMatch(t *testing.T) {
	lg := NewLogger()
	lg.AddFileSuppressions([]Suppression{{ID: "zerodiv", File: "a.c"}})
	m := Message{ID: "zerodiv", Severity: SeverityError, Message: "x", CallStack: []Location{{File: "a.c", Line: 1, Col: 1}}}
	if lg.Emit(m) {
		t.Fatalf("suppressed diagnostic should not be published")
	}
	if len(lg.UnusedSuppressions()) != 0 {
		t.Fatalf("the suppression was used and should not be reported unused")
	}
}

func TestLoggerMinSeverityFilters(t *testing.T) {
	lg := NewLogger()
	lg.SetMinSeverity(SeverityWarning)
	style := Message{ID: "x", Severity: SeverityStyle, Message: "m", CallStack: []Location{{File: "a.c", Line: 1}}}
	if lg.Emit(style) {
		t.Fatalf("style should be below the warning threshold")
	}
	err := Message{ID: "y", Severity: SeverityError, Message: "m", CallStack: []Location{{File: "a.c", Line: 2}}}
	if !lg.Emit(err) {
		t.Fatalf("error should always clear a warning threshold")
	}
}

func TestPublishedOrderedBySourcePosition(t *testing.T) {
	lg := NewLogger()
	lg.Emit(Message{ID: "a", Severity: SeverityStyle, Message: "second", CallStack: []Location{{File: "a.c", Line: 5}}})
	lg.Emit(Message{ID: "b", Severity: SeverityStyle, Message: "first", CallStack: []Location{{File: "a.c", Line: 2}}})
	got := lg.Published()
	if got[0].Message != "first" || got[1].Message != "second" {
		t.Fatalf("Published() not ordered by source position: %+v", got)
	}
}

func TestParseSuppressionLine(t *testing.T) {
	sup, err := ParseSuppressionLine("zerodiv:main.c:10")
	if err != nil {
		t.Fatalf("ParseSuppressionLine: %v", err)
	}
	if sup.ID != "zerodiv" || sup.File != "main.c" || sup.Line != 10 {
		t.Fatalf("got %+v", sup)
	}
	wildcard, err := ParseSuppressionLine("zerodiv:*")
	if err != nil {
		t.Fatalf("ParseSuppressionLine: %v", err)
	}
	if wildcard.File != "" {
		t.Fatalf("wildcard file should normalize to empty (any)")
	}
}

func TestInlineSuppressionSingle(t *testing.T) {
	d, ok := ParseInlineComment("cppcheck-suppress zerodiv", 9)
	if !ok || d.Kind != InlineSingle || d.ID != "zerodiv" {
		t.Fatalf("ParseInlineComment: got %+v, %v", d, ok)
	}
	idx := NewInlineSuppressions([]InlineDirective{d})
	if !idx.Suppressed("zerodiv", 10) {
		t.Fatalf("a single suppression on line 9 should cover line 10")
	}
	if idx.Suppressed("zerodiv", 9) {
		t.Fatalf("a single suppression should not cover its own comment line")
	}
}

func TestInlineSuppressionRange(t *testing.T) {
	begin, _ := ParseInlineComment("cppcheck-suppress-begin zerodiv", 3)
	end, _ := ParseInlineComment("cppcheck-suppress-end zerodiv", 8)
	idx := NewInlineSuppressions([]InlineDirective{begin, end})
	if !idx.Suppressed("zerodiv", 5) {
		t.Fatalf("line 5 should be inside the 3..8 range")
	}
	if idx.Suppressed("zerodiv", 9) {
		t.Fatalf("line 9 is outside the 3..8 range")
	}
}
