// Package misra implements a small slice of the MISRA-C addon contract
// spec.md §4.6 and SPEC_FULL.md §4 describe: a checker that tags its
// findings with a Classification (the MISRA rule id) on top of the usual
// ErrorMessage shape, grounded on
// original_source/addons/test/misra/misra-test.c's fixture for Rule 15.1
// ("The goto statement should not be used").
package misra

import (
	"github.com/cwbudde/cppgo/internal/checker"
	"github.com/cwbudde/cppgo/internal/diag"
	"github.com/cwbudde/cppgo/pkg/token"
)

// NoGoto is MISRA-C:2012 Rule 15.1: flag every use of `goto`. Unlike the
// S1-S6 checks, which report a plain ID, NoGoto demonstrates the
// classInfo()-adjacent Classification field: the rule id rides on the
// ErrorMessage itself rather than needing a side channel.
type NoGoto struct{}

func (NoGoto) ID() string { return "misra-c2012-15.1" }

func (NoGoto) ClassInfo() string {
	return "MISRA-C:2012 Rule 15.1: the goto statement should not be used"
}

func (NoGoto) GetErrorMessages(logger *diag.Logger) {}

func (c NoGoto) RunChecks(tu checker.TU, logger *diag.Logger) {
	files := tu.Tokenizer.List.Files()
	for t := tu.Tokenizer.List.Front(); t != nil; t = t.Next() {
		if t.Kind != token.Keyword || t.Spelling != "goto" {
			continue
		}
		logger.Emit(diag.Message{
			ID:             c.ID(),
			Severity:       diag.SeverityStyle,
			Message:        "goto statement used",
			Classification: "MISRA-C:2012 Rule 15.1",
			CallStack:      []diag.Location{diag.FromPosition(files, t.Pos, "goto statement used")},
		})
	}
}
