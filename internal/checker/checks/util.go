// Package checks implements the concrete checkers spec.md §8's scenarios
// S1-S6 exercise: zerodiv, mismatchingBitAnd, bufferAccessOutOfBounds,
// comparisonOfBoolWithInt, stringLiteralWrite, and knownConditionTrueFalse.
// Each is grounded on the matching rule in original_source/lib/checkother.cpp
// (checkZeroDivision, checkIncompleteBitwiseOperator, etc.), reimplemented
// against this module's tokenizer/valueflow output instead of cppcheck's own
// AST.
package checks

import (
	"math/big"
	"strings"

	"github.com/cwbudde/cppgo/internal/diag"
	"github.com/cwbudde/cppgo/pkg/token"
)

// parseIntLiteral parses a C/C++ integer literal's spelling, stripping the
// u/U/l/L suffixes and honoring 0x/0b/0 prefixes. Mirrors
// internal/valueflow's literal folding, duplicated here rather than
// exported across the package boundary since checks treats it as a token
// utility, not a value-flow concern.
func parseIntLiteral(spelling string) (*big.Int, bool) {
	body := strings.TrimRight(spelling, "uUlL")
	body = strings.ReplaceAll(body, "'", "")
	if body == "" {
		return nil, false
	}
	n := new(big.Int)
	base := 10
	switch {
	case strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X"):
		base, body = 16, body[2:]
	case strings.HasPrefix(body, "0b") || strings.HasPrefix(body, "0B"):
		base, body = 2, body[2:]
	case len(body) > 1 && body[0] == '0':
		base, body = 8, body[1:]
	}
	if _, ok := n.SetString(body, base); !ok {
		return nil, false
	}
	return n, true
}

// emit is a small convenience wrapper building the single-location
// ErrorMessage shape every check in this package produces.
func emit(logger *diag.Logger, files *token.FileTable, tok *token.Token, id string, severity diag.Severity, message string) {
	logger.Emit(diag.Message{
		ID:        id,
		Severity:  severity,
		Message:   message,
		CallStack: []diag.Location{diag.FromPosition(files, tok.Pos, message)},
	})
}
