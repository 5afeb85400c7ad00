package checks

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

// char* f(){ char* p="abc"; p[0]='x'; return p; }
func TestStringLiteralWriteFlagsSubscriptAssignment(t *testing.T) {
	b := newBuilder()
	b.keyword("char")
	b.op("*")
	b.ident("f")
	b.punct("(")
	b.punct(")")
	b.punct("{")
	b.keyword("char")
	b.op("*")
	b.ident("p")
	b.op("=")
	b.strLit("\"abc\"")
	b.punct(";")
	b.ident("p")
	b.punct("[")
	b.intLit("0")
	b.punct("]")
	b.op("=")
	b.strLit("'x'")
	b.punct(";")
	b.keyword("return")
	b.ident("p")
	b.punct(";")
	b.punct("}")

	msgs := runSingleCheck(t, b.list, StringLiteralWrite{})
	require.Len(t, msgs, 1)
	require.Equal(t, "stringLiteralWrite", msgs[0].ID)
	snaps.MatchSnapshot(t, fmt.Sprintf("%v", msgs[0].Message))
}

// a pointer reassigned away from its literal before the subscript write
// should no longer be flagged.
func TestStringLiteralWriteIgnoresReassignedPointer(t *testing.T) {
	b := newBuilder()
	b.keyword("char")
	b.op("*")
	b.ident("f")
	b.punct("(")
	b.keyword("char")
	b.op("*")
	b.ident("buf")
	b.punct(")")
	b.punct("{")
	b.keyword("char")
	b.op("*")
	b.ident("p")
	b.op("=")
	b.strLit("\"abc\"")
	b.punct(";")
	b.ident("p")
	b.op("=")
	b.ident("buf")
	b.punct(";")
	b.ident("p")
	b.punct("[")
	b.intLit("0")
	b.punct("]")
	b.op("=")
	b.strLit("'x'")
	b.punct(";")
	b.keyword("return")
	b.ident("p")
	b.punct(";")
	b.punct("}")

	msgs := runSingleCheck(t, b.list, StringLiteralWrite{})
	require.Empty(t, msgs)
}
