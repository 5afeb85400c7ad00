package checks

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

// int f(bool b){ return b<0; }
func TestComparisonOfBoolWithIntFlagsRelationalAgainstBool(t *testing.T) {
	b := newBuilder()
	b.keyword("int")
	b.ident("f")
	b.punct("(")
	b.keyword("bool")
	b.ident("bvar")
	b.punct(")")
	b.punct("{")
	b.keyword("return")
	b.ident("bvar")
	b.op("<")
	b.intLit("0")
	b.punct(";")
	b.punct("}")

	msgs := runSingleCheck(t, b.list, ComparisonOfBoolWithInt{})
	require.Len(t, msgs, 1)
	require.Equal(t, "comparisonOfBoolWithInt", msgs[0].ID)
	snaps.MatchSnapshot(t, fmt.Sprintf("%v", msgs[0].Message))
}

// comparing two plain ints should never flag.
func TestComparisonOfBoolWithIntAllowsIntToInt(t *testing.T) {
	b := newBuilder()
	b.keyword("int")
	b.ident("f")
	b.punct("(")
	b.keyword("int")
	b.ident("a")
	b.punct(")")
	b.punct("{")
	b.keyword("return")
	b.ident("a")
	b.op("<")
	b.intLit("0")
	b.punct(";")
	b.punct("}")

	msgs := runSingleCheck(t, b.list, ComparisonOfBoolWithInt{})
	require.Empty(t, msgs)
}
