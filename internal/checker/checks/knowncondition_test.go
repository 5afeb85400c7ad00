package checks

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

// int f(){ int x=1; if(x==1){} return x==2; }
func TestKnownConditionTrueFalseFlagsAlwaysFalseComparison(t *testing.T) {
	b := newBuilder()
	b.keyword("int")
	b.ident("f")
	b.punct("(")
	b.punct(")")
	b.punct("{")
	b.keyword("int")
	b.ident("x")
	b.op("=")
	b.intLit("1")
	b.punct(";")
	b.keyword("if")
	b.punct("(")
	b.ident("x")
	b.op("==")
	b.intLit("1")
	b.punct(")")
	b.punct("{")
	b.punct("}")
	b.keyword("return")
	b.ident("x")
	b.op("==")
	b.intLit("2")
	b.punct(";")
	b.punct("}")

	msgs := runSingleCheck(t, b.list, KnownConditionTrueFalse{})
	require.Len(t, msgs, 1)
	require.Equal(t, "knownConditionTrueFalse", msgs[0].ID)
	require.Contains(t, msgs[0].Message, "always false")
	snaps.MatchSnapshot(t, fmt.Sprintf("%v", msgs[0].Message))
}

// comparing against the value the variable is actually known to hold
// should be reported as always-true, not suppressed.
func TestKnownConditionTrueFalseFlagsAlwaysTrueComparison(t *testing.T) {
	b := newBuilder()
	b.keyword("int")
	b.ident("f")
	b.punct("(")
	b.punct(")")
	b.punct("{")
	b.keyword("int")
	b.ident("x")
	b.op("=")
	b.intLit("1")
	b.punct(";")
	b.keyword("return")
	b.ident("x")
	b.op("==")
	b.intLit("1")
	b.punct(";")
	b.punct("}")

	msgs := runSingleCheck(t, b.list, KnownConditionTrueFalse{})
	require.Len(t, msgs, 1)
	require.Contains(t, msgs[0].Message, "always true")
}
