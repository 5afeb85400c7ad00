package checks

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// int f(int a){ int b=a&0xf0; return b&1; }
func TestMismatchingBitAndFlagsAlwaysZeroResult(t *testing.T) {
	b := newBuilder()
	b.keyword("int")
	b.ident("f")
	b.punct("(")
	b.keyword("int")
	b.ident("a")
	b.punct(")")
	b.punct("{")
	b.keyword("int")
	b.ident("bvar") // avoid clashing with the builder receiver name "b"
	b.op("=")
	b.ident("a")
	b.op("&")
	b.intLit("0xf0")
	b.punct(";")
	b.keyword("return")
	b.ident("bvar")
	b.op("&")
	b.intLit("1")
	b.punct(";")
	b.punct("}")

	msgs := runSingleCheck(t, b.list, MismatchingBitAnd{})
	require.Len(t, msgs, 1)
	require.Equal(t, "mismatchingBitAnd", msgs[0].ID)
}

// a bitmask reassignment should not carry a stale mask forward.
func TestMismatchingBitAndClearsMaskOnReassignment(t *testing.T) {
	b := newBuilder()
	b.keyword("int")
	b.ident("f")
	b.punct("(")
	b.keyword("int")
	b.ident("a")
	b.punct(")")
	b.punct("{")
	b.keyword("int")
	b.ident("bvar")
	b.op("=")
	b.ident("a")
	b.op("&")
	b.intLit("0xf0")
	b.punct(";")
	b.ident("bvar")
	b.op("=")
	b.intLit("3")
	b.punct(";")
	b.keyword("return")
	b.ident("bvar")
	b.op("&")
	b.intLit("1")
	b.punct(";")
	b.punct("}")

	msgs := runSingleCheck(t, b.list, MismatchingBitAnd{})
	require.Empty(t, msgs)
}
