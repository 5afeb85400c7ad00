package checks

import (
	"testing"

	"github.com/cwbudde/cppgo/internal/cctype"
	"github.com/stretchr/testify/require"
)

// void f(){ char a[5]; read(fd,a,6); }
func TestBufferAccessOutOfBoundsFlagsOversizedRead(t *testing.T) {
	b := newBuilder()
	b.keyword("void")
	b.ident("f")
	b.punct("(")
	b.punct(")")
	b.punct("{")
	b.keyword("char")
	arrName := b.ident("a")
	b.punct("[")
	b.intLit("5")
	b.punct("]")
	b.punct(";")
	b.ident("read")
	b.punct("(")
	b.ident("fd")
	b.punct(",")
	b.ident("a")
	b.punct(",")
	b.intLit("6")
	b.punct(")")
	b.punct(";")
	b.punct("}")
	_ = arrName

	tu := mustAnalyze(t, b.list)

	// Confirm the tokenizer resolved "a" to a fixed-size array, the
	// precondition the check relies on, before asserting on its output.
	v := tu.Tokenizer.DB.VariableOf(arrName)
	require.NotNil(t, v)
	require.True(t, v.Type.IsArray)
	require.Equal(t, []int{5}, v.Type.ArrayDims)
	_ = cctype.Char

	msgs := runSingleCheck(t, b.list, BufferAccessOutOfBounds{})
	require.Len(t, msgs, 1)
	require.Equal(t, "bufferAccessOutOfBounds", msgs[0].ID)
}

// a declared size large enough for the requested write should not flag.
func TestBufferAccessOutOfBoundsAllowsFittingRead(t *testing.T) {
	b := newBuilder()
	b.keyword("void")
	b.ident("f")
	b.punct("(")
	b.punct(")")
	b.punct("{")
	b.keyword("char")
	b.ident("a")
	b.punct("[")
	b.intLit("8")
	b.punct("]")
	b.punct(";")
	b.ident("read")
	b.punct("(")
	b.ident("fd")
	b.punct(",")
	b.ident("a")
	b.punct(",")
	b.intLit("6")
	b.punct(")")
	b.punct(";")
	b.punct("}")

	msgs := runSingleCheck(t, b.list, BufferAccessOutOfBounds{})
	require.Empty(t, msgs)
}
