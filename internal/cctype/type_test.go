package cctype

import "testing"

func TestPromoteWidensShortToInt(t *testing.T) {
	got := Native.Promote(Type{Basic: Short})
	if got.Basic != Int {
		t.Fatalf("Promote(short) = %s, want int", got.Basic)
	}
}

func TestUsualArithmeticConversionFloatWins(t *testing.T) {
	got := Native.UsualArithmeticConversion(Type{Basic: Int}, Type{Basic: Double})
	if got.Basic != Double {
		t.Fatalf("UsualArithmeticConversion(int,double) = %s, want double", got.Basic)
	}
}

func TestUsualArithmeticConversionUnsignedWins(t *testing.T) {
	got := Native.UsualArithmeticConversion(Type{Basic: Int}, Type{Basic: UInt})
	if got.Basic != UInt {
		t.Fatalf("UsualArithmeticConversion(int,unsigned int) = %s, want unsigned int", got.Basic)
	}
}

func TestPointerArithmetic(t *testing.T) {
	ptr := Type{Basic: Int, PointerDepth: 1}
	got, err := PointerArithmetic("+", ptr, Type{Basic: Int})
	if err != nil {
		t.Fatalf("PointerArithmetic: %v", err)
	}
	if got.PointerDepth != 1 {
		t.Fatalf("ptr + int should stay a pointer, got %s", got)
	}

	diff, err := PointerArithmetic("-", ptr, ptr)
	if err != nil {
		t.Fatalf("PointerArithmetic: %v", err)
	}
	if diff.PointerDepth != 0 || diff.Basic != Long {
		t.Fatalf("ptr - ptr should be a ptrdiff_t-like long, got %s", diff)
	}

	if _, err := PointerArithmetic("+", ptr, ptr); err == nil {
		t.Fatalf("ptr + ptr should be rejected")
	}
}

func TestArrayToPointerDecay(t *testing.T) {
	arr := Type{Basic: Char, IsArray: true, ArrayDims: []int{5}}
	got := ArrayToPointerDecay(arr)
	if got.IsArray || got.PointerDepth != 1 {
		t.Fatalf("ArrayToPointerDecay(char[5]) = %s, want char*", got)
	}
}

func TestPlatformCharSignedness(t *testing.T) {
	p := Native
	p.CharIsSigned = false
	if !p.IsUnsigned(Char) {
		t.Fatalf("expected plain char to be unsigned when CharIsSigned=false")
	}
}

func TestSizeOfPointerIgnoresBasic(t *testing.T) {
	if Native.SizeOf(Type{Basic: Char, PointerDepth: 2}) != Native.SizeOfPointer {
		t.Fatalf("SizeOf(char**) should be pointer-sized")
	}
}
