// Package cctype models the C/C++ value-type lattice attached to AST
// expressions: signedness, width, pointer depth, and constness, plus the
// promotion/conversion rules the Tokenizer applies while building the AST
// (spec.md §4.2 phase 5).
package cctype

import "fmt"

// Basic is the scalar base of a Type, before pointer/array decoration.
type Basic int

const (
	Void Basic = iota
	Bool
	Char
	SChar
	UChar
	Short
	UShort
	Int
	UInt
	Long
	ULong
	LongLong
	ULongLong
	Float
	Double
	LongDouble
	Unknown
)

var basicNames = map[Basic]string{
	Void: "void", Bool: "bool", Char: "char", SChar: "signed char", UChar: "unsigned char",
	Short: "short", UShort: "unsigned short", Int: "int", UInt: "unsigned int",
	Long: "long", ULong: "unsigned long", LongLong: "long long", ULongLong: "unsigned long long",
	Float: "float", Double: "double", LongDouble: "long double", Unknown: "?",
}

func (b Basic) String() string { return basicNames[b] }

// IsFloating reports whether b is one of the floating-point basics.
func (b Basic) IsFloating() bool {
	return b == Float || b == Double || b == LongDouble
}

// IsUnsigned reports whether b is an unsigned integer basic. Plain char's
// signedness is platform-defined and is resolved by Platform.CharSigned,
// not by this method.
func (b Basic) IsUnsigned() bool {
	switch b {
	case Bool, UChar, UShort, UInt, ULong, ULongLong:
		return true
	default:
		return false
	}
}

// Type is the value type of an expression Token: a scalar basic plus
// pointer depth, array-ness, and const.
type Type struct {
	Basic       Basic
	PointerDepth int
	IsArray      bool
	ArrayDims    []int // known dimensions; -1 for unknown/flexible
	IsConst      bool
	IsVolatile   bool
}

// Pointee returns the type one pointer level down. Calling it on a
// non-pointer, non-array type is a programmer error in the caller (the
// Tokenizer only calls it after confirming PointerDepth > 0 or IsArray).
func (t Type) Pointee() Type {
	out := t
	if out.IsArray && out.PointerDepth == 0 {
		out.IsArray = false
		if len(out.ArrayDims) > 1 {
			out.ArrayDims = out.ArrayDims[1:]
		} else {
			out.ArrayDims = nil
		}
		return out
	}
	if out.PointerDepth > 0 {
		out.PointerDepth--
	}
	return out
}

// IsPointerLike reports whether t decays to a pointer in expression
// contexts (actual pointer, or array/function about to decay).
func (t Type) IsPointerLike() bool { return t.PointerDepth > 0 || t.IsArray }

func (t Type) String() string {
	s := t.Basic.String()
	if t.IsConst {
		s = "const " + s
	}
	for i := 0; i < t.PointerDepth; i++ {
		s += "*"
	}
	if t.IsArray {
		s += "[]"
	}
	return s
}

// Platform carries the widths and signedness the spec's §6 "Platform-
// definition input" names: sizes of the scalar basics, signedness of plain
// char, and endianness. ValueType resolution and sizeof folding both
// consult it.
type Platform struct {
	Name string

	SizeOfChar      int
	SizeOfShort     int
	SizeOfInt       int
	SizeOfLong      int
	SizeOfLongLong  int
	SizeOfPointer   int
	SizeOfSizeT     int
	SizeOfWCharT    int
	SizeOfFloat     int
	SizeOfDouble    int
	SizeOfLongDouble int

	CharIsSigned bool
	BigEndian    bool
}

// Native is a reasonable default for a 64-bit little-endian LP64 target
// (the common Linux/macOS x86-64/arm64 ABI), used when no platform
// definition file is supplied.
var Native = Platform{
	Name:            "native64",
	SizeOfChar:      1,
	SizeOfShort:     2,
	SizeOfInt:       4,
	SizeOfLong:      8,
	SizeOfLongLong:  8,
	SizeOfPointer:   8,
	SizeOfSizeT:     8,
	SizeOfWCharT:    4,
	SizeOfFloat:     4,
	SizeOfDouble:    8,
	SizeOfLongDouble: 16,
	CharIsSigned:    true,
	BigEndian:       false,
}

// SizeOf returns the byte size of a scalar basic under this platform, or
// the pointer size for any pointer-depth > 0 type.
func (p Platform) SizeOf(t Type) int {
	if t.PointerDepth > 0 {
		return p.SizeOfPointer
	}
	switch t.Basic {
	case Void:
		return 0
	case Bool, Char, SChar, UChar:
		return p.SizeOfChar
	case Short, UShort:
		return p.SizeOfShort
	case Int, UInt:
		return p.SizeOfInt
	case Long, ULong:
		return p.SizeOfLong
	case LongLong, ULongLong:
		return p.SizeOfLongLong
	case Float:
		return p.SizeOfFloat
	case Double:
		return p.SizeOfDouble
	case LongDouble:
		return p.SizeOfLongDouble
	default:
		return p.SizeOfInt
	}
}

// IsUnsigned resolves b's signedness under this platform, handling plain
// Char specially (its signedness is platform-defined).
func (p Platform) IsUnsigned(b Basic) bool {
	if b == Char {
		return !p.CharIsSigned
	}
	return b.IsUnsigned()
}

// rank orders integer basics by conversion rank for the usual arithmetic
// conversions (§4.2 phase 5), ignoring signedness.
func rank(b Basic) int {
	switch b {
	case Bool:
		return 0
	case Char, SChar, UChar:
		return 1
	case Short, UShort:
		return 2
	case Int, UInt:
		return 3
	case Long, ULong:
		return 4
	case LongLong, ULongLong:
		return 5
	case Float:
		return 6
	case Double:
		return 7
	case LongDouble:
		return 8
	default:
		return -1
	}
}

// Promote applies integer promotion: bool/char/short (and their unsigned
// counterparts) widen to int (or unsigned int if int cannot represent all
// values of the source, which on common platforms only matters for
// unsigned types as wide as int).
func (p Platform) Promote(t Type) Type {
	if t.PointerDepth > 0 || t.IsArray {
		return t
	}
	if rank(t.Basic) >= rank(Int) {
		return t
	}
	out := t
	out.Basic = Int
	if p.IsUnsigned(t.Basic) && p.SizeOf(Type{Basic: t.Basic}) >= p.SizeOfInt {
		out.Basic = UInt
	}
	out.IsConst = false
	return out
}

// UsualArithmeticConversion computes the common type of a binary operator
// applied to a and b, after integer promotion, per the standard rules:
// if either operand is floating, the result is the wider floating type;
// otherwise the result is the higher-rank integer type, with unsigned
// winning ties at equal rank.
func (p Platform) UsualArithmeticConversion(a, b Type) Type {
	pa, pb := p.Promote(a), p.Promote(b)
	if pa.Basic.IsFloating() || pb.Basic.IsFloating() {
		if rank(pa.Basic) >= rank(pb.Basic) && pa.Basic.IsFloating() {
			return Type{Basic: pa.Basic}
		}
		if pb.Basic.IsFloating() {
			return Type{Basic: pb.Basic}
		}
		return Type{Basic: pa.Basic}
	}
	ra, rb := rank(pa.Basic), rank(pb.Basic)
	higher, lower := pa, pb
	if rb > ra {
		higher, lower = pb, pa
	}
	if rank(higher.Basic) == rank(lower.Basic) {
		if p.IsUnsigned(lower.Basic) && !p.IsUnsigned(higher.Basic) {
			higher.Basic = lower.Basic
		}
	} else if p.IsUnsigned(lower.Basic) && !p.IsUnsigned(higher.Basic) && rank(lower.Basic) >= rank(higher.Basic) {
		higher.Basic = lower.Basic
	}
	higher.IsConst = false
	return higher
}

// PointerArithmetic resolves the result type of `ptr + int`, `int + ptr`,
// and `ptr - ptr`. The error return is non-nil when the operation is not
// well-typed under the spec's pointer-arithmetic rules.
func PointerArithmetic(op string, lhs, rhs Type) (Type, error) {
	switch {
	case lhs.IsPointerLike() && !rhs.IsPointerLike() && (op == "+" || op == "-"):
		return Type{Basic: lhs.Basic, PointerDepth: max(lhs.PointerDepth, 1)}, nil
	case !lhs.IsPointerLike() && rhs.IsPointerLike() && op == "+":
		return Type{Basic: rhs.Basic, PointerDepth: max(rhs.PointerDepth, 1)}, nil
	case lhs.IsPointerLike() && rhs.IsPointerLike() && op == "-":
		return Type{Basic: Long}, nil // ptrdiff_t modeled as long
	default:
		return Type{}, fmt.Errorf("cctype: invalid pointer arithmetic %s %s %s", lhs, op, rhs)
	}
}

// ArrayToPointerDecay returns the pointer type an array decays to in
// expression contexts.
func ArrayToPointerDecay(t Type) Type {
	if !t.IsArray {
		return t
	}
	out := t
	out.IsArray = false
	out.PointerDepth++
	if len(out.ArrayDims) > 1 {
		out.ArrayDims = out.ArrayDims[1:]
	} else {
		out.ArrayDims = nil
	}
	return out
}
