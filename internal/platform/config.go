// Package platform loads the platform-definition input named in spec.md
// §6: the scalar widths, char signedness, and endianness the Tokenizer and
// ValueFlow consult for sizeof folding and overflow detection.
//
// Definitions are authored as YAML (the format the rest of the pack uses
// for structured, machine-owned data — see funvibe-funxy's and
// theRebelliousNerd-codenerd's use of gopkg.in/yaml.v3) rather than the
// TOML used for the CLI's own settings in cmd/cppgo.
package platform

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/cppgo/internal/cctype"
)

// Definition is the on-disk shape of a platform-definition file.
type Definition struct {
	Name string `yaml:"name"`

	Sizes struct {
		Char       int `yaml:"char"`
		Short      int `yaml:"short"`
		Int        int `yaml:"int"`
		Long       int `yaml:"long"`
		LongLong   int `yaml:"long_long"`
		Pointer    int `yaml:"pointer"`
		SizeT      int `yaml:"size_t"`
		WCharT     int `yaml:"wchar_t"`
		Float      int `yaml:"float"`
		Double     int `yaml:"double"`
		LongDouble int `yaml:"long_double"`
	} `yaml:"sizes"`

	CharSigned bool `yaml:"char_signed"`
	BigEndian  bool `yaml:"big_endian"`
}

// Load parses a platform-definition YAML file into a cctype.Platform,
// taking any size left at zero from cctype.Native so a partial
// definition (e.g. only overriding char_signed) still produces a usable
// platform. char_signed and big_endian are taken as written, so a file
// that omits them gets false for both.
func Load(path string) (cctype.Platform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cctype.Platform{}, fmt.Errorf("platform: read %s: %w", path, err)
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return cctype.Platform{}, fmt.Errorf("platform: parse %s: %w", path, err)
	}
	return def.Resolve(), nil
}

// Resolve turns a parsed Definition into a cctype.Platform, defaulting any
// size left at zero to the corresponding cctype.Native size.
func (d Definition) Resolve() cctype.Platform {
	p := cctype.Native
	if d.Name != "" {
		p.Name = d.Name
	}
	p.CharIsSigned = d.CharSigned
	p.BigEndian = d.BigEndian

	override := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	override(&p.SizeOfChar, d.Sizes.Char)
	override(&p.SizeOfShort, d.Sizes.Short)
	override(&p.SizeOfInt, d.Sizes.Int)
	override(&p.SizeOfLong, d.Sizes.Long)
	override(&p.SizeOfLongLong, d.Sizes.LongLong)
	override(&p.SizeOfPointer, d.Sizes.Pointer)
	override(&p.SizeOfSizeT, d.Sizes.SizeT)
	override(&p.SizeOfWCharT, d.Sizes.WCharT)
	override(&p.SizeOfFloat, d.Sizes.Float)
	override(&p.SizeOfDouble, d.Sizes.Double)
	override(&p.SizeOfLongDouble, d.Sizes.LongDouble)
	return p
}

// Builtin returns one of the two platform definitions cppgo ships without
// needing a file on disk: "native64" (cctype.Native) and "ilp32" (a
// 32-bit target where long and pointer are both 4 bytes).
func Builtin(name string) (cctype.Platform, bool) {
	switch name {
	case "native64", "":
		return cctype.Native, true
	case "ilp32":
		p := cctype.Native
		p.Name = "ilp32"
		p.SizeOfLong = 4
		p.SizeOfPointer = 4
		p.SizeOfSizeT = 4
		p.SizeOfLongDouble = 12
		return p, true
	default:
		return cctype.Platform{}, false
	}
}
