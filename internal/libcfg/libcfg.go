// Package libcfg loads the function/library-behavior input named in
// spec.md §6: per-function argument count, return type, side-effect
// flags, "does not return", allocation/deallocation kind, per-argument
// nullability, and the argument-uninitialized-usage rules ValueFlow and
// the checker layer consult when modeling a call into code the analyzer
// cannot see.
//
// Definitions are authored as YAML, the same format internal/platform
// uses for its own structured, machine-owned configuration (see that
// package's doc comment for the funxy/codenerd grounding).
package libcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AllocKind classifies a function's memory-ownership behavior.
type AllocKind int

const (
	AllocNone AllocKind = iota
	AllocAllocates
	AllocDeallocates
)

// Argument describes one parameter position's contract.
type Argument struct {
	Index int `yaml:"index"` // 1-based, matching spec.md's call-argument numbering

	// NotNull requires the argument to be a non-null pointer.
	NotNull bool `yaml:"not_null"`

	// Uninitialized, when true, permits the argument to point at
	// uninitialized memory — the function is documented to fill it
	// rather than read it (e.g. a destination buffer).
	Uninitialized bool `yaml:"uninitialized"`

	// WritesBytesFromArg names another argument (1-based index) whose
	// known integer value is the number of bytes this function writes
	// into this argument's buffer, the shape bufferAccessOutOfBounds
	// checks against a buffer's known declared size.
	WritesBytesFromArg int `yaml:"writes_bytes_from_arg"`
}

// Function is one library function's behavior contract.
type Function struct {
	Name       string `yaml:"name"`
	ArgCount   int    `yaml:"arg_count"`
	ReturnType string `yaml:"return_type"`

	NoReturn bool      `yaml:"no_return"`
	Alloc    AllocKind `yaml:"-"`

	Arguments []Argument `yaml:"arguments"`
}

// ArgumentByIndex returns the Argument entry for the given 1-based index,
// or ok=false if the function's contract says nothing about it.
func (f Function) ArgumentByIndex(index int) (Argument, bool) {
	for _, a := range f.Arguments {
		if a.Index == index {
			return a, true
		}
	}
	return Argument{}, false
}

// Library is a loaded set of function contracts, indexed by name.
type Library struct {
	functions map[string]Function
}

// Lookup resolves a call's function name to its contract, or ok=false for
// a function the library config says nothing about (ValueFlow and
// checkers then fall back to treating the call conservatively, as
// unknown).
func (l *Library) Lookup(name string) (Function, bool) {
	if l == nil {
		return Function{}, false
	}
	f, ok := l.functions[name]
	return f, ok
}

// definitionFile is the on-disk shape of a library-behavior YAML file.
type definitionFile struct {
	Functions []rawFunction `yaml:"functions"`
}

// rawFunction mirrors Function but keeps "alloc" as a plain string, since
// Function.Alloc is an AllocKind enum that is not read from YAML; resolve
// maps the string onto it.
type rawFunction struct {
	Name       string     `yaml:"name"`
	ArgCount   int        `yaml:"arg_count"`
	ReturnType string     `yaml:"return_type"`
	NoReturn   bool       `yaml:"no_return"`
	Alloc      string     `yaml:"alloc"`
	Arguments  []Argument `yaml:"arguments"`
}

func (rf rawFunction) resolve() Function {
	f := Function{
		Name:       rf.Name,
		ArgCount:   rf.ArgCount,
		ReturnType: rf.ReturnType,
		NoReturn:   rf.NoReturn,
		Arguments:  rf.Arguments,
	}
	switch rf.Alloc {
	case "allocates":
		f.Alloc = AllocAllocates
	case "deallocates":
		f.Alloc = AllocDeallocates
	default:
		f.Alloc = AllocNone
	}
	return f
}

// Load parses a library-behavior YAML file into a Library.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("libcfg: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses library-behavior YAML from an in-memory byte slice,
// exported separately from Load so a driver can bundle built-in defaults
// (see Builtin) without round-tripping through the filesystem.
func Parse(data []byte) (*Library, error) {
	var def definitionFile
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("libcfg: parse: %w", err)
	}
	lib := &Library{functions: map[string]Function{}}
	for _, rf := range def.Functions {
		if rf.Name == "" {
			return nil, fmt.Errorf("libcfg: function entry missing name")
		}
		lib.functions[rf.Name] = rf.resolve()
	}
	return lib, nil
}

// Merge layers other's entries on top of l, with other's entries winning
// on name collision — used to let a project's own library config override
// the builtin defaults without having to repeat every untouched entry.
func (l *Library) Merge(other *Library) *Library {
	out := &Library{functions: map[string]Function{}}
	for k, v := range l.functions {
		out.functions[k] = v
	}
	if other != nil {
		for k, v := range other.functions {
			out.functions[k] = v
		}
	}
	return out
}

// builtinYAML is the small std.c/posix contract cppgo ships so a project
// with no library config of its own still gets useful bufferAccessOutOfBounds
// modeling for the functions checker fixtures exercise. Its not_null,
// no_return and alloc entries are loaded but no bundled check reads them.
const builtinYAML = `
functions:
  - name: read
    arg_count: 3
    return_type: "ssize_t"
    arguments:
      - index: 2
        not_null: true
        uninitialized: true
        writes_bytes_from_arg: 3
      - index: 3
        not_null: false
  - name: memcpy
    arg_count: 3
    return_type: "void*"
    arguments:
      - index: 1
        not_null: true
        uninitialized: true
        writes_bytes_from_arg: 3
      - index: 2
        not_null: true
  - name: strcpy
    arg_count: 2
    return_type: "char*"
    arguments:
      - index: 1
        not_null: true
        uninitialized: true
      - index: 2
        not_null: true
  - name: exit
    arg_count: 1
    return_type: "void"
    no_return: true
  - name: malloc
    arg_count: 1
    return_type: "void*"
    alloc: allocates
  - name: free
    arg_count: 1
    return_type: "void"
    alloc: deallocates
    arguments:
      - index: 1
        not_null: false
`

// Builtin returns cppgo's built-in library-behavior contract, covering the
// handful of standard-library functions the bundled checks exercise.
func Builtin() *Library {
	lib, err := Parse([]byte(builtinYAML))
	if err != nil {
		// The builtin table is a compile-time constant; a parse failure
		// here is a programming error, not a runtime condition callers
		// can recover from.
		panic(fmt.Sprintf("libcfg: builtin table failed to parse: %v", err))
	}
	return lib
}
