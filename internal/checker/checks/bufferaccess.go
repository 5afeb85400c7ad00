package checks

import (
	"github.com/cwbudde/cppgo/internal/avalue"
	"github.com/cwbudde/cppgo/internal/checker"
	"github.com/cwbudde/cppgo/internal/diag"
	"github.com/cwbudde/cppgo/internal/libcfg"
	"github.com/cwbudde/cppgo/pkg/token"
)

// BufferAccessOutOfBounds is spec.md §8 scenario S3:
// `void f(){ char a[5]; read(fd,a,6); }` with `read` declared (per
// internal/libcfg) to fill its second argument with its third argument's
// byte count, flags the call when the buffer's known declared size is
// smaller than that count. Grounded on
// original_source/lib/checkbufferoverrun.cpp's call-site modeling, built
// on top of internal/valueflow's array-size folding (foldArraySizes) and
// internal/libcfg's function contracts rather than cppcheck's own
// hand-rolled library table.
type BufferAccessOutOfBounds struct {
	Library *libcfg.Library
}

func (BufferAccessOutOfBounds) ID() string { return "bufferAccessOutOfBounds" }

func (BufferAccessOutOfBounds) GetErrorMessages(logger *diag.Logger) {}

func (c BufferAccessOutOfBounds) RunChecks(tu checker.TU, logger *diag.Logger) {
	lib := c.Library
	if lib == nil {
		lib = libcfg.Builtin()
	}
	files := tu.Tokenizer.List.Files()

	for t := tu.Tokenizer.List.Front(); t != nil; t = t.Next() {
		if t.Kind != token.FunctionName && t.Kind != token.Identifier {
			continue
		}
		call := t.Next()
		if call == nil || call.Spelling != "(" {
			continue
		}
		// lib.Lookup covers both calls the tokenizer resolved to a local
		// declaration and calls to external functions (like libc's read)
		// that this translation unit never declares itself.
		fn, ok := lib.Lookup(t.Spelling)
		if !ok {
			continue
		}
		args := token.SplitCallArgs(call)

		for _, arg := range fn.Arguments {
			if arg.WritesBytesFromArg == 0 {
				continue
			}
			if arg.Index < 1 || arg.Index > len(args) || arg.WritesBytesFromArg < 1 || arg.WritesBytesFromArg > len(args) {
				continue
			}
			bufArgTok := args[arg.Index-1][0]
			countArgTok := args[arg.WritesBytesFromArg-1][0]

			bufSet, ok := tu.ValueFlow.Sets[bufArgTok]
			if !ok {
				continue
			}
			bufSize, ok := bufSet.Known(avalue.KindContainerSize)
			if !ok || bufSize.ContainerSize == nil {
				continue
			}

			countSet, ok := tu.ValueFlow.Sets[countArgTok]
			if !ok {
				continue
			}
			count, ok := countSet.Known(avalue.KindInteger)
			if !ok || count.Int == nil {
				continue
			}

			if count.Int.Cmp(bufSize.ContainerSize) > 0 {
				emit(logger, files, t, "bufferAccessOutOfBounds", diag.SeverityError,
					"Buffer "+bufArgTok.Spelling+" is too small for the requested access")
			}
		}
	}
}
