package tokenizer

import "github.com/cwbudde/cppgo/pkg/token"

// templateInstantiationPhase is spec.md §4.2 phase 8, the last one: find
// C++ template definitions, then walk instantiation sites and bound the
// nesting depth at Options.MaxTemplateDepth. Depth is the only thing this
// phase polices — it does not generate specialized token copies (cppcheck's
// own instantiator is an entire analysis pass in its own right; spec.md §9
// resolves the open question of "how far to go" by capping depth and
// reporting a bailout rather than attempting full instantiation).
type templateInstantiationPhase struct{}

func (p *templateInstantiationPhase) Name() string { return "template-instantiation" }

func (p *templateInstantiationPhase) Run(ctx *Context) error {
	names := collectTemplateNames(ctx)
	if len(names) == 0 {
		return nil
	}
	for t := ctx.List.Front(); t != nil; t = t.Next() {
		if t.Kind != token.Identifier || !names[t.Spelling] {
			continue
		}
		next := t.Next()
		if next == nil || next.Spelling != "<" {
			continue
		}
		depth := templateAngleDepth(next)
		if depth > ctx.Opts.MaxTemplateDepth {
			ctx.info(t.Pos, "templateInstantiationBailout",
				"template instantiation depth exceeds the configured limit, analysis of nested instantiations stops here")
		}
	}
	return nil
}

// collectTemplateNames records every name introduced by a `template <...>
// class|struct|typename NAME` or `template <...> RET NAME (` declaration.
func collectTemplateNames(ctx *Context) map[string]bool {
	names := map[string]bool{}
	for t := ctx.List.Front(); t != nil; t = t.Next() {
		if t.Spelling != "template" {
			continue
		}
		angleOpen := t.Next()
		if angleOpen == nil || angleOpen.Spelling != "<" {
			continue
		}
		angleClose := matchingAngle(angleOpen)
		if angleClose == nil {
			continue
		}
		cur := angleClose.Next()
		for cur != nil && (cur.Spelling == "class" || cur.Spelling == "struct" || cur.Spelling == "typename") {
			cur = cur.Next()
		}
		// Skip any return-type tokens preceding the declared name: walk
		// forward to the identifier directly followed by '<', '(', '{', or ';'.
		for cur != nil {
			next := cur.Next()
			if cur.Kind == token.Identifier && next != nil &&
				(next.Spelling == "<" || next.Spelling == "(" || next.Spelling == "{" || next.Spelling == ";") {
				names[cur.Spelling] = true
				break
			}
			cur = next
		}
	}
	return names
}

// matchingAngle finds the '>' closing the '<' at open, treating nested
// '<'/'>' as balanced and bailing out at the first ';' or '{' (a
// comparison operator, not a template bracket, got in the way).
func matchingAngle(open *token.Token) *token.Token {
	depth := 0
	for t := open; t != nil; t = t.Next() {
		switch t.Spelling {
		case "<":
			depth++
		case ">":
			depth--
			if depth == 0 {
				return t
			}
		case ";", "{":
			return nil
		}
	}
	return nil
}

// templateAngleDepth measures the maximum nesting of '<'...'>' pairs
// starting at open (inclusive), to bound recursive instantiations like
// vector<vector<vector<int>>>.
func templateAngleDepth(open *token.Token) int {
	depth, maxDepth := 0, 0
	for t := open; t != nil; t = t.Next() {
		switch t.Spelling {
		case "<":
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case ">":
			depth--
			if depth <= 0 {
				return maxDepth
			}
		case ";":
			return maxDepth
		}
	}
	return maxDepth
}
