package tokenizer

// bracketLinkingPhase is spec.md §4.2 phase 1: pair every (), [], {} using
// the TokenList's own stack-based linker. Failure here is always fatal —
// an unmatched bracket means every later phase's assumptions about
// structure are unsound.
type bracketLinkingPhase struct{}

func (p *bracketLinkingPhase) Name() string { return "bracket-linking" }

func (p *bracketLinkingPhase) Run(ctx *Context) error {
	return ctx.List.LinkBrackets()
}
