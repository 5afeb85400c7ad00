package token

import "strings"

// Match implements the small pattern DSL used throughout the checker layer
// (spec.md §4.1): literal tokens match literally, %var% matches any
// identifier bound to a Variable (VarID != 0), %num% any numeric literal,
// %op% any operator, %any% any single token, "|" inside a word separates
// alternatives, and a leading "!!" on a word forbids that word at that
// position. Words are separated by whitespace in the pattern string.
//
// Match(tok, "a|b c") is true iff tok is ("a" or "b") and tok.Next() is "c".
func Match(tok *Token, pattern string) bool {
	words := strings.Fields(pattern)
	cur := tok
	for _, w := range words {
		if cur == nil {
			return false
		}
		ok, negate := matchWord(cur, w)
		if ok == negate {
			return false
		}
		cur = cur.next
	}
	return true
}

// matchWord reports whether cur satisfies word, and whether word was a
// negated ("!!word") position. For negated words, ok reports whether the
// *inner* pattern matched — callers invert via ok == negate.
func matchWord(cur *Token, word string) (ok bool, negate bool) {
	if strings.HasPrefix(word, "!!") {
		negate = true
		word = word[2:]
	}
	for _, alt := range strings.Split(word, "|") {
		if matchAtom(cur, alt) {
			return true, negate
		}
	}
	return false, negate
}

func matchAtom(cur *Token, atom string) bool {
	switch atom {
	case "%var%":
		return cur.VarID != 0
	case "%num%":
		return cur.Kind == LiteralInt || cur.Kind == LiteralFloat
	case "%op%":
		return cur.Kind == Operator
	case "%any%":
		return true
	case "%str%":
		return cur.Kind == LiteralString
	case "%type%":
		return cur.Kind == TypeName
	default:
		return cur.Spelling == atom
	}
}

// FindMatch scans forward from start (inclusive) for the first token where
// Match(tok, pattern) succeeds, returning nil if none is found before the
// end of the list.
func FindMatch(start *Token, pattern string) *Token {
	for t := start; t != nil; t = t.next {
		if Match(t, pattern) {
			return t
		}
	}
	return nil
}

// SplitCallArgs splits a call token's parenthesized range into its
// comma-separated argument token runs, one slice per argument, ignoring
// commas nested inside a deeper bracket level. call must be the '(' of the
// call expression with Link already set by bracket linking (phase 1); a
// call with no arguments (an immediately-closed pair) returns nil.
func SplitCallArgs(call *Token) [][]*Token {
	if call == nil || call.Link == nil {
		return nil
	}
	var args [][]*Token
	cur := call.next
	end := call.Link
	for cur != nil && cur != end {
		var run []*Token
		depth := 0
		for cur != nil && cur != end {
			if cur.Spelling == "," && depth == 0 {
				break
			}
			if cur.IsOpeningBracket() {
				depth++
			} else if cur.IsBracket() {
				depth--
			}
			run = append(run, cur)
			cur = cur.next
		}
		if len(run) > 0 {
			args = append(args, run)
		}
		if cur != nil && cur != end && cur.Spelling == "," {
			cur = cur.next
		}
	}
	return args
}
