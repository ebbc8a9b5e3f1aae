// Package pattern implements a restricted pattern-matching engine.
//
// A pattern is a flat sequence of elements: literals, the '.' wildcard,
// character classes (\d \D \w \W \s \S), and the line anchors '^' and '$'.
// Every non-anchor element may carry one of the quantifiers '*', '+' or '?'.
// There are no groups, no alternation and no bounded repetition; matching is
// byte-oriented and classes are ASCII.
package pattern

// Kind identifies what a single element matches.
type Kind int

const (
	KindLiteral Kind = iota
	KindAnyChar
	KindDigit
	KindNonDigit
	KindWord
	KindNonWord
	KindWhitespace
	KindNonWhitespace
	KindStartAnchor
	KindEndAnchor
)

// Quantifier is the repetition attached to an element.
type Quantifier int

const (
	QuantNone Quantifier = iota // exactly once
	QuantZeroOrMore
	QuantOneOrMore
	QuantZeroOrOne
)

// Element is one atomic matchable unit of a compiled pattern.
type Element struct {
	Kind  Kind
	Ch    byte // only meaningful for KindLiteral
	Quant Quantifier
}

// Pattern is an immutable compiled pattern. It is safe to share across the
// whole run once compiled; nothing mutates it after Compile returns.
type Pattern struct {
	src   string
	elems []Element
}

// String returns the original pattern text.
func (p *Pattern) String() string {
	return p.src
}

// Elements returns the compiled element sequence.
func (p *Pattern) Elements() []Element {
	return p.elems
}

// Match is one matched span on a line. Offsets are byte offsets into the
// line with Start <= End <= len(line).
type Match struct {
	Start int
	End   int
	Text  string
}

// isZeroWidth reports whether the element consumes no input.
func (e Element) isZeroWidth() bool {
	return e.Kind == KindStartAnchor || e.Kind == KindEndAnchor
}

// test reports whether a single byte satisfies the element's class.
func (e Element) test(c byte) bool {
	switch e.Kind {
	case KindLiteral:
		return c == e.Ch
	case KindAnyChar:
		return true
	case KindDigit:
		return isDigit(c)
	case KindNonDigit:
		return !isDigit(c)
	case KindWord:
		return isWord(c)
	case KindNonWord:
		return !isWord(c)
	case KindWhitespace:
		return isSpace(c)
	case KindNonWhitespace:
		return !isSpace(c)
	default:
		return false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWord(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
