package pattern

import (
	"errors"
	"fmt"
)

// Compile-time pattern errors. All of them abort the run before any
// traversal starts; they are matched with errors.Is.
var (
	ErrDanglingQuantifier      = errors.New("pattern: quantifier has no preceding element")
	ErrInvalidAnchorQuantifier = errors.New("pattern: quantifier applied to an anchor")
	ErrUnterminatedEscape      = errors.New("pattern: trailing backslash")
	ErrUnknownEscapeClass      = errors.New("pattern: unknown escape class")
)

// Compile parses src left to right into an element sequence.
//
// '\' followed by d D w W s S yields the class element; '\' followed by any
// other non-letter yields that character as a literal. '^' is an anchor only
// in the first position, '$' only in the last; elsewhere both are literals.
// A '*', '+' or '?' attaches to the element just produced.
func Compile(src string) (*Pattern, error) {
	elems := make([]Element, 0, len(src))

	// Quantifiers mutate the previous element, so track whether the last
	// element is still quantifiable.
	canQuantify := false

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '\\':
			if i+1 >= len(src) {
				return nil, ErrUnterminatedEscape
			}
			i++
			e, err := escapeElement(src[i])
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			canQuantify = true

		case '*', '+', '?':
			if len(elems) == 0 {
				return nil, fmt.Errorf("%w: %q at offset %d", ErrDanglingQuantifier, c, i)
			}
			last := &elems[len(elems)-1]
			if last.isZeroWidth() {
				return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidAnchorQuantifier, c, i)
			}
			if !canQuantify {
				// doubled quantifier, e.g. "a**"
				return nil, fmt.Errorf("%w: %q at offset %d", ErrDanglingQuantifier, c, i)
			}
			switch c {
			case '*':
				last.Quant = QuantZeroOrMore
			case '+':
				last.Quant = QuantOneOrMore
			case '?':
				last.Quant = QuantZeroOrOne
			}
			canQuantify = false

		case '.':
			elems = append(elems, Element{Kind: KindAnyChar})
			canQuantify = true

		case '^':
			if i == 0 {
				elems = append(elems, Element{Kind: KindStartAnchor})
				canQuantify = false
			} else {
				elems = append(elems, Element{Kind: KindLiteral, Ch: c})
				canQuantify = true
			}

		case '$':
			if i == len(src)-1 {
				elems = append(elems, Element{Kind: KindEndAnchor})
				canQuantify = false
			} else {
				elems = append(elems, Element{Kind: KindLiteral, Ch: c})
				canQuantify = true
			}

		default:
			elems = append(elems, Element{Kind: KindLiteral, Ch: c})
			canQuantify = true
		}
	}

	return &Pattern{src: src, elems: elems}, nil
}

// escapeElement resolves the character after a backslash.
func escapeElement(c byte) (Element, error) {
	switch c {
	case 'd':
		return Element{Kind: KindDigit}, nil
	case 'D':
		return Element{Kind: KindNonDigit}, nil
	case 'w':
		return Element{Kind: KindWord}, nil
	case 'W':
		return Element{Kind: KindNonWord}, nil
	case 's':
		return Element{Kind: KindWhitespace}, nil
	case 'S':
		return Element{Kind: KindNonWhitespace}, nil
	}
	// Letters never need escaping, so an unknown \<letter> is a typo for a
	// class rather than an escaped literal.
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return Element{}, fmt.Errorf("%w: \\%c", ErrUnknownEscapeClass, c)
	}
	return Element{Kind: KindLiteral, Ch: c}, nil
}
