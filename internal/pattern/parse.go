// Package pattern parses interleave patterns into imex trees.
//
// Grammar:
//
//	pattern    = { element }
//	element    = atom [ quantifier ]
//	atom       = digit | "(" pattern ")"
//	quantifier = "*" | "{" count "}"
//	count      = positive decimal integer
//
// Each digit selects one stream by index. The whole pattern is an implicit
// group repeated once, so "" is an empty group and "0(12){3}" is a group of
// two elements.
package pattern

import (
	"fmt"
	"strconv"

	"github.com/roach88/imex/internal/imex"
)

// Parse compiles text into a root node ready for imex.NewMerger.
func Parse(text string) (*imex.Quantified, error) {
	p := &parser{src: text}
	children, err := p.sequence()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		// sequence only stops early on a close paren.
		return nil, p.errorf(ErrCodeUnmatchedClose, p.pos, "unmatched ')'")
	}
	return imex.Quantify(imex.Group(children...), imex.Once()), nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level pattern constants.
func MustParse(text string) *imex.Quantified {
	q, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return q
}

type parser struct {
	src string
	pos int
}

// sequence parses elements until end of input or a ')' it does not consume.
func (p *parser) sequence() ([]*imex.Quantified, error) {
	var out []*imex.Quantified
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case isDigit(c):
			p.pos++
			q, err := p.quantifier()
			if err != nil {
				return nil, err
			}
			out = append(out, imex.Quantify(imex.Ref(int(c-'0')), q))

		case c == '(':
			open := p.pos
			p.pos++
			inner, err := p.sequence()
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.src) {
				return nil, p.errorf(ErrCodeUnclosedGroup, open, "group opened here is never closed")
			}
			p.pos++ // ')'
			q, err := p.quantifier()
			if err != nil {
				return nil, err
			}
			out = append(out, imex.Quantify(imex.Group(inner...), q))

		case c == ')':
			return out, nil

		case c == '*' || c == '{':
			return nil, p.errorf(ErrCodeMissingTarget, p.pos, "quantifier %q has no stream or group to repeat", c)

		case c == '}':
			return nil, p.errorf(ErrCodeBadCount, p.pos, "unmatched '}'")

		default:
			return nil, p.errorf(ErrCodeUnexpectedChar, p.pos, "unexpected character %q", rune(c))
		}
	}
	return out, nil
}

// quantifier parses an optional suffix. Absence means once.
func (p *parser) quantifier() (imex.Quantifier, error) {
	if p.pos >= len(p.src) {
		return imex.Once(), nil
	}

	var q imex.Quantifier
	switch p.src[p.pos] {
	case '*':
		p.pos++
		q = imex.Forever()

	case '{':
		open := p.pos
		p.pos++
		start := p.pos
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
		}
		if p.pos >= len(p.src) {
			return q, p.errorf(ErrCodeBadCount, open, "repeat count opened here is never closed")
		}
		if p.src[p.pos] != '}' {
			return q, p.errorf(ErrCodeBadCount, p.pos, "unexpected %q in repeat count", rune(p.src[p.pos]))
		}
		digits := p.src[start:p.pos]
		if digits == "" {
			return q, p.errorf(ErrCodeBadCount, open, "empty repeat count")
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return q, p.errorf(ErrCodeBadCount, start, "repeat count %s out of range", digits)
		}
		if n == 0 {
			return q, p.errorf(ErrCodeBadCount, start, "repeat count must be positive")
		}
		p.pos++ // '}'
		q = imex.Times(n)

	default:
		return imex.Once(), nil
	}

	if p.pos < len(p.src) && (p.src[p.pos] == '*' || p.src[p.pos] == '{') {
		return q, p.errorf(ErrCodeStackedQuantifier, p.pos, "element already has a quantifier")
	}
	return q, nil
}

func (p *parser) errorf(code string, offset int, format string, args ...any) *ParseError {
	return &ParseError{
		Code:    code,
		Offset:  offset,
		Message: fmt.Sprintf(format, args...),
		Pattern: p.src,
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
