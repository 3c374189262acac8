package vt

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"src.vt.sh/pkg/diag"
	"src.vt.sh/pkg/errutil"
	"src.vt.sh/pkg/kind"
)

// Parse parses the kind-tagged textual form written by Repr.
func Parse(text string) (Value, error) {
	ps := &parser{src: text}
	ps.skipSpace()
	begin := ps.pos
	tag := ps.word()
	if tag == "" {
		ps.errorp(diag.PointRanging(begin), errMissingKind)
		return nil, ps.err()
	}
	k, ok := kind.ByName(tag)
	if !ok {
		ps.errorp(diag.Ranging{From: begin, To: ps.pos}, fmt.Errorf("unknown kind %q", tag))
		return nil, ps.err()
	}
	return dynamic[k.ID].parse(ps)
}

// ParseAs parses the textual form of an array of kind E. The kind tag is
// optional; if present, it must name E's kind.
func ParseAs[E kind.Elem](text string) (*Array[E], error) {
	ps := &parser{src: text}
	ps.skipSpace()
	begin := ps.pos
	if tag := ps.word(); tag != "" && tag != kind.Of[E]().Name {
		ps.errorp(diag.Ranging{From: begin, To: ps.pos},
			fmt.Errorf("kind must be %s, but is %s", kind.Of[E]().Name, tag))
		return nil, ps.err()
	}
	return parseElems[E](ps)
}

var (
	errMissingKind   = errors.New("should be kind name")
	errShouldBeOpen  = errors.New("should be '['")
	errUnclosedList  = errors.New("unclosed array, should be ']'")
	errUnclosedTuple = errors.New("unclosed tuple, should be ')'")
	errNestedTuple   = errors.New("tuples cannot be nested")
	errEmptyScalar   = errors.New("should be scalar")
	errUnclosedStr   = errors.New("unterminated double-quoted string")
	errInvalidEscape = errors.New("invalid escape sequence")
	errInvalidHex    = errors.New("invalid escape sequence, should be hex digit")
)

// literal is an element literal and its position in the source.
type literal struct {
	value any
	diag.Ranging
}

func parseElems[E kind.Elem](ps *parser) (*Array[E], error) {
	k := kind.Of[E]()
	ps.skipSpace()
	if ps.next() != '[' {
		ps.backup()
		ps.error(errShouldBeOpen)
		return nil, ps.err()
	}
	var lits []literal
	for {
		ps.skipSpace()
		switch ps.peek() {
		case ']':
			ps.next()
			ps.done()
			if len(ps.errors) > 0 {
				return nil, ps.err()
			}
			data := make([]E, len(lits))
			for i, lit := range lits {
				e, err := ConvertLiteral[E](lit.value)
				if err != nil {
					ps.errorp(lit, err)
					continue
				}
				data[i] = e
			}
			if len(ps.errors) > 0 {
				return nil, ps.err()
			}
			return wrap(data), nil
		case eof:
			ps.error(errUnclosedList)
			return nil, ps.err()
		}
		begin := ps.pos
		v := ps.elem(k)
		lits = append(lits, literal{v, diag.Ranging{From: begin, To: ps.pos}})
	}
}

// parser maintains the state of parsing one textual array.
type parser struct {
	src     string
	pos     int
	overEOF int
	errors  []error
}

const eof rune = -1

func (ps *parser) peek() rune {
	if ps.pos == len(ps.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(ps.src[ps.pos:])
	return r
}

func (ps *parser) next() rune {
	if ps.pos == len(ps.src) {
		ps.overEOF++
		return eof
	}
	r, s := utf8.DecodeRuneInString(ps.src[ps.pos:])
	ps.pos += s
	return r
}

func (ps *parser) backup() {
	if ps.overEOF > 0 {
		ps.overEOF--
		return
	}
	_, s := utf8.DecodeLastRuneInString(ps.src[:ps.pos])
	ps.pos -= s
}

func (ps *parser) errorp(r diag.Ranger, e error) {
	ps.errors = append(ps.errors, &diag.Error{
		Type:    "parse error",
		Message: e.Error(),
		Context: *diag.NewContext("[text]", ps.src, r),
	})
}

func (ps *parser) error(e error) {
	end := ps.pos
	if end < len(ps.src) {
		end++
	}
	ps.errorp(diag.Ranging{From: ps.pos, To: end}, e)
}

func (ps *parser) err() error {
	return errutil.Multi(ps.errors...)
}

// done records an error if there is anything other than whitespace left.
func (ps *parser) done() {
	ps.skipSpace()
	if ps.pos != len(ps.src) {
		r, _ := utf8.DecodeRuneInString(ps.src[ps.pos:])
		ps.error(fmt.Errorf("unexpected rune %q", r))
	}
}

func (ps *parser) skipSpace() {
	for {
		switch ps.next() {
		case ' ', '\t', '\n', '\r':
		default:
			ps.backup()
			return
		}
	}
}

func isWordRune(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9' ||
		r == '.' || r == '+' || r == '-' || r == '_' || r == '$'
}

// word consumes a run of runes that can make up a kind name or a bare scalar.
func (ps *parser) word() string {
	begin := ps.pos
	for isWordRune(ps.next()) {
	}
	ps.backup()
	return ps.src[begin:ps.pos]
}

// elem parses a scalar or a tuple of scalars for kind k.
func (ps *parser) elem(k *kind.Kind) any {
	if ps.peek() != '(' {
		return ps.scalar(k)
	}
	ps.next()
	var comps []any
	for {
		ps.skipSpace()
		switch ps.peek() {
		case ')':
			ps.next()
			return comps
		case '(':
			ps.error(errNestedTuple)
			ps.next()
			continue
		case eof, ']':
			ps.error(errUnclosedTuple)
			return comps
		}
		comps = append(comps, ps.scalar(k))
	}
}

// scalar parses one scalar literal. Integers are returned as *big.Int, so
// that range checks see the exact value. Floats are parsed at the precision
// of k's component type.
func (ps *parser) scalar(k *kind.Kind) any {
	if ps.peek() == '"' {
		return ps.doubleQuoted()
	}
	begin := ps.pos
	w := ps.word()
	r := diag.Ranging{From: begin, To: ps.pos}
	switch w {
	case "":
		ps.error(errEmptyScalar)
		ps.next()
		return nil
	case "$true":
		return true
	case "$false":
		return false
	case "inf", "+inf":
		return math.Inf(1)
	case "-inf":
		return math.Inf(-1)
	case "nan":
		return math.NaN()
	}
	if !strings.ContainsAny(w, ".eE") {
		if i, ok := new(big.Int).SetString(w, 10); ok {
			return i
		}
	}
	bitSize := 64
	if k.Scalar == kind.ScalarFloat32 || k.Scalar == kind.ScalarHalf {
		bitSize = 32
	}
	f, err := strconv.ParseFloat(w, bitSize)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		ps.errorp(r, fmt.Errorf("bad number %q", w))
		return nil
	}
	if bitSize == 32 {
		return float32(f)
	}
	return f
}

func (ps *parser) doubleQuoted() string {
	var buf strings.Builder
	ps.next()
	for {
		r := ps.next()
		switch r {
		case eof:
			ps.error(errUnclosedStr)
			return buf.String()
		case '"':
			return buf.String()
		case '\\':
			switch r := ps.next(); r {
			case 'x', 'u', 'U':
				n := map[rune]int{'x': 2, 'u': 4, 'U': 8}[r]
				var rr rune
				for i := 0; i < n; i++ {
					d, ok := hexToDigit(ps.next())
					if !ok {
						ps.backup()
						ps.error(errInvalidHex)
						break
					}
					rr = rr*16 + d
				}
				if r == 'x' {
					buf.WriteByte(byte(rr))
				} else {
					buf.WriteRune(rr)
				}
			default:
				if rr, ok := doubleEscape[r]; ok {
					buf.WriteRune(rr)
				} else {
					ps.backup()
					ps.error(errInvalidEscape)
					ps.next()
				}
			}
		default:
			buf.WriteRune(r)
		}
	}
}

func hexToDigit(r rune) (rune, bool) {
	switch {
	case '0' <= r && r <= '9':
		return r - '0', true
	case 'a' <= r && r <= 'f':
		return r - 'a' + 10, true
	case 'A' <= r && r <= 'F':
		return r - 'A' + 10, true
	default:
		return -1, false
	}
}
