package vt

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
	"unsafe"

	"src.vt.sh/pkg/kind"
)

// GrammarVersion is the version of the textual form written by Repr. It is
// bumped whenever Parse would no longer accept an earlier form.
const GrammarVersion = 1

// Repr returns the textual form of the array, tagged with the kind name, such
// as int[1 2 3] or vec2f[(0.5 1.0) (2.0 3.0)]. Parse turns it back into an
// equal array.
func (a *Array[E]) Repr() string {
	return kind.Of[E]().Name + a.String()
}

// String returns the textual form of the array without the kind tag. An
// empty array is written as [].
func (a *Array[E]) String() string {
	var b listBuilder
	k := kind.Of[E]()
	data := a.data()
	base := unsafe.Pointer(unsafe.SliceData(data))
	for i := range data {
		p := unsafe.Add(base, i*k.ElemSize())
		if !k.IsCompound() {
			b.writeElem(formatComponent(k.Scalar, p))
			continue
		}
		var t listBuilder
		for j := 0; j < k.Components; j++ {
			t.writeElem(formatComponent(k.Scalar, component(k.Scalar, p, j)))
		}
		b.writeElem(t.string('(', ')'))
	}
	return b.string('[', ']')
}

// MarshalText implements encoding.TextMarshaler with Repr.
func (a *Array[E]) MarshalText() ([]byte, error) {
	return []byte(a.Repr()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with ParseAs.
func (a *Array[E]) UnmarshalText(text []byte) error {
	b, err := ParseAs[E](string(text))
	if err != nil {
		return err
	}
	a.replace(b.buf.data)
	return nil
}

// listBuilder builds a space-separated list between delimiters.
type listBuilder struct {
	buf   bytes.Buffer
	elems int
}

func (b *listBuilder) writeElem(v string) {
	if b.elems > 0 {
		b.buf.WriteByte(' ')
	}
	b.buf.WriteString(v)
	b.elems++
}

func (b *listBuilder) string(open, close byte) string {
	return string(open) + b.buf.String() + string(close)
}

func formatComponent(s kind.Scalar, p unsafe.Pointer) string {
	switch {
	case s == kind.ScalarBool:
		if *(*bool)(p) {
			return "$true"
		}
		return "$false"
	case s == kind.ScalarString:
		return quote(*(*string)(p))
	case s == kind.ScalarUint64:
		return strconv.FormatUint(loadBits(s, p), 10)
	case s.IsInteger():
		return strconv.FormatInt(int64(loadBits(s, p)), 10)
	case s == kind.ScalarFloat64:
		return formatFloat(loadFloat(s, p), 64)
	default:
		// Half values are exactly representable as float32, and the shortest
		// float32 form parses back to the same half.
		return formatFloat(loadFloat(s, p), 32)
	}
}

// formatFloat formats a float so that parsing it with the same bit size
// recovers it exactly. Scientific notation is only used for very large and
// very small magnitudes.
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	noPoint := !strings.ContainsRune(s, '.')
	if (noPoint && len(s) > 14 && s[len(s)-1] == '0') ||
		strings.HasPrefix(strings.TrimPrefix(s, "-"), "0.0000") {
		return strconv.FormatFloat(f, 'e', -1, bitSize)
	} else if noPoint {
		return s + ".0"
	}
	return s
}

// A table for the simple double-quote escape sequences.
var doubleEscape = map[rune]rune{
	'a': '\a', 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r',
	't': '\t', 'v': '\v', '\\': '\\', '"': '"',
	'e': '\033',
}

var doubleUnescape = map[rune]rune{}

func init() {
	for k, v := range doubleEscape {
		doubleUnescape[v] = k
	}
}

// quote returns s in double quotes, escaping special and unprintable
// characters.
func quote(s string) string {
	var buf bytes.Buffer
	buf.WriteByte('"')
	for s != "" {
		r, w := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && w == 1 {
			// Encode the byte of an invalid UTF-8 sequence as a hex literal.
			buf.WriteString(`\x`)
			buf.Write(rtohex(rune(s[0]), 2))
		} else if e, ok := doubleUnescape[r]; ok {
			buf.WriteByte('\\')
			buf.WriteRune(e)
		} else if unicode.IsPrint(r) && r != utf8.RuneError {
			buf.WriteRune(r)
		} else if r <= 0x7f {
			buf.WriteString(`\x`)
			buf.Write(rtohex(r, 2))
		} else if r <= 0xffff {
			buf.WriteString(`\u`)
			buf.Write(rtohex(r, 4))
		} else {
			buf.WriteString(`\U`)
			buf.Write(rtohex(r, 8))
		}
		s = s[w:]
	}
	buf.WriteByte('"')
	return buf.String()
}

func rtohex(r rune, w int) []byte {
	bytes := make([]byte, w)
	for i := w - 1; i >= 0; i-- {
		d := byte(r % 16)
		r /= 16
		if d <= 9 {
			bytes[i] = '0' + d
		} else {
			bytes[i] = 'a' + d - 10
		}
	}
	return bytes
}
