// Package diag contains source ranges and positioned errors used when parsing
// the textual form of arrays.
package diag

import (
	"fmt"
	"strings"
)

// Ranger wraps the Range method.
type Ranger interface {
	// Range returns the range associated with the value.
	Range() Ranging
}

// Ranging represents a range [From, To) of byte offsets within a text.
// Structs can embed Ranging to satisfy the [Ranger] interface.
type Ranging struct {
	From int
	To   int
}

// Range returns the Ranging itself.
func (r Ranging) Range() Ranging { return r }

// PointRanging returns a zero-width Ranging at the given point.
func PointRanging(p int) Ranging {
	return Ranging{p, p}
}

// Context is a range of text in a named source.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{name, source, r.Range()}
}

// Position returns the 1-based line and column of the start of the range.
// Columns count runes.
func (c *Context) Position() (line, col int) {
	from := c.From
	if from > len(c.Source) {
		from = len(c.Source)
	}
	before := c.Source[:from]
	line = strings.Count(before, "\n") + 1
	col = len([]rune(before[strings.LastIndexByte(before, '\n')+1:])) + 1
	return line, col
}

// Variables controlling the style of the culprit.
var (
	culpritStart       = "\033[1;4m"
	culpritEnd         = "\033[m"
	culpritPlaceHolder = "^"
)

// Excerpt returns the line containing the start of the range, with the
// culprit highlighted.
func (c *Context) Excerpt() string {
	if c.From < 0 || c.To > len(c.Source) || c.From > c.To {
		return fmt.Sprintf("invalid position %d-%d", c.From, c.To)
	}
	before, culprit, after := c.Source[:c.From], c.Source[c.From:c.To], c.Source[c.To:]
	head := before[strings.LastIndexByte(before, '\n')+1:]
	if i := strings.IndexByte(culprit, '\n'); i != -1 {
		culprit, after = culprit[:i], ""
	} else if i := strings.IndexByte(after, '\n'); i != -1 {
		after = after[:i]
	}
	if culprit == "" {
		culprit = culpritPlaceHolder
	}
	return head + culpritStart + culprit + culpritEnd + after
}

// Error represents an error with a source context.
type Error struct {
	Type    string
	Message string
	Context Context
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	line, col := e.Context.Position()
	return fmt.Sprintf("%s: %s:%d:%d: %s",
		e.Type, e.Context.Name, line, col, e.Message)
}

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}

// Show shows the error along with the culprit.
func (e *Error) Show(indent string) string {
	line, col := e.Context.Position()
	return fmt.Sprintf("%s: %s\n%s  %s:%d:%d: %s", strings.ToUpper(e.Type[:1])+e.Type[1:],
		e.Message, indent, e.Context.Name, line, col, e.Context.Excerpt())
}
