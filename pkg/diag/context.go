package diag

import (
	"fmt"
	"strings"
)

// Context is a range of text in a source code, together with the name of the
// source and the full source text. It is typically embedded in errors that
// point at a part of the source, like parse and compile errors.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{name, source, r.Range()}
}

// Describe returns a description of the context in the form
// "name, line N: culprit" (or "line N-M" when the range spans lines). The
// culprit is the source text in the range, with newlines replaced.
func (c *Context) Describe() string {
	if c.From < 0 || c.To > len(c.Source) || c.From > c.To {
		return fmt.Sprintf("%s, invalid position %d-%d", c.Name, c.From, c.To)
	}
	culprit := c.Source[c.From:c.To]
	beginLine := strings.Count(c.Source[:c.From], "\n") + 1
	endLine := beginLine + strings.Count(strings.TrimSuffix(culprit, "\n"), "\n")
	lineDesc := fmt.Sprintf("line %d", beginLine)
	if endLine != beginLine {
		lineDesc = fmt.Sprintf("line %d-%d", beginLine, endLine)
	}
	if culprit == "" {
		return fmt.Sprintf("%s, %s", c.Name, lineDesc)
	}
	return fmt.Sprintf("%s, %s: %s",
		c.Name, lineDesc, strings.ReplaceAll(culprit, "\n", `\n`))
}
