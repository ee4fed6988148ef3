// Package format renders spatial SQL expression trees as SQL text.
package format

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/leapstack-labs/leapgeo/pkg/core"
)

const indentSize = 2

var plainIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedWords lists identifiers that must be quoted in every supported dialect.
var reservedWords = map[string]struct{}{
	"select": {}, "from": {}, "where": {}, "and": {}, "or": {}, "not": {},
	"in": {}, "is": {}, "null": {}, "table": {}, "index": {}, "order": {},
	"group": {}, "by": {}, "limit": {}, "join": {}, "on": {}, "as": {},
	"case": {}, "when": {}, "then": {}, "else": {}, "end": {}, "user": {},
}

// Printer handles SQL rendering. In single-line mode every token is separated
// by one space; in pretty mode long boolean chains and subqueries break onto
// indented lines.
type Printer struct {
	ids         core.IdentifierConfig
	pretty      bool
	output      *bytes.Buffer
	depth       int
	atLineStart bool
}

func newPrinter(ids core.IdentifierConfig, pretty bool) *Printer {
	if ids.Quote == "" {
		ids = core.DefaultIdentifiers
	}
	return &Printer{
		ids:         ids,
		pretty:      pretty,
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

// String returns the formatted output.
func (p *Printer) String() string {
	return strings.TrimRight(p.output.String(), "\n")
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

// newline breaks the line in pretty mode and writes a space otherwise.
func (p *Printer) newline() {
	if !p.pretty {
		p.space()
		return
	}
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) keyword(s string) {
	p.write(strings.ToUpper(s))
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	p.output.WriteByte(' ')
}

// ident writes an identifier, quoting it when it is not a plain word or
// collides with a reserved word.
func (p *Printer) ident(name string) {
	p.write(QuoteIfNeeded(name, p.ids))
}

// formatList prints a list of items with separators.
func (p *Printer) formatList(count int, format func(i int), sep string) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
		}
	}
}

// QuoteIfNeeded quotes name with the configured quote characters unless it is
// a plain, non-reserved identifier.
func QuoteIfNeeded(name string, ids core.IdentifierConfig) string {
	if plainIdent.MatchString(name) {
		if _, reserved := reservedWords[strings.ToLower(name)]; !reserved {
			return name
		}
	}
	if ids.Quote == "" {
		ids = core.DefaultIdentifiers
	}
	end := ids.QuoteEnd
	if end == "" {
		end = ids.Quote
	}
	escape := ids.Escape
	if escape == "" {
		escape = end + end
	}
	return ids.Quote + strings.ReplaceAll(name, end, escape) + end
}
