// Package cursor provides the concrete token cursors the parser walks. The
// text cursor tokenizes a raw invocation line for a bound command; other
// token sources (pre-split option lists) plug in through the same parse
// Cursor interface.
package cursor

import (
	"strings"

	"github.com/selfdocumentingcode/cmdargs/internal/metadata"
)

// Text is a one-directional cursor over the whitespace-separated,
// quote-aware tokens of an invocation line, paired with the declared
// parameters of the command it targets.
type Text struct {
	command *metadata.Command
	tokens  []string

	paramIndex int
	tokenIndex int
}

// NewText tokenizes line and binds the cursor to the command's declared
// parameter sequence.
func NewText(command *metadata.Command, line string) *Text {
	return &Text{
		command:    command,
		tokens:     Tokenize(line),
		paramIndex: -1,
		tokenIndex: -1,
	}
}

// NewTokens binds a cursor to an already-split token sequence.
func NewTokens(command *metadata.Command, tokens []string) *Text {
	return &Text{
		command:    command,
		tokens:     tokens,
		paramIndex: -1,
		tokenIndex: -1,
	}
}

// NextParameter advances to the next declared parameter.
func (c *Text) NextParameter() bool {
	if c.paramIndex+1 >= len(c.command.Parameters) {
		return false
	}
	c.paramIndex++
	return true
}

// NextArgument advances to the next raw token.
func (c *Text) NextArgument() bool {
	if c.tokenIndex+1 >= len(c.tokens) {
		return false
	}
	c.tokenIndex++
	return true
}

// Command returns the command this cursor is bound to.
func (c *Text) Command() *metadata.Command {
	return c.command
}

// Parameter returns the parameter currently under the cursor.
func (c *Text) Parameter() *metadata.Parameter {
	return c.command.Parameters[c.paramIndex]
}

// Argument returns the raw token currently under the cursor.
func (c *Text) Argument() string {
	return c.tokens[c.tokenIndex]
}

// Exhausted reports whether every raw token has been consumed.
func (c *Text) Exhausted() bool {
	return c.tokenIndex+1 >= len(c.tokens)
}

// Tokenize splits an invocation line on whitespace, honoring double-quoted
// segments and backslash escapes inside them.
func Tokenize(line string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false
	escaped := false
	pending := false

	flush := func() {
		if pending {
			tokens = append(tokens, current.String())
			current.Reset()
			pending = false
		}
	}

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			pending = true
			escaped = false
		case r == '\\' && inQuotes:
			escaped = true
		case r == '"':
			inQuotes = !inQuotes
			pending = true
		case !inQuotes && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			current.WriteRune(r)
			pending = true
		}
	}
	flush()
	return tokens
}
