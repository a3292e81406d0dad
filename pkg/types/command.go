package types

import "strings"

// CommandSpec is an immutable, ordered list of command tokens. Tokens that
// carry user values are already shell-quoted.
type CommandSpec struct {
	tokens []string
}

// NewCommandSpec copies tokens into a new CommandSpec.
func NewCommandSpec(tokens []string) CommandSpec {
	return CommandSpec{tokens: append([]string(nil), tokens...)}
}

// Tokens returns a copy of the command tokens.
func (c CommandSpec) Tokens() []string {
	return append([]string(nil), c.tokens...)
}

// IsZero reports whether c holds no tokens.
func (c CommandSpec) IsZero() bool {
	return len(c.tokens) == 0
}

// String joins the tokens with single spaces, ready to hand to a shell.
func (c CommandSpec) String() string {
	return strings.Join(c.tokens, " ")
}
