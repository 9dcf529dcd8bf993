/*
Package relay contains the core logic of the chat relay.

This file implements the slash-command interpreter. Commands are recognized by
case-insensitive prefix in a fixed priority order and bypass the normal
submission policy entirely.
*/
package relay

import "strings"

// CommandKind identifies the recognized slash-commands.
type CommandKind int

const (
	// CommandNone means the text is an ordinary message.
	CommandNone CommandKind = iota

	// CommandSetSymbol replaces the caller's display glyph with free text.
	CommandSetSymbol

	// CommandReset clears the message log and the seen-users registry for
	// everyone.
	CommandReset

	// CommandInfo logs a diagnostic line with the caller's identity.
	CommandInfo

	// CommandUnknown is any other slash-prefixed text, ignored silently.
	CommandUnknown
)

// Command is a decoded slash-command.
type Command struct {
	Kind CommandKind

	// Arg carries the command argument, currently only the replacement glyph
	// for CommandSetSymbol.
	Arg string
}

// commandMatchers lists the recognized prefixes in priority order. The first
// matching entry wins; the bare "/" fallback must stay last.
var commandMatchers = []struct {
	prefix string
	kind   CommandKind
}{
	{"/n", CommandSetSymbol},
	{"/reset", CommandReset},
	{"/info", CommandInfo},
	{"/", CommandUnknown},
}

// ParseCommand decodes the raw submitted text into a Command. Matching is
// case-insensitive on the prefix only; the remainder keeps its original
// casing.
func ParseCommand(text string) Command {
	lower := strings.ToLower(text)

	for _, matcher := range commandMatchers {
		if !strings.HasPrefix(lower, matcher.prefix) {
			continue
		}

		cmd := Command{Kind: matcher.kind}
		if matcher.kind == CommandSetSymbol {
			cmd.Arg = strings.TrimSpace(text[len(matcher.prefix):])
		}
		return cmd
	}

	return Command{Kind: CommandNone}
}
