package chat

import "strings"

// Command is a single-token control entry typed instead of a message.
type Command int

const (
	// CommandNone means the entry is not a command.
	CommandNone Command = iota
	// CommandReload requests a synchronous fetch of unseen messages.
	CommandReload
	// CommandClear requests deletion of the whole conversation.
	CommandClear
	// CommandQuit ends the session.
	CommandQuit
)

// commandTokens maps the recognized first-line tokens (long and short forms)
// to commands. Matching is case-insensitive on the trimmed line.
var commandTokens = map[string]Command{
	"reload": CommandReload,
	"r":      CommandReload,
	"clear":  CommandClear,
	"c":      CommandClear,
	"quit":   CommandQuit,
	"q":      CommandQuit,
	"=":      CommandQuit,
}

// EntryKind discriminates completed composer output.
type EntryKind int

const (
	// EntryCommand is a recognized control command.
	EntryCommand EntryKind = iota
	// EntryMessage is a completed non-empty message body.
	EntryMessage
)

// Entry is a completed unit of input: either a command or a message body.
type Entry struct {
	Kind    EntryKind
	Command Command
	Body    string
}

// Composer assembles raw input lines into commands or multi-line message
// bodies.
//
// Rules:
//   - A command token on the first line of an entry is a command. The same
//     token after composition has begun is ordinary content.
//   - A blank line immediately after another blank line terminates the body;
//     a single blank line is kept (intentional paragraph break).
//   - The finished body is the newline-joined lines with surrounding
//     whitespace trimmed; an all-whitespace body is discarded and composition
//     restarts.
//
// Composer is not safe for concurrent use; the session coordinator feeds it
// from a single goroutine.
type Composer struct {
	lines []string
}

// Feed consumes one raw input line. It returns a completed Entry and true
// when the line finished an entry, or a zero Entry and false while
// composition continues (including the silent restart after an
// all-whitespace body).
func (c *Composer) Feed(line string) (Entry, bool) {
	if len(c.lines) == 0 {
		if cmd, ok := commandTokens[strings.ToLower(strings.TrimSpace(line))]; ok {
			return Entry{Kind: EntryCommand, Command: cmd}, true
		}
	}

	if line == "" && len(c.lines) > 0 && c.lines[len(c.lines)-1] == "" {
		// Double blank: drop the trailing blank and finish.
		body := strings.TrimSpace(strings.Join(c.lines[:len(c.lines)-1], "\n"))
		c.lines = nil
		if body == "" {
			return Entry{}, false
		}
		return Entry{Kind: EntryMessage, Body: body}, true
	}

	c.lines = append(c.lines, line)
	return Entry{}, false
}

// Composing reports whether at least one line has been accumulated.
func (c *Composer) Composing() bool { return len(c.lines) > 0 }

// Reset discards any partially composed entry.
func (c *Composer) Reset() { c.lines = nil }
