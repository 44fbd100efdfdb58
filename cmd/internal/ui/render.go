package ui

import (
	"fmt"
	"io"
	"time"

	"catapult/cmd/internal/chat"
)

// stampLayout is the transcript timestamp format.
const stampLayout = "2006-01-02 15:04"

// Renderer writes styled terminal output. It satisfies chat.Renderer and is
// also used directly by the menu layer.
//
// The session coordinator is the only goroutine writing through a Renderer
// while a chat is open, so there is no internal locking.
type Renderer struct {
	w io.Writer
}

// New constructs a Renderer over w (normally os.Stdout).
func New(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Message renders one chat message with its speaker label and timestamp.
func (r *Renderer) Message(label, body string, ts time.Time, class chat.RenderClass) {
	line := label + ": " + body
	switch class {
	case chat.RenderSent:
		line = sentStyle.Render(line)
	case chat.RenderReceived:
		line = receivedStyle.Render(line)
	}
	fmt.Fprintln(r.w, line)
	if !ts.IsZero() {
		fmt.Fprintln(r.w, stampStyle.Render("  ["+ts.Local().Format(stampLayout)+"]"))
	}
}

// Notice renders a single neutral line.
func (r *Renderer) Notice(text string) {
	fmt.Fprintln(r.w, text)
}

// Prompt renders an inline question without a trailing newline.
func (r *Renderer) Prompt(text string) {
	fmt.Fprint(r.w, text)
}

// Title renders a section heading.
func (r *Renderer) Title(text string) {
	fmt.Fprintln(r.w, titleStyle.Render(text))
}

// Error renders an error line.
func (r *Renderer) Error(text string) {
	fmt.Fprintln(r.w, errorStyle.Render(text))
}

// Success renders a confirmation line.
func (r *Renderer) Success(text string) {
	fmt.Fprintln(r.w, successStyle.Render(text))
}

var _ chat.Renderer = (*Renderer)(nil)
