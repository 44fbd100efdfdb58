package chat

import "time"

// RenderClass is the emphasis class of a rendered line.
type RenderClass int

const (
	// RenderNeutral is for diagnostics and session chrome.
	RenderNeutral RenderClass = iota
	// RenderSent marks the user's own messages.
	RenderSent
	// RenderReceived marks the partner's messages.
	RenderReceived
)

// Renderer is the terminal boundary the session writes through. The session
// coordinator goroutine is the only caller, so implementations need no
// locking of their own.
type Renderer interface {
	// Message renders one chat message with its speaker label and timestamp.
	Message(label, body string, ts time.Time, class RenderClass)

	// Notice renders a single neutral or diagnostic line.
	Notice(text string)

	// Prompt renders an inline question without a trailing newline.
	Prompt(text string)
}
