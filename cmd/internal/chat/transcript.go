package chat

// Transcript tracks what one open session has already shown: the monotonic
// watermark (highest id incorporated) and the registry of rendered ids.
//
// Ownership model:
//   - The session coordinator goroutine is the only caller. The poller never
//     touches a Transcript; it publishes candidates over a channel and keeps
//     its own private cursor.
//
// The seen set is independent of the watermark: clearing a conversation
// invalidates rendered history without resetting the watermark, so membership
// cannot be derived from the ceiling alone.
type Transcript struct {
	watermark int64
	seen      map[int64]struct{}
}

// NewTranscript returns an empty transcript with watermark 0.
func NewTranscript() *Transcript {
	return &Transcript{seen: make(map[int64]struct{})}
}

// Mark records id as rendered and advances the watermark.
// It returns false if the id was already rendered; callers must skip the
// render in that case. The watermark advances either way.
func (t *Transcript) Mark(id int64) bool {
	if id > t.watermark {
		t.watermark = id
	}
	if _, dup := t.seen[id]; dup {
		return false
	}
	t.seen[id] = struct{}{}
	return true
}

// Seen reports whether id has been rendered this session.
func (t *Transcript) Seen(id int64) bool {
	_, ok := t.seen[id]
	return ok
}

// Watermark returns the highest id observed so far (0 if none).
func (t *Transcript) Watermark() int64 { return t.watermark }

// Clear empties the rendered-id registry. The watermark is left alone:
// ids are never reused server-side, so this is memory hygiene after a
// conversation wipe, not a correctness reset.
func (t *Transcript) Clear() {
	t.seen = make(map[int64]struct{})
}
