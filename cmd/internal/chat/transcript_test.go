package chat

import "testing"

func TestTranscript_MarkAdvancesWatermark(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	if tr.Watermark() != 0 {
		t.Fatalf("fresh watermark = %d, want 0", tr.Watermark())
	}

	if !tr.Mark(3) {
		t.Fatalf("first Mark(3) = false, want true")
	}
	if tr.Watermark() != 3 {
		t.Fatalf("watermark = %d, want 3", tr.Watermark())
	}

	// Lower id still renders once, never lowers the watermark.
	if !tr.Mark(2) {
		t.Fatalf("first Mark(2) = false, want true")
	}
	if tr.Watermark() != 3 {
		t.Fatalf("watermark = %d after Mark(2), want 3", tr.Watermark())
	}
}

func TestTranscript_DuplicateSuppressed(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	if !tr.Mark(7) {
		t.Fatalf("first Mark(7) = false")
	}
	if tr.Mark(7) {
		t.Fatalf("second Mark(7) = true, want suppressed")
	}
	if !tr.Seen(7) {
		t.Fatalf("Seen(7) = false after Mark")
	}
}

func TestTranscript_ClearKeepsWatermark(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	tr.Mark(10)
	tr.Mark(11)
	tr.Clear()

	if tr.Seen(10) || tr.Seen(11) {
		t.Fatalf("seen set not emptied by Clear")
	}
	if tr.Watermark() != 11 {
		t.Fatalf("watermark = %d after Clear, want 11", tr.Watermark())
	}
	// A reissued id renders again after a clear.
	if !tr.Mark(11) {
		t.Fatalf("Mark(11) after Clear = false, want true")
	}
}
