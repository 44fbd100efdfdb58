package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// DefaultStopGrace bounds how long a closing session waits for its poller to
// observe cancellation before returning control anyway.
const DefaultStopGrace = time.Second

// SessionConfig wires one open chat session.
type SessionConfig struct {
	Log    *slog.Logger
	Store  MessageStore
	Render Renderer

	// Lines carries raw input lines; a closed channel means end-of-input and
	// is treated as quit.
	Lines <-chan string

	SelfID       string
	PartnerID    string
	PartnerLabel string

	PollInterval time.Duration
	StopGrace    time.Duration
}

// session is the coordinator: the single owner of the transcript and the
// only goroutine that renders. The poller and the input reader feed it
// through channels; no other synchronization exists or is needed.
type session struct {
	cfg        SessionConfig
	log        *slog.Logger
	transcript *Transcript
	composer   Composer
}

// Open runs a live chat session with one partner until the user quits or
// input ends. It renders the full history, starts the background poller, and
// then serves the event loop. The returned error is nil on a normal quit;
// only setup failures that preclude a usable session are returned.
func Open(ctx context.Context, cfg SessionConfig) error {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	sid, err := NewSessionID(time.Now())
	if err == nil {
		log = log.With("chat_session", sid, "partner", cfg.PartnerID)
	}

	s := &session{
		cfg:        cfg,
		log:        log,
		transcript: NewTranscript(),
	}
	return s.run(ctx)
}

func (s *session) run(ctx context.Context) error {
	s.cfg.Render.Notice("Chat with " + s.cfg.PartnerLabel + " (" + s.cfg.PartnerID + ")")
	s.cfg.Render.Notice("Commands: [r] Reload  [c] Clear Chat  [q] Quit  (blank line twice sends)")

	s.seedHistory(ctx)

	pollCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()

	poller := NewPoller(s.log, s.cfg.Store, s.cfg.SelfID, s.cfg.PartnerID, s.transcript.Watermark(), s.cfg.PollInterval)
	delivered := poller.Start(pollCtx)

	s.log.Info("session.open", "watermark", s.transcript.Watermark())

	defer func() {
		stopPoller()
		s.waitPoller(poller)
		s.log.Info("session.closed")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case m, ok := <-delivered:
			if !ok {
				// Poller exited under us; only possible via cancellation.
				return nil
			}
			s.deliver(m)

		case line, ok := <-s.cfg.Lines:
			if !ok {
				return nil
			}
			entry, done := s.composer.Feed(line)
			if !done {
				continue
			}
			switch entry.Kind {
			case EntryCommand:
				switch entry.Command {
				case CommandQuit:
					return nil
				case CommandReload:
					s.reload(ctx)
				case CommandClear:
					s.clear(ctx, delivered)
				}
			case EntryMessage:
				s.submit(ctx, entry.Body)
			}
		}
	}
}

// seedHistory renders the full conversation history and seeds the transcript
// from it. A fetch failure degrades to an empty transcript plus a notice;
// the session still opens.
func (s *session) seedHistory(ctx context.Context) {
	history, err := s.cfg.Store.FetchAll(ctx, s.cfg.SelfID, s.cfg.PartnerID)
	if err != nil {
		s.log.Warn("session.history.fail", "err", err)
		s.cfg.Render.Notice("History unavailable: " + err.Error())
		return
	}
	if len(history) == 0 {
		s.cfg.Render.Notice("(No history)")
		return
	}
	for _, m := range history {
		s.deliver(m)
	}
}

// deliver renders a message unless it is already on the transcript. This is
// the single render decision point shared by history seeding, the poller,
// and manual reload.
func (s *session) deliver(m Message) {
	if !s.transcript.Mark(m.ID) {
		return
	}
	if m.SenderID == s.cfg.SelfID {
		s.cfg.Render.Message("You", m.Body, m.CreatedAt, RenderSent)
		return
	}
	s.cfg.Render.Message(s.cfg.PartnerLabel, m.Body, m.CreatedAt, RenderReceived)
}

// submit writes a composed message and echoes it immediately, marking the id
// seen so the poller's later discovery of the same row stays silent.
//
// Known gap: if the insert succeeds server-side but the response is lost,
// the id is never learned here and the poller will render the row a second
// time as if it were new. The transcript cannot suppress an id it was never
// told about.
func (s *session) submit(ctx context.Context, body string) {
	res, err := s.cfg.Store.Insert(ctx, InsertInput{
		SenderID:    s.cfg.SelfID,
		RecipientID: s.cfg.PartnerID,
		Body:        body,
	})
	if err != nil {
		s.log.Warn("session.send.fail", "err", err)
		s.cfg.Render.Notice((&WriteError{Op: "send", Err: err}).Error())
		return
	}
	s.transcript.Mark(res.ID)
	s.cfg.Render.Message("You", body, res.CreatedAt, RenderSent)
	s.log.Debug("session.sent", "msg_id", res.ID)
}

// reload synchronously fetches everything past the watermark and delivers it
// through the usual dedup path. It never erases prior output; it only
// appends.
func (s *session) reload(ctx context.Context) {
	msgs, err := s.cfg.Store.FetchSince(ctx, FetchSinceInput{
		UserA:   s.cfg.SelfID,
		UserB:   s.cfg.PartnerID,
		AfterID: s.transcript.Watermark(),
	})
	if err != nil {
		s.log.Warn("session.reload.fail", "err", err)
		s.cfg.Render.Notice((&WriteError{Op: "reload", Err: err}).Error())
		return
	}
	for _, m := range msgs {
		s.deliver(m)
	}
}

// clear asks for confirmation, wipes the conversation server-side, and
// resets the rendered-id registry. Poller deliveries keep rendering while
// the confirmation is pending; already-printed transcript lines are not
// retroactively erased.
func (s *session) clear(ctx context.Context, delivered <-chan Message) {
	s.cfg.Render.Prompt("Clear chat with this user? This deletes messages for both (y/n): ")

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-delivered:
			if !ok {
				return
			}
			s.deliver(m)
		case line, ok := <-s.cfg.Lines:
			if !ok {
				return
			}
			if strings.ToLower(strings.TrimSpace(line)) != "y" {
				s.cfg.Render.Notice("Clear aborted.")
				return
			}
			if err := s.cfg.Store.DeleteConversation(ctx, s.cfg.SelfID, s.cfg.PartnerID); err != nil {
				s.log.Warn("session.clear.fail", "err", err)
				s.cfg.Render.Notice((&WriteError{Op: "clear chat", Err: err}).Error())
				return
			}
			s.transcript.Clear()
			s.cfg.Render.Notice("Chat cleared.")
			s.log.Info("session.cleared")
			return
		}
	}
}

// waitPoller blocks until the poller acknowledges cancellation or the grace
// period elapses. The session never hangs on a stuck fetch.
func (s *session) waitPoller(p *Poller) {
	grace := s.cfg.StopGrace
	if grace <= 0 {
		grace = DefaultStopGrace
	}
	select {
	case <-p.Done():
	case <-time.After(grace):
		s.log.Warn("session.poller.stop.timeout", "grace", grace)
	}
}
