package chat

import (
	"context"
	"log/slog"
	"time"
)

// DefaultPollInterval is the fixed sleep between store queries. Polling is a
// deliberate choice over push delivery to keep server load flat.
const DefaultPollInterval = time.Second

// Poller is the per-session background task that repeatedly queries the
// store for messages newer than its cursor and publishes each one on its
// output channel.
//
// Concurrency model:
//   - The poller owns a private cursor seeded from the session's watermark at
//     start. It never reads or writes session state; discovered messages flow
//     one way over Messages(). Duplicate suppression is the consumer's job.
//   - Cancellation is cooperative via the context passed to Start. The check
//     precedes the sleep, so shutdown latency is bounded by one fetch, not
//     one fetch plus one interval.
//   - Every fetch failure is absorbed as "no new messages this cycle"; the
//     poller only terminates on cancellation.
type Poller struct {
	log       *slog.Logger
	store     MessageStore
	selfID    string
	partnerID string
	interval  time.Duration

	cursor int64
	out    chan Message
	done   chan struct{}
}

// NewPoller constructs a poller whose first query asks for messages with
// id > afterID. A non-positive interval falls back to DefaultPollInterval.
func NewPoller(log *slog.Logger, store MessageStore, selfID, partnerID string, afterID int64, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		log:       log,
		store:     store,
		selfID:    selfID,
		partnerID: partnerID,
		interval:  interval,
		cursor:    afterID,
		out:       make(chan Message, 64),
		done:      make(chan struct{}),
	}
}

// Start launches the poll loop. The returned channel carries discovered
// messages in ascending id order and is closed when the loop exits.
func (p *Poller) Start(ctx context.Context) <-chan Message {
	go p.loop(ctx)
	return p.out
}

// Messages returns the delivery channel (same channel Start returns).
func (p *Poller) Messages() <-chan Message { return p.out }

// Done is closed once the loop has observed cancellation and exited.
func (p *Poller) Done() <-chan struct{} { return p.done }

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)
	defer close(p.out)

	for {
		if ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(p.interval):
		}

		msgs, err := p.store.FetchSince(ctx, FetchSinceInput{
			UserA:   p.selfID,
			UserB:   p.partnerID,
			AfterID: p.cursor,
		})
		if err != nil {
			// Transient failures are indistinguishable from "nothing new".
			p.log.Debug("poll.fetch.fail", "partner", p.partnerID, "after_id", p.cursor, "err", err)
			continue
		}

		for _, m := range msgs {
			if m.ID > p.cursor {
				p.cursor = m.ID
			}
			select {
			case p.out <- m:
			case <-ctx.Done():
				return
			}
		}
	}
}
