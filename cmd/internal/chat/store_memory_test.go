package chat

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryStore_InsertAssignsIncreasingIDs(t *testing.T) {
	t.Parallel()

	st := NewInMemoryStore()
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		res, err := st.Insert(ctx, InsertInput{SenderID: "11111111", RecipientID: "22222222", Body: "m"})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if res.ID <= last {
			t.Fatalf("id %d not greater than previous %d", res.ID, last)
		}
		last = res.ID
	}
}

func TestInMemoryStore_InsertRejectsBlankBody(t *testing.T) {
	t.Parallel()

	st := NewInMemoryStore()
	if _, err := st.Insert(context.Background(), InsertInput{SenderID: "11111111", RecipientID: "22222222", Body: "  \n "}); err == nil {
		t.Fatalf("expected error for blank body")
	}
}

func TestInMemoryStore_FetchSinceFiltersByConversationAndWatermark(t *testing.T) {
	t.Parallel()

	st := NewInMemoryStore()
	ctx := context.Background()

	mustInsert(t, st, "11111111", "22222222", "a->b")
	second := mustInsert(t, st, "22222222", "11111111", "b->a")
	mustInsert(t, st, "11111111", "33333333", "a->c")

	all, err := st.FetchSince(ctx, FetchSinceInput{UserA: "11111111", UserB: "22222222"})
	if err != nil {
		t.Fatalf("FetchSince: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d messages, want 2 (other conversation excluded)", len(all))
	}

	tail, err := st.FetchSince(ctx, FetchSinceInput{UserA: "22222222", UserB: "11111111", AfterID: second.ID - 1})
	if err != nil {
		t.Fatalf("FetchSince after: %v", err)
	}
	if len(tail) != 1 || tail[0].Body != "b->a" {
		t.Fatalf("watermark filter wrong: %+v", tail)
	}
}

func TestInMemoryStore_DeleteConversationIsBidirectional(t *testing.T) {
	t.Parallel()

	st := NewInMemoryStore()
	ctx := context.Background()

	mustInsert(t, st, "11111111", "22222222", "a->b")
	mustInsert(t, st, "22222222", "11111111", "b->a")
	mustInsert(t, st, "11111111", "33333333", "a->c")

	if err := st.DeleteConversation(ctx, "22222222", "11111111"); err != nil {
		t.Fatalf("DeleteConversation: %v", err)
	}

	gone, err := st.FetchAll(ctx, "11111111", "22222222")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(gone) != 0 {
		t.Fatalf("conversation not emptied: %d rows", len(gone))
	}

	kept, err := st.FetchAll(ctx, "11111111", "33333333")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(kept) != 1 {
		t.Fatalf("unrelated conversation touched: %d rows", len(kept))
	}
}

func TestInMemoryStore_LatestPerPartner(t *testing.T) {
	t.Parallel()

	st := NewInMemoryStore()
	ctx := context.Background()
	base := time.Now().UTC()

	_, _ = st.Insert(ctx, InsertInput{SenderID: "11111111", RecipientID: "22222222", Body: "old to b", Now: base.Add(-3 * time.Hour)})
	_, _ = st.Insert(ctx, InsertInput{SenderID: "22222222", RecipientID: "11111111", Body: "newest from b", Now: base.Add(-1 * time.Hour)})
	_, _ = st.Insert(ctx, InsertInput{SenderID: "33333333", RecipientID: "11111111", Body: "from c", Now: base.Add(-2 * time.Hour)})

	heads, err := st.LatestPerPartner(ctx, "11111111", 10)
	if err != nil {
		t.Fatalf("LatestPerPartner: %v", err)
	}
	if len(heads) != 2 {
		t.Fatalf("got %d heads, want 2", len(heads))
	}
	if heads[0].PartnerID != "22222222" || heads[0].LastBody != "newest from b" {
		t.Fatalf("newest conversation not first: %+v", heads[0])
	}
	if heads[1].PartnerID != "33333333" {
		t.Fatalf("second head wrong: %+v", heads[1])
	}

	one, err := st.LatestPerPartner(ctx, "11111111", 1)
	if err != nil {
		t.Fatalf("LatestPerPartner limit: %v", err)
	}
	if len(one) != 1 || one[0].PartnerID != "22222222" {
		t.Fatalf("limit truncation wrong: %+v", one)
	}
}

func TestInMemoryStore_ClearInboxOnlyRemovesIncoming(t *testing.T) {
	t.Parallel()

	st := NewInMemoryStore()
	ctx := context.Background()

	mustInsert(t, st, "22222222", "11111111", "incoming")
	mustInsert(t, st, "11111111", "22222222", "outgoing")

	if err := st.ClearInbox(ctx, "11111111"); err != nil {
		t.Fatalf("ClearInbox: %v", err)
	}

	rest, err := st.FetchAll(ctx, "11111111", "22222222")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(rest) != 1 || rest[0].Body != "outgoing" {
		t.Fatalf("clear inbox removed the wrong rows: %+v", rest)
	}
}
