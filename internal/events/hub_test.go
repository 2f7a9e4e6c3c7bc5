package events

import (
	"context"
	"strings"
	"testing"
)

func TestHubFiltersAtPublish(t *testing.T) {
	h := NewHub()
	mine := h.SubscribeFunc(func(e Event) bool { return e.PostedBy == "a1" })
	all := h.Subscribe()
	defer h.Unsubscribe(mine)
	defer h.Unsubscribe(all)

	evt := MakeEvent("", TypeJobCreated, 1, map[string]string{"job_id": "j1"})
	evt.PostedBy = "a2"
	h.Publish(evt)

	select {
	case <-mine:
		t.Fatal("filtered subscriber received another admin's event")
	default:
	}
	select {
	case got := <-all:
		if got.Type != TypeJobCreated {
			t.Fatalf("type = %q", got.Type)
		}
	default:
		t.Fatal("unfiltered subscriber missed the event")
	}
}

func TestHubDropsWhenFull(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	for i := 0; i < 50; i++ {
		h.Publish(MakeEvent("", TypePing, 1, nil))
	}
	if len(ch) != cap(ch) {
		t.Fatalf("buffer holds %d, want %d", len(ch), cap(ch))
	}
	h.Unsubscribe(ch)
	h.Unsubscribe(ch) // second call is a no-op
	if h.Len() != 0 {
		t.Fatalf("hub still has %d clients", h.Len())
	}
}

func TestEventEnvelope(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	evt := MakeEvent(RequestIDFrom(ctx), TypeJobDeleted, 1, map[string]string{"job_id": "j1"})
	evt.PostedBy = "secret"
	s := evt.String()
	if want := `"request_id":"req-1"`; !strings.Contains(s, want) {
		t.Fatalf("%s missing %s", s, want)
	}
	if strings.Contains(s, "secret") {
		t.Fatalf("PostedBy leaked into %s", s)
	}
	if !evt.IsJobChange() || MakeEvent("", TypePing, 1, nil).IsJobChange() {
		t.Fatal("IsJobChange misclassified")
	}
}

