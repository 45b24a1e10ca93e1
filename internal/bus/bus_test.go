package bus

import (
	"context"
	"errors"
	"testing"
)

func TestPublishFansOutToAllHandlers(t *testing.T) {
	b := New()
	var first, second []Event
	b.Subscribe(func(_ context.Context, ev Event) { first = append(first, ev) })
	b.Subscribe(func(_ context.Context, ev Event) { second = append(second, ev) })

	ev := Event{Entity: EntityExpense, Action: ActionCreated, UserID: "u1"}
	b.Publish(context.Background(), ev)

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected both handlers called once, got %d and %d", len(first), len(second))
	}
	if first[0] != ev {
		t.Fatalf("unexpected event %+v", first[0])
	}
}

type failingMirror struct{ calls int }

func (m *failingMirror) PublishEntityChanged(context.Context, Event) error {
	m.calls++
	return errors.New("broker down")
}

func TestMirrorFailureDoesNotBlockHandlers(t *testing.T) {
	b := New()
	mirror := &failingMirror{}
	b.SetMirror(mirror)

	handled := 0
	b.Subscribe(func(context.Context, Event) { handled++ })

	b.Publish(context.Background(), Event{Entity: EntityBudget, Action: ActionDeleted, UserID: "u1"})

	if handled != 1 {
		t.Fatalf("expected handler to run, got %d", handled)
	}
	if mirror.calls != 1 {
		t.Fatalf("expected mirror attempted, got %d", mirror.calls)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	New().Publish(context.Background(), Event{Entity: EntityDue, Action: ActionSettled, UserID: "u1"})
}
