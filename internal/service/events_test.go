package service

import (
	"strings"
	"testing"
	"time"
)

func TestHub_SendToUser_ReachesAllSessions(t *testing.T) {
	hub := NewLibraryHub()
	defer hub.Close()

	tab1 := hub.Subscribe("user:alice", "sub-1")
	tab2 := hub.Subscribe("user:alice", "sub-2")

	hub.SendToUser("user:alice", NewLibraryChangeEvent(LibraryAdded, "library_entry:1", "game:zelda"))

	for _, sub := range []*Subscriber{tab1, tab2} {
		select {
		case event := <-sub.Events:
			if event.Type != EventLibraryChanged {
				t.Errorf("expected library.changed, got %s", event.Type)
			}
			data, ok := event.Data.(map[string]string)
			if !ok {
				t.Fatalf("unexpected data type %T", event.Data)
			}
			if data["kind"] != "added" || data["game_id"] != "game:zelda" {
				t.Errorf("unexpected event data: %v", data)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s never received the event", sub.ID)
		}
	}
}

func TestHub_SendToUser_DoesNotCrossUsers(t *testing.T) {
	hub := NewLibraryHub()
	defer hub.Close()

	alice := hub.Subscribe("user:alice", "sub-1")
	bob := hub.Subscribe("user:bob", "sub-1")

	hub.SendToUser("user:alice", NewLibraryChangeEvent(LibraryRemoved, "library_entry:1", "game:zelda"))

	select {
	case <-alice.Events:
	case <-time.After(time.Second):
		t.Fatal("alice never received the event")
	}

	select {
	case event := <-bob.Events:
		t.Errorf("bob received alice's event: %v", event)
	default:
	}
}

func TestHub_SendToUnknownUser_IsNoop(t *testing.T) {
	hub := NewLibraryHub()
	defer hub.Close()

	// Must not panic or block with no subscribers registered
	hub.SendToUser("user:ghost", NewLibraryChangeEvent(LibraryAdded, "library_entry:1", "game:zelda"))
}

func TestHub_Unsubscribe_ClosesChannels(t *testing.T) {
	hub := NewLibraryHub()
	defer hub.Close()

	sub := hub.Subscribe("user:alice", "sub-1")
	hub.Unsubscribe("user:alice", "sub-1")

	select {
	case <-sub.Done:
	default:
		t.Error("expected Done to be closed after unsubscribe")
	}

	if _, open := <-sub.Events; open {
		t.Error("expected Events to be closed after unsubscribe")
	}

	if count := hub.SubscriberCount("user:alice"); count != 0 {
		t.Errorf("expected 0 subscribers, got %d", count)
	}
}

func TestHub_FullBuffer_DropsInsteadOfBlocking(t *testing.T) {
	hub := NewLibraryHub()
	defer hub.Close()

	sub := hub.Subscribe("user:alice", "sub-1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Nobody drains the channel; sends past the buffer must not block
		for i := 0; i < cap(sub.Events)+10; i++ {
			hub.SendToUser("user:alice", NewLibraryChangeEvent(LibraryUpdated, "library_entry:1", "game:zelda"))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("SendToUser blocked on a full subscriber buffer")
	}

	if len(sub.Events) != cap(sub.Events) {
		t.Errorf("expected buffer full at %d, got %d", cap(sub.Events), len(sub.Events))
	}
}

func TestHub_SubscriberCount(t *testing.T) {
	hub := NewLibraryHub()
	defer hub.Close()

	hub.Subscribe("user:alice", "sub-1")
	hub.Subscribe("user:alice", "sub-2")
	hub.Subscribe("user:bob", "sub-1")

	if count := hub.SubscriberCount("user:alice"); count != 2 {
		t.Errorf("expected 2 subscribers for alice, got %d", count)
	}
	if count := hub.SubscriberCount("user:ghost"); count != 0 {
		t.Errorf("expected 0 subscribers for unknown user, got %d", count)
	}
}

func TestHub_Close_ShutsDownAllSubscribers(t *testing.T) {
	hub := NewLibraryHub()

	sub := hub.Subscribe("user:alice", "sub-1")
	hub.Close()

	select {
	case <-sub.Done:
	default:
		t.Error("expected Done to be closed after hub close")
	}
}

func TestEvent_Format_SSEWireShape(t *testing.T) {
	event := NewLibraryChangeEvent(LibraryAdded, "library_entry:1", "game:zelda")

	formatted := event.Format()

	if !strings.HasPrefix(formatted, "event: library.changed\n") {
		t.Errorf("unexpected event line: %q", formatted)
	}
	if !strings.Contains(formatted, `"kind":"added"`) {
		t.Errorf("expected kind in data payload: %q", formatted)
	}
	if !strings.HasSuffix(formatted, "\n\n") {
		t.Error("SSE frames end with a blank line")
	}
}
