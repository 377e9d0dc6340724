package sqlstore

import (
	"sync"
	"testing"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadReturnsNoneForUnknownID(t *testing.T) {
	store := openTestStore(t)
	_, ok, err := store.Load(chatmodel.NewSessionId())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ok {
		t.Fatal("Load() ok = true for an unknown session id")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	store := openTestStore(t)
	id := chatmodel.NewSessionId()
	transcript := session.Transcript{Messages: []chatmodel.ChatMessage{
		chatmodel.NewUserMessage("hi"),
		chatmodel.NewAssistantMessage("hello", nil),
	}}

	if err := store.Save(id, transcript); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, ok, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !ok {
		t.Fatal("Load() ok = false after Save")
	}
	if len(got.Messages) != 2 || got.Messages[1].Content != "hello" {
		t.Fatalf("got %+v", got.Messages)
	}
}

func TestSaveUpsertsExistingRow(t *testing.T) {
	store := openTestStore(t)
	id := chatmodel.NewSessionId()

	if err := store.Save(id, session.Transcript{Messages: []chatmodel.ChatMessage{chatmodel.NewUserMessage("first")}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(id, session.Transcript{Messages: []chatmodel.ChatMessage{chatmodel.NewUserMessage("second")}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, ok, err := store.Load(id)
	if err != nil || !ok {
		t.Fatalf("Load() ok=%v err=%v", ok, err)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "second" {
		t.Fatalf("expected the upsert to replace the row, got %+v", got.Messages)
	}
}

func TestConcurrentWritersToDistinctSessions(t *testing.T) {
	store := openTestStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := chatmodel.NewSessionId()
			transcript := session.Transcript{Messages: []chatmodel.ChatMessage{chatmodel.NewUserMessage("hi")}}
			if err := store.Save(id, transcript); err != nil {
				t.Errorf("Save() error = %v", err)
				return
			}
			if _, ok, err := store.Load(id); err != nil || !ok {
				t.Errorf("Load() ok=%v err=%v", ok, err)
			}
		}()
	}
	wg.Wait()
}
