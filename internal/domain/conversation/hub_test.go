package conversation

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Notification delivery races against socket teardown in production:
// the hub must serialize user fan-out with unregister so it never
// iterates a map being mutated or sends on a closed Send channel.
func TestSendToUserDuringDisconnect(t *testing.T) {
	hub := NewHubWithInstanceID(nil, "test-instance")
	go hub.Run()
	defer hub.Shutdown()

	userID := uuid.New()

	for round := 0; round < 20; round++ {
		conns := make([]*Connection, 0, 10)
		for i := 0; i < 10; i++ {
			c := &Connection{UserID: userID, Send: make(chan []byte, 1)}
			hub.Register(c)
			conns = append(conns, c)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if err := hub.SendToUserJSON(userID, map[string]string{"kind": "new_message"}); err != nil {
					t.Errorf("SendToUserJSON: %v", err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for _, c := range conns {
				hub.Unregister(c)
			}
		}()
		wg.Wait()
	}

	// The last unregister may still be in flight inside Run.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("connections left after teardown: %d", hub.ConnectionCount())
		}
		time.Sleep(time.Millisecond)
	}
}
