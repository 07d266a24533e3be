package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPublishQueuesJSON(t *testing.T) {
	h := NewHub()
	h.Publish(map[string]interface{}{"type": "stock_update", "quantity": 3})

	select {
	case msg := <-h.Broadcast:
		var got map[string]interface{}
		if err := json.Unmarshal(msg, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got["type"] != "stock_update" || got["quantity"].(float64) != 3 {
			t.Fatalf("unexpected payload %v", got)
		}
	default:
		t.Fatal("expected a queued message")
	}
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	h := NewHub()
	for i := 0; i < cap(h.Broadcast)+10; i++ {
		h.Publish(map[string]int{"n": i})
	}
	if len(h.Broadcast) != cap(h.Broadcast) {
		t.Fatalf("expected full queue, got %d/%d", len(h.Broadcast), cap(h.Broadcast))
	}
}

func TestRunStops(t *testing.T) {
	h := NewHub()
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()
	h.Stop()
	<-done
	if h.ClientCount() != 0 {
		t.Fatal("expected no clients after stop")
	}
}

func TestJoinAndLeaveReturnAfterStop(t *testing.T) {
	h := NewHub()
	h.Stop()

	done := make(chan bool)
	go func() {
		joined := h.Join(nil)
		h.Leave(nil)
		done <- joined
	}()

	select {
	case joined := <-done:
		if joined {
			t.Fatal("a stopped hub must not accept clients")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Join or Leave blocked on a stopped hub")
	}
}
