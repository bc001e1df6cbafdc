package matching

import (
	"fmt"
	"sync"
	"testing"
)

func TestQueue_Enqueue_Idempotent(t *testing.T) {
	q := NewQueue()

	q.Enqueue("p1", "g5")
	q.Enqueue("p1", "g5")

	if q.Len("g5") != 1 {
		t.Errorf("Expected queue length 1 after duplicate enqueue, got %d", q.Len("g5"))
	}
}

func TestQueue_TryMatch_OldestFirst(t *testing.T) {
	q := NewQueue()

	q.Enqueue("p1", "g5")
	q.Enqueue("p2", "g5")
	q.Enqueue("p3", "g5")

	partner, ok := q.TryMatch("p3", "g5")
	if !ok {
		t.Fatal("TryMatch should find a partner")
	}
	if partner != "p1" {
		t.Errorf("Expected the oldest waiting entry p1, got %s", partner)
	}

	// Both sides of the match are gone, p2 remains.
	if q.Len("g5") != 1 {
		t.Errorf("Expected 1 remaining entry, got %d", q.Len("g5"))
	}
	if !q.Contains("p2", "g5") {
		t.Error("p2 should still be waiting")
	}
}

func TestQueue_TryMatch_ExcludesCaller(t *testing.T) {
	q := NewQueue()
	q.Enqueue("p1", "g5")

	if _, ok := q.TryMatch("p1", "g5"); ok {
		t.Error("TryMatch should never match a participant against itself")
	}
	if !q.Contains("p1", "g5") {
		t.Error("Caller should remain queued when no partner exists")
	}
}

func TestQueue_TryMatch_CohortScoped(t *testing.T) {
	q := NewQueue()
	q.Enqueue("p1", "g5")
	q.Enqueue("p2", "g9")

	if _, ok := q.TryMatch("p2", "g9"); ok {
		t.Error("TryMatch must not cross cohort boundaries")
	}
}

func TestQueue_Leave(t *testing.T) {
	q := NewQueue()
	q.Enqueue("p1", "g5")
	q.Enqueue("p2", "g5")

	q.Leave("p1", "g5")

	if q.Contains("p1", "g5") {
		t.Error("p1 should be gone after Leave")
	}
	if !q.Contains("p2", "g5") {
		t.Error("Leave should not disturb other entries")
	}

	// Leaving twice is harmless.
	q.Leave("p1", "g5")
}

// TestQueue_ConcurrentTryMatch_NoDoubleBooking spins many concurrent match
// attempts against a single waiting entry; exactly one may win it.
func TestQueue_ConcurrentTryMatch_NoDoubleBooking(t *testing.T) {
	q := NewQueue()
	q.Enqueue("waiter", "g5")

	const attempts = 50
	for i := 0; i < attempts; i++ {
		q.Enqueue(fmt.Sprintf("caller%d", i), "g5")
	}

	var wg sync.WaitGroup
	winners := make(chan string, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if partner, ok := q.TryMatch(id, "g5"); ok && partner == "waiter" {
				winners <- id
			}
		}(fmt.Sprintf("caller%d", i))
	}
	wg.Wait()
	close(winners)

	count := 0
	for range winners {
		count++
	}
	if count != 1 {
		t.Errorf("Expected exactly one caller to win the waiting entry, got %d", count)
	}
}
