package room

import (
	"testing"
	"time"

	"github.com/maxiusi3/wordchallenge-sub000/models"
)

func TestAssignRoles_Deterministic(t *testing.T) {
	forward := AssignRoles("alice", "bob")
	backward := AssignRoles("bob", "alice")

	if forward["alice"] != RoleA || forward["bob"] != RoleB {
		t.Errorf("Expected alice=A bob=B, got %v", forward)
	}

	// Argument order must not matter: both sides compute the same mapping.
	for id, role := range forward {
		if backward[id] != role {
			t.Errorf("Role for %s differs by argument order: %s vs %s", id, role, backward[id])
		}
	}

	if forward["alice"] == forward["bob"] {
		t.Error("The two participants must receive distinct roles")
	}
}

func TestStore_Create(t *testing.T) {
	store := NewStore()

	room, err := store.Create("g5", "p1", "p2")
	if err != nil {
		t.Fatalf("Create should not fail: %v", err)
	}
	if room.Status() != StatusWaiting {
		t.Errorf("New room should be waiting, got %v", room.Status())
	}
	if room.Level() != 1 {
		t.Errorf("New room should start at level 1, got %d", room.Level())
	}

	got, exists := store.Get(room.ID)
	if !exists || got != room {
		t.Fatal("Get should return the created room")
	}
}

func TestStore_Create_Capacity(t *testing.T) {
	store := NewStore()

	cases := [][2]string{
		{"p1", "p1"},
		{"", "p2"},
		{"p1", ""},
	}
	for _, c := range cases {
		if _, err := store.Create("g5", c[0], c[1]); err != ErrCapacity {
			t.Errorf("Create(%q, %q) should fail with ErrCapacity, got: %v", c[0], c[1], err)
		}
	}
}

func TestRoom_Opponent(t *testing.T) {
	store := NewStore()
	room, _ := store.Create("g5", "p1", "p2")

	opp, ok := room.Opponent("p1")
	if !ok || opp != "p2" {
		t.Errorf("Expected opponent p2, got %s", opp)
	}
	opp, ok = room.Opponent("p2")
	if !ok || opp != "p1" {
		t.Errorf("Expected opponent p1, got %s", opp)
	}
	if _, ok := room.Opponent("stranger"); ok {
		t.Error("A non-member has no opponent")
	}
}

func TestRoom_ReadyHandshake(t *testing.T) {
	store := NewStore()
	room, _ := store.Create("g5", "p1", "p2")

	if room.SetReady("p1") {
		t.Error("One ready signal should not complete the handshake")
	}
	if room.Activate() {
		t.Error("Activate should fail before both sides are ready")
	}

	if !room.SetReady("p2") {
		t.Error("Second ready signal should complete the handshake")
	}
	if !room.Activate() {
		t.Error("Activate should succeed once both sides are ready")
	}
	if room.Status() != StatusActive {
		t.Errorf("Room should be active, got %v", room.Status())
	}

	// Only the first activation wins.
	if room.Activate() {
		t.Error("A second Activate should be a no-op")
	}
}

func TestRoom_MarkSeen(t *testing.T) {
	store := NewStore()
	room, _ := store.Create("g5", "p1", "p2")

	key := DedupKey("p1", "answerSubmitted", 1000)
	if !room.MarkSeen(key) {
		t.Error("First MarkSeen for a key should return true")
	}
	if room.MarkSeen(key) {
		t.Error("Second MarkSeen for the same key should return false")
	}
}

func TestRoom_ResolveAnswer(t *testing.T) {
	store := NewStore()
	room, _ := store.Create("g5", "p1", "p2")
	q := models.Question{ID: "q1", Answer: "cat"}
	room.SetQuestion("p1", q, 3)

	// First wrong attempt burns one try.
	finalized, left, score, ok := room.ResolveAnswer("p1", "q1", false, 10)
	if !ok || finalized || left != 2 || score != 0 {
		t.Errorf("Wrong attempt: finalized=%v left=%d score=%d ok=%v", finalized, left, score, ok)
	}

	// Correct answer finalizes immediately and scores.
	finalized, _, score, ok = room.ResolveAnswer("p1", "q1", true, 10)
	if !ok || !finalized || score != 10 {
		t.Errorf("Correct answer: finalized=%v score=%d ok=%v", finalized, score, ok)
	}

	// A submission for a question that is no longer current is ignored.
	room.SetQuestion("p1", models.Question{ID: "q2", Answer: "dog"}, 3)
	if _, _, _, ok := room.ResolveAnswer("p1", "q1", true, 10); ok {
		t.Error("Stale question submissions must not be applied")
	}
}

func TestRoom_ResolveAnswer_AttemptsExhausted(t *testing.T) {
	store := NewStore()
	room, _ := store.Create("g5", "p1", "p2")
	room.SetQuestion("p1", models.Question{ID: "q1", Answer: "cat"}, 2)

	finalized, _, _, _ := room.ResolveAnswer("p1", "q1", false, 10)
	if finalized {
		t.Error("One attempt left, should not be finalized yet")
	}
	finalized, left, score, _ := room.ResolveAnswer("p1", "q1", false, 10)
	if !finalized || left != 0 {
		t.Errorf("Exhausting attempts should finalize the question as wrong, finalized=%v left=%d", finalized, left)
	}
	if score != 0 {
		t.Errorf("A question finalized as wrong must not score, got %d", score)
	}
}

func TestRoom_EndLevel(t *testing.T) {
	store := NewStore()
	room, _ := store.Create("g5", "p1", "p2")
	room.SetReady("p1")
	room.SetReady("p2")
	room.Activate()
	room.SetQuestion("p1", models.Question{ID: "q1", Answer: "cat"}, 3)
	room.ResolveAnswer("p1", "q1", true, 10)

	next, finished, ok := room.EndLevel(1, "p1", 3)
	if !ok || finished || next != 2 {
		t.Fatalf("EndLevel(1): next=%d finished=%v ok=%v", next, finished, ok)
	}
	if room.LevelWins()["p1"] != 1 {
		t.Errorf("Expected one level win for p1, got %d", room.LevelWins()["p1"])
	}
	// Scores reset for the new level.
	if room.Score("p1") != 0 {
		t.Errorf("Score should reset on level advance, got %d", room.Score("p1"))
	}

	// A late duplicate report for level 1 is a no-op.
	if _, _, ok := room.EndLevel(1, "p2", 3); ok {
		t.Error("A stale EndLevel for a past level must be rejected")
	}
	if room.LevelWins()["p2"] != 0 {
		t.Error("A stale EndLevel must not change the win tally")
	}
}

func TestRoom_EndLevel_FinalLevel(t *testing.T) {
	store := NewStore()
	room, _ := store.Create("g5", "p1", "p2")
	room.SetReady("p1")
	room.SetReady("p2")
	room.Activate()

	room.EndLevel(1, "p1", 3)
	room.EndLevel(2, "p2", 3)
	_, finished, ok := room.EndLevel(3, "p1", 3)
	if !ok || !finished {
		t.Fatalf("Ending the final level should finish the room, finished=%v ok=%v", finished, ok)
	}
	if room.Status() != StatusFinished {
		t.Errorf("Room should be finished, got %v", room.Status())
	}

	// The opponent's later report for the same level is a no-op.
	if _, _, ok := room.EndLevel(3, "p2", 3); ok {
		t.Error("EndLevel on a finished room must be a no-op")
	}
}

func TestStore_SweepExpired(t *testing.T) {
	store := NewStore()
	fresh, _ := store.Create("g5", "p1", "p2")
	stale, _ := store.Create("g5", "p3", "p4")
	stale.CreatedAt = time.Now().Add(-time.Hour)

	removed := store.SweepExpired(30 * time.Minute)
	if len(removed) != 1 || removed[0] != stale {
		t.Fatalf("Expected only the stale room to be swept, got %d rooms", len(removed))
	}
	if _, exists := store.Get(stale.ID); exists {
		t.Error("Swept room should be gone from the store")
	}
	if _, exists := store.Get(fresh.ID); !exists {
		t.Error("Fresh room should survive the sweep")
	}
}

func TestRoom_FinishOnce(t *testing.T) {
	store := NewStore()
	room, _ := store.Create("g5", "p1", "p2")

	if !room.FinishOnce() {
		t.Error("First FinishOnce should win")
	}
	if room.FinishOnce() {
		t.Error("Second FinishOnce should report already finished")
	}
	if room.Status() != StatusFinished {
		t.Errorf("Room should be finished, got %v", room.Status())
	}
}
