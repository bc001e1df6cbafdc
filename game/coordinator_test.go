package game

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/maxiusi3/wordchallenge-sub000/broadcast"
	"github.com/maxiusi3/wordchallenge-sub000/logger"
	"github.com/maxiusi3/wordchallenge-sub000/matching"
	"github.com/maxiusi3/wordchallenge-sub000/models"
	"github.com/maxiusi3/wordchallenge-sub000/monitor"
	"github.com/maxiusi3/wordchallenge-sub000/network"
	"github.com/maxiusi3/wordchallenge-sub000/room"
	"github.com/maxiusi3/wordchallenge-sub000/session"
	"github.com/maxiusi3/wordchallenge-sub000/state"
	"github.com/maxiusi3/wordchallenge-sub000/timer"
)

func init() {
	logger.Init()
}

// recordingSink is a test double for the network.Sink interface.
type recordingSink struct {
	mutex     sync.Mutex
	envelopes []*network.Envelope
}

func (s *recordingSink) Deliver(env *network.Envelope) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.envelopes = append(s.envelopes, env)
	return nil
}

func (s *recordingSink) ofType(msgType string) []*network.Envelope {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var out []*network.Envelope
	for _, env := range s.envelopes {
		if env.Type == msgType {
			out = append(out, env)
		}
	}
	return out
}

func (s *recordingSink) last(msgType string) *network.Envelope {
	matches := s.ofType(msgType)
	if len(matches) == 0 {
		return nil
	}
	return matches[len(matches)-1]
}

// waitFor polls until an envelope of the given type arrives or the timeout hits.
func (s *recordingSink) waitFor(msgType string, timeout time.Duration) *network.Envelope {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if env := s.last(msgType); env != nil {
			return env
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

// scriptedQuestions always answers "cat" so tests can score at will.
type scriptedQuestions struct {
	mutex sync.Mutex
	n     int
}

func (s *scriptedQuestions) NextQuestion(cohort string, level int) (models.Question, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.n++
	return models.Question{
		ID:     fmt.Sprintf("q%d-%s", s.n, cohort),
		Cohort: cohort,
		Level:  level,
		Prompt: "Spell the word: cat",
		Answer: "cat",
	}, nil
}

type nopEvents struct{}

func (nopEvents) Dispatch(event string, fields map[string]interface{}) {}

// recordingRecorder is a test double for the MatchRecorder interface.
type recordingRecorder struct {
	mutex     sync.Mutex
	matches   []models.MatchRecord
	snapshots map[string]string // roomID -> state
}

func (r *recordingRecorder) RecordMatch(record models.MatchRecord, results models.GameResults) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.matches = append(r.matches, record)
	return nil
}

func (r *recordingRecorder) SnapshotRoom(roomID, cohort, state string, players map[string]interface{}) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.snapshots == nil {
		r.snapshots = make(map[string]string)
	}
	r.snapshots[roomID] = state
	return nil
}

func (r *recordingRecorder) snapshotState(roomID string) (string, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	s, ok := r.snapshots[roomID]
	return s, ok
}

func defaultTestConfig() Config {
	return Config{
		MatchWaitDeadline:   time.Minute,
		GameCeiling:         time.Minute,
		MaxLevels:           3,
		QuestionsPerLevel:   2,
		AttemptsPerQuestion: 3,
		PointsPerCorrect:    10,
		RoomMaxAge:          time.Hour,
		SweepInterval:       time.Hour,
	}
}

type testEnv struct {
	coordinator *Coordinator
	registry    *session.Registry
	queue       *matching.Queue
	rooms       *room.Store
}

func newTestEnv(t *testing.T, cfg Config) *testEnv {
	t.Helper()

	registry := session.NewRegistry()
	queue := matching.NewQueue()
	rooms := room.NewStore()
	notifier := broadcast.NewNotifier(registry)
	timers := timer.NewManager()
	t.Cleanup(timers.Stop)
	mon := monitor.NewMonitor("test", prometheus.NewRegistry())

	c := NewCoordinator(cfg, registry, queue, rooms, notifier, timers, &scriptedQuestions{}, nopEvents{}, mon, nil)
	return &testEnv{coordinator: c, registry: registry, queue: queue, rooms: rooms}
}

func (e *testEnv) register(t *testing.T, name, cohort string) (*session.Participant, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	p, err := e.coordinator.Register(models.Profile{DisplayName: name, Cohort: cohort}, sink)
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", name, err)
	}
	return p, sink
}

// startGame registers and matches two players and drives them into a game.
func (e *testEnv) startGame(t *testing.T) (pa, pb *session.Participant, sa, sb *recordingSink, rm *room.Room) {
	t.Helper()

	pa, sa = e.register(t, "alice", "g5")
	pb, sb = e.register(t, "bob", "g5")
	e.coordinator.JoinMatching(pa.ID, "g5")
	e.coordinator.JoinMatching(pb.ID, "g5")

	found := sa.last(network.TypeMatchFound)
	if found == nil {
		t.Fatal("alice did not receive matchFound")
	}
	var payload network.MatchFoundPayload
	decodePayload(t, found, &payload)

	rm, exists := e.rooms.Get(payload.RoomID)
	if !exists {
		t.Fatalf("Room %s not found", payload.RoomID)
	}

	e.coordinator.PlayerReady(pa.ID)
	e.coordinator.PlayerReady(pb.ID)
	if rm.Status() != room.StatusActive {
		t.Fatal("Room should be active after both ready signals")
	}
	return pa, pb, sa, sb, rm
}

func decodePayload(t *testing.T, env *network.Envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Payload, v); err != nil {
		t.Fatalf("Failed to decode %s payload: %v", env.Type, err)
	}
}

// answerCurrent submits an answer for the player's most recently served question.
func (e *testEnv) answerCurrent(t *testing.T, p *session.Participant, sink *recordingSink, text string, ts int64) {
	t.Helper()

	env := sink.last(network.TypeQuestion)
	if env == nil {
		t.Fatal("No question served yet")
	}
	var q network.QuestionPayload
	decodePayload(t, env, &q)

	raw, _ := json.Marshal(network.AnswerPayload{QuestionID: q.Question.ID, Answer: text})
	e.coordinator.SubmitAction(p.ID, network.GameActionPayload{
		Kind:            network.ActionAnswerSubmitted,
		Payload:         raw,
		ClientTimestamp: ts,
	})
}

func TestCoordinator_MatchFormation(t *testing.T) {
	env := newTestEnv(t, defaultTestConfig())
	pa, sa := env.register(t, "alice", "g5")
	pb, sb := env.register(t, "bob", "g5")
	pc, sc := env.register(t, "carol", "g9")

	env.coordinator.JoinMatching(pa.ID, "g5")
	env.coordinator.JoinMatching(pc.ID, "g9")
	env.coordinator.JoinMatching(pb.ID, "g5")

	foundA := sa.last(network.TypeMatchFound)
	foundB := sb.last(network.TypeMatchFound)
	if foundA == nil || foundB == nil {
		t.Fatal("Both g5 players should receive matchFound")
	}

	var payloadA, payloadB network.MatchFoundPayload
	decodePayload(t, foundA, &payloadA)
	decodePayload(t, foundB, &payloadB)

	if payloadA.RoomID != payloadB.RoomID {
		t.Errorf("Players landed in different rooms: %s vs %s", payloadA.RoomID, payloadB.RoomID)
	}
	if payloadA.Role == payloadB.Role {
		t.Errorf("Roles must be complementary, both got %s", payloadA.Role)
	}
	if payloadA.Opponent.DisplayName != "bob" || payloadB.Opponent.DisplayName != "alice" {
		t.Error("matchFound should carry the opponent's profile")
	}

	// The third participant in another cohort is untouched.
	if sc.last(network.TypeMatchFound) != nil {
		t.Error("carol (cohort g9) must not be drawn into the g5 room")
	}
	if !env.queue.Contains(pc.ID, "g9") {
		t.Error("carol should still be waiting in her cohort queue")
	}
}

func TestCoordinator_ReadyHandshake(t *testing.T) {
	env := newTestEnv(t, defaultTestConfig())
	pa, sa := env.register(t, "alice", "g5")
	pb, sb := env.register(t, "bob", "g5")
	env.coordinator.JoinMatching(pa.ID, "g5")
	env.coordinator.JoinMatching(pb.ID, "g5")

	env.coordinator.PlayerReady(pa.ID)
	if sa.last(network.TypeGameStart) != nil {
		t.Fatal("Game must not start before both sides are ready")
	}

	env.coordinator.PlayerReady(pb.ID)
	if sa.last(network.TypeGameStart) == nil || sb.last(network.TypeGameStart) == nil {
		t.Fatal("Both players should receive gameStart")
	}
	if sa.last(network.TypeQuestion) == nil || sb.last(network.TypeQuestion) == nil {
		t.Error("Both players should be served their first question")
	}

	if pa.State.Current() != state.InGame {
		t.Errorf("alice should be in_game, got %s", pa.State.Current())
	}
}

func TestCoordinator_ActionRelay_DedupAndNoSelfEcho(t *testing.T) {
	env := newTestEnv(t, defaultTestConfig())
	pa, _, sa, sb, _ := env.startGame(t)

	raw, _ := json.Marshal(network.AnswerPayload{QuestionID: "bogus", Answer: "cat"})
	action := network.GameActionPayload{
		Kind:            network.ActionAnswerSubmitted,
		Payload:         raw,
		ClientTimestamp: 1000,
	}

	// Simulated client retry: the same action twice.
	env.coordinator.SubmitAction(pa.ID, action)
	env.coordinator.SubmitAction(pa.ID, action)

	if got := len(sb.ofType(network.TypeGameAction)); got != 1 {
		t.Errorf("Opponent should receive exactly one relayed copy, got %d", got)
	}
	if got := len(sa.ofType(network.TypeGameAction)); got != 0 {
		t.Errorf("Actions must never echo back to their origin, got %d", got)
	}
}

func TestCoordinator_AnswerFlow(t *testing.T) {
	env := newTestEnv(t, defaultTestConfig())
	pa, _, sa, _, rm := env.startGame(t)

	env.answerCurrent(t, pa, sa, "dog", 1)
	result := sa.last(network.TypeAnswerResult)
	if result == nil {
		t.Fatal("Expected an answerResult after a submission")
	}
	var res network.AnswerResultPayload
	decodePayload(t, result, &res)
	if res.Correct || res.Finalized || res.AttemptsLeft != 2 {
		t.Errorf("Wrong answer: correct=%v finalized=%v attemptsLeft=%d", res.Correct, res.Finalized, res.AttemptsLeft)
	}

	// Correct answers are accepted regardless of case and whitespace.
	env.answerCurrent(t, pa, sa, "  CAT ", 2)
	decodePayload(t, sa.last(network.TypeAnswerResult), &res)
	if !res.Correct || !res.Finalized || res.Score != 10 {
		t.Errorf("Correct answer: correct=%v finalized=%v score=%d", res.Correct, res.Finalized, res.Score)
	}
	if rm.Score(pa.ID) != 10 {
		t.Errorf("Room score should be 10, got %d", rm.Score(pa.ID))
	}

	// A new question was served after finalization.
	if got := len(sa.ofType(network.TypeQuestion)); got != 2 {
		t.Errorf("Expected a fresh question after finalizing, got %d served", got)
	}
}

func TestCoordinator_AttemptsExhausted(t *testing.T) {
	env := newTestEnv(t, defaultTestConfig())
	pa, _, sa, _, _ := env.startGame(t)

	for ts := int64(1); ts <= 3; ts++ {
		env.answerCurrent(t, pa, sa, "dog", ts)
	}

	var res network.AnswerResultPayload
	decodePayload(t, sa.last(network.TypeAnswerResult), &res)
	if !res.Finalized || res.Correct || res.AttemptsLeft != 0 {
		t.Errorf("Third wrong attempt should finalize the question as wrong: %+v", res)
	}
	if res.Score != 0 {
		t.Errorf("A question finalized as wrong must not score, got %d", res.Score)
	}

	// The next question arrives even after a failed one.
	if got := len(sa.ofType(network.TypeQuestion)); got != 2 {
		t.Errorf("Expected the next question after exhausting attempts, got %d served", got)
	}
}

func TestCoordinator_LevelAdvancesWhenBothComplete(t *testing.T) {
	env := newTestEnv(t, defaultTestConfig())
	pa, pb, sa, sb, rm := env.startGame(t)

	// Each player finalizes questions_per_level (2) questions; alice aces,
	// bob fumbles everything.
	ts := int64(1)
	for i := 0; i < 2; i++ {
		env.answerCurrent(t, pa, sa, "cat", ts)
		ts++
		for j := 0; j < 3; j++ {
			env.answerCurrent(t, pb, sb, "dog", ts)
			ts++
		}
	}

	adv := sa.last(network.TypeLevelAdvanced)
	if adv == nil {
		t.Fatal("Level should advance once both players completed it")
	}
	var payload network.LevelAdvancedPayload
	decodePayload(t, adv, &payload)
	if payload.Level != 2 {
		t.Errorf("Expected level 2, got %d", payload.Level)
	}
	if payload.WinnerRole != string(rm.RoleOf(pa.ID)) {
		t.Errorf("alice outscored bob and should win the level, winner role %s", payload.WinnerRole)
	}
	if rm.LevelWins()[pa.ID] != 1 {
		t.Errorf("alice should have one level win, got %d", rm.LevelWins()[pa.ID])
	}
	if rm.Score(pa.ID) != 0 {
		t.Error("Scores should reset when a level advances")
	}
}

func TestCoordinator_LevelEnded_FinalLevel_FirstReportWins(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.MaxLevels = 1
	env := newTestEnv(t, cfg)
	pa, pb, sa, sb, rm := env.startGame(t)

	endLevel := func(p *session.Participant, role string, ts int64) {
		raw, _ := json.Marshal(network.LevelEndedPayload{Level: 1, WinnerRole: role, ClientTimestamp: ts})
		env.coordinator.SubmitAction(p.ID, network.GameActionPayload{
			Kind:            network.ActionLevelEnded,
			Payload:         raw,
			ClientTimestamp: ts,
		})
	}

	roleA := string(room.RoleA)
	endLevel(pa, roleA, 100)
	if rm.Status() != room.StatusFinished {
		t.Fatal("Ending the final level should finish the room")
	}

	finished := sa.last(network.TypeGameFinished)
	if finished == nil || sb.last(network.TypeGameFinished) == nil {
		t.Fatal("Both players should receive gameFinished")
	}
	var payload network.GameFinishedPayload
	decodePayload(t, finished, &payload)
	if payload.Results.WinnerID != rm.ByRole(room.RoleA) {
		t.Errorf("The first report's outcome should decide the winner, got %s", payload.Results.WinnerID)
	}

	// The opponent's later report for the same level is a no-op.
	endLevel(pb, string(room.RoleB), 200)
	if got := len(sa.ofType(network.TypeGameFinished)); got != 1 {
		t.Errorf("A late levelEnded must not re-finish the game, got %d gameFinished", got)
	}
	if rm.LevelWins()[rm.ByRole(room.RoleB)] != 0 {
		t.Error("A late levelEnded must not change the win tally")
	}
}

func TestCoordinator_Disconnect_InGame(t *testing.T) {
	env := newTestEnv(t, defaultTestConfig())
	pa, pb, _, sb, rm := env.startGame(t)

	env.coordinator.Disconnect(pa.ID)

	if sb.last(network.TypeOpponentDisconnected) == nil {
		t.Fatal("The surviving player should receive opponentDisconnected")
	}
	if rm.Status() != room.StatusFinished {
		t.Error("The room should be finished after a mid-game disconnect")
	}

	finished := sb.last(network.TypeGameFinished)
	if finished == nil {
		t.Fatal("The surviving player should receive gameFinished")
	}
	var payload network.GameFinishedPayload
	decodePayload(t, finished, &payload)
	if payload.Results.WinnerID != pb.ID || payload.Results.Reason != ReasonOpponentLeft {
		t.Errorf("Expected %s to win by forfeit, got winner=%s reason=%s", pb.ID, payload.Results.WinnerID, payload.Results.Reason)
	}

	if _, exists := env.registry.Get(pa.ID); exists {
		t.Error("The disconnected participant should be removed from the registry")
	}
}

func TestCoordinator_SyntheticFallback(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.MatchWaitDeadline = 80 * time.Millisecond
	env := newTestEnv(t, cfg)

	pa, sa := env.register(t, "alice", "g9")
	env.coordinator.JoinMatching(pa.ID, "g9")

	found := sa.waitFor(network.TypeMatchFound, 2*time.Second)
	if found == nil {
		t.Fatal("Expected a synthetic opponent after the wait deadline")
	}

	var payload network.MatchFoundPayload
	decodePayload(t, found, &payload)
	if payload.Opponent.Cohort != "g9" {
		t.Errorf("Synthetic opponent should be in the player's cohort, got %s", payload.Opponent.Cohort)
	}

	if env.queue.Contains(pa.ID, "g9") {
		t.Error("The player's queue entry must be gone after the synthetic fallback")
	}

	opponentID, _ := func() (string, bool) {
		rm, _ := env.rooms.Get(payload.RoomID)
		return rm.Opponent(pa.ID)
	}()
	bot, exists := env.registry.Get(opponentID)
	if !exists || !bot.Synthetic {
		t.Error("The opponent should be a registered synthetic participant")
	}
}

func TestCoordinator_GameCeiling_TieBreakByScore(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.GameCeiling = 150 * time.Millisecond
	env := newTestEnv(t, cfg)
	pa, _, sa, sb, _ := env.startGame(t)

	// Level wins are tied (none), alice leads the in-progress level score.
	env.answerCurrent(t, pa, sa, "cat", 1)

	finished := sb.waitFor(network.TypeGameFinished, 2*time.Second)
	if finished == nil {
		t.Fatal("Expected the game ceiling to finish the game")
	}
	var payload network.GameFinishedPayload
	decodePayload(t, finished, &payload)
	if payload.Results.Reason != ReasonTimeout {
		t.Errorf("Expected reason %s, got %s", ReasonTimeout, payload.Results.Reason)
	}
	if payload.Results.WinnerID != pa.ID {
		t.Errorf("The current level score should break the tie in favor of alice, got %s", payload.Results.WinnerID)
	}
}

func TestCoordinator_DecideWinner_DeterministicOnScoreTieBreak(t *testing.T) {
	env := newTestEnv(t, defaultTestConfig())
	rm, err := env.rooms.Create("g5", "aaa", "bbb")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	rm.SetQuestion("aaa", models.Question{ID: "q1", Answer: "cat"}, 3)
	rm.ResolveAnswer("aaa", "q1", true, 10)

	for i := 0; i < 20; i++ {
		if winner := env.coordinator.decideWinner(rm); winner != "aaa" {
			t.Fatalf("Resolution on identical inputs must be deterministic, run %d picked %s", i, winner)
		}
	}
}

func TestCoordinator_LeaveMatching(t *testing.T) {
	env := newTestEnv(t, defaultTestConfig())
	pa, _ := env.register(t, "alice", "g5")
	env.coordinator.JoinMatching(pa.ID, "g5")
	env.coordinator.LeaveMatching(pa.ID)

	if env.queue.Contains(pa.ID, "g5") {
		t.Error("Queue entry should be gone after LeaveMatching")
	}
	if pa.State.Current() != state.Idle {
		t.Errorf("Participant should be idle after leaving the queue, got %s", pa.State.Current())
	}

	// A later joiner finds nobody waiting.
	pb, sb := env.register(t, "bob", "g5")
	env.coordinator.JoinMatching(pb.ID, "g5")
	if sb.last(network.TypeMatchFound) != nil {
		t.Error("bob must not be matched against a player who left the queue")
	}
}

func TestCoordinator_ConcurrentDeadlineAndMatch_SingleRoom(t *testing.T) {
	env := newTestEnv(t, defaultTestConfig())

	// The wait-deadline callback and a joining partner race to form a
	// match for the same queued player. Whatever the interleaving, the
	// player must end up in exactly one room.
	for i := 0; i < 150; i++ {
		pa, sa := env.register(t, "alice", "g5")
		pb, _ := env.register(t, "bob", "g5")
		env.coordinator.JoinMatching(pa.ID, "g5")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			env.coordinator.waitDeadlineExpired(pa.ID, "g5")
		}()
		go func() {
			defer wg.Done()
			env.coordinator.JoinMatching(pb.ID, "g5")
		}()
		wg.Wait()

		if got := len(sa.ofType(network.TypeMatchFound)); got != 1 {
			t.Fatalf("Iteration %d: participant is a member of %d rooms at once", i, got)
		}
		if pa.Room() == "" {
			t.Fatalf("Iteration %d: matched participant should carry a room reference", i)
		}
	}
}

func TestCoordinator_FormationFailure_ReArmsDeadline(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.MatchWaitDeadline = 100 * time.Millisecond
	env := newTestEnv(t, cfg)

	// A stale queue entry without a registry record, as left by a
	// disconnect racing its own queue cleanup.
	env.queue.Enqueue("ghost", "g5")

	pa, sa := env.register(t, "alice", "g5")
	env.coordinator.JoinMatching(pa.ID, "g5")

	// Formation against the ghost fails; the restored entry must get a
	// fresh deadline so the synthetic fallback still fires.
	found := sa.waitFor(network.TypeMatchFound, 2*time.Second)
	if found == nil {
		t.Fatal("Expected the synthetic fallback after a failed formation")
	}
	if env.queue.Contains(pa.ID, "g5") {
		t.Error("The queue entry should be consumed once the fallback match forms")
	}
}

func TestCoordinator_QuestionQuotaPerLevel(t *testing.T) {
	env := newTestEnv(t, defaultTestConfig()) // quota: 2 questions per level
	pa, _, sa, _, _ := env.startGame(t)

	// alice finalizes her whole quota while bob idles.
	env.answerCurrent(t, pa, sa, "cat", 1)
	env.answerCurrent(t, pa, sa, "cat", 2)

	if got := len(sa.ofType(network.TypeQuestion)); got != 2 {
		t.Errorf("A player must not be served past the per-level quota, got %d questions", got)
	}
	if rm := sa.last(network.TypeAnswerResult); rm == nil {
		t.Fatal("Expected answer results for the quota questions")
	}
}

func TestCoordinator_SweepSnapshotsRoom(t *testing.T) {
	env := newTestEnv(t, defaultTestConfig())
	rec := &recordingRecorder{}
	env.coordinator.recorder = rec
	_, _, _, _, rm := env.startGame(t)

	rm.CreatedAt = time.Now().Add(-2 * time.Hour)
	env.coordinator.sweepRooms()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if s, ok := rec.snapshotState(rm.ID); ok {
			if s != "swept" {
				t.Errorf("Snapshot state should be swept, got %s", s)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Sweeping a room should persist a snapshot for post-mortem inspection")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCoordinator_SweepLeakedRoom(t *testing.T) {
	env := newTestEnv(t, defaultTestConfig())
	pa, _, sa, _, rm := env.startGame(t)

	rm.CreatedAt = time.Now().Add(-2 * time.Hour)
	env.coordinator.sweepRooms()

	if _, exists := env.rooms.Get(rm.ID); exists {
		t.Error("Swept room should be removed from the store")
	}
	if pa.Room() != "" {
		t.Error("Sweep should clear the participant's room reference")
	}

	finished := sa.last(network.TypeGameFinished)
	if finished == nil {
		t.Fatal("Members of a swept active room should be notified")
	}
	var payload network.GameFinishedPayload
	decodePayload(t, finished, &payload)
	if payload.Results.Reason != ReasonSwept {
		t.Errorf("Expected reason %s, got %s", ReasonSwept, payload.Results.Reason)
	}
}
