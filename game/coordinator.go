// game/coordinator.go
package game

import (
	"encoding/json"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/maxiusi3/wordchallenge-sub000/broadcast"
	"github.com/maxiusi3/wordchallenge-sub000/logger"
	"github.com/maxiusi3/wordchallenge-sub000/matching"
	"github.com/maxiusi3/wordchallenge-sub000/models"
	"github.com/maxiusi3/wordchallenge-sub000/monitor"
	"github.com/maxiusi3/wordchallenge-sub000/network"
	"github.com/maxiusi3/wordchallenge-sub000/relay"
	"github.com/maxiusi3/wordchallenge-sub000/room"
	"github.com/maxiusi3/wordchallenge-sub000/session"
	"github.com/maxiusi3/wordchallenge-sub000/state"
	"github.com/maxiusi3/wordchallenge-sub000/timer"
)

// 结算原因
const (
	ReasonCompleted    = "completed"
	ReasonOpponentLeft = "opponent_left"
	ReasonTimeout      = "timeout"
	ReasonSwept        = "swept"
)

// 匹配类型标签（监控用）
const (
	MatchKindHuman     = "human"
	MatchKindSynthetic = "synthetic"
)

// Config 对局编排参数
type Config struct {
	MatchWaitDeadline   time.Duration
	GameCeiling         time.Duration
	MaxLevels           int
	QuestionsPerLevel   int
	AttemptsPerQuestion int
	PointsPerCorrect    int
	RoomMaxAge          time.Duration
	SweepInterval       time.Duration
}

// MatchRecorder 把结束的对局和被清理房间的现场写入持久层。
// 调用方即发即弃。
type MatchRecorder interface {
	RecordMatch(record models.MatchRecord, results models.GameResults) error
	SnapshotRoom(roomID, cohort, state string, players map[string]interface{}) error
}

// Coordinator 编排完整的对局生命周期：注册、排队、成局、
// ready握手、动作中继、关卡推进、各种终止路径。
type Coordinator struct {
	cfg       Config
	registry  *session.Registry
	queue     *matching.Queue
	rooms     *room.Store
	relay     *relay.Relay
	notifier  *broadcast.Notifier
	timers    *timer.Manager
	questions QuestionSource
	events    EventSink
	monitor   *monitor.Monitor
	recorder  MatchRecorder

	waitTimers    map[string]int64  // participantID -> 匹配截止定时器
	gameTimers    map[string]int64  // roomID -> 对局时长上限定时器
	queuedCohorts map[string]string // participantID -> 所在队列分组
	rng           *rand.Rand
	mutex         sync.Mutex
}

func NewCoordinator(
	cfg Config,
	registry *session.Registry,
	queue *matching.Queue,
	rooms *room.Store,
	notifier *broadcast.Notifier,
	timers *timer.Manager,
	questions QuestionSource,
	events EventSink,
	mon *monitor.Monitor,
	recorder MatchRecorder,
) *Coordinator {
	return &Coordinator{
		cfg:           cfg,
		registry:      registry,
		queue:         queue,
		rooms:         rooms,
		relay:         relay.NewRelay(rooms, notifier),
		notifier:      notifier,
		timers:        timers,
		questions:     questions,
		events:        events,
		monitor:       mon,
		recorder:      recorder,
		waitTimers:    make(map[string]int64),
		gameTimers:    make(map[string]int64),
		queuedCohorts: make(map[string]string),
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// StartSweeps 启动周期性的过期房间清理
func (c *Coordinator) StartSweeps() {
	c.timers.Every(c.cfg.SweepInterval, c.sweepRooms)
}

// Register 为连接创建玩家并回执participantId
func (c *Coordinator) Register(profile models.Profile, sink network.Sink) (*session.Participant, error) {
	p, err := c.registry.Register(profile, sink)
	if err != nil {
		return nil, err
	}

	c.monitor.IncOnlinePlayers()
	c.notifier.NotifyTyped(p.ID, network.TypeRegistered, network.RegisteredPayload{ParticipantID: p.ID})
	c.dispatch("player_registered", map[string]interface{}{"participant_id": p.ID})
	logger.Log.Infof("Participant %s (%s) registered", p.ID, profile.DisplayName)
	return p, nil
}

// JoinMatching 把玩家加入分组队列并立即尝试成局
func (c *Coordinator) JoinMatching(participantID, cohort string) {
	p, exists := c.registry.Get(participantID)
	if !exists {
		logger.Log.Warnf("JoinMatching: unknown participant %s", participantID)
		return
	}
	if cohort == "" {
		cohort = p.Profile.Cohort
	}

	if err := p.State.To(state.Queued); err != nil {
		logger.Log.Warnf("JoinMatching: participant %s cannot queue from state %s", participantID, p.State.Current())
		return
	}

	c.queue.Enqueue(participantID, cohort)
	c.mutex.Lock()
	c.queuedCohorts[participantID] = cohort
	c.mutex.Unlock()
	c.monitor.SetQueuedParticipants(c.queue.Total())

	c.notifier.NotifyTyped(participantID, network.TypeMatchingStatus, network.MatchingStatusPayload{Status: "waiting"})

	if partnerID, ok := c.queue.TryMatch(participantID, cohort); ok {
		c.formMatch(cohort, partnerID, participantID, MatchKindHuman)
		return
	}

	// 没有现成的对手：挂上匹配截止定时器，到期用合成对手兜底。
	// 重复join时先取消旧定时器，避免两个截止回调同时在飞。
	c.cancelWaitTimer(participantID)
	timerID := c.timers.After(c.cfg.MatchWaitDeadline, func() {
		c.waitDeadlineExpired(participantID, cohort)
	})
	c.mutex.Lock()
	c.waitTimers[participantID] = timerID
	c.mutex.Unlock()
}

// LeaveMatching 把玩家移出队列（主动取消）
func (c *Coordinator) LeaveMatching(participantID string) {
	p, exists := c.registry.Get(participantID)
	if !exists {
		return
	}

	cohort := c.takeQueuedCohort(participantID)
	if cohort == "" {
		cohort = p.Profile.Cohort
	}
	c.cancelWaitTimer(participantID)
	c.queue.Leave(participantID, cohort)
	c.monitor.SetQueuedParticipants(c.queue.Total())

	if err := p.State.To(state.Idle); err != nil {
		logger.Log.Debugf("LeaveMatching: participant %s not queued (%s)", participantID, p.State.Current())
	}
}

// waitDeadlineExpired 匹配等待超时：最后再试一次真人匹配，
// 仍然没有就换合成对手。这条路径绝不从队列里夺走真人等待者。
func (c *Coordinator) waitDeadlineExpired(participantID, cohort string) {
	c.mutex.Lock()
	delete(c.waitTimers, participantID)
	c.mutex.Unlock()

	p, exists := c.registry.Get(participantID)
	if !exists || !p.State.Is(state.Queued) {
		return
	}

	if partnerID, ok := c.queue.TryMatch(participantID, cohort); ok {
		c.formMatch(cohort, partnerID, participantID, MatchKindHuman)
		return
	}

	c.queue.Leave(participantID, cohort)
	c.takeQueuedCohort(participantID)
	c.monitor.SetQueuedParticipants(c.queue.Total())

	bot := c.spawnSynthetic(cohort)
	logger.Log.Infof("No partner for %s in cohort %s within deadline, matched with synthetic opponent %s",
		participantID, cohort, bot.ID)
	c.formMatch(cohort, participantID, bot.ID, MatchKindSynthetic)
}

// formMatch 原子地把两名玩家放进一个新房间。
// 创建房间前先通过状态机认领双方：Queued→Matched 对每个玩家只会
// 成功一次，因此匹配截止定时器和真人成局并发地替同一个玩家组局时，
// 只有先认领的一方能建房，输掉认领的一方放弃并恢复自己带来的伙伴。
func (c *Coordinator) formMatch(cohort, p1ID, p2ID, kind string) {
	p1, ok1 := c.registry.Get(p1ID)
	p2, ok2 := c.registry.Get(p2ID)
	if !ok1 || !ok2 {
		// 一方在成局瞬间消失了，把另一方放回队列
		c.restoreEntry(cohort, p1ID, ok1)
		c.restoreEntry(cohort, p2ID, ok2)
		return
	}

	if !p1.State.Swap(state.Queued, state.Matched) {
		logger.Log.Infof("Participant %s was claimed by a concurrent match, restoring %s", p1ID, p2ID)
		c.restoreParticipant(cohort, p2, state.Queued)
		return
	}
	if !p2.State.Swap(state.Queued, state.Matched) {
		logger.Log.Infof("Participant %s was claimed by a concurrent match, restoring %s", p2ID, p1ID)
		c.restoreParticipant(cohort, p1, state.Matched)
		return
	}

	c.cancelWaitTimer(p1ID)
	c.cancelWaitTimer(p2ID)

	rm, err := c.rooms.Create(cohort, p1ID, p2ID)
	if err != nil {
		// 容量校验失败，恢复双方的队列条目
		logger.Log.Errorf("Room creation for %s/%s failed: %v", p1ID, p2ID, err)
		c.restoreParticipant(cohort, p1, state.Matched)
		c.restoreParticipant(cohort, p2, state.Matched)
		return
	}

	p1.SetRoom(rm.ID)
	p2.SetRoom(rm.ID)

	c.notifier.NotifyTyped(p1ID, network.TypeMatchingStatus, network.MatchingStatusPayload{Status: "matched"})
	c.notifier.NotifyTyped(p2ID, network.TypeMatchingStatus, network.MatchingStatusPayload{Status: "matched"})
	c.notifier.NotifyTyped(p1ID, network.TypeMatchFound, network.MatchFoundPayload{
		RoomID:   rm.ID,
		Opponent: p2.Profile,
		Role:     string(rm.RoleOf(p1ID)),
	})
	c.notifier.NotifyTyped(p2ID, network.TypeMatchFound, network.MatchFoundPayload{
		RoomID:   rm.ID,
		Opponent: p1.Profile,
		Role:     string(rm.RoleOf(p2ID)),
	})

	c.monitor.IncMatchesFormed(kind)
	c.monitor.SetActiveRooms(c.rooms.CountActive())
	c.dispatch("match_found", map[string]interface{}{"room_id": rm.ID, "kind": kind})
	logger.Log.Infof("Room %s formed for %s (role %s) and %s (role %s)",
		rm.ID, p1ID, rm.RoleOf(p1ID), p2ID, rm.RoleOf(p2ID))
}

func (c *Coordinator) restoreEntry(cohort, participantID string, alive bool) {
	if !alive {
		return
	}
	p, exists := c.registry.Get(participantID)
	if !exists {
		return
	}
	c.restoreParticipant(cohort, p, state.Queued)
}

// restoreParticipant 把一个成局失败的玩家放回队列并重挂匹配截止
// 定时器，保证合成对手兜底依然会触发。from 是调用方已知的当前状态
// （认领前 Queued，认领后 Matched）；状态已被并发路径改走时放弃恢复，
// 绝不回滚别人的认领。合成对手没有队列可回，直接释放。
func (c *Coordinator) restoreParticipant(cohort string, p *session.Participant, from state.ID) {
	if p.Synthetic {
		c.releaseSynthetic(p)
		return
	}
	if !p.State.Swap(from, state.Queued) {
		return
	}
	c.requeue(cohort, p.ID)
}

// requeue 恢复队列条目并重挂截止定时器
func (c *Coordinator) requeue(cohort, participantID string) {
	c.queue.Enqueue(participantID, cohort)
	c.mutex.Lock()
	c.queuedCohorts[participantID] = cohort
	c.mutex.Unlock()
	c.monitor.SetQueuedParticipants(c.queue.Total())

	timerID := c.timers.After(c.cfg.MatchWaitDeadline, func() {
		c.waitDeadlineExpired(participantID, cohort)
	})
	c.mutex.Lock()
	c.waitTimers[participantID] = timerID
	c.mutex.Unlock()
}

// PlayerReady 记录ready信号，双方都ready后开局
func (c *Coordinator) PlayerReady(participantID string) {
	p, exists := c.registry.Get(participantID)
	if !exists {
		return
	}
	rm, exists := c.rooms.Get(p.Room())
	if !exists || !rm.IsMember(participantID) {
		logger.Log.Warnf("PlayerReady from %s without a room", participantID)
		return
	}

	if !rm.SetReady(participantID) {
		return
	}
	if !rm.Activate() {
		return
	}

	for _, id := range rm.Participants() {
		if member, ok := c.registry.Get(id); ok {
			if err := member.State.To(state.InGame); err != nil {
				logger.Log.Warnf("Participant %s state transition to in_game failed: %v", id, err)
			}
		}
	}

	// 对局时长上限
	roomID := rm.ID
	ceilingID := c.timers.After(c.cfg.GameCeiling, func() {
		c.gameCeilingExpired(roomID)
	})
	c.mutex.Lock()
	c.gameTimers[roomID] = ceilingID
	c.mutex.Unlock()

	c.notifier.NotifyRoom(rm, network.TypeGameStart, network.GameStartPayload{RoomID: rm.ID, Level: rm.Level()})
	for _, id := range rm.Participants() {
		c.serveQuestion(rm, id)
	}
	c.dispatch("game_started", map[string]interface{}{"room_id": rm.ID})
	logger.Log.Infof("Room %s is now in game", rm.ID)
}

// SubmitAction 处理一条对局动作（真人和合成对手走同一入口）
func (c *Coordinator) SubmitAction(participantID string, action network.GameActionPayload) {
	p, exists := c.registry.Get(participantID)
	if !exists {
		logger.Log.Warnf("Action from unknown participant %s dropped", participantID)
		return
	}
	roomID := p.Room()
	if roomID == "" {
		logger.Log.Warnf("Action from %s dropped: not in a room", participantID)
		return
	}

	if err := c.relay.Submit(roomID, participantID, action); err != nil {
		if err == relay.ErrDuplicateAction {
			c.monitor.IncDuplicatesDropped()
		}
		return
	}
	c.monitor.IncActionsRelayed()

	rm, exists := c.rooms.Get(roomID)
	if !exists {
		return
	}

	switch action.Kind {
	case network.ActionAnswerSubmitted:
		c.applyAnswer(rm, participantID, action.Payload)
	case network.ActionLevelEnded:
		var payload network.LevelEndedPayload
		if err := json.Unmarshal(action.Payload, &payload); err != nil {
			logger.Log.Warnf("Malformed levelEnded payload from %s: %v", participantID, err)
			return
		}
		winnerID := rm.ByRole(room.Role(payload.WinnerRole))
		c.endLevel(rm, payload.Level, winnerID)
	default:
		logger.Log.Debugf("Opaque action kind %s relayed without business handling", action.Kind)
	}
}

// applyAnswer 判题并推进该玩家的答题进度
func (c *Coordinator) applyAnswer(rm *room.Room, participantID string, raw json.RawMessage) {
	var answer network.AnswerPayload
	if err := json.Unmarshal(raw, &answer); err != nil {
		logger.Log.Warnf("Malformed answer payload from %s: %v", participantID, err)
		return
	}

	q, ok := rm.CurrentQuestion(participantID)
	if !ok || q.ID != answer.QuestionID {
		logger.Log.Debugf("Stale answer for question %s from %s ignored", answer.QuestionID, participantID)
		return
	}

	correct := CheckAnswer(q.Answer, answer.Answer)
	finalized, attemptsLeft, score, ok := rm.ResolveAnswer(participantID, answer.QuestionID, correct, c.cfg.PointsPerCorrect)
	if !ok {
		return
	}

	c.notifier.NotifyTyped(participantID, network.TypeAnswerResult, network.AnswerResultPayload{
		QuestionID:   answer.QuestionID,
		Correct:      correct,
		Finalized:    finalized,
		AttemptsLeft: attemptsLeft,
		Score:        score,
	})
	if correct {
		c.dispatch("answer_correct", map[string]interface{}{"participant_id": participantID})
	} else {
		c.dispatch("answer_wrong", map[string]interface{}{"participant_id": participantID})
	}

	if !finalized {
		return
	}

	if rm.LevelComplete(c.cfg.QuestionsPerLevel) {
		c.endLevel(rm, rm.Level(), c.levelWinnerByScore(rm))
		return
	}
	// 打满本关配额的一方等待对手完成，不再发题
	if rm.AnsweredCount(participantID) < c.cfg.QuestionsPerLevel {
		c.serveQuestion(rm, participantID)
	}
}

// serveQuestion 从题库取题并推送给玩家
func (c *Coordinator) serveQuestion(rm *room.Room, participantID string) {
	q, err := c.questions.NextQuestion(rm.Cohort, rm.Level())
	if err != nil {
		logger.Log.Errorf("Question supply failed for room %s: %v", rm.ID, err)
		return
	}
	rm.SetQuestion(participantID, q, c.cfg.AttemptsPerQuestion)
	c.notifier.NotifyTyped(participantID, network.TypeQuestion, network.QuestionPayload{
		Question: q,
		Attempts: c.cfg.AttemptsPerQuestion,
	})
}

// endLevel 记录关卡胜者并推进或终局。level为过期值时是无操作。
func (c *Coordinator) endLevel(rm *room.Room, level int, winnerID string) {
	next, finished, ok := rm.EndLevel(level, winnerID, c.cfg.MaxLevels)
	if !ok {
		logger.Log.Debugf("Stale levelEnded for level %d in room %s ignored", level, rm.ID)
		return
	}

	if finished {
		c.finishGame(rm, c.decideWinner(rm), ReasonCompleted)
		return
	}

	c.notifier.NotifyRoom(rm, network.TypeLevelAdvanced, network.LevelAdvancedPayload{
		Level:      next,
		WinnerRole: string(rm.RoleOf(winnerID)),
		LevelWins:  rm.LevelWins(),
	})
	for _, id := range rm.Participants() {
		c.serveQuestion(rm, id)
	}
	c.dispatch("level_advanced", map[string]interface{}{"room_id": rm.ID, "level": next})
}

// levelWinnerByScore 按当前关卡分数判定关卡胜者，平分则无人得胜场
func (c *Coordinator) levelWinnerByScore(rm *room.Room) string {
	members := rm.Participants()
	scores := rm.Scores()
	if scores[members[0]] > scores[members[1]] {
		return members[0]
	}
	if scores[members[1]] > scores[members[0]] {
		return members[1]
	}
	return ""
}

// gameCeilingExpired 对局时长到顶：按既定的平局裁决策略结算
func (c *Coordinator) gameCeilingExpired(roomID string) {
	rm, exists := c.rooms.Get(roomID)
	if !exists {
		return
	}
	if !rm.FinishOnce() {
		return
	}
	winnerID := c.decideWinner(rm)
	logger.Log.Infof("Room %s hit the game ceiling, winner resolved to %s", roomID, winnerID)
	c.finishGame(rm, winnerID, ReasonTimeout)
}

// decideWinner 结算胜者：先比关卡胜场，再比当前关卡分数，
// 仍平则抛硬币（记录在案的平局策略，不是错误路径）。
func (c *Coordinator) decideWinner(rm *room.Room) string {
	members := rm.Participants()
	wins := rm.LevelWins()
	if wins[members[0]] != wins[members[1]] {
		if wins[members[0]] > wins[members[1]] {
			return members[0]
		}
		return members[1]
	}

	scores := rm.Scores()
	if scores[members[0]] != scores[members[1]] {
		if scores[members[0]] > scores[members[1]] {
			return members[0]
		}
		return members[1]
	}

	return members[c.rng.Intn(2)]
}

// finishGame 统一的终局路径。调用前房间必须已标记为finished。
func (c *Coordinator) finishGame(rm *room.Room, winnerID, reason string) {
	c.cancelGameTimer(rm.ID)

	results := rm.Results(winnerID, reason)
	c.notifier.NotifyRoom(rm, network.TypeGameFinished, network.GameFinishedPayload{Results: results})

	synthetic := false
	var userIDs []int64
	var winnerUserID int64
	for _, id := range rm.Participants() {
		p, exists := c.registry.Get(id)
		if !exists {
			continue
		}
		p.SetRoom("")
		if p.Synthetic {
			synthetic = true
			c.releaseSynthetic(p)
			continue
		}
		userIDs = append(userIDs, p.Profile.UserID)
		if p.ID == winnerID {
			winnerUserID = p.Profile.UserID
		}
		if err := p.State.To(state.Finished); err != nil {
			logger.Log.Debugf("Participant %s state transition to finished failed: %v", id, err)
		}
	}

	if c.recorder != nil {
		members := rm.Participants()
		record := models.MatchRecord{
			RoomID:       rm.ID,
			Cohort:       rm.Cohort,
			Players:      members[:],
			UserIDs:      userIDs,
			WinnerID:     winnerID,
			WinnerUserID: winnerUserID,
			Reason:       reason,
			Synthetic:    synthetic,
			CreatedAt:    time.Now(),
		}
		go func() {
			if err := c.recorder.RecordMatch(record, results); err != nil {
				logger.Log.Errorf("Failed to record match %s: %v", rm.ID, err)
			}
		}()
	}

	c.rooms.Remove(rm.ID)
	c.monitor.SetActiveRooms(c.rooms.CountActive())
	c.dispatch("game_finished", map[string]interface{}{"room_id": rm.ID, "winner": winnerID, "reason": reason})
	logger.Log.Infof("Room %s finished (%s), winner %s", rm.ID, reason, winnerID)
}

// Disconnect 处理断线：释放队列条目并拆除所在房间
func (c *Coordinator) Disconnect(participantID string) {
	p, exists := c.registry.Remove(participantID)
	if !exists {
		return
	}

	c.cancelWaitTimer(participantID)
	cohort := c.takeQueuedCohort(participantID)
	if cohort != "" {
		c.queue.Leave(participantID, cohort)
		c.monitor.SetQueuedParticipants(c.queue.Total())
	}

	p.State.To(state.Gone)
	if !p.Synthetic {
		c.monitor.DecOnlinePlayers()
	}

	roomID := p.Room()
	if roomID == "" {
		logger.Log.Infof("Participant %s disconnected", participantID)
		return
	}

	rm, exists := c.rooms.Get(roomID)
	if !exists {
		return
	}

	if rm.FinishOnce() {
		opponentID, _ := rm.Opponent(participantID)
		c.notifier.NotifyTyped(opponentID, network.TypeOpponentDisconnected, nil)
		logger.Log.Infof("Participant %s disconnected mid-game, room %s torn down", participantID, roomID)
		c.finishGame(rm, opponentID, ReasonOpponentLeft)
	}
}

// sweepRooms 清理超龄房间，兜底客户端崩溃留下的泄漏
func (c *Coordinator) sweepRooms() {
	removed := c.rooms.SweepExpired(c.cfg.RoomMaxAge)
	for _, rm := range removed {
		wasActive := rm.FinishOnce()
		c.cancelGameTimer(rm.ID)
		for _, id := range rm.Participants() {
			p, exists := c.registry.Get(id)
			if !exists {
				continue
			}
			p.SetRoom("")
			if p.Synthetic {
				c.releaseSynthetic(p)
				continue
			}
			p.State.To(state.Finished)
		}
		if wasActive {
			c.notifier.NotifyRoom(rm, network.TypeGameFinished, network.GameFinishedPayload{
				Results: rm.Results("", ReasonSwept),
			})
		}

		// 落一份现场快照，供崩溃后的事后排查
		if c.recorder != nil {
			members := rm.Participants()
			snapshot := map[string]interface{}{
				"participants": members[:],
				"scores":       rm.Scores(),
				"level_wins":   rm.LevelWins(),
				"level":        rm.Level(),
			}
			go func(roomID, cohort string) {
				if err := c.recorder.SnapshotRoom(roomID, cohort, "swept", snapshot); err != nil {
					logger.Log.Errorf("Failed to snapshot swept room %s: %v", roomID, err)
				}
			}(rm.ID, rm.Cohort)
		}
		logger.Log.Warnf("Swept expired room %s (age %v)", rm.ID, rm.Age())
	}
	if len(removed) > 0 {
		c.monitor.SetActiveRooms(c.rooms.CountActive())
	}
}

func (c *Coordinator) releaseSynthetic(p *session.Participant) {
	c.registry.Remove(p.ID)
	if closer, ok := p.Sink.(io.Closer); ok {
		closer.Close()
	}
}

func (c *Coordinator) cancelWaitTimer(participantID string) {
	c.mutex.Lock()
	timerID, exists := c.waitTimers[participantID]
	if exists {
		delete(c.waitTimers, participantID)
	}
	c.mutex.Unlock()
	if exists {
		c.timers.Cancel(timerID)
	}
}

func (c *Coordinator) cancelGameTimer(roomID string) {
	c.mutex.Lock()
	timerID, exists := c.gameTimers[roomID]
	if exists {
		delete(c.gameTimers, roomID)
	}
	c.mutex.Unlock()
	if exists {
		c.timers.Cancel(timerID)
	}
}

func (c *Coordinator) takeQueuedCohort(participantID string) string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	cohort := c.queuedCohorts[participantID]
	delete(c.queuedCohorts, participantID)
	return cohort
}

func (c *Coordinator) dispatch(event string, fields map[string]interface{}) {
	if c.events != nil {
		c.events.Dispatch(event, fields)
	}
}
