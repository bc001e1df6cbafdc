// room/room.go
package room

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/maxiusi3/wordchallenge-sub000/models"
)

// RoomStatus 表示房间的业务状态
type RoomStatus int

const (
	StatusWaiting RoomStatus = iota // 等待双方ready
	StatusActive                    // 对局进行中
	StatusFinished                  // 已结束
)

// Role 是房间内两个玩家的确定性标签
type Role string

const (
	RoleA Role = "A"
	RoleB Role = "B"
)

var (
	// ErrCapacity 创建房间时成员不是两个互不相同的玩家
	ErrCapacity = errors.New("a room requires exactly two distinct participants")
	// ErrRoomNotFound 房间不存在
	ErrRoomNotFound = errors.New("room not found")
)

// AssignRoles 是角色分配的纯函数：对两个ID做字典序排序，
// 较小者得到角色A。双方可以各自独立计算出同样的结果，
// 不依赖任何先到先得的竞态。
func AssignRoles(p1, p2 string) map[string]Role {
	ids := []string{p1, p2}
	sort.Strings(ids)
	return map[string]Role{
		ids[0]: RoleA,
		ids[1]: RoleB,
	}
}

// DedupKey 构造动作去重键
func DedupKey(actorID, kind string, clientTimestamp int64) string {
	return fmt.Sprintf("%s|%s|%d", actorID, kind, clientTimestamp)
}

// LoggedAction 是写入房间动作日志的一条记录，插入后不再修改
type LoggedAction struct {
	ActorID         string
	Kind            string
	Payload         json.RawMessage
	ClientTimestamp int64
	ReceivedAt      time.Time
}

// PlayerProgress 单个玩家在当前关卡内的答题进度
type PlayerProgress struct {
	Question     models.Question
	AttemptsLeft int
	Answered     int
}

// Room 是一对玩家之间唯一的共享可变状态。
// 所有修改都经过房间自身的互斥锁串行化。
type Room struct {
	ID        string
	Cohort    string
	CreatedAt time.Time

	participants [2]string
	roles        map[string]Role
	status       RoomStatus
	level        int
	scores       map[string]int
	levelWins    map[string]int
	ready        map[string]bool
	progress     map[string]*PlayerProgress
	actionLog    []LoggedAction
	seen         map[string]struct{}
	startedAt    time.Time
	mutex        sync.Mutex
}

func newRoom(id, cohort, p1, p2 string) *Room {
	return &Room{
		ID:           id,
		Cohort:       cohort,
		CreatedAt:    time.Now(),
		participants: [2]string{p1, p2},
		roles:        AssignRoles(p1, p2),
		status:       StatusWaiting,
		level:        1,
		scores:       map[string]int{p1: 0, p2: 0},
		levelWins:    map[string]int{p1: 0, p2: 0},
		ready:        make(map[string]bool),
		progress:     make(map[string]*PlayerProgress),
		seen:         make(map[string]struct{}),
	}
}

func (r *Room) Participants() [2]string {
	return r.participants
}

func (r *Room) IsMember(participantID string) bool {
	return r.participants[0] == participantID || r.participants[1] == participantID
}

// Opponent 返回房间里的另一个玩家
func (r *Room) Opponent(participantID string) (string, bool) {
	switch participantID {
	case r.participants[0]:
		return r.participants[1], true
	case r.participants[1]:
		return r.participants[0], true
	}
	return "", false
}

func (r *Room) RoleOf(participantID string) Role {
	return r.roles[participantID]
}

// ByRole 根据角色反查玩家
func (r *Room) ByRole(role Role) string {
	for id, rl := range r.roles {
		if rl == role {
			return id
		}
	}
	return ""
}

func (r *Room) Status() RoomStatus {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.status
}

// SetReady 记录一方的ready信号，返回是否双方都已ready
func (r *Room) SetReady(participantID string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.ready[participantID] = true
	return r.ready[r.participants[0]] && r.ready[r.participants[1]]
}

// Activate 将房间从等待切换到进行中，只有第一个调用者返回true
func (r *Room) Activate() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.status != StatusWaiting {
		return false
	}
	if !r.ready[r.participants[0]] || !r.ready[r.participants[1]] {
		return false
	}
	r.status = StatusActive
	r.startedAt = time.Now()
	return true
}

// FinishOnce 标记房间结束，只有第一个调用者返回true。
// 迟到的levelEnded等消息据此变成无操作。
func (r *Room) FinishOnce() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.status == StatusFinished {
		return false
	}
	r.status = StatusFinished
	return true
}

// MarkSeen 记录一个去重键，重复的键返回false
func (r *Room) MarkSeen(key string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, dup := r.seen[key]; dup {
		return false
	}
	r.seen[key] = struct{}{}
	return true
}

// Append 向动作日志追加一条记录
func (r *Room) Append(action LoggedAction) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.actionLog = append(r.actionLog, action)
}

// Actions 返回动作日志的副本
func (r *Room) Actions() []LoggedAction {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	out := make([]LoggedAction, len(r.actionLog))
	copy(out, r.actionLog)
	return out
}

func (r *Room) Level() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.level
}

// SetQuestion 设置玩家当前题目和剩余尝试次数
func (r *Room) SetQuestion(participantID string, q models.Question, attempts int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	prog, exists := r.progress[participantID]
	if !exists {
		prog = &PlayerProgress{}
		r.progress[participantID] = prog
	}
	prog.Question = q
	prog.AttemptsLeft = attempts
}

// CurrentQuestion 返回玩家当前题目
func (r *Room) CurrentQuestion(participantID string) (models.Question, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	prog, exists := r.progress[participantID]
	if !exists {
		return models.Question{}, false
	}
	return prog.Question, true
}

// ResolveAnswer 把一次判定结果应用到玩家进度上。
// questionID 不匹配当前题目（过期提交）时不产生任何变化。
// finalized 为 true 表示该题已定案（答对，或尝试次数用尽）。
func (r *Room) ResolveAnswer(participantID, questionID string, correct bool, points int) (finalized bool, attemptsLeft int, score int, ok bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	prog, exists := r.progress[participantID]
	if !exists || prog.Question.ID != questionID {
		return false, 0, r.scores[participantID], false
	}

	if correct {
		r.scores[participantID] += points
		prog.Answered++
		return true, prog.AttemptsLeft, r.scores[participantID], true
	}

	prog.AttemptsLeft--
	if prog.AttemptsLeft <= 0 {
		prog.Answered++
		return true, 0, r.scores[participantID], true
	}
	return false, prog.AttemptsLeft, r.scores[participantID], true
}

// EndLevel 结束一个关卡：记录胜者并推进或终局。
// level 不等于当前关卡（迟到的重复上报）或房间不在进行中时，ok为false。
func (r *Room) EndLevel(level int, winnerID string, maxLevels int) (next int, finished bool, ok bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.status != StatusActive || level != r.level {
		return r.level, r.status == StatusFinished, false
	}

	if r.IsMember(winnerID) {
		r.levelWins[winnerID]++
	}

	if r.level >= maxLevels {
		r.status = StatusFinished
		return r.level, true, true
	}

	r.level++
	for id := range r.scores {
		r.scores[id] = 0
	}
	r.progress = make(map[string]*PlayerProgress)
	return r.level, false, true
}

// LevelComplete 判断双方是否都完成了本关的指定题数
func (r *Room) LevelComplete(questionsPerLevel int) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, id := range r.participants {
		prog, exists := r.progress[id]
		if !exists || prog.Answered < questionsPerLevel {
			return false
		}
	}
	return true
}

// AnsweredCount 返回玩家在本关已定案的题数
func (r *Room) AnsweredCount(participantID string) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	prog, exists := r.progress[participantID]
	if !exists {
		return 0
	}
	return prog.Answered
}

func (r *Room) Score(participantID string) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.scores[participantID]
}

// Scores 返回当前关卡分数的副本
func (r *Room) Scores() map[string]int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	out := make(map[string]int, len(r.scores))
	for k, v := range r.scores {
		out[k] = v
	}
	return out
}

// LevelWins 返回各玩家关卡胜场数的副本
func (r *Room) LevelWins() map[string]int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	out := make(map[string]int, len(r.levelWins))
	for k, v := range r.levelWins {
		out[k] = v
	}
	return out
}

// Results 生成对局结算数据
func (r *Room) Results(winnerID, reason string) models.GameResults {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	wins := make(map[string]int, len(r.levelWins))
	for k, v := range r.levelWins {
		wins[k] = v
	}
	scores := make(map[string]int, len(r.scores))
	for k, v := range r.scores {
		scores[k] = v
	}

	var duration time.Duration
	if !r.startedAt.IsZero() {
		duration = time.Since(r.startedAt)
	}

	return models.GameResults{
		RoomID:    r.ID,
		WinnerID:  winnerID,
		Reason:    reason,
		LevelWins: wins,
		Scores:    scores,
		Levels:    r.level,
		Duration:  duration,
	}
}

func (r *Room) Age() time.Duration {
	return time.Since(r.CreatedAt)
}
