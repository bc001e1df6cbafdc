// game/synthetic.go
package game

import (
	"encoding/json"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maxiusi3/wordchallenge-sub000/logger"
	"github.com/maxiusi3/wordchallenge-sub000/models"
	"github.com/maxiusi3/wordchallenge-sub000/network"
	"github.com/maxiusi3/wordchallenge-sub000/session"
	"github.com/maxiusi3/wordchallenge-sub000/state"
)

var syntheticNames = []string{
	"小智", "小美", "阿飞", "豆豆", "乐乐", "晨晨", "小雨", "果果",
}

// SyntheticOpponent 是匹配超时后的本地模拟对手。
// 它实现 network.Sink 接收通知，并通过与真人完全相同的
// Coordinator 入口提交动作，中继和编排代码对它没有任何特判。
type SyntheticOpponent struct {
	coordinator   *Coordinator
	participantID string

	accuracy float64
	seq      atomic.Int64
	rng      *rand.Rand
	rngMutex sync.Mutex
	stopChan chan struct{}
	stopOnce sync.Once
}

// spawnSynthetic 注册并返回一个合成对手
func (c *Coordinator) spawnSynthetic(cohort string) *session.Participant {
	bot := &SyntheticOpponent{
		coordinator: c,
		accuracy:    0.7,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		stopChan:    make(chan struct{}),
	}

	profile := models.Profile{
		DisplayName: syntheticNames[rand.Intn(len(syntheticNames))],
		Cohort:      cohort,
	}
	p := c.registry.RegisterSynthetic(profile, bot)
	bot.participantID = p.ID
	p.State.To(state.Queued)
	return p
}

// Deliver 接收发给合成对手的通知并驱动它的行为
func (b *SyntheticOpponent) Deliver(env *network.Envelope) error {
	select {
	case <-b.stopChan:
		return nil
	default:
	}

	switch env.Type {
	case network.TypeMatchFound:
		// 模拟客户端加载完成后再发ready
		b.after(b.jitter(300, 800), func() {
			b.coordinator.PlayerReady(b.participantID)
		})

	case network.TypeQuestion:
		var payload network.QuestionPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			logger.Log.Warnf("Synthetic opponent %s got malformed question: %v", b.participantID, err)
			return nil
		}
		b.after(b.jitter(1200, 3500), func() {
			b.answer(payload.Question)
		})

	case network.TypeGameFinished, network.TypeOpponentDisconnected:
		b.Close()
	}
	return nil
}

// answer 以配置的命中率作答
func (b *SyntheticOpponent) answer(q models.Question) {
	text := q.Answer
	if b.roll() > b.accuracy {
		text = q.Answer + "~"
	}

	payload, err := json.Marshal(network.AnswerPayload{QuestionID: q.ID, Answer: text})
	if err != nil {
		return
	}
	b.coordinator.SubmitAction(b.participantID, network.GameActionPayload{
		Kind:            network.ActionAnswerSubmitted,
		Payload:         payload,
		ClientTimestamp: b.nextTimestamp(),
	})
}

// nextTimestamp 生成单调递增的提交时间戳，保证去重键不碰撞
func (b *SyntheticOpponent) nextTimestamp() int64 {
	return time.Now().UnixMilli()*1000 + b.seq.Add(1)%1000
}

func (b *SyntheticOpponent) after(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		select {
		case <-b.stopChan:
		default:
			fn()
		}
	})
}

func (b *SyntheticOpponent) jitter(minMs, maxMs int) time.Duration {
	b.rngMutex.Lock()
	defer b.rngMutex.Unlock()
	return time.Duration(minMs+b.rng.Intn(maxMs-minMs)) * time.Millisecond
}

func (b *SyntheticOpponent) roll() float64 {
	b.rngMutex.Lock()
	defer b.rngMutex.Unlock()
	return b.rng.Float64()
}

// Close 停止所有计划中的行为，实现 io.Closer 供终局清理调用
func (b *SyntheticOpponent) Close() error {
	b.stopOnce.Do(func() {
		close(b.stopChan)
	})
	return nil
}
