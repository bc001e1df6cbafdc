// matching/queue.go
package matching

import (
	"sync"
	"time"
)

// Entry 是等待匹配的玩家
type Entry struct {
	ParticipantID string
	Cohort        string
	EnqueuedAt    time.Time
}

// Queue 按分组（年级）维护严格FIFO的等待队列。
// 所有修改都在同一把锁下完成，避免两个并发的匹配尝试
// 消费同一个等待者（double-booking）。
type Queue struct {
	cohorts map[string][]*Entry
	mutex   sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		cohorts: make(map[string][]*Entry),
	}
}

// Enqueue 追加一个等待条目，重复入队是幂等的
func (q *Queue) Enqueue(participantID, cohort string) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for _, e := range q.cohorts[cohort] {
		if e.ParticipantID == participantID {
			return
		}
	}

	q.cohorts[cohort] = append(q.cohorts[cohort], &Entry{
		ParticipantID: participantID,
		Cohort:        cohort,
		EnqueuedAt:    time.Now(),
	})
}

// TryMatch 查找同分组里等待最久的、且不是调用者自己的条目。
// 找到时在同一个临界区内同时移除双方的条目并返回对手ID；
// 找不到时调用者保持在队列中。
func (q *Queue) TryMatch(participantID, cohort string) (string, bool) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	entries := q.cohorts[cohort]

	partnerIdx := -1
	for i, e := range entries {
		if e.ParticipantID != participantID {
			partnerIdx = i
			break
		}
	}
	if partnerIdx == -1 {
		return "", false
	}

	partnerID := entries[partnerIdx].ParticipantID

	remaining := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if e.ParticipantID != participantID && e.ParticipantID != partnerID {
			remaining = append(remaining, e)
		}
	}
	q.cohorts[cohort] = remaining

	return partnerID, true
}

// Leave 移除一个等待条目（主动取消或断线）
func (q *Queue) Leave(participantID, cohort string) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	entries := q.cohorts[cohort]
	for i, e := range entries {
		if e.ParticipantID == participantID {
			q.cohorts[cohort] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// Contains 查询玩家是否仍在某个分组队列中
func (q *Queue) Contains(participantID, cohort string) bool {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for _, e := range q.cohorts[cohort] {
		if e.ParticipantID == participantID {
			return true
		}
	}
	return false
}

// Len 返回分组队列长度
func (q *Queue) Len(cohort string) int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return len(q.cohorts[cohort])
}

// Total 返回所有分组的等待人数
func (q *Queue) Total() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	total := 0
	for _, entries := range q.cohorts {
		total += len(entries)
	}
	return total
}
