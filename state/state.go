package state

import (
	"errors"
	"sync"
)

// ID 玩家生命周期状态
type ID string

const (
	Idle     ID = "idle"
	Queued   ID = "queued"
	Matched  ID = "matched"
	InGame   ID = "in_game"
	Finished ID = "finished"
	Gone     ID = "gone"
)

// ErrTransitionNotAllowed is returned when a state transition is not allowed.
var ErrTransitionNotAllowed = errors.New("state transition not allowed")

// 允许的状态转换表。Gone 可以从任意状态到达（断线）。
// Matched→Queued 是成局失败的回滚：认领后对方消失时玩家回到队列。
// Queued→Queued 让恢复队列条目的路径保持幂等。
var transitions = map[ID][]ID{
	Idle:     {Queued},
	Queued:   {Queued, Idle, Matched},
	Matched:  {Queued, InGame, Finished},
	InGame:   {InGame, Finished},
	Finished: {Idle, Queued},
}

// Machine 是单个玩家的状态机
type Machine struct {
	current ID
	mutex   sync.RWMutex
}

func NewMachine() *Machine {
	return &Machine{current: Idle}
}

func (m *Machine) Current() ID {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.current
}

// To 尝试转换到目标状态，非法转换返回 ErrTransitionNotAllowed
func (m *Machine) To(next ID) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if next == Gone {
		m.current = Gone
		return nil
	}

	for _, allowed := range transitions[m.current] {
		if allowed == next {
			m.current = next
			return nil
		}
	}
	return ErrTransitionNotAllowed
}

// Swap 仅当当前状态等于 from 且转换合法时切换到 to，返回是否成功。
// 并发的成局路径用它互斥地认领玩家（Queued→Matched 只会成功一次）
// 以及回滚自己的认领，而不会碰到别人的。
func (m *Machine) Swap(from, to ID) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.current != from {
		return false
	}
	for _, allowed := range transitions[m.current] {
		if allowed == to {
			m.current = to
			return true
		}
	}
	return false
}

// Is 判断当前是否处于指定状态
func (m *Machine) Is(id ID) bool {
	return m.Current() == id
}
