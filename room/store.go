// room/store.go
package room

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store 管理所有房间
type Store struct {
	rooms map[string]*Room
	mutex sync.RWMutex
}

func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*Room),
	}
}

// Create 为一对玩家创建房间。成员必须是两个互不相同的非空ID，
// 否则返回 ErrCapacity，由调用方恢复队列条目。
func (s *Store) Create(cohort, p1, p2 string) (*Room, error) {
	if p1 == "" || p2 == "" || p1 == p2 {
		return nil, ErrCapacity
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	room := newRoom(uuid.New().String(), cohort, p1, p2)
	s.rooms[room.ID] = room
	return room, nil
}

func (s *Store) Get(id string) (*Room, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	room, exists := s.rooms[id]
	return room, exists
}

// Remove 从存储中删除房间
func (s *Store) Remove(id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.rooms, id)
}

// SweepExpired 删除所有超龄房间（无论状态），返回被删除的房间。
// 这是针对客户端崩溃后泄漏房间的兜底。
func (s *Store) SweepExpired(maxAge time.Duration) []*Room {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var removed []*Room
	for id, room := range s.rooms {
		if room.Age() > maxAge {
			removed = append(removed, room)
			delete(s.rooms, id)
		}
	}
	return removed
}

// CountActive 返回进行中（未结束）的房间数
func (s *Store) CountActive() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	count := 0
	for _, room := range s.rooms {
		if room.Status() != StatusFinished {
			count++
		}
	}
	return count
}
