// session/session.go
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maxiusi3/wordchallenge-sub000/models"
	"github.com/maxiusi3/wordchallenge-sub000/network"
	"github.com/maxiusi3/wordchallenge-sub000/state"
)

// ErrDuplicateSession 同一条连接重复注册
var ErrDuplicateSession = errors.New("connection already registered")

// Participant 是一个已注册的玩家（真人或合成对手）
type Participant struct {
	ID        string
	Profile   models.Profile
	Sink      network.Sink
	State     *state.Machine
	Synthetic bool

	RoomID     string
	CreatedAt  time.Time
	LastActive time.Time
	mutex      sync.RWMutex
}

func newParticipant(profile models.Profile, sink network.Sink, synthetic bool) *Participant {
	now := time.Now()
	return &Participant{
		ID:         uuid.New().String(),
		Profile:    profile,
		Sink:       sink,
		State:      state.NewMachine(),
		Synthetic:  synthetic,
		CreatedAt:  now,
		LastActive: now,
	}
}

// Send 投递一个信封到玩家的连接
func (p *Participant) Send(env *network.Envelope) error {
	p.Touch()
	return p.Sink.Deliver(env)
}

func (p *Participant) Touch() {
	p.mutex.Lock()
	p.LastActive = time.Now()
	p.mutex.Unlock()
}

func (p *Participant) SetRoom(roomID string) {
	p.mutex.Lock()
	p.RoomID = roomID
	p.mutex.Unlock()
}

func (p *Participant) Room() string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.RoomID
}

// Registry 管理所有在线玩家
type Registry struct {
	participants map[string]*Participant
	byConn       map[network.Sink]string
	mutex        sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		participants: make(map[string]*Participant),
		byConn:       make(map[network.Sink]string),
	}
}

// Register 为一条连接创建玩家记录。同一条活跃连接只能注册一次。
func (r *Registry) Register(profile models.Profile, sink network.Sink) (*Participant, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.byConn[sink]; exists {
		return nil, ErrDuplicateSession
	}

	p := newParticipant(profile, sink, false)
	r.participants[p.ID] = p
	r.byConn[sink] = p.ID
	return p, nil
}

// RegisterSynthetic 注册一个合成对手。合成对手不占用连接槽位，
// 因此不参与重复注册检查之外的约束。
func (r *Registry) RegisterSynthetic(profile models.Profile, sink network.Sink) *Participant {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	p := newParticipant(profile, sink, true)
	r.participants[p.ID] = p
	r.byConn[sink] = p.ID
	return p
}

func (r *Registry) Get(id string) (*Participant, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	p, exists := r.participants[id]
	return p, exists
}

// GetByConn 根据连接查找玩家
func (r *Registry) GetByConn(sink network.Sink) (*Participant, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	id, exists := r.byConn[sink]
	if !exists {
		return nil, false
	}
	p, exists := r.participants[id]
	return p, exists
}

// Remove 删除玩家记录并返回它，供上层做级联清理
func (r *Registry) Remove(id string) (*Participant, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	p, exists := r.participants[id]
	if !exists {
		return nil, false
	}
	delete(r.participants, id)
	delete(r.byConn, p.Sink)
	return p, true
}

func (r *Registry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.participants)
}
