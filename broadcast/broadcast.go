// broadcast/broadcast.go
package broadcast

import (
	"github.com/maxiusi3/wordchallenge-sub000/logger"
	"github.com/maxiusi3/wordchallenge-sub000/network"
	"github.com/maxiusi3/wordchallenge-sub000/room"
	"github.com/maxiusi3/wordchallenge-sub000/session"
)

// Notifier 通过注册表把信封送达玩家。投递是即发即弃的：
// 发送失败只记日志，由读循环的断线处理负责清理。
type Notifier struct {
	registry *session.Registry
}

func NewNotifier(registry *session.Registry) *Notifier {
	return &Notifier{registry: registry}
}

func (n *Notifier) Notify(participantID string, env *network.Envelope) {
	p, exists := n.registry.Get(participantID)
	if !exists {
		logger.Log.Warnf("Notify: participant %s not found", participantID)
		return
	}
	if err := p.Send(env); err != nil {
		logger.Log.Warnf("Notify: delivery to %s failed: %v", participantID, err)
	}
}

// NotifyTyped 构造信封并投递
func (n *Notifier) NotifyTyped(participantID, msgType string, payload interface{}) {
	env, err := network.NewEnvelope(msgType, payload)
	if err != nil {
		logger.Log.Errorf("NotifyTyped: failed to marshal %s payload: %v", msgType, err)
		return
	}
	n.Notify(participantID, env)
}

// NotifyRoom 向房间双方投递同一个信封
func (n *Notifier) NotifyRoom(rm *room.Room, msgType string, payload interface{}) {
	env, err := network.NewEnvelope(msgType, payload)
	if err != nil {
		logger.Log.Errorf("NotifyRoom: failed to marshal %s payload: %v", msgType, err)
		return
	}
	for _, id := range rm.Participants() {
		n.Notify(id, env)
	}
}
