// relay/relay.go
package relay

import (
	"errors"
	"time"

	"github.com/maxiusi3/wordchallenge-sub000/logger"
	"github.com/maxiusi3/wordchallenge-sub000/network"
	"github.com/maxiusi3/wordchallenge-sub000/room"
)

var (
	// ErrDuplicateAction 带有已见过的去重键的重复投递
	ErrDuplicateAction = errors.New("duplicate action delivery")
	// ErrNotAMember 动作来自非房间成员
	ErrNotAMember = errors.New("actor is not a member of the room")
	// ErrRoomNotActive 房间不在进行中
	ErrRoomNotActive = errors.New("room is not in game")
)

// Notifier 把信封推送给指定玩家。在 relay 包内定义以避免
// 与 broadcast 包的循环引用。
type Notifier interface {
	Notify(participantID string, env *network.Envelope)
}

// Relay 负责校验、去重并把对局动作转发给对手。
// 动作绝不回送给发起者本人；同一个发起者的动作按提交顺序送达。
type Relay struct {
	rooms    *room.Store
	notifier Notifier
}

func NewRelay(rooms *room.Store, notifier Notifier) *Relay {
	return &Relay{rooms: rooms, notifier: notifier}
}

// Submit 处理一条对局动作。所有失败都只记日志并返回哨兵错误，
// 不会影响房间本身（客户端可能重试投递，重复是预期情况）。
func (r *Relay) Submit(roomID, actorID string, action network.GameActionPayload) error {
	rm, exists := r.rooms.Get(roomID)
	if !exists {
		logger.Log.Warnf("Action for unknown room %s from %s dropped", roomID, actorID)
		return room.ErrRoomNotFound
	}

	if !rm.IsMember(actorID) {
		logger.Log.Warnf("Action from non-member %s for room %s dropped", actorID, roomID)
		return ErrNotAMember
	}

	if rm.Status() != room.StatusActive {
		logger.Log.Warnf("Action %s from %s dropped: room %s is not in game", action.Kind, actorID, roomID)
		return ErrRoomNotActive
	}

	key := room.DedupKey(actorID, action.Kind, action.ClientTimestamp)
	if !rm.MarkSeen(key) {
		logger.Log.Infof("Duplicate action %s in room %s dropped", key, roomID)
		return ErrDuplicateAction
	}

	rm.Append(room.LoggedAction{
		ActorID:         actorID,
		Kind:            action.Kind,
		Payload:         action.Payload,
		ClientTimestamp: action.ClientTimestamp,
		ReceivedAt:      time.Now(),
	})

	opponentID, _ := rm.Opponent(actorID)
	env, err := network.NewEnvelope(network.TypeGameAction, network.RelayedActionPayload{
		ActorID: actorID,
		Kind:    action.Kind,
		Payload: action.Payload,
	})
	if err != nil {
		logger.Log.Errorf("Failed to build relay envelope for room %s: %v", roomID, err)
		return err
	}
	r.notifier.Notify(opponentID, env)

	return nil
}
