// network/protocol.go
package network

import (
	"encoding/json"

	"github.com/maxiusi3/wordchallenge-sub000/models"
)

// 消息类型。客户端与服务端之间的所有消息都封装为
// {"type": "...", "payload": {...}} 形式的JSON信封。
const (
	TypeHeartbeat = "heartbeat"

	// 入站
	TypeRegister      = "register"
	TypeJoinMatching  = "joinMatching"
	TypeLeaveMatching = "leaveMatching"
	TypePlayerReady   = "playerReady"
	TypeGameAction    = "gameAction"
	TypeLevelEnded    = "levelEnded"

	// 出站
	TypeRegistered           = "registered"
	TypeMatchingStatus       = "matchingStatus"
	TypeMatchFound           = "matchFound"
	TypeGameStart            = "gameStart"
	TypeQuestion             = "question"
	TypeAnswerResult         = "answerResult"
	TypeLevelAdvanced        = "levelAdvanced"
	TypeOpponentDisconnected = "opponentDisconnected"
	TypeGameFinished         = "gameFinished"
)

// GameAction 动作种类
const (
	ActionAnswerSubmitted = "answerSubmitted"
	ActionLevelEnded      = "levelEnded"
)

// Envelope 是线上传输的统一消息格式
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope 构造带序列化payload的信封
func NewEnvelope(msgType string, payload interface{}) (*Envelope, error) {
	if payload == nil {
		return &Envelope{Type: msgType}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Envelope{Type: msgType, Payload: data}, nil
}

// --- 入站 payload ---

type RegisterPayload struct {
	Profile models.Profile `json:"profile"`
}

type JoinMatchingPayload struct {
	Cohort string `json:"cohort"`
}

type GameActionPayload struct {
	Kind            string          `json:"kind"`
	Payload         json.RawMessage `json:"payload,omitempty"`
	ClientTimestamp int64           `json:"client_timestamp"`
}

// AnswerPayload 是 answerSubmitted 动作的业务载荷
type AnswerPayload struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

type LevelEndedPayload struct {
	Level           int    `json:"level"`
	WinnerRole      string `json:"winner_role"`
	ClientTimestamp int64  `json:"client_timestamp"`
}

// --- 出站 payload ---

type RegisteredPayload struct {
	ParticipantID string `json:"participant_id"`
}

type MatchingStatusPayload struct {
	Status string `json:"status"` // waiting / matched
}

type MatchFoundPayload struct {
	RoomID   string         `json:"room_id"`
	Opponent models.Profile `json:"opponent"`
	Role     string         `json:"role"`
}

type GameStartPayload struct {
	RoomID string `json:"room_id"`
	Level  int    `json:"level"`
}

type QuestionPayload struct {
	Question models.Question `json:"question"`
	Attempts int             `json:"attempts"`
}

type RelayedActionPayload struct {
	ActorID string          `json:"actor_id"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type AnswerResultPayload struct {
	QuestionID   string `json:"question_id"`
	Correct      bool   `json:"correct"`
	Finalized    bool   `json:"finalized"`
	AttemptsLeft int    `json:"attempts_left"`
	Score        int    `json:"score"`
}

type LevelAdvancedPayload struct {
	Level      int            `json:"level"`
	WinnerRole string         `json:"winner_role"`
	LevelWins  map[string]int `json:"level_wins"`
}

type GameFinishedPayload struct {
	Results models.GameResults `json:"results"`
}
