// models/models.go
package models

import (
	"time"
)

// Profile 玩家注册资料
type Profile struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Cohort      string `json:"cohort"` // 年级/分组，例如 "g5"
	Avatar      string `json:"avatar,omitempty"`
}

// Question 题目模型，由题库提供
type Question struct {
	ID     string `json:"id"`
	Cohort string `json:"cohort"`
	Level  int    `json:"level"`
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
}

// GameResults 对局结算结果
type GameResults struct {
	RoomID    string         `json:"room_id"`
	WinnerID  string         `json:"winner_id"` // empty on a draw that never resolved
	Reason    string         `json:"reason"`    // completed / opponent_left / timeout / swept
	LevelWins map[string]int `json:"level_wins"`
	Scores    map[string]int `json:"scores"`
	Levels    int            `json:"levels"`
	Duration  time.Duration  `json:"duration"`
}

// MatchRecord 对局记录（用于持久化）
type MatchRecord struct {
	RoomID       string    `json:"room_id"`
	Cohort       string    `json:"cohort"`
	Players      []string  `json:"players"`
	UserIDs      []int64   `json:"user_ids"` // 真人玩家的账号ID，合成对手不在内
	WinnerID     string    `json:"winner_id"`
	WinnerUserID int64     `json:"winner_user_id"`
	Reason       string    `json:"reason"`
	Synthetic    bool      `json:"synthetic"` // true when one side was a bot
	CreatedAt    time.Time `json:"created_at"`
}

// ParticipantStats 玩家统计信息
type ParticipantStats struct {
	TotalGames int `json:"total_games"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
}
