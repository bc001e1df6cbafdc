// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormParticipant 玩家模型
type GormParticipant struct {
	gorm.Model
	UserID      int64                  `gorm:"uniqueIndex;not null"`
	DisplayName string                 `gorm:"not null"`
	Cohort      string                 `gorm:"index;not null"`
	Stats       map[string]interface{} `gorm:"type:jsonb"`
}

// GormMatchRecord 对局记录模型
type GormMatchRecord struct {
	gorm.Model
	RoomID    string                 `gorm:"index;not null"`
	Cohort    string                 `gorm:"not null"`
	Players   map[string]interface{} `gorm:"type:jsonb;not null"`
	Result    map[string]interface{} `gorm:"type:jsonb;not null"`
	Synthetic bool                   `gorm:"default:false"`
	Duration  int                    `gorm:"default:0"` // 对局时长(秒)
}

// GormRoomSnapshot 房间快照，用于崩溃后的事后排查
type GormRoomSnapshot struct {
	gorm.Model
	RoomID  string                 `gorm:"uniqueIndex;not null"`
	Cohort  string                 `gorm:"not null"`
	State   string                 `gorm:"not null"`
	Players map[string]interface{} `gorm:"type:jsonb"`
}

func (GormParticipant) TableName() string { return "participants" }

func (GormMatchRecord) TableName() string { return "match_records" }

func (GormRoomSnapshot) TableName() string { return "room_snapshots" }
