// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/maxiusi3/wordchallenge-sub000/models"
)

// Database 数据库接口。两套实现：GORM和原生SQL(lib/pq)。
type Database interface {
	SaveMatchRecord(record models.MatchRecord, results models.GameResults) error
	UpsertParticipant(profile models.Profile) error
	RecordOutcome(userID int64, won bool) error
	GetParticipantStats(userID int64) (*models.ParticipantStats, error)
	SaveRoomSnapshot(roomID, cohort, state string, players map[string]interface{}) error
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
