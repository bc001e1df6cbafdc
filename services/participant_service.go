// services/participant_service.go
package services

import (
	"github.com/maxiusi3/wordchallenge-sub000/logger"
	"github.com/maxiusi3/wordchallenge-sub000/models"
	"github.com/maxiusi3/wordchallenge-sub000/persistence"
)

// ParticipantService 封装玩家档案与对局记录的持久化逻辑。
// 实现 game.MatchRecorder。
type ParticipantService struct {
	db persistence.Database
}

func NewParticipantService(db persistence.Database) *ParticipantService {
	return &ParticipantService{db: db}
}

// UpsertProfile 注册时同步玩家档案
func (s *ParticipantService) UpsertProfile(profile models.Profile) error {
	if profile.UserID == 0 {
		// 匿名玩家不落库
		return nil
	}
	return s.db.UpsertParticipant(profile)
}

// RecordMatch 对局结束后写入记录并更新双方胜负统计
func (s *ParticipantService) RecordMatch(record models.MatchRecord, results models.GameResults) error {
	if err := s.db.SaveMatchRecord(record, results); err != nil {
		return err
	}

	for _, userID := range record.UserIDs {
		if userID == 0 {
			continue
		}
		won := userID == record.WinnerUserID && record.WinnerUserID != 0
		if err := s.db.RecordOutcome(userID, won); err != nil {
			logger.Log.Errorw("record outcome failed",
				"user_id", userID,
				"room_id", record.RoomID,
				"error", err)
		}
	}

	return nil
}

// SnapshotRoom 保存被清理房间的现场快照，供事后排查
func (s *ParticipantService) SnapshotRoom(roomID, cohort, state string, players map[string]interface{}) error {
	return s.db.SaveRoomSnapshot(roomID, cohort, state, players)
}

// GetParticipantWithStats 获取玩家统计信息
func (s *ParticipantService) GetParticipantWithStats(userID int64) (*models.ParticipantStats, error) {
	return s.db.GetParticipantStats(userID)
}
