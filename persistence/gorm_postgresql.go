// persistence/gorm_postgresql.go
package persistence

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/maxiusi3/wordchallenge-sub000/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormlogger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&models.GormParticipant{},
		&models.GormMatchRecord{},
		&models.GormRoomSnapshot{},
	); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// SaveMatchRecord 保存对局记录
func (p *GormPostgreSQL) SaveMatchRecord(record models.MatchRecord, results models.GameResults) error {
	players := map[string]interface{}{
		"participants":   record.Players,
		"user_ids":       record.UserIDs,
		"winner_id":      record.WinnerID,
		"winner_user_id": record.WinnerUserID,
	}
	result := map[string]interface{}{
		"reason":     record.Reason,
		"level_wins": results.LevelWins,
		"scores":     results.Scores,
		"levels":     results.Levels,
	}

	row := models.GormMatchRecord{
		RoomID:    record.RoomID,
		Cohort:    record.Cohort,
		Players:   players,
		Result:    result,
		Synthetic: record.Synthetic,
		Duration:  int(results.Duration.Seconds()),
	}
	return p.db.Create(&row).Error
}

// UpsertParticipant 创建或更新玩家档案
func (p *GormPostgreSQL) UpsertParticipant(profile models.Profile) error {
	var row models.GormParticipant
	result := p.db.Where("user_id = ?", profile.UserID).First(&row)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		row = models.GormParticipant{
			UserID:      profile.UserID,
			DisplayName: profile.DisplayName,
			Cohort:      profile.Cohort,
		}
		return p.db.Create(&row).Error
	} else if result.Error != nil {
		return result.Error
	}

	row.DisplayName = profile.DisplayName
	row.Cohort = profile.Cohort
	return p.db.Save(&row).Error
}

// RecordOutcome 原子更新玩家的胜负统计
func (p *GormPostgreSQL) RecordOutcome(userID int64, won bool) error {
	winInc, lossInc := 0, 1
	if won {
		winInc, lossInc = 1, 0
	}

	return p.db.Transaction(func(tx *gorm.DB) error {
		var row models.GormParticipant
		if err := tx.Where("user_id = ?", userID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				row = models.GormParticipant{UserID: userID}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			} else {
				return err
			}
		}

		return tx.Model(&row).Update("stats", gorm.Expr(`
            jsonb_set(
                jsonb_set(
                    jsonb_set(
                        COALESCE(stats, '{}'::jsonb),
                        '{total_games}',
                        to_jsonb(COALESCE((stats->>'total_games')::int, 0) + 1)
                    ),
                    '{wins}',
                    to_jsonb(COALESCE((stats->>'wins')::int, 0) + ?)
                ),
                '{losses}',
                to_jsonb(COALESCE((stats->>'losses')::int, 0) + ?)
            )
        `, winInc, lossInc)).Error
	})
}

// GetParticipantStats 查询玩家统计
func (p *GormPostgreSQL) GetParticipantStats(userID int64) (*models.ParticipantStats, error) {
	var stats models.ParticipantStats

	err := p.db.Raw(
		`
        SELECT
            COALESCE((stats->>'total_games')::int, 0) as total_games,
            COALESCE((stats->>'wins')::int, 0) as wins,
            COALESCE((stats->>'losses')::int, 0) as losses
        FROM participants
        WHERE user_id = ?`,
		userID,
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// SaveRoomSnapshot 保存房间快照
func (p *GormPostgreSQL) SaveRoomSnapshot(roomID, cohort, state string, players map[string]interface{}) error {
	var row models.GormRoomSnapshot
	result := p.db.Where("room_id = ?", roomID).First(&row)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		row = models.GormRoomSnapshot{
			RoomID:  roomID,
			Cohort:  cohort,
			State:   state,
			Players: players,
		}
		return p.db.Create(&row).Error
	} else if result.Error != nil {
		return result.Error
	}

	row.State = state
	row.Players = players
	return p.db.Save(&row).Error
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
