// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/maxiusi3/wordchallenge-sub000/models"
)

// PostgreSQL 原生SQL实现
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 初始化表结构
	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	// 创建玩家表
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS participants (
            id SERIAL PRIMARY KEY,
            user_id BIGINT UNIQUE NOT NULL,
            display_name VARCHAR(255) NOT NULL DEFAULT '',
            cohort VARCHAR(100) NOT NULL DEFAULT '',
            total_games INT NOT NULL DEFAULT 0,
            wins INT NOT NULL DEFAULT 0,
            losses INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建对局记录表
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS match_records (
            id SERIAL PRIMARY KEY,
            room_id VARCHAR(255) NOT NULL,
            cohort VARCHAR(100) NOT NULL,
            players JSONB NOT NULL,
            result JSONB NOT NULL,
            synthetic BOOLEAN NOT NULL DEFAULT FALSE,
            duration INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建房间快照表
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS room_snapshots (
            id SERIAL PRIMARY KEY,
            room_id VARCHAR(255) UNIQUE NOT NULL,
            cohort VARCHAR(100) NOT NULL,
            state VARCHAR(50) NOT NULL,
            players JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建索引以提高查询性能
	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_participants_user_id ON participants(user_id);
        CREATE INDEX IF NOT EXISTS idx_participants_cohort ON participants(cohort);
        CREATE INDEX IF NOT EXISTS idx_match_records_room_id ON match_records(room_id);
        CREATE INDEX IF NOT EXISTS idx_match_records_created_at ON match_records(created_at);
        CREATE INDEX IF NOT EXISTS idx_room_snapshots_room_id ON room_snapshots(room_id);
    `)

	return err
}

// SaveMatchRecord 保存对局记录
func (p *PostgreSQL) SaveMatchRecord(record models.MatchRecord, results models.GameResults) error {
	players, err := json.Marshal(map[string]interface{}{
		"participants":   record.Players,
		"user_ids":       record.UserIDs,
		"winner_id":      record.WinnerID,
		"winner_user_id": record.WinnerUserID,
	})
	if err != nil {
		return err
	}

	result, err := json.Marshal(map[string]interface{}{
		"reason":     record.Reason,
		"level_wins": results.LevelWins,
		"scores":     results.Scores,
		"levels":     results.Levels,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO match_records (room_id, cohort, players, result, synthetic, duration)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err = p.db.ExecContext(ctx, query,
		record.RoomID,
		record.Cohort,
		players,
		result,
		record.Synthetic,
		int(results.Duration.Seconds()))

	return err
}

// UpsertParticipant 创建或更新玩家档案
func (p *PostgreSQL) UpsertParticipant(profile models.Profile) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 使用 UPSERT 操作 (PostgreSQL 9.5+)
	query := `
        INSERT INTO participants (user_id, display_name, cohort)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id)
        DO UPDATE SET display_name = $2, cohort = $3, updated_at = CURRENT_TIMESTAMP
    `

	_, err := p.db.ExecContext(ctx, query, profile.UserID, profile.DisplayName, profile.Cohort)
	return err
}

// RecordOutcome 原子更新玩家的胜负统计
func (p *PostgreSQL) RecordOutcome(userID int64, won bool) error {
	winInc, lossInc := 0, 1
	if won {
		winInc, lossInc = 1, 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO participants (user_id, total_games, wins, losses)
        VALUES ($1, 1, $2, $3)
        ON CONFLICT (user_id)
        DO UPDATE SET
            total_games = participants.total_games + 1,
            wins = participants.wins + $2,
            losses = participants.losses + $3,
            updated_at = CURRENT_TIMESTAMP
    `

	_, err := p.db.ExecContext(ctx, query, userID, winInc, lossInc)
	return err
}

// GetParticipantStats 查询玩家统计
func (p *PostgreSQL) GetParticipantStats(userID int64) (*models.ParticipantStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var stats models.ParticipantStats
	query := `SELECT total_games, wins, losses FROM participants WHERE user_id = $1`
	err := p.db.QueryRowContext(ctx, query, userID).Scan(&stats.TotalGames, &stats.Wins, &stats.Losses)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return &stats, nil
}

// SaveRoomSnapshot 保存房间快照
func (p *PostgreSQL) SaveRoomSnapshot(roomID, cohort, state string, players map[string]interface{}) error {
	playersJSON, err := json.Marshal(players)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO room_snapshots (room_id, cohort, state, players)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (room_id)
        DO UPDATE SET state = $3, players = $4, updated_at = CURRENT_TIMESTAMP
    `

	_, err = p.db.ExecContext(ctx, query, roomID, cohort, state, playersJSON)
	return err
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
