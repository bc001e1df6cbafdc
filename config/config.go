package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Match    MatchConfig    `mapstructure:"match"`
	Game     GameConfig     `mapstructure:"game"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type MatchConfig struct {
	WaitDeadlineSeconds int `mapstructure:"wait_deadline_seconds"`
}

type GameConfig struct {
	MaxLevels           int    `mapstructure:"max_levels"`
	QuestionsPerLevel   int    `mapstructure:"questions_per_level"`
	AttemptsPerQuestion int    `mapstructure:"attempts_per_question"`
	PointsPerCorrect    int    `mapstructure:"points_per_correct"`
	CeilingMinutes      int    `mapstructure:"ceiling_minutes"`
	RoomMaxAgeMinutes   int    `mapstructure:"room_max_age_minutes"`
	SweepSeconds        int    `mapstructure:"sweep_seconds"`
	QuestionBankPath    string `mapstructure:"question_bank_path"`
}

type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver"` // "gorm" or "pq"
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("match.wait_deadline_seconds", 20)
	viper.SetDefault("game.max_levels", 3)
	viper.SetDefault("game.questions_per_level", 5)
	viper.SetDefault("game.attempts_per_question", 3)
	viper.SetDefault("game.points_per_correct", 10)
	viper.SetDefault("game.ceiling_minutes", 15)
	viper.SetDefault("game.room_max_age_minutes", 30)
	viper.SetDefault("game.sweep_seconds", 60)
	viper.SetDefault("database.driver", "gorm")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}

// WaitDeadline 匹配等待截止时间
func (c *MatchConfig) WaitDeadline() time.Duration {
	return time.Duration(c.WaitDeadlineSeconds) * time.Second
}

// Ceiling 单局游戏的最长时间
func (c *GameConfig) Ceiling() time.Duration {
	return time.Duration(c.CeilingMinutes) * time.Minute
}

// RoomMaxAge 房间最大存活时间
func (c *GameConfig) RoomMaxAge() time.Duration {
	return time.Duration(c.RoomMaxAgeMinutes) * time.Minute
}

// SweepInterval 过期房间清理周期
func (c *GameConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepSeconds) * time.Second
}
