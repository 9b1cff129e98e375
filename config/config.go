package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort    string   `mapstructure:"HTTP_PORT"`
	DBHost      string   `mapstructure:"DB_HOST"`
	DBPort      string   `mapstructure:"DB_PORT"`
	DBUser      string   `mapstructure:"DB_USER"`
	DBPassword  string   `mapstructure:"DB_PASSWORD"`
	DBName      string   `mapstructure:"DB_NAME"`
	RedisAddr   string   `mapstructure:"REDIS_ADDR"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	AccessSecret    string        `mapstructure:"ACCESS_SECRET"`
	RefreshSecret   string        `mapstructure:"REFRESH_SECRET"`
	AccessTokenTTL  time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	AdminAPIKey     string        `mapstructure:"ADMIN_API_KEY"`

	Timezone string `mapstructure:"TIMEZONE"`
	LogMode  string `mapstructure:"LOG_MODE"`

	BaseXPPerLevel     int     `mapstructure:"BASE_XP_PER_LEVEL"`
	XPMultiplier       float64 `mapstructure:"XP_MULTIPLIER"`
	StreakResetHour    int     `mapstructure:"STREAK_RESET_HOUR"`
	MaxStreakFreezes   int     `mapstructure:"MAX_STREAK_FREEZES"`
	StreakFreezeCostXP int     `mapstructure:"STREAK_FREEZE_COST_XP"`
	StreakBonusRate    float64 `mapstructure:"STREAK_BONUS_RATE"`
	StreakBonusCap     float64 `mapstructure:"STREAK_BONUS_CAP"`
	XPLessonComplete   int     `mapstructure:"XP_LESSON_COMPLETE"`
	XPPuzzleEasy       int     `mapstructure:"XP_PUZZLE_EASY"`
	XPPuzzleMedium     int     `mapstructure:"XP_PUZZLE_MEDIUM"`
	XPPuzzleHard       int     `mapstructure:"XP_PUZZLE_HARD"`
	XPDailyGoalReward  int     `mapstructure:"XP_DAILY_GOAL_REWARD"`
}

var keys = []string{
	"HTTP_PORT", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"REDIS_ADDR", "CORS_ORIGINS", "ACCESS_SECRET", "REFRESH_SECRET",
	"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "ADMIN_API_KEY", "TIMEZONE",
	"LOG_MODE", "BASE_XP_PER_LEVEL", "XP_MULTIPLIER", "STREAK_RESET_HOUR",
	"MAX_STREAK_FREEZES", "STREAK_FREEZE_COST_XP", "STREAK_BONUS_RATE",
	"STREAK_BONUS_CAP", "XP_LESSON_COMPLETE", "XP_PUZZLE_EASY",
	"XP_PUZZLE_MEDIUM", "XP_PUZZLE_HARD", "XP_DAILY_GOAL_REWARD",
}

func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	// Bind every key explicitly so env vars are seen without a config file.
	for _, k := range keys {
		viper.BindEnv(k)
	}

	viper.SetDefault("HTTP_PORT", ":8080")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_NAME", "promptcraft")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("ACCESS_TOKEN_TTL", "15m")
	viper.SetDefault("REFRESH_TOKEN_TTL", "168h")
	viper.SetDefault("TIMEZONE", "UTC")
	viper.SetDefault("LOG_MODE", "dev")

	viper.SetDefault("BASE_XP_PER_LEVEL", 100)
	viper.SetDefault("XP_MULTIPLIER", 1.5)
	viper.SetDefault("STREAK_RESET_HOUR", 4)
	viper.SetDefault("MAX_STREAK_FREEZES", 3)
	viper.SetDefault("STREAK_FREEZE_COST_XP", 200)
	viper.SetDefault("STREAK_BONUS_RATE", 0.02)
	viper.SetDefault("STREAK_BONUS_CAP", 0.5)
	viper.SetDefault("XP_LESSON_COMPLETE", 50)
	viper.SetDefault("XP_PUZZLE_EASY", 50)
	viper.SetDefault("XP_PUZZLE_MEDIUM", 100)
	viper.SetDefault("XP_PUZZLE_HARD", 150)
	viper.SetDefault("XP_DAILY_GOAL_REWARD", 25)

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		// No file is fine, env and defaults cover everything.
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
