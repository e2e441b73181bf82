package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg，环境变量优先
func LoadConfig() error {
	// .env 不存在时忽略
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdown_timeout_seconds", 5)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("database.driver", "mysql")
	viper.SetDefault("scorer.provider", "llm")
	viper.SetDefault("scorer.timeout_seconds", 30)
	viper.SetDefault("llm.concurrency", 5)
	viper.SetDefault("llm.prompt_path", "./prompts/content-score.txt")
	viper.SetDefault("llm.thinking_mode", "disabled")
	viper.SetDefault("mail.port", 587)
	viper.SetDefault("kafka_topics.submitted", "inkwell.moderation.submitted")
	viper.SetDefault("kafka_topics.published", "inkwell.content.published")
	viper.SetDefault("kafka_topics.lifecycle", "inkwell.content.lifecycle")
	viper.SetDefault("kafka_topics.screening_group_id", "inkwell-screening")
	viper.SetDefault("moderation.story_cooldown_hours", 24)
	viper.SetDefault("moderation.chapter_cooldown_hours", 24)
	viper.SetDefault("moderation.screening.max_attempts", 3)
	viper.SetDefault("moderation.screening.attempt_timeout_seconds", 30)
	viper.SetDefault("moderation.screening.backoff_ms", 500)
	viper.SetDefault("moderation.screening.stale_after_minutes", 10)
	viper.SetDefault("moderation.screening.rescreen_batch", 100)
	viper.SetDefault("moderation.jobs.rescreen", "0 */5 * * * *")
	viper.SetDefault("moderation.jobs.queue_gauge", "0 * * * * *")
}

// StoryCooldown 作品被拒后再次提交的冷却时长
func (c ModerationConfig) StoryCooldown() time.Duration {
	return time.Duration(c.StoryCooldownHours) * time.Hour
}

// ChapterCooldown 章节被拒后再次提交的冷却时长
func (c ModerationConfig) ChapterCooldown() time.Duration {
	return time.Duration(c.ChapterCooldownHours) * time.Hour
}

func (c ScreeningConfig) AttemptTimeout() time.Duration {
	return time.Duration(c.AttemptTimeoutSeconds) * time.Second
}

func (c ScreeningConfig) Backoff() time.Duration {
	return time.Duration(c.BackoffMillis) * time.Millisecond
}

func (c ScreeningConfig) StaleAfter() time.Duration {
	return time.Duration(c.StaleAfterMinutes) * time.Minute
}
