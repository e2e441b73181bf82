package config

import "time"

// Config 配置主体
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	DB          DBConfig          `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Mongo       MongoConfig       `mapstructure:"mongo"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Scorer      ScorerConfig      `mapstructure:"scorer"`
	MinIO       MinIOConfig       `mapstructure:"minio"`
	Elastic     ElasticConfig     `mapstructure:"elastic"`
	Mail        MailConfig        `mapstructure:"mail"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	KafkaTopics KafkaTopicsConfig `mapstructure:"kafka_topics"`
	Moderation  ModerationConfig  `mapstructure:"moderation"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port                   int    `mapstructure:"port"`
	JWTSecret              string `mapstructure:"jwt_secret"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds"`
}

// ShutdownTimeout 优雅退出等待时长
func (c ServerConfig) ShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string         `mapstructure:"level"`
	Logstash LogstashConfig `mapstructure:"logstash"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// DBConfig 数据库配置
type DBConfig struct {
	Driver      string `mapstructure:"driver"` // mysql | postgres
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type LLMConfig struct {
	URL         string `mapstructure:"url"`
	TextModel   string `mapstructure:"text_model"`
	ApiKey      string `mapstructure:"api_key"`
	Concurrency int64  `mapstructure:"concurrency"`
	PromptPath  string `mapstructure:"prompt_path"`
	// ThinkingMode GLM 思考开关，留空不注入
	ThinkingMode string `mapstructure:"thinking_mode"`
}

// ScorerConfig AI 评分服务配置
type ScorerConfig struct {
	Provider       string `mapstructure:"provider"` // llm | http
	URL            string `mapstructure:"url"`
	ApiKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	ContentBucket string `mapstructure:"content_bucket"`
	UseSSL        bool   `mapstructure:"use_ssl"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	StoryIndex string `mapstructure:"story_index"`
}

// MailConfig SMTP 配置
type MailConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	From          string `mapstructure:"from"`
	SkipTLSVerify bool   `mapstructure:"skip_tls_verify"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// KafkaTopicsConfig 审核流转相关的主题
type KafkaTopicsConfig struct {
	Submitted        string `mapstructure:"submitted"`
	Published        string `mapstructure:"published"`
	Lifecycle        string `mapstructure:"lifecycle"`
	ScreeningGroupID string `mapstructure:"screening_group_id"`
}

// ModerationConfig 审核引擎配置
type ModerationConfig struct {
	StoryCooldownHours   int                `mapstructure:"story_cooldown_hours"`
	ChapterCooldownHours int                `mapstructure:"chapter_cooldown_hours"`
	Screening            ScreeningConfig    `mapstructure:"screening"`
	Jobs                 ModerationJobsCron `mapstructure:"jobs"`
}

// ScreeningConfig AI 预审的重试策略
type ScreeningConfig struct {
	MaxAttempts           int `mapstructure:"max_attempts"`
	AttemptTimeoutSeconds int `mapstructure:"attempt_timeout_seconds"`
	BackoffMillis         int `mapstructure:"backoff_ms"`
	StaleAfterMinutes     int `mapstructure:"stale_after_minutes"`
	RescreenBatch         int `mapstructure:"rescreen_batch"`
}

type ModerationJobsCron struct {
	Rescreen   string `mapstructure:"rescreen"`
	QueueGauge string `mapstructure:"queue_gauge"`
}
