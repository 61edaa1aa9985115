package config

import (
	"time"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	API       APIConfig       `mapstructure:"api"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Predictor PredictorConfig `mapstructure:"predictor"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Reports   ReportsConfig   `mapstructure:"reports"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Events    EventsConfig    `mapstructure:"events"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Mode            string        `mapstructure:"mode"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type APIConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	RateLimit    int           `mapstructure:"rate_limit"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	StaticDir    string        `mapstructure:"static_dir"`
	CORS         CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// DatasetConfig describes the hourly multi-site time-series source.
// SiteColumns lists every site-indicator column in the file; Site selects the
// one whose rows are kept.
type DatasetConfig struct {
	Path            string   `mapstructure:"path"`
	Site            string   `mapstructure:"site"`
	SiteColumns     []string `mapstructure:"site_columns"`
	TargetColumn    string   `mapstructure:"target_column"`
	TimestampColumn string   `mapstructure:"timestamp_column"`
}

type PredictorConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LLMConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
}

type ReportsConfig struct {
	PredictionsPath  string `mapstructure:"predictions_path"`
	InefficiencyPath string `mapstructure:"inefficiency_path"`
}

type WebSocketConfig struct {
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PongTimeout     time.Duration `mapstructure:"pong_timeout"`
	MaxMessageSize  int64         `mapstructure:"max_message_size"`
	BroadcastBuffer int           `mapstructure:"broadcast_buffer"`
	ClientBuffer    int           `mapstructure:"client_buffer"`
}

type EventsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}
