package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/energy-assistant")
	}

	// Environment variable settings
	v.SetEnvPrefix("ASSISTANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The language-model credential also honors the conventional variable name
	// so deployments keyed on OPENAI_API_KEY keep working.
	_ = v.BindEnv("llm.api_key", "ASSISTANT_LLM_API_KEY", "OPENAI_API_KEY")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "energy-assistant")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "30s")

	// API defaults
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", "15s")
	// Write timeout must outlast the forecasting service, which can take up
	// to predictor.timeout to answer.
	v.SetDefault("api.write_timeout", "200s")
	v.SetDefault("api.idle_timeout", "60s")
	v.SetDefault("api.rate_limit", 100)
	v.SetDefault("api.max_body_bytes", 10485760)
	v.SetDefault("api.static_dir", "./web")

	// Dataset defaults
	v.SetDefault("dataset.path", "data/dataset_listoParaRedNeuronal3.csv")
	v.SetDefault("dataset.site", "UPTC_CHI")
	v.SetDefault("dataset.site_columns", []string{"UPTC_CHI", "UPTC_TUN", "UPTC_DUI", "UPTC_SOG"})
	v.SetDefault("dataset.target_column", "energia_total_kwh")
	v.SetDefault("dataset.timestamp_column", "timestamp")

	// Predictor defaults
	v.SetDefault("predictor.endpoint", "https://uptc-energy-api.onrender.com/predict")
	v.SetDefault("predictor.timeout", "180s")

	// LLM defaults
	v.SetDefault("llm.endpoint", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("llm.model", "gpt-4.1-mini")

	// Reports defaults
	v.SetDefault("reports.predictions_path", "data/predicciones.csv")
	v.SetDefault("reports.inefficiency_path", "data/reporte_ineficiencias.csv")

	// WebSocket defaults
	v.SetDefault("websocket.ping_interval", "54s")
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.pong_timeout", "60s")
	v.SetDefault("websocket.max_message_size", 512)
	v.SetDefault("websocket.broadcast_buffer", 256)
	v.SetDefault("websocket.client_buffer", 256)

	// Events defaults
	v.SetDefault("events.buffer_size", 100)
}
