package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	PoolSize int    `mapstructure:"pool_size"`
}

func (d DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// Messages expire from the hot store after this many minutes.
	MsgTTLMins int64 `mapstructure:"msg_ttl_mins"`
}

func (r RedisConfig) MsgTTL() time.Duration {
	return time.Duration(r.MsgTTLMins) * time.Minute
}

type AuthConfig struct {
	JWTSecret   string `mapstructure:"jwt_secret"`
	TokenTTLHrs int    `mapstructure:"token_ttl_hrs"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHrs) * time.Hour
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LLMConfig selects the model that drives turns. Provider must match a
// registered adapter; FallbackModel is tried once when the primary fails.
type LLMConfig struct {
	Provider       string  `mapstructure:"provider"`
	Model          string  `mapstructure:"model"`
	FallbackModel  string  `mapstructure:"fallback_model"`
	Temperature    float64 `mapstructure:"temperature"`
	MaxTokens      int64   `mapstructure:"max_tokens"`
	TimeoutSeconds int     `mapstructure:"timeout"`
	MaxRetries     int     `mapstructure:"max_retries"`
}

func (l LLMConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// MiddlewareConfig tunes the per-turn hooks around model and tool calls.
type MiddlewareConfig struct {
	ToolMaxRetries int `mapstructure:"tool_max_retries"`
	// Summarization triggers once the history passes this token estimate.
	SummarizationMaxTokensBefore int `mapstructure:"summarization_max_tokens_before"`
	SummarizationMessagesToKeep  int `mapstructure:"summarization_messages_to_keep"`
}

type AgentConfig struct {
	MaxSteps         int `mapstructure:"max_steps"`
	MaxToolCallLimit int `mapstructure:"max_tool_call_limit"`
}

type AssistantKeysObj struct {
	OpenAiApiKey string   `mapstructure:"open_ai_api_key"`
	GeminiApiKey string   `mapstructure:"gemini_api_key"`
	OllamaURLs   []string `mapstructure:"ollama_urls"`
}

type Settings struct {
	DB            DBConfig         `mapstructure:"database"`
	Redis         RedisConfig      `mapstructure:"redis"`
	Auth          AuthConfig       `mapstructure:"auth"`
	Server        ServerConfig     `mapstructure:"server"`
	LLM           LLMConfig        `mapstructure:"llm"`
	Middleware    MiddlewareConfig `mapstructure:"middleware"`
	Agent         AgentConfig      `mapstructure:"agent"`
	AssistantKeys AssistantKeysObj `mapstructure:"assistantKeys"`
	Env           string           `mapstructure:"env"`
	Debug         bool             `mapstructure:"debug" default:"false"`
}

func Load() (*Settings, error) {
	// Load settings from a configuration file or environment variables
	viper.SetConfigName("config_" + genEnv())
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var settings Settings
	if err := viper.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &settings, nil
}

func setDefaults() {
	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.model", "gpt-5")
	viper.SetDefault("llm.temperature", 0.1)
	viper.SetDefault("llm.max_tokens", 1000)
	viper.SetDefault("llm.timeout", 30)
	viper.SetDefault("llm.max_retries", 2)
	viper.SetDefault("middleware.tool_max_retries", 2)
	viper.SetDefault("middleware.summarization_max_tokens_before", 4000)
	viper.SetDefault("middleware.summarization_messages_to_keep", 20)
	viper.SetDefault("agent.max_steps", 6)
	viper.SetDefault("agent.max_tool_call_limit", 10)
	viper.SetDefault("auth.token_ttl_hrs", 72)
	viper.SetDefault("redis.msg_ttl_mins", 60*24)
}

func genEnv() string {
	env := viper.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
