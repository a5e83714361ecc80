package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	TransportConsole  = "console"
	TransportTelegram = "telegram"
)

type OpenAI struct {
	// Environment only. Without it remote mode asks the user for a key.
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIModel       string        `yaml:"openai_model" env:"OPENAI_MODEL" env-default:"gpt-3.5-turbo"`
	OpenAIBaseURL     string        `yaml:"open_ai_base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com"`
	ModelTemperature  float32       `yaml:"model_temperature" env:"MODEL_TEMPERATURE" env-default:"0.7"`
	MaxTokens         int           `yaml:"max_tokens" env:"MAX_TOKENS" env-default:"500"`
	RequestTimeout    time.Duration `yaml:"request_timeout" env:"OPENAI_REQUEST_TIMEOUT" env-default:"30s"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"OPENAI_REQUESTS_PER_SECOND" env-default:"1"`
	CountPromptTokens bool          `yaml:"count_prompt_tokens" env:"OPENAI_COUNT_PROMPT_TOKENS" env-default:"false"`
}

type Conversation struct {
	LocalResponseDelay  time.Duration `yaml:"local_response_delay" env:"LOCAL_RESPONSE_DELAY" env-default:"1500ms"`
	RecordingDuration   time.Duration `yaml:"recording_duration" env:"RECORDING_DURATION" env-default:"3s"`
	InfoNoticeDuration  time.Duration `yaml:"info_notice_duration" env-default:"3s"`
	ErrorNoticeDuration time.Duration `yaml:"error_notice_duration" env-default:"5s"`
	StartInRemoteMode   bool          `yaml:"start_in_remote_mode" env:"START_IN_REMOTE_MODE" env-default:"false"`
	Language            string        `yaml:"language" env:"LANGUAGE" env-default:"en"`
}

type Telegram struct {
	TelegramAPIToken  string  `env:"TELEGRAM_APITOKEN"`
	AllowedTelegramID []int64 `yaml:"allowed_telegram_id" env:"ALLOWED_TELEGRAM_ID" env-separator:","`
	IsNotPublic       bool    `yaml:"is_not_public" env:"TELEGRAM_IS_NOT_PUBLIC" env-default:"false"`
}

type Redis struct {
	Endpoint      string        `yaml:"endpoint" env:"REDIS_ENDPOINT"`
	TranscriptTTL time.Duration `yaml:"transcript_ttl" env:"REDIS_TRANSCRIPT_TTL" env-default:"24h"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Pretty bool   `yaml:"pretty" env:"LOG_PRETTY" env-default:"true"`
}

type Config struct {
	Transport    string       `yaml:"transport" env:"TRANSPORT" env-default:"console"`
	OpenAI       OpenAI       `yaml:"openai"`
	Conversation Conversation `yaml:"conversation"`
	Telegram     Telegram     `yaml:"telegram"`
	Redis        Redis        `yaml:"redis"`
	Log          Log          `yaml:"log"`
}

// LoadConfig reads cfgPath, if given, and then applies environment overrides.
func LoadConfig(cfgPath string) (*Config, error) {
	var cfg Config
	if cfgPath != "" {
		if err := cleanenv.ReadConfig(cfgPath, &cfg); err != nil {
			return nil, err
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
