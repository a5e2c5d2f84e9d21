package bot

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the process configuration loaded from environment variables.
type Config struct {
	ConfigDir    string `env:"MULTIBOT_CONFIG_DIR"    envDefault:"Config"`
	ResourcesDir string `env:"MULTIBOT_RESOURCES_DIR" envDefault:"Resources"`
	TokenFile    string `env:"MULTIBOT_TOKEN_FILE"    envDefault:"DiscordTokens.json"`
	LogFile      string `env:"MULTIBOT_LOG_FILE"      envDefault:"logs/multibot.log"`

	ShutdownTimeout time.Duration `env:"MULTIBOT_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	PrepareTimeout  time.Duration `env:"MULTIBOT_PREPARE_TIMEOUT"  envDefault:"2500ms"`
	ReloadDebounce  time.Duration `env:"MULTIBOT_RELOAD_DEBOUNCE"  envDefault:"500ms"`

	// UserRate is the sustained number of invocations per second allowed per user.
	// Zero disables throttling.
	UserRate  float64 `env:"MULTIBOT_USER_RATE"  envDefault:"1"`
	UserBurst int     `env:"MULTIBOT_USER_BURST" envDefault:"3"`
}

// LoadConfig loads configuration from environment variables, reading a .env
// file first when one exists.
func LoadConfig() (*Config, error) {
	// A missing .env is fine; the environment is used as is.
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
