package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`
	LogLevel   string        `mapstructure:"log_level"`
	SendBuffer int           `mapstructure:"send_buffer"`
	CORSAllow  []string      `mapstructure:"cors_allow"`

	Room      RoomConfig      `mapstructure:"room"`
	Timer     TimerConfig     `mapstructure:"timer"`
	Exec      ExecConfig      `mapstructure:"exec"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type RoomConfig struct {
	Capacity int `mapstructure:"capacity"`
	Award    int `mapstructure:"award"`
}

type TimerConfig struct {
	Tick time.Duration `mapstructure:"tick"`
}

type ExecConfig struct {
	Interpreter   []string      `mapstructure:"interpreter"`
	SourceName    string        `mapstructure:"source_name"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxConcurrent int64         `mapstructure:"max_concurrent"`
	MaxOutput     int           `mapstructure:"max_output"`
	WorkDir       string        `mapstructure:"work_dir"`
}

// RedisConfig with an empty Addr selects the in-memory stores.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type RateLimitConfig struct {
	Messages int           `mapstructure:"messages"`
	Interval time.Duration `mapstructure:"interval"`
}

// Load reads config/config.<CONFIG_ENV>.yaml on top of defaults. Any key
// can be overridden by CODEROOM_<KEY> with dots replaced by underscores.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	v.SetEnvPrefix("CODEROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "change-me")
	v.SetDefault("log_level", "info")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("cors_allow", []string{"*"})

	v.SetDefault("room.capacity", 10)
	v.SetDefault("room.award", 10)
	v.SetDefault("timer.tick", "1s")

	v.SetDefault("exec.interpreter", []string{"python3"})
	v.SetDefault("exec.source_name", "main.py")
	v.SetDefault("exec.timeout", "5s")
	v.SetDefault("exec.max_concurrent", 4)
	v.SetDefault("exec.max_output", 65536)
	v.SetDefault("exec.work_dir", os.TempDir())

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "coderoom")

	v.SetDefault("ratelimit.messages", 20)
	v.SetDefault("ratelimit.interval", "10s")
}
