package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rocketscienceinc/bulletconnect/internal/engine"
)

var ErrInvalidTickInterval = errors.New("clock tick interval must be positive")

type Config struct {
	LogLevel   string `yaml:"log-level" env:"BULLETCONNECT_LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"BULLETCONNECT_HTTP_PORT" env-default:"9090"`
	Board      Board  `yaml:"board"`
	Clock      Clock  `yaml:"clock"`
	TimeSource string `yaml:"time-source" env:"BULLETCONNECT_TIME_SOURCE" env-default:"system"`
	Redis      Redis  `yaml:"redis"`
}

type Board struct {
	Width    int `yaml:"width" env:"BULLETCONNECT_BOARD_WIDTH" env-default:"7"`
	Height   int `yaml:"height" env:"BULLETCONNECT_BOARD_HEIGHT" env-default:"6"`
	ConnectN int `yaml:"connect-n" env:"BULLETCONNECT_BOARD_CONNECT_N" env-default:"4"`
}

type Clock struct {
	InitialTime  time.Duration `yaml:"initial-time" env:"BULLETCONNECT_CLOCK_INITIAL_TIME" env-default:"10s"`
	TickInterval time.Duration `yaml:"tick-interval" env:"BULLETCONNECT_CLOCK_TICK_INTERVAL" env-default:"10ms"`
}

type Redis struct {
	Host string `yaml:"host" env:"BULLETCONNECT_REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"BULLETCONNECT_REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load - reads path and applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Validate - checks the values the engine and the ticker cannot start with.
func (that *Config) Validate() error {
	if that.Clock.TickInterval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTickInterval, that.Clock.TickInterval)
	}

	if err := that.EngineOptions().Validate(); err != nil {
		return err
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// EngineOptions - board and clock settings for new matches.
func (that *Config) EngineOptions() engine.Options {
	return engine.Options{
		Width:       that.Board.Width,
		Height:      that.Board.Height,
		ConnectN:    that.Board.ConnectN,
		InitialTime: that.Clock.InitialTime,
	}
}
