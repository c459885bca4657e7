package main

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr     string `envconfig:"CHAT_ADDR" default:"localhost:50051"`
	Token    string `envconfig:"CHAT_TOKEN" required:"true"`
	UserID   string `envconfig:"CHAT_USER" required:"true"`
	Partner  string `envconfig:"CHAT_PARTNER"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"WARN"`
	// CHAT_COLOURS enables colorized output
	Colours bool `envconfig:"CHAT_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
