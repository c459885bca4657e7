package internal

import (
	"time"
)

type Config struct {
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel             string        `env:"LOG_LEVEL,required=true"`
	Host                 string        `env:"HOST,required=true"`
	Port                 int           `env:"PORT,required=true"`
	HTTPPort             int           `env:"HTTP_PORT,required=true"`
	DebugPort            int           `env:"DEBUG_PORT,default=8081"`
	JWTSecret            string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`
	ProfileCacheTTL      time.Duration `env:"PROFILE_CACHE_TTL,required=true"`
	ProfileCacheSize     int64         `env:"PROFILE_CACHE_SIZE,required=true"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,required=true"`
}
