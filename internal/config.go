package internal

import (
	"fmt"
	"strings"
	"time"
)

type StorageDriver string

const (
	DriverBadger   StorageDriver = "badger"
	DriverPostgres StorageDriver = "postgres"
)

type Config struct {
	Host     string `env:"HOST,default=localhost"`
	Port     int    `env:"PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	StorageDriver    StorageDriver `env:"STORAGE_DRIVER,default=badger"`
	BadgerFilepath   string        `env:"BADGER_FILEPATH,default=./data/badger"`
	BadgerInMemory   bool          `env:"BADGER_IN_MEMORY,default=false"`
	PostgresURL      string        `env:"POSTGRES_URL"`
	PostgresMaxConns int32         `env:"POSTGRES_MAX_CONNS,default=10"`
	RedisURL         string        `env:"REDIS_URL"`
	InstanceID       string        `env:"INSTANCE_ID"`

	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	AllowedOrigins    string        `env:"ALLOWED_ORIGINS,default=*"`

	BufferSize           int           `env:"BUFFER_SIZE,default=1024"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=2s"`
	RequestTimeout       time.Duration `env:"REQUEST_TIMEOUT,default=5s"`
	HeartbeatInterval    time.Duration `env:"HEARTBEAT_INTERVAL,default=30s"`
	MaxContentLength     int           `env:"MAX_CONTENT_LENGTH,default=2000"`
	LimitMessages        int           `env:"LIMIT_MESSAGES,default=50"`
	LimitPets            int           `env:"LIMIT_PETS,default=50"`
	CharReplacement      string        `env:"CHARACTER_REPLACEMENT,default=*"`
	DebugPort            int           `env:"DEBUG_PORT,default=8081"`
}

func (c Config) Origins() []string {
	origins := strings.Split(c.AllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverBadger:
	case DriverPostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("POSTGRES_URL is required with STORAGE_DRIVER=%s", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if _, err := CharacterRune(c.CharReplacement); err != nil {
		return err
	}
	return nil
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
