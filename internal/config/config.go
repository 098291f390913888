package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "internal/config/config.yaml"

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Server  ServerOpts    `yaml:"server_opts"`
	DB      DBConfig      `yaml:"db"`
	YouTube YouTubeConfig `yaml:"youtube"`
	Cache   CacheConfig   `yaml:"cache"`
}

type HTTPConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"HTTP_LISTEN_ADDR" env-default:":8080"`
}

type ServerOpts struct {
	ReadTimeoutSeconds  int `yaml:"read_timeout"  env:"HTTP_READ_TIMEOUT"  env-default:"10"`
	WriteTimeoutSeconds int `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30"`
	IdleTimeoutSeconds  int `yaml:"idle_timeout"  env:"HTTP_IDLE_TIMEOUT"  env-default:"60"`
}

type DBConfig struct {
	Host               string `yaml:"host"      env:"DB_HOST"      env-default:"localhost"`
	Port               int    `yaml:"port"      env:"DB_PORT"      env-default:"5432"`
	Name               string `yaml:"name"      env:"DB_NAME"      env-default:"ytbuzz"`
	User               string `yaml:"user"      env:"DB_USER"      env-default:"postgres"`
	Password           string `yaml:"password"  env:"DB_PASSWORD"  env-default:"postgres"`
	MinConns           int    `yaml:"min_conns" env:"DB_MIN_CONNS" env-default:"2"`
	MaxConns           int    `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"10"`
	ConnMaxLifetimeMin int    `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"30"` // minutes
	ConnectTimeoutSec  int    `yaml:"connect_timeout"   env:"DB_CONNECT_TIMEOUT"   env-default:"5"`  // seconds
	QueryTimeoutSec    int    `yaml:"query_timeout"     env:"DB_QUERY_TIMEOUT"     env-default:"2"`  // seconds
}

type YouTubeConfig struct {
	// APIKeys is a comma separated list; every key belongs to the same
	// project tier and rotation order follows list order.
	APIKeys        string  `yaml:"api_keys" env:"YOUTUBE_API_KEYS" env-required:"true"`
	BaseURL        string  `yaml:"base_url" env:"YOUTUBE_BASE_URL" env-default:"https://www.googleapis.com/youtube/v3"`
	TimeoutSec     int     `yaml:"timeout"  env:"YOUTUBE_TIMEOUT"  env-default:"30"` // seconds
	RatePerSec     float64 `yaml:"rate_per_sec" env:"YOUTUBE_RATE_PER_SEC" env-default:"10"`
	RateBurst      int     `yaml:"rate_burst"   env:"YOUTUBE_RATE_BURST"   env-default:"10"`
	RetryInitialMs int     `yaml:"retry_initial_ms" env:"YOUTUBE_RETRY_INITIAL_MS" env-default:"1000"`
	RetryMaxMs     int     `yaml:"retry_max_ms"     env:"YOUTUBE_RETRY_MAX_MS"     env-default:"10000"`
}

type CacheConfig struct {
	MemorySize    int  `yaml:"memory_size"    env:"CACHE_MEMORY_SIZE"    env-default:"200"`
	MemoryTTLMin  int  `yaml:"memory_ttl"     env:"CACHE_MEMORY_TTL"     env-default:"60"` // minutes
	TTLHours      int  `yaml:"ttl"            env:"CACHE_TTL"            env-default:"24"` // hours
	EmptyTTLHours int  `yaml:"empty_ttl"      env:"CACHE_EMPTY_TTL"      env-default:"1"`  // hours
	DurableEnable bool `yaml:"durable_enable" env:"CACHE_DURABLE_ENABLE" env-default:"true"`
}

// KeyList splits the configured credential list, dropping empty entries.
func (c YouTubeConfig) KeyList() []string {
	parts := strings.Split(c.APIKeys, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if key := strings.TrimSpace(p); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func (c YouTubeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

func ParseConfig() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		// No file is fine, environment alone can carry the whole config.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read config from env: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	return &cfg, nil
}
