package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string  `yaml:"http-port" env:"HTTP_PORT" env-default:"8080"`
	Storage  Storage `yaml:"storage"`
	CORS     CORS    `yaml:"cors"`
	Redis    Redis   `yaml:"redis"`
}

type Storage struct {
	Backend string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"memory"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed-origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - loads all configuration from the given yml file, falling back
// to env-default values. Panics if the file cannot be read.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
