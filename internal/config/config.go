package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/sakashimaa/planary/pkg/utils"
)

type Config struct {
	Env      string  `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTP    `yaml:"http"`
	Metrics  Metrics `yaml:"metrics"`
	Postgres PG      `yaml:"postgres"`
	JWT      JWT     `yaml:"jwt"`
	CORS     CORS    `yaml:"cors"`
}

type HTTP struct {
	Port    string        `yaml:"port" env:"HTTP_PORT" env-default:":3000"`
	Timeout time.Duration `yaml:"timeout" env-default:"4s"`
}

type Metrics struct {
	Port string `yaml:"port" env:"METRICS_PORT" env-default:":9091"`
}

type PG struct {
	URL string `yaml:"url" env:"DB_URL"`
}

type JWT struct {
	Secret     string        `yaml:"secret" env:"JWT_SECRET"`
	AccessTTL  time.Duration `yaml:"access_ttl" env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env:"REFRESH_TOKEN_TTL" env-default:"720h"`
}

type CORS struct {
	Origins string `yaml:"origins" env:"CORS_ORIGINS" env-default:"*"`
}

// MustLoad reads the config file named by CONFIG_PATH, falling back to plain
// environment variables when no file exists. The result is loaded once at
// startup and passed around by reference.
func MustLoad() *Config {
	configPath := utils.ParseWithFallback("CONFIG_PATH", "./config/local.yaml")

	var cfg Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("error reading config from env: %v", err)
		}
		return &cfg
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("error reading config: %v", err)
	}

	return &cfg
}
