package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string           `yaml:"env" env-default:"development"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Recon      ReconConfig      `yaml:"recon"`
	Database   DatabaseConfig   `yaml:"database"`
	Migrations MigrationsConfig `yaml:"migrations"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// UpstreamConfig — внешняя система учета, источник леджера и отчетных цифр
type UpstreamConfig struct {
	BaseURL string        `yaml:"base_url" env-required:"true"`
	Token   string        `yaml:"-" env:"UPSTREAM_TOKEN"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

// ReconConfig — настройки движка сверки
type ReconConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval" env-default:"5m"`
	LedgerLimit     int           `yaml:"ledger_limit" env-default:"1000"`
	LeaderboardSize int           `yaml:"leaderboard_size" env-default:"10"`
}

// DatabaseConfig — зеркало леджера; опционально, без него сервис работает
// только от внешнего источника
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-default:"postgres"`
	Password string `yaml:"-" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env-default:"treasury"`
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// MustLoad - если не загружаем - паникуем
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s", configPath)
	}

	return &cfg
}
