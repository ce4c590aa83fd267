package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local" validate:"oneof=local dev prod"`
	DataDir    string     `yaml:"data_dir" env:"DATA_DIR" env-default:"./data"`
	Storage    Storage    `yaml:"storage"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Kafka      Kafka      `yaml:"kafka"`
	Fotoladu   Fotoladu   `yaml:"fotoladu"`
	Ingest     Ingest     `yaml:"ingest"`
	Viewer     Viewer     `yaml:"viewer"`
}

type Storage struct {
	Driver  string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite3" validate:"oneof=sqlite3 postgres"`
	DSN     string `yaml:"dsn" env:"STORAGE_DSN" env-default:"./db/fotoladu.sqlite.db" validate:"required"`
	Migrate bool   `yaml:"migrate" env:"STORAGE_MIGRATE" env-default:"true"`
}

type HTTPServer struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8082"`
	Timeout        time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	MaxRandomCount int           `yaml:"max_random_count" env-default:"50" validate:"min=1"`
}

type Kafka struct {
	Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:"," validate:"required_if=Enabled true"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"fotoladu-ingest"`
	GroupID string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"fotoladu-viewer"`
}

type Fotoladu struct {
	BaseURL  string        `yaml:"base_url" env:"FOTOLADU_BASE_URL" env-default:"https://fotoladu.maaamet.ee" validate:"url"`
	Timeout  time.Duration `yaml:"timeout" env-default:"30s"`
	Variant  string        `yaml:"variant" env-default:"reduced" validate:"required"`
	MaxPages int           `yaml:"max_pages" env-default:"20" validate:"min=1"`
}

type Ingest struct {
	Schedule string   `yaml:"schedule" env:"INGEST_SCHEDULE"`
	Folders  []string `yaml:"folders" env:"INGEST_FOLDERS" env-separator:","`
}

type Viewer struct {
	APIURL  string        `yaml:"api_url" env:"VIEWER_API_URL" env-default:"http://localhost:8082" validate:"url"`
	Timeout time.Duration `yaml:"timeout" env-default:"15s"`
	Variant string        `yaml:"variant" env:"VIEWER_VARIANT" env-default:"batch" validate:"oneof=single batch"`
}

// MustLoad reads the config path from --config or CONFIG_PATH and exits on failure.
func MustLoad() *Config {
	return MustLoadPath(fetchConfigPath())
}

func MustLoadPath(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %s", err)
	}

	return cfg
}

func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: read .env: %w", op, err)
	}

	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}
	if configPath == "" {
		return nil, fmt.Errorf("%s: config path is not set", op)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
