package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		Host       string `yaml:"host"`
		PublicPort int    `yaml:"public_port"`
		AdminPort  int    `yaml:"admin_port"`
	} `yaml:"service"`

	Bybit struct {
		BaseURL    string `yaml:"base_url"`
		RecvWindow string `yaml:"recv_window"`
	} `yaml:"bybit"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Тайминги конвейера исполнения. Настраиваются только через env:
	// yaml.v2 не умеет парсить duration из строки.
	Engine struct {
		// Пауза между учётками одной стратегии (рейт-лимит биржи на учётку)
		InterAccountDelay time.Duration `yaml:"-"`
		// Пауза между входом и выставлением защитных ордеров
		SettleDelay time.Duration `yaml:"-"`
		// Общий таймаут обработки одного сигнала
		SignalTimeout time.Duration `yaml:"-"`
	} `yaml:"-"`
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{}
	config.Service.Host = getenvDefault("SERVICE_HOST", "0.0.0.0")
	config.Service.PublicPort = intFromEnv("PUBLIC_PORT", 8080)
	config.Service.AdminPort = intFromEnv("ADMIN_PORT", 8081)
	config.Bybit.BaseURL = getenvDefault("BYBIT_BASE_URL", "https://api.bybit.com")
	config.Bybit.RecvWindow = getenvDefault("BYBIT_RECV_WINDOW", "5000")
	config.Engine.InterAccountDelay = durationFromEnv("INTER_ACCOUNT_DELAY", "300ms")
	config.Engine.SettleDelay = durationFromEnv("SETTLE_DELAY", "500ms")
	config.Engine.SignalTimeout = durationFromEnv("SIGNAL_TIMEOUT", "30s")

	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	return &config, nil
}

func getenvRequired(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("env %s is required", key))
	}
	return v
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
