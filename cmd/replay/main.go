// replay прогоняет записанные сигналы через вебхук запущенного сервиса.
// Ручной инструмент для отладки: go run ./cmd/replay [путь к yaml].
package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type replaySignal struct {
	Strategy string  `mapstructure:"strategy" json:"strategy"`
	Symbol   string  `mapstructure:"symbol" json:"symbol"`
	Action   string  `mapstructure:"action" json:"action"`
	Entry    float64 `mapstructure:"entry" json:"entry"`
	SL       float64 `mapstructure:"sl" json:"sl"`
	TP       float64 `mapstructure:"tp" json:"tp,omitempty"`
	AlertID  string  `mapstructure:"alert_id" json:"alertId,omitempty"`
}

type replayConfig struct {
	Endpoint string         `mapstructure:"endpoint"`
	UserID   string         `mapstructure:"user_id"`
	Pause    time.Duration  `mapstructure:"pause"`
	Signals  []replaySignal `mapstructure:"signals"`
}

func loadConfig() (*replayConfig, error) {
	path := "configs/replay.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	viper.SetConfigFile(path)
	viper.SetDefault("endpoint", "http://localhost:8080/api/webhook/tradingview")
	viper.SetDefault("pause", "500ms")

	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "read replay config")
	}
	var cfg replayConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal replay config")
	}
	if cfg.UserID == "" {
		return nil, errors.New("user_id is required")
	}
	if len(cfg.Signals) == 0 {
		return nil, errors.New("no signals to replay")
	}
	return &cfg, nil
}

func post(client *http.Client, url string, sig replaySignal) (string, error) {
	payload, err := sonic.Marshal(sig)
	if err != nil {
		return "", errors.Wrap(err, "marshal signal")
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "post signal")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return fmt.Sprintf("%d %s", resp.StatusCode, string(body)), nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	url := fmt.Sprintf("%s?userId=%s", cfg.Endpoint, cfg.UserID)
	client := &http.Client{Timeout: 60 * time.Second}

	for i, sig := range cfg.Signals {
		if i > 0 {
			time.Sleep(cfg.Pause)
		}
		out, err := post(client, url, sig)
		if err != nil {
			log.Printf("[%d] %s %s: %v", i, sig.Strategy, sig.Symbol, err)
			continue
		}
		log.Printf("[%d] %s %s -> %s", i, sig.Strategy, sig.Symbol, out)
	}
}
