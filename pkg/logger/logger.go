package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.Mutex
	lg  *zap.Logger
	srv = "default"
)

// Init настраивает продовый zap-логгер. Вызывается один раз из main.
func Init(serviceName string) error {
	l, err := zap.NewProduction()
	if err != nil {
		return err
	}
	mu.Lock()
	lg = l
	srv = serviceName
	mu.Unlock()
	return nil
}

// get: если Init не звали (тесты, tooling) — молчаливый nop вместо паники.
func get() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if lg == nil {
		lg = zap.NewNop()
	}
	return lg
}

func Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	get().With(
		zap.String("service", srv),
	).Info(msg)
}

func Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	get().With(
		zap.String("service", srv),
	).Error(msg)
}

func Fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	get().With(
		zap.String("service", srv),
	).Fatal(msg)
}
