package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/fx"

	"bybit_bot/internal/modules/bybit_ws"
	"bybit_bot/internal/modules/config"
	"bybit_bot/internal/modules/health"
	"bybit_bot/internal/modules/postgres"
	telegram "bybit_bot/internal/modules/telegram_bot"
	"bybit_bot/internal/runner"
	"bybit_bot/pkg/logger"
	"bybit_bot/pkg/tracing"
)

const serviceName = "bybit_bot"

func main() {
	logger.SetServiceName(serviceName)
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	tracing.SetServiceName(serviceName)
	if host := tracingHost(); host != "" {
		_, closeTracer, err := tracing.InitTracer(tracing.Config{Host: host, Port: 6831})
		if err != nil {
			logger.Fatal("init tracer: %v", err)
		}
		defer closeTracer()
	}

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		runner.Module(),
		telegram.Module(),
		bybit_ws.Module(),
		health.Module(),
	)
	app.Run()
}

// tracingHost — адрес jaeger-агента; пустой — трейсинг выключен.
func tracingHost() string {
	return os.Getenv("JAEGER_HOST")
}
