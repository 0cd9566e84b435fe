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
		Token string `yaml:"token"`
		// чат для служебных сообщений (стример, health); 0 — только лог
		ServiceChatID int64 `yaml:"service_chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		Host       string `yaml:"host"`
		PublicPort int    `yaml:"public_port"`
		AdminPort  int    `yaml:"admin_port"`
	} `yaml:"service"`

	// Bybit V5
	Bybit struct {
		RESTHost   string `yaml:"rest_host"`
		WSHost     string `yaml:"ws_host"` // публичный linear-стрим
		RecvWindow string `yaml:"recv_window"`
	} `yaml:"bybit"`

	// Таймаут на один запрос к бирже. Зависший вызов — это пропуск цикла,
	// а не смерть бота, поэтому таймаут жёстко ограничен.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Цикл бота
	PollInterval time.Duration `yaml:"poll_interval"` // пауза между итерациями
	KlineLimit   int           `yaml:"kline_limit"`   // размер окна свечей

	// Пороги уверенности сигнала. В истории проекта встречались 15/50/75 как
	// "тот самый" порог — разводим их по именованным ролям:
	//   MinSignalConfidence — ниже него composer принудительно отдаёт Hold
	//   ExecuteConfidence   — ниже него раннер не открывает позицию
	//   NotifyConfidence    — начиная с него шлём нотификацию даже без входа
	MinSignalConfidence int `yaml:"min_signal_confidence"`
	ExecuteConfidence   int `yaml:"execute_confidence"`
	NotifyConfidence    int `yaml:"notify_confidence"`

	// Минимальный баланс для входа (USDT)
	MinBalance float64 `yaml:"min_balance"`

	// Дефолты пользовательских настроек (создаём юзеру при первом запуске)
	DefaultSymbol        string
	DefaultTimeframe     string
	DefaultLeverage      int
	DefaultRiskPct       float64 // сколько от депозита рискуем на вход
	DefaultStopLossPct   float64
	DefaultTakeProfitPct float64
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
	config := Config{
		RequestTimeout: durationFromEnv("REQUEST_TIMEOUT", "10s"),
		PollInterval:   durationFromEnv("POLL_INTERVAL", "20s"),
		KlineLimit:     intFromEnv("KLINE_LIMIT", 100),

		MinSignalConfidence: intFromEnv("MIN_SIGNAL_CONFIDENCE", 15),
		ExecuteConfidence:   intFromEnv("EXECUTE_CONFIDENCE", 50),
		NotifyConfidence:    intFromEnv("NOTIFY_CONFIDENCE", 75),

		MinBalance: floatFromEnv("MIN_BALANCE", 10),

		DefaultSymbol:        getenvDefault("SYMBOL", "BTCUSDT"),
		DefaultTimeframe:     getenvDefault("TIMEFRAME", "1"),
		DefaultLeverage:      intFromEnv("LEVERAGE", 10),
		DefaultRiskPct:       floatFromEnv("RISK_PCT", 5),
		DefaultStopLossPct:   floatFromEnv("STOP_LOSS_PCT", 2),
		DefaultTakeProfitPct: floatFromEnv("TAKE_PROFIT_PCT", 4),
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	if config.Bybit.RESTHost == "" {
		config.Bybit.RESTHost = "https://api.bybit.com"
	}
	if config.Bybit.WSHost == "" {
		config.Bybit.WSHost = "wss://stream.bybit.com/v5/public/linear"
	}
	if config.Bybit.RecvWindow == "" {
		config.Bybit.RecvWindow = "5000"
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

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
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
