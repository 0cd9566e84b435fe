package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"bybit_bot/internal/modules/config"
)

func TestParseTicksSkipsUnconfirmed(t *testing.T) {
	msg := []byte(`{"topic":"kline.1.BTCUSDT","type":"snapshot","data":[
		{"start":1700000000000,"end":1700000060000,"interval":"1","open":"50000","high":"50100","low":"49900","close":"50050","volume":"12.5","confirm":false},
		{"start":1699999940000,"end":1700000000000,"interval":"1","open":"49950","high":"50010","low":"49900","close":"50000","volume":"8.2","confirm":true}
	]}`)

	ticks := parseTicks(msg, "BTCUSDT", "1")
	if len(ticks) != 1 {
		t.Fatalf("len = %d, want 1 (незакрытая свеча должна отсекаться)", len(ticks))
	}
	tick := ticks[0]
	if tick.Symbol != "BTCUSDT" || tick.Timeframe != "1" {
		t.Errorf("метаданные тика: %+v", tick)
	}
	if tick.Candle.Timestamp != 1699999940000 || tick.Candle.Close != 50000 {
		t.Errorf("свеча распарсилась неверно: %+v", tick.Candle)
	}
}

type recState struct {
	mu        sync.Mutex
	connected bool
	lastTick  int64
}

func (s *recState) SetWSConnected(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = v
}

func (s *recState) TouchTickUnixMilli(ms int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTick = ms
}

func (s *recState) tick() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTick
}

// Стрим обязан кормить health-состояние сам, без внешних потребителей.
func TestStreamFeedsState(t *testing.T) {
	frame := `{"topic":"kline.1.BTCUSDT","data":[
		{"start":1700000000000,"interval":"1","open":"50000","high":"50100","low":"49900","close":"50050","volume":"1.5","confirm":true}
	]}`

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, _, _ = conn.ReadMessage() // subscribe
		_ = conn.WriteMessage(websocket.TextMessage, []byte(frame))
		time.Sleep(20 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Bybit.WSHost = "ws" + strings.TrimPrefix(srv.URL, "http")
	cfg.DefaultSymbol = "BTCUSDT"
	cfg.DefaultTimeframe = "1"

	st := &recState{}
	c := NewClient(cfg, nil, st)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for st.tick() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("стрим не донёс свечу до health-состояния")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if got := st.tick(); got != 1700000000000 {
		t.Errorf("lastTick = %d, want 1700000000000", got)
	}
}

func TestParseTicksIgnoresServiceFrames(t *testing.T) {
	for _, msg := range []string{
		`{"op":"pong","success":true}`,
		`{"success":true,"op":"subscribe","conn_id":"abc"}`,
		`не json`,
	} {
		if ticks := parseTicks([]byte(msg), "BTCUSDT", "1"); len(ticks) != 0 {
			t.Errorf("служебный кадр %q дал тики: %v", msg, ticks)
		}
	}
}
