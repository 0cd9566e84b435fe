package service

import (
	"sync/atomic"
	"time"
)

// State — сводное состояние сервиса для health-эндпоинтов.
// Кормят его WS-стример и менеджер ботов, читает HTTP-хендлер.
type State struct {
	ready     atomic.Bool
	startedAt time.Time

	wsConnected  atomic.Bool
	lastTickUnix atomic.Int64 // unix seconds
	activeBots   atomic.Int64
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetWSConnected(v bool) { s.wsConnected.Store(v) }
func (s *State) WSConnected() bool     { return s.wsConnected.Load() }

// TouchTickUnixMilli — отметка последней закрытой свечи из стрима.
func (s *State) TouchTickUnixMilli(ms int64) { s.lastTickUnix.Store(ms / 1000) }

func (s *State) LastTick() time.Time {
	u := s.lastTickUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) BotStarted() { s.activeBots.Add(1) }
func (s *State) BotStopped() { s.activeBots.Add(-1) }
func (s *State) ActiveBots() int64 {
	return s.activeBots.Load()
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
