// This file is part of go-mc/server project.
// Copyright (C) 2023.  Tnze
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package game

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hoopshot/client"
	"hoopshot/protocol"
	"hoopshot/sfx"
	"hoopshot/static"
	"hoopshot/tuning"
)

type Game struct {
	log *zap.Logger

	config Config
	tuning *tuning.Tuning
	sounds *sfx.Bank

	upgrader       websocket.Upgrader
	sessionLimiter *rate.Limiter
	*sessionList

	mu      sync.Mutex
	closed  bool
	ctx     context.Context
	cancel  context.CancelFunc
	running sync.WaitGroup
}

func NewGame(log *zap.Logger, config Config, t *tuning.Tuning, sounds *sfx.Bank) *Game {
	ctx, cancel := context.WithCancel(context.Background())
	return &Game{
		log: log.Named("game"),

		config: config,
		tuning: t,
		sounds: sounds,

		upgrader: websocket.Upgrader{
			// Sessions share nothing, so any origin may open one.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sessionLimiter: config.SessionLimiter.Limiter(),
		sessionList:    newSessionList(config.MaxSessions),

		ctx:    ctx,
		cancel: cancel,
	}
}

// Handler routes /ws to sessions, /sfx/ to the sound bank and everything
// else to the static client.
func (g *Game) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.serveSession)
	mux.Handle("/sfx/", http.StripPrefix("/sfx", g.sounds))
	mux.Handle("/", static.New(g.log.Named("static"), g.config.StaticDir, g.config.Index))
	return mux
}

func (g *Game) serveSession(w http.ResponseWriter, r *http.Request) {
	if g.ctx.Err() != nil {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	if !g.sessionLimiter.Allow() {
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		return
	}
	name := r.URL.Query().Get("codec")
	if name == "" {
		name = g.config.Codec
	}
	codec, err := protocol.CodecByName(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := newSession(g.log.Named("session"), &g.config, g.tuning)
	if err := g.sessionList.add(s); err != nil {
		g.log.Warn("Session refused", zap.Error(err), zap.Int("sessions", g.Len()))
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		g.log.Debug("Upgrade fail", zap.Error(err))
		g.sessionList.remove(s)
		return
	}
	g.acceptSession(s, conn, codec)
}

// acceptSession runs s over conn until the client leaves or the game
// shuts down. s must already be in the session list.
func (g *Game) acceptSession(s *session, conn *websocket.Conn, codec protocol.Codec) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		g.sessionList.remove(s)
		_ = conn.Close()
		return
	}
	g.running.Add(1)
	g.mu.Unlock()
	defer g.running.Done()
	defer g.sessionList.remove(s)

	c := client.New(s.log, conn, codec, s, g.config.InputLimiter.Limiter())
	s.peer = c

	s.log.Info("Session start", zap.String("remote", conn.RemoteAddr().String()), zap.String("codec", codec.Name()))
	defer s.log.Info("Session end")

	ctx, cancel := context.WithCancel(g.ctx)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		s.Run(ctx)
		c.Close()
	}()

	c.Start()
	cancel()
	<-stopped
}

// Shutdown closes every session and waits for them to finish or for ctx
// to expire.
func (g *Game) Shutdown(ctx context.Context) error {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.cancel()

	done := make(chan struct{})
	go func() {
		g.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("sessions still running"), ctx.Err())
	}
}
