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
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hoopshot/court"
	"hoopshot/protocol"
	"hoopshot/tuning"
)

// peer is where a session sends its output. *client.Client is the only
// production implementation.
type peer interface {
	SendWelcome(sessionID string, tickHz int)
	SendView(v court.View)
	SendCue(cue court.Cue)
	SendRejected(input, reason string)
}

type input struct {
	kind string
	name string
}

// session owns one court. Only the goroutine running Run touches the
// court; inputs reach it through the inbox.
type session struct {
	id    uuid.UUID
	log   *zap.Logger
	court *court.Court
	peer  peer
	inbox chan input

	tickHz    int
	viewEvery int
	ticks     int
}

func newSession(log *zap.Logger, config *Config, t *tuning.Tuning) *session {
	id := uuid.New()
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &session{
		id:        id,
		log:       log.With(zap.String("session", id.String())),
		inbox:     make(chan input, 64),
		tickHz:    config.TickRate,
		viewEvery: config.ViewEvery,
	}
	s.court = court.New(s.log.Named("court"), s, court.Config{
		Tuning: t,
		Rand:   rand.New(rand.NewSource(seed)),
	})
	return s
}

func (s *session) Press()             { s.post(input{kind: protocol.MsgPress}) }
func (s *session) Release()           { s.post(input{kind: protocol.MsgRelease}) }
func (s *session) Submit(name string) { s.post(input{kind: protocol.MsgSubmit, name: name}) }

func (s *session) post(in input) {
	select {
	case s.inbox <- in:
	default:
		s.log.Debug("Inbox full, input dropped", zap.String("input", in.kind))
	}
}

// ViewCue implements court.Viewer.
func (s *session) ViewCue(cue court.Cue) {
	s.peer.SendCue(cue)
}

// Run advances the court at tickHz until ctx is done.
func (s *session) Run(ctx context.Context) {
	s.peer.SendWelcome(s.id.String(), s.tickHz)
	s.peer.SendView(s.court.View())

	ticker := time.NewTicker(time.Second / time.Duration(s.tickHz))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-s.inbox:
			s.handle(in)
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *session) handle(in input) {
	switch in.kind {
	case protocol.MsgPress:
		s.court.Press()
	case protocol.MsgRelease:
		s.court.Release()
	case protocol.MsgSubmit:
		if err := s.court.Submit(in.name); err != nil {
			s.peer.SendRejected(in.kind, err.Error())
			return
		}
		s.peer.SendView(s.court.View())
	}
}

func (s *session) tick() {
	s.court.Tick()
	s.ticks++
	if s.ticks%s.viewEvery == 0 {
		s.peer.SendView(s.court.View())
	}
}
