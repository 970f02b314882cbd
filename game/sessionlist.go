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
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionLimit is returned when max-sessions sessions are running.
var ErrSessionLimit = errors.New("session limit reached")

// sessionList tracks the running sessions.
type sessionList struct {
	mu       sync.Mutex
	max      int
	sessions map[uuid.UUID]*session
}

func newSessionList(limit int) *sessionList {
	return &sessionList{max: limit, sessions: make(map[uuid.UUID]*session)}
}

func (l *sessionList) add(s *session) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.sessions) >= l.max {
		return ErrSessionLimit
	}
	l.sessions[s.id] = s
	return nil
}

func (l *sessionList) remove(s *session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sessions, s.id)
}

func (l *sessionList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}
