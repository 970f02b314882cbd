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

package court

import (
	"slices"
	"time"
)

// Timers in the court are one-shot tasks keyed by what they belong to.
// Scheduling a key that is already pending replaces the old task, so a
// newer action always supersedes a stale transition instead of racing it.
// Tasks fire from Tick, never concurrently with it.

type timerKey uint8

const (
	timerMessage timerKey = iota
	timerBallReset
	timerSpawn
	timerExpire
)

type task struct {
	at time.Time
	fn func()
}

type scheduler struct {
	tasks map[timerKey]task
}

func newScheduler() scheduler {
	return scheduler{tasks: make(map[timerKey]task)}
}

func (s *scheduler) schedule(key timerKey, at time.Time, fn func()) {
	s.tasks[key] = task{at: at, fn: fn}
}

func (s *scheduler) cancel(key timerKey) {
	delete(s.tasks, key)
}

func (s *scheduler) pending(key timerKey) bool {
	_, ok := s.tasks[key]
	return ok
}

// run fires every task due at now, earliest first. A task may schedule or
// cancel others; those changes are honoured within the same run.
func (s *scheduler) run(now time.Time) {
	var due []timerKey
	for key, t := range s.tasks {
		if !t.at.After(now) {
			due = append(due, key)
		}
	}
	slices.SortFunc(due, func(a, b timerKey) int {
		if c := s.tasks[a].at.Compare(s.tasks[b].at); c != 0 {
			return c
		}
		return int(a) - int(b)
	})
	for _, key := range due {
		t, ok := s.tasks[key]
		if !ok || t.at.After(now) {
			continue
		}
		delete(s.tasks, key)
		t.fn()
	}
}
