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
	"errors"
	"slices"
	"strings"
	"unicode/utf8"
)

// LeaderboardSize is the number of entries a leaderboard keeps.
const LeaderboardSize = 5

// MaxNameLength bounds a leaderboard name, in runes.
const MaxNameLength = 24

var (
	ErrEmptyName    = errors.New("name is empty")
	ErrInvalidName  = errors.New("name contains invalid characters")
	ErrZeroScore    = errors.New("nothing to submit: score is zero")
	ErrShotInFlight = errors.New("wait for the ball to come back")
)

// Entry is one leaderboard line.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Leaderboard is a session-scoped ranking, highest score first. Ties keep
// submission order.
type Leaderboard struct {
	entries []Entry
	max     int
}

// Add inserts e and drops whatever falls off the end.
func (l *Leaderboard) Add(e Entry) {
	l.entries = append(l.entries, e)
	slices.SortStableFunc(l.entries, func(a, b Entry) int { return b.Score - a.Score })
	if l.max > 0 && len(l.entries) > l.max {
		l.entries = l.entries[:l.max]
	}
}

// Entries returns a copy of the ranking.
func (l *Leaderboard) Entries() []Entry {
	return slices.Clone(l.entries)
}

// Len is the number of entries.
func (l *Leaderboard) Len() int { return len(l.entries) }

// cleanName trims name and rejects blank names and names carrying control
// characters. Over-long names are cut to MaxNameLength runes.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if !utf8.ValidString(name) || existInvalidCharacter(name) {
		return "", ErrInvalidName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	return name, nil
}

func existInvalidCharacter(name string) bool {
	for _, c := range name {
		if c < ' ' || c == '\x7F' {
			return true
		}
	}
	return false
}
