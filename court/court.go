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

// The court is one player's whole game: a single ball, a charge meter,
// a hoop, at most one power-up and a session leaderboard. It is advanced
// one frame at a time by Tick and mutated between ticks by Press, Release
// and Submit. None of these are safe for concurrent use: the owner of a
// Court must call them from one goroutine.

package court

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"hoopshot/court/internal/geom"
	"hoopshot/tuning"
)

// Vec is a point or a velocity on the court.
type Vec = geom.Vec3[float64]

// Court is the authoritative simulation state.
type Court struct {
	log    *zap.Logger
	tuning tuning.Tuning
	now    func() time.Time
	rng    *rand.Rand
	viewer Viewer

	rim    geom.Sphere[float64]
	bounds geom.Box[float64]

	ball   Ball
	flight flight

	charging    bool
	chargeStart time.Time
	power       float64

	score, shots, makes int
	message             string

	powerUp     powerUp
	leaderboard Leaderboard
	timers      scheduler

	tick uint64
}

// Config carries the collaborators of a Court. Zero fields get defaults:
// the embedded tuning, the wall clock and a time-seeded PRNG.
type Config struct {
	Tuning *tuning.Tuning
	Now    func() time.Time
	Rand   *rand.Rand
}

// New creates a court with the ball at rest on its initial spot.
func New(log *zap.Logger, viewer Viewer, config Config) *Court {
	if log == nil {
		log = zap.NewNop()
	}
	if viewer == nil {
		viewer = nopViewer{}
	}
	t := tuning.Default()
	if config.Tuning != nil {
		t = *config.Tuning
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	rng := config.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	c := &Court{
		log:    log,
		tuning: t,
		now:    now,
		rng:    rng,
		viewer: viewer,
		rim: geom.Sphere[float64]{
			Center: Vec(t.Rim.Anchor),
			R:      t.Rim.Radius,
		},
		bounds: geom.Box[float64]{
			Lower: Vec{-t.Bounds.HalfWidth, t.Bounds.Floor, t.Bounds.BackLimit},
			Upper: Vec{t.Bounds.HalfWidth, geom.Unbounded[float64](1), geom.Unbounded[float64](1)},
		},
		message:     t.Messages.Idle,
		leaderboard: Leaderboard{max: LeaderboardSize},
		timers:      newScheduler(),
	}
	c.resetBall()
	return c
}

// Press starts charging a shot. It is ignored while the ball is in the air.
func (c *Court) Press() {
	if c.ball.InFlight {
		return
	}
	c.charging = true
	c.chargeStart = c.now()
	c.setMessage(c.tuning.Messages.Charging, 0)
}

// Release converts the current charge into a shot. It is ignored unless a
// charge is in progress and the ball is grounded.
func (c *Court) Release() {
	if !c.charging || c.ball.InFlight {
		return
	}
	level := PowerLevel(c.now().Sub(c.chargeStart), c.tuning.Shot.ChargeWindow)
	c.charging = false
	c.power = 0
	c.launch(level)
}

// Submit records the current score on the leaderboard under name and
// starts a fresh score. A rejected submission changes nothing. The ball
// must be grounded so a flight never scores into the fresh counters.
func (c *Court) Submit(name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if c.score == 0 {
		return ErrZeroScore
	}
	if c.ball.InFlight {
		return ErrShotInFlight
	}
	c.leaderboard.Add(Entry{Name: name, Score: c.score})
	c.log.Info("Score submitted", zap.String("name", name), zap.Int("score", c.score), zap.Int("shots", c.shots))
	c.score, c.shots, c.makes = 0, 0, 0
	return nil
}

// setMessage replaces the status banner. A positive resetAfter restores
// the idle text later. Any pending restore is cancelled.
func (c *Court) setMessage(msg string, resetAfter time.Duration) {
	c.message = msg
	c.timers.cancel(timerMessage)
	if resetAfter > 0 {
		c.timers.schedule(timerMessage, c.now().Add(resetAfter), func() {
			c.message = c.tuning.Messages.Idle
		})
	}
}
