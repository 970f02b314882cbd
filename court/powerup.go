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

// Power-ups follow a small state machine:
//
//	absent --(make + roll, after delay)--> spawned --(ball touches)--> active --(duration)--> absent
//
// Only one power-up exists at a time, whether lying on the court or in
// effect, so a new spawn is blocked until the previous one has expired.

package court

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"hoopshot/court/internal/geom"
)

// Kind enumerates the power-ups.
type Kind uint8

const (
	NoPowerUp Kind = iota
	DoublePoints
	SuperShot
	SlowMotion
)

var kindNames = [...]string{
	NoPowerUp:    "",
	DoublePoints: "double-points",
	SuperShot:    "super-shot",
	SlowMotion:   "slow-motion",
}

var kindTitles = [...]string{
	NoPowerUp:    "",
	DoublePoints: "Double Points",
	SuperShot:    "Super Shot",
	SlowMotion:   "Slow Motion",
}

// String returns the identifier used on the wire and in tuning files.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Title is the display name used in status messages.
func (k Kind) Title() string {
	if int(k) < len(kindTitles) {
		return kindTitles[k]
	}
	return k.String()
}

// MakeValue is the number of points a make is worth while k is active.
func (k Kind) MakeValue() int {
	switch k {
	case DoublePoints:
		return 2
	case SuperShot:
		return 3
	default:
		return 1
	}
}

// PowerUpState is the lifecycle stage of the court's power-up.
type PowerUpState uint8

const (
	Absent PowerUpState = iota
	Spawned
	Active
)

func (s PowerUpState) String() string {
	switch s {
	case Absent:
		return "absent"
	case Spawned:
		return "spawned"
	case Active:
		return "active"
	}
	return fmt.Sprintf("PowerUpState(%d)", s)
}

type powerUp struct {
	state    PowerUpState
	kind     Kind
	position Vec // valid while spawned
	expiry   time.Time
}

func (p *powerUp) active(k Kind) bool { return p.state == Active && p.kind == k }

// makeValue is the score increment for a make right now.
func (p *powerUp) makeValue() int {
	if p.state != Active {
		return 1
	}
	return p.kind.MakeValue()
}

// rollSpawn is called after every make. The PRNG is consumed on every call
// so a seeded court replays identically regardless of blocking.
func (c *Court) rollSpawn() {
	roll := c.rng.Float64()
	if roll >= c.tuning.PowerUps.SpawnChance {
		return
	}
	if c.powerUp.state != Absent || c.timers.pending(timerSpawn) {
		return
	}
	c.timers.schedule(timerSpawn, c.now().Add(c.tuning.PowerUps.SpawnDelay), c.spawnPowerUp)
}

func (c *Court) spawnPowerUp() {
	if c.powerUp.state != Absent {
		return
	}
	kind := Kind(1 + c.rng.Intn(len(kindNames)-1))
	c.powerUp = powerUp{
		state:    Spawned,
		kind:     kind,
		position: c.pickupSpot(),
	}
	c.log.Debug("Power-up spawned",
		zap.Stringer("kind", kind),
		zap.Float64s("position", c.powerUp.position[:]),
	)
	if !c.ball.InFlight {
		c.setMessage(c.tuning.Messages.PowerUpSpawned, c.tuning.Timing.MakeMessage)
	}
	c.viewer.ViewCue(CuePowerUpSpawn)
}

// pickupSpot places a pickup on a trajectory the player can actually
// shoot: the ball never leaves the x = 0 plane, so a random spot would
// usually be unreachable. It follows a random-power shot for a random
// number of frames under normal gravity, stopping early if the shot drops
// too low on its way down.
func (c *Court) pickupSpot() Vec {
	shot := c.tuning.Shot
	level := c.rng.Float64()
	frames := 10 + c.rng.Intn(30)

	pos := Vec(c.tuning.Ball.Initial)
	vel := LaunchVelocity(shot, LaunchForce(shot, level, false))
	for i := 0; i < frames; i++ {
		vel[1] -= c.tuning.Gravity.Normal
		next := pos.Add(vel)
		if (vel[1] < 0 && next[1] < pickupMinHeight) || !c.bounds.WithIn(next) {
			break
		}
		pos = next
	}
	return pos
}

const pickupMinHeight = 1.5

// checkPickup activates a spawned power-up the ball passes through.
func (c *Court) checkPickup() {
	if c.powerUp.state != Spawned {
		return
	}
	pickup := geom.Sphere[float64]{Center: c.powerUp.position, R: c.tuning.PowerUps.PickupRadius}
	if !pickup.WithIn(c.ball.Position) {
		return
	}

	kind := c.powerUp.kind
	duration := c.tuning.PowerUps.Durations[kind.String()]
	c.powerUp.state = Active
	c.powerUp.expiry = c.now().Add(duration)
	c.timers.schedule(timerExpire, c.powerUp.expiry, c.expirePowerUp)

	c.log.Debug("Power-up collected", zap.Stringer("kind", kind), zap.Duration("duration", duration))
	c.setMessage(fmt.Sprintf(c.tuning.Messages.PowerUpCollected, kind.Title()), c.tuning.Timing.MakeMessage)
	c.viewer.ViewCue(CuePowerUpCollect)
}

func (c *Court) expirePowerUp() {
	if c.powerUp.state != Active {
		return
	}
	kind := c.powerUp.kind
	c.powerUp = powerUp{}
	c.log.Debug("Power-up expired", zap.Stringer("kind", kind))
	if !c.ball.InFlight && !c.charging {
		c.setMessage(fmt.Sprintf(c.tuning.Messages.PowerUpExpired, kind.Title()), c.tuning.Timing.MakeMessage)
	}
	c.viewer.ViewCue(CuePowerUpExpire)
}
