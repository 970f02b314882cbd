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

// One tick is one display frame. The simulation is frame-rate dependent by
// construction: velocities are per tick and there is no delta-time
// scaling, so the owner must call Tick at a fixed rate.

package court

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// Tick advances the simulation by one frame.
func (c *Court) Tick() {
	c.tick++
	now := c.now()

	c.timers.run(now)
	c.subtickCharge(now)
	if c.ball.InFlight {
		c.subtickFlight(now)
	}
}

// subtickCharge refreshes the power meter while the player holds.
func (c *Court) subtickCharge(now time.Time) {
	if !c.charging {
		return
	}
	c.power = math.Min(PowerLevel(now.Sub(c.chargeStart), c.tuning.Shot.ChargeWindow)*100, 100)
}

// subtickFlight moves the ball and evaluates the flight outcome. The make
// check runs before the bounds check so a make and an exit in the same
// frame count as a make.
func (c *Court) subtickFlight(now time.Time) {
	c.integrate()
	if !c.ball.InFlight || c.flight.settled {
		return
	}

	c.checkPickup()
	if !c.flight.scored {
		c.checkScore()
	}
	if !c.bounds.WithIn(c.ball.Position) {
		c.settle(now)
	}
}

// checkScore recognises a make: close to the rim anchor, inside the rim
// height band and falling. Rising through the band never counts.
func (c *Court) checkScore() {
	pos, rim := c.ball.Position, c.tuning.Rim
	if !c.rim.WithIn(pos) || pos[1] <= rim.BandLow || pos[1] >= rim.BandHigh || c.ball.Velocity[1] >= 0 {
		return
	}

	points := c.powerUp.makeValue()
	c.flight.scored = true
	c.score += points
	c.makes++

	c.log.Debug("Make", zap.Uint64("flight", c.flight.id), zap.Int("points", points), zap.Int("score", c.score))
	c.setMessage(c.tuning.Messages.Make, c.tuning.Timing.MakeMessage)
	c.viewer.ViewCue(CueScore)
	c.rollSpawn()
}

// settle ends the outcome phase of a flight once the ball leaves the
// court and schedules the ball to return to its spot.
func (c *Court) settle(now time.Time) {
	c.flight.settled = true
	if !c.flight.scored {
		c.log.Debug("Miss", zap.Uint64("flight", c.flight.id))
		c.setMessage(c.tuning.Messages.Miss, c.tuning.Timing.MissMessage)
		c.viewer.ViewCue(CueMiss)
	}

	id := c.flight.id
	c.timers.schedule(timerBallReset, now.Add(c.tuning.Timing.BallReset), func() {
		if c.flight.id == id {
			c.resetBall()
		}
	})
}
