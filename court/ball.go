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

import "go.uber.org/zap"

// Ball is the projectile. Velocity is zero and InFlight false whenever the
// ball is resting on its spot. Height is not clamped: the ball may sink
// below the floor before it is reset.
type Ball struct {
	Position Vec
	Velocity Vec
	// Rotation is visual spin only, in radians per axis.
	Rotation Vec
	InFlight bool
}

// flight tracks one shot from launch to reset.
type flight struct {
	id uint64
	// scored is set by the first make; no flight scores twice.
	scored bool
	// settled is set once the ball has left the court. Only the visual
	// integration runs afterwards, until the reset fires.
	settled bool
}

func (c *Court) resetBall() {
	c.ball.Position = Vec(c.tuning.Ball.Initial)
	c.ball.Velocity = Vec{}
	c.ball.InFlight = false
}

// integrate advances the ball by one frame: gravity on the vertical
// velocity, then explicit Euler on the position.
func (c *Court) integrate() {
	c.ball.Velocity[1] -= c.gravity()
	c.ball.Position = c.ball.Position.Add(c.ball.Velocity)
	c.ball.Rotation[0] += c.tuning.Ball.SpinPerTick
	c.ball.Rotation[2] += c.tuning.Ball.SpinPerTick

	if !c.ball.Position.IsValid() {
		c.log.Warn("Ball position invalid, resetting",
			zap.Float64("x", c.ball.Position[0]),
			zap.Float64("y", c.ball.Position[1]),
			zap.Float64("z", c.ball.Position[2]),
		)
		c.timers.cancel(timerBallReset)
		c.resetBall()
	}
}

func (c *Court) gravity() float64 {
	if c.powerUp.active(SlowMotion) {
		return c.tuning.Gravity.SlowMotion
	}
	return c.tuning.Gravity.Normal
}
