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
	"math"
	"time"

	"go.uber.org/zap"

	"hoopshot/tuning"
)

// PowerLevel maps a charge duration to [0, 1]. Anything at or beyond the
// charge window is full power.
func PowerLevel(charge, window time.Duration) float64 {
	if charge <= 0 || window <= 0 {
		return 0
	}
	return math.Min(float64(charge)/float64(window), 1)
}

// LaunchForce is the base force plus the power level scaled by the force
// range, boosted when super-shot is active.
func LaunchForce(s tuning.Shot, level float64, superShot bool) float64 {
	force := s.BaseForce + level*s.ForceRange
	if superShot {
		force *= s.SuperShotBoost
	}
	return force
}

// LaunchVelocity points force along the fixed launch angle, up and away
// from the shooter. There is no lateral aim.
func LaunchVelocity(s tuning.Shot, force float64) Vec {
	angle := s.Angle()
	return Vec{0, force * math.Sin(angle), -force * math.Cos(angle)}
}

func (c *Court) launch(level float64) {
	if c.ball.InFlight {
		return
	}
	shot := c.tuning.Shot
	force := LaunchForce(shot, level, c.powerUp.active(SuperShot))

	c.flight = flight{id: c.flight.id + 1}
	c.ball.Velocity = LaunchVelocity(shot, force)
	c.ball.InFlight = true
	c.shots++

	c.log.Debug("Shot launched",
		zap.Uint64("flight", c.flight.id),
		zap.Float64("power", level),
		zap.Float64("force", force),
	)
	c.setMessage(c.tuning.Messages.Flying, 0)
	c.viewer.ViewCue(CueLaunch)
}
