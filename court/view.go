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

import "strconv"

// Cue names a moment the presentation layer may want to sound out.
type Cue string

const (
	CueLaunch         Cue = "launch"
	CueScore          Cue = "score"
	CueMiss           Cue = "miss"
	CuePowerUpSpawn   Cue = "powerup-spawn"
	CuePowerUpCollect Cue = "powerup-collect"
	CuePowerUpExpire  Cue = "powerup-expire"
)

// Cues lists every cue the court can emit.
var Cues = []Cue{CueLaunch, CueScore, CueMiss, CuePowerUpSpawn, CuePowerUpCollect, CuePowerUpExpire}

// Viewer is the output port of a court. ViewCue is called synchronously
// from Press, Release or Tick and must not call back into the court.
type Viewer interface {
	ViewCue(cue Cue)
}

type nopViewer struct{}

func (nopViewer) ViewCue(Cue) {}

// View is a read-only projection of the court for display. It shares no
// memory with the court.
type View struct {
	Tick        uint64      `json:"tick"`
	Score       int         `json:"score"`
	Shots       int         `json:"shots"`
	Makes       int         `json:"makes"`
	Accuracy    string      `json:"accuracy"`
	Power       float64     `json:"power"`
	Charging    bool        `json:"charging"`
	Message     string      `json:"message"`
	Ball        BallView    `json:"ball"`
	Pickup      *PickupView `json:"pickup,omitempty"`
	Active      *ActiveView `json:"active,omitempty"`
	Leaderboard []Entry     `json:"leaderboard"`
}

type BallView struct {
	Position [3]float64 `json:"position"`
	Rotation [3]float64 `json:"rotation"`
	InFlight bool       `json:"inFlight"`
}

// PickupView is a power-up lying on the court.
type PickupView struct {
	Kind     string     `json:"kind"`
	Position [3]float64 `json:"position"`
	Radius   float64    `json:"radius"`
}

// ActiveView is the power-up in effect.
type ActiveView struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	RemainingMs int64  `json:"remainingMs"`
}

// View projects the current state.
func (c *Court) View() View {
	v := View{
		Tick:     c.tick,
		Score:    c.score,
		Shots:    c.shots,
		Makes:    c.makes,
		Accuracy: accuracy(c.makes, c.shots),
		Power:    c.power,
		Charging: c.charging,
		Message:  c.message,
		Ball: BallView{
			Position: c.ball.Position,
			Rotation: c.ball.Rotation,
			InFlight: c.ball.InFlight,
		},
		Leaderboard: c.leaderboard.Entries(),
	}
	switch c.powerUp.state {
	case Spawned:
		v.Pickup = &PickupView{
			Kind:     c.powerUp.kind.String(),
			Position: c.powerUp.position,
			Radius:   c.tuning.PowerUps.PickupRadius,
		}
	case Active:
		remaining := c.powerUp.expiry.Sub(c.now()).Milliseconds()
		v.Active = &ActiveView{
			Kind:        c.powerUp.kind.String(),
			Title:       c.powerUp.kind.Title(),
			RemainingMs: max(remaining, 0),
		}
	}
	if v.Leaderboard == nil {
		v.Leaderboard = []Entry{}
	}
	return v
}

// accuracy is makes per shot as a percentage with one decimal.
func accuracy(makes, shots int) string {
	if shots == 0 {
		return "0.0"
	}
	return strconv.FormatFloat(float64(makes)/float64(shots)*100, 'f', 1, 64)
}

// PowerUpState reports the lifecycle stage and kind of the power-up.
func (c *Court) PowerUpState() (PowerUpState, Kind) {
	return c.powerUp.state, c.powerUp.kind
}

// Ball returns a copy of the projectile.
func (c *Court) Ball() Ball { return c.ball }
