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

package sfx

import (
	"time"

	"github.com/gopxl/beep"

	"hoopshot/court"
)

// Recipe builds the streamer of one cue at the given rate. The result must
// be finite.
type Recipe func(rate beep.SampleRate) beep.Streamer

var recipes = map[court.Cue]Recipe{
	court.CueLaunch:         launchSound,
	court.CueScore:          scoreSound,
	court.CueMiss:           missSound,
	court.CuePowerUpSpawn:   spawnSound,
	court.CuePowerUpCollect: collectSound,
	court.CuePowerUpExpire:  expireSound,
}

// launchSound is a short whoosh over a low thump.
func launchSound(rate beep.SampleRate) beep.Streamer {
	const d = 180 * time.Millisecond
	return beep.Mix(
		newVolume(tone(0, d, WaveNoise, 20*time.Millisecond, 140*time.Millisecond, rate), 0.5),
		newVolume(tone(110, d, WaveSine, 5*time.Millisecond, 150*time.Millisecond, rate), 0.6),
	)
}

// scoreSound is a rising two note chime, G5 then C6.
func scoreSound(rate beep.SampleRate) beep.Streamer {
	return beep.Seq(
		tone(783.99, 120*time.Millisecond, WaveSquare, 5*time.Millisecond, 80*time.Millisecond, rate),
		tone(1046.50, 280*time.Millisecond, WaveSquare, 5*time.Millisecond, 220*time.Millisecond, rate),
	)
}

// missSound is a falling buzz.
func missSound(rate beep.SampleRate) beep.Streamer {
	return beep.Seq(
		tone(146.83, 150*time.Millisecond, WaveSaw, 5*time.Millisecond, 60*time.Millisecond, rate),
		tone(110, 250*time.Millisecond, WaveSaw, 5*time.Millisecond, 200*time.Millisecond, rate),
	)
}

func spawnSound(rate beep.SampleRate) beep.Streamer {
	return beep.Seq(
		tone(659.25, 80*time.Millisecond, WaveSine, 5*time.Millisecond, 40*time.Millisecond, rate),
		tone(880, 120*time.Millisecond, WaveSine, 5*time.Millisecond, 90*time.Millisecond, rate),
	)
}

// collectSound is a bell: A5 with its octave.
func collectSound(rate beep.SampleRate) beep.Streamer {
	const d = 450 * time.Millisecond
	return beep.Mix(
		newVolume(tone(880, d, WaveSine, 2*time.Millisecond, 400*time.Millisecond, rate), 0.7),
		newVolume(tone(1760, d, WaveSine, 2*time.Millisecond, 200*time.Millisecond, rate), 0.3),
	)
}

func expireSound(rate beep.SampleRate) beep.Streamer {
	return beep.Seq(
		tone(659.25, 100*time.Millisecond, WaveSine, 5*time.Millisecond, 50*time.Millisecond, rate),
		tone(440, 100*time.Millisecond, WaveSine, 5*time.Millisecond, 50*time.Millisecond, rate),
		tone(329.63, 200*time.Millisecond, WaveSine, 5*time.Millisecond, 150*time.Millisecond, rate),
	)
}
