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
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"hoopshot/protocol"
	"hoopshot/sfx"
)

// Config is read from config.toml. Keys missing from the file keep the
// values of DefaultConfig.
type Config struct {
	// Interface and port the HTTP server binds to.
	ListenHost string `toml:"listen-host"`
	Port       int    `toml:"port"`

	// Built client directory and the document served for unknown paths.
	StaticDir string `toml:"static-dir"`
	Index     string `toml:"index"`

	// Simulation frames per second. The physics is tuned per frame, so
	// changing this changes how fast the ball moves.
	TickRate int `toml:"tick-rate"`
	// A view is sent to the client every ViewEvery ticks.
	ViewEvery int `toml:"view-every"`

	MaxSessions int `toml:"max-sessions"`

	// Codec used when the client does not ask for one with ?codec=.
	Codec string `toml:"codec"`

	// Optional YAML file overriding the embedded court tuning.
	TuningFile string `toml:"tuning-file"`

	// Seed for power-up randomness. 0 seeds every session from the clock.
	Seed int64 `toml:"seed"`

	// InputLimiter throttles press/release/submit frames of one session.
	InputLimiter Limiter `toml:"input-limiter"`
	// SessionLimiter throttles new WebSocket sessions server wide.
	SessionLimiter Limiter `toml:"session-limiter"`

	SFX sfx.Config `toml:"sfx"`
}

func DefaultConfig() Config {
	return Config{
		ListenHost:     "0.0.0.0",
		Port:           3000,
		StaticDir:      "dist",
		Index:          "index.html",
		TickRate:       60,
		ViewEvery:      2,
		MaxSessions:    64,
		Codec:          protocol.JSON.Name(),
		InputLimiter:   Limiter{Every: duration{50 * time.Millisecond}, N: 8},
		SessionLimiter: Limiter{Every: duration{200 * time.Millisecond}, N: 10},
		SFX:            sfx.DefaultConfig(),
	}
}

// ListenAddress is host:port.
func (c *Config) ListenAddress() string {
	return net.JoinHostPort(c.ListenHost, strconv.Itoa(c.Port))
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick-rate must be positive, got %d", c.TickRate))
	}
	if c.ViewEvery <= 0 {
		errs = append(errs, fmt.Errorf("view-every must be positive, got %d", c.ViewEvery))
	}
	if c.MaxSessions <= 0 {
		errs = append(errs, fmt.Errorf("max-sessions must be positive, got %d", c.MaxSessions))
	}
	if _, err := protocol.CodecByName(c.Codec); err != nil {
		errs = append(errs, err)
	}
	if c.Index == "" {
		errs = append(errs, errors.New("index must not be empty"))
	}
	if c.SFX.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sfx.sample-rate must be positive, got %d", c.SFX.SampleRate))
	}
	return errors.Join(errs...)
}

// Limiter is a token bucket: N events at most, refilled one per Every.
type Limiter struct {
	Every duration `toml:"every"`
	N     int      `toml:"n"`
}

// Limiter builds a fresh rate.Limiter from the settings.
func (l *Limiter) Limiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(l.Every.Duration), l.N)
}

// duration reads a time.Duration from a TOML string such as "50ms".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return
}
