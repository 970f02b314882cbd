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

// Package tuning holds every gameplay constant of the court simulation.
// The defaults ship embedded in the binary; a YAML file may override any
// subset of them.
package tuning

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Tuning is the full set of gameplay constants.
type Tuning struct {
	Ball     Ball     `yaml:"ball"`
	Gravity  Gravity  `yaml:"gravity"`
	Rim      Rim      `yaml:"rim"`
	Shot     Shot     `yaml:"shot"`
	Bounds   Bounds   `yaml:"bounds"`
	PowerUps PowerUps `yaml:"powerUps"`
	Timing   Timing   `yaml:"timing"`
	Messages Messages `yaml:"messages"`
}

type Ball struct {
	Initial     [3]float64 `yaml:"initial"`
	SpinPerTick float64    `yaml:"spinPerTick"`
}

type Gravity struct {
	Normal     float64 `yaml:"normal"`
	SlowMotion float64 `yaml:"slowMotion"`
}

// Rim describes the make condition: the ball centre must be within Radius
// of Anchor and its height strictly between BandLow and BandHigh.
type Rim struct {
	Anchor   [3]float64 `yaml:"anchor"`
	Radius   float64    `yaml:"radius"`
	BandLow  float64    `yaml:"bandLow"`
	BandHigh float64    `yaml:"bandHigh"`
}

type Shot struct {
	ChargeWindow   time.Duration `yaml:"chargeWindow"`
	BaseForce      float64       `yaml:"baseForce"`
	ForceRange     float64       `yaml:"forceRange"`
	AngleDivisor   float64       `yaml:"angleDivisor"`
	SuperShotBoost float64       `yaml:"superShotBoost"`
}

// Angle is the fixed launch angle in radians.
func (s Shot) Angle() float64 { return math.Pi / s.AngleDivisor }

// Bounds is the playable region. Leaving it ends a flight as a miss.
type Bounds struct {
	HalfWidth float64 `yaml:"halfWidth"`
	BackLimit float64 `yaml:"backLimit"`
	Floor     float64 `yaml:"floor"`
}

type PowerUps struct {
	SpawnChance  float64                  `yaml:"spawnChance"`
	SpawnDelay   time.Duration            `yaml:"spawnDelay"`
	PickupRadius float64                  `yaml:"pickupRadius"`
	Durations    map[string]time.Duration `yaml:"durations"`
}

type Timing struct {
	BallReset   time.Duration `yaml:"ballReset"`
	MakeMessage time.Duration `yaml:"makeMessage"`
	MissMessage time.Duration `yaml:"missMessage"`
}

// Messages are the status banner texts. PowerUpCollected and
// PowerUpExpired take the power-up display name as their only verb.
type Messages struct {
	Idle             string `yaml:"idle"`
	Charging         string `yaml:"charging"`
	Flying           string `yaml:"flying"`
	Make             string `yaml:"make"`
	Miss             string `yaml:"miss"`
	PowerUpSpawned   string `yaml:"powerUpSpawned"`
	PowerUpCollected string `yaml:"powerUpCollected"`
	PowerUpExpired   string `yaml:"powerUpExpired"`
}

// Default returns the embedded tuning. It panics if the embedded document
// is broken, which is a build defect rather than a runtime condition.
func Default() Tuning {
	t, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Errorf("embedded tuning: %w", err))
	}
	return t
}

// Parse decodes a YAML document on top of nothing. Use Load to overlay a
// partial file on the defaults.
func Parse(data []byte) (Tuning, error) {
	var t Tuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("failed to parse tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("invalid tuning: %w", err)
	}
	return t, nil
}

// Load reads the YAML file at path over the embedded defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("failed to read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("failed to parse tuning file: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("invalid tuning file: %w", err)
	}
	return t, nil
}

// Validate checks that the constants describe a playable court.
func (t *Tuning) Validate() error {
	var errs []error
	if t.Gravity.Normal <= 0 {
		errs = append(errs, fmt.Errorf("gravity.normal must be positive, got %v", t.Gravity.Normal))
	}
	if t.Gravity.SlowMotion <= 0 || t.Gravity.SlowMotion > t.Gravity.Normal {
		errs = append(errs, fmt.Errorf("gravity.slowMotion must be in (0, %v], got %v", t.Gravity.Normal, t.Gravity.SlowMotion))
	}
	if t.Rim.Radius <= 0 {
		errs = append(errs, fmt.Errorf("rim.radius must be positive, got %v", t.Rim.Radius))
	}
	if t.Rim.BandLow >= t.Rim.BandHigh {
		errs = append(errs, fmt.Errorf("rim band invalid: low(%v) >= high(%v)", t.Rim.BandLow, t.Rim.BandHigh))
	}
	if t.Shot.ChargeWindow <= 0 {
		errs = append(errs, fmt.Errorf("shot.chargeWindow must be positive, got %v", t.Shot.ChargeWindow))
	}
	if t.Shot.AngleDivisor <= 0 {
		errs = append(errs, fmt.Errorf("shot.angleDivisor must be positive, got %v", t.Shot.AngleDivisor))
	}
	if t.Shot.BaseForce < 0 || t.Shot.ForceRange < 0 {
		errs = append(errs, errors.New("shot forces must not be negative"))
	}
	if t.Shot.SuperShotBoost < 1 {
		errs = append(errs, fmt.Errorf("shot.superShotBoost must be >= 1, got %v", t.Shot.SuperShotBoost))
	}
	if t.Bounds.HalfWidth <= 0 {
		errs = append(errs, fmt.Errorf("bounds.halfWidth must be positive, got %v", t.Bounds.HalfWidth))
	}
	if p := t.PowerUps.SpawnChance; p < 0 || p > 1 {
		errs = append(errs, fmt.Errorf("powerUps.spawnChance must be in [0, 1], got %v", p))
	}
	if t.PowerUps.PickupRadius <= 0 {
		errs = append(errs, fmt.Errorf("powerUps.pickupRadius must be positive, got %v", t.PowerUps.PickupRadius))
	}
	for _, kind := range PowerUpKinds {
		if d, ok := t.PowerUps.Durations[kind]; !ok || d <= 0 {
			errs = append(errs, fmt.Errorf("powerUps.durations[%s] must be positive", kind))
		}
	}
	return errors.Join(errs...)
}

// PowerUpKinds lists the duration keys every tuning must define.
var PowerUpKinds = []string{"double-points", "super-shot", "slow-motion"}
