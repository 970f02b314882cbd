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

// Package sfx synthesizes the court's sound cues and serves them as WAV
// files.
package sfx

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap"

	"hoopshot/court"
)

type Config struct {
	SampleRate int     `toml:"sample-rate"`
	Volume     float64 `toml:"volume"`
}

func DefaultConfig() Config {
	return Config{SampleRate: 44100, Volume: 0.8}
}

func (c Config) format() beep.Format {
	return beep.Format{SampleRate: beep.SampleRate(c.SampleRate), NumChannels: 2, Precision: 2}
}

// Bank holds the rendered cues.
type Bank struct {
	log   *zap.Logger
	clips map[court.Cue][]byte
}

// Render synthesizes every cue. A cue that fails to render is logged and
// left out of the bank.
func Render(log *zap.Logger, cfg Config) *Bank {
	return render(log, cfg, recipes)
}

func render(log *zap.Logger, cfg Config, recipes map[court.Cue]Recipe) *Bank {
	b := &Bank{log: log, clips: make(map[court.Cue][]byte, len(recipes))}
	for _, cue := range court.Cues {
		r, ok := recipes[cue]
		if !ok {
			log.Warn("No recipe for cue", zap.String("cue", string(cue)))
			continue
		}
		data, err := Encode(r, cfg)
		if err != nil {
			log.Error("Render cue error", zap.String("cue", string(cue)), zap.Error(err))
			continue
		}
		b.clips[cue] = data
	}
	log.Info("Sound cues rendered", zap.Int("count", len(b.clips)), zap.Int("sampleRate", cfg.SampleRate))
	return b
}

// Encode renders one recipe to a WAV file in memory.
func Encode(r Recipe, cfg Config) ([]byte, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", cfg.SampleRate)
	}
	s := r(beep.SampleRate(cfg.SampleRate))
	if s == nil {
		return nil, errors.New("recipe returned no streamer")
	}
	s = newVolume(s, cfg.Volume)

	var buf seekBuffer
	if err := wav.Encode(&buf, s, cfg.format()); err != nil {
		return nil, err
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return buf.data, nil
}

// Clip returns the WAV bytes of cue.
func (b *Bank) Clip(cue court.Cue) ([]byte, bool) {
	data, ok := b.clips[cue]
	return data, ok
}

// Cues lists the cues that rendered successfully, in court order.
func (b *Bank) Cues() []court.Cue {
	var cues []court.Cue
	for _, c := range court.Cues {
		if _, ok := b.clips[c]; ok {
			cues = append(cues, c)
		}
	}
	return cues
}

// ServeHTTP answers "<cue>.wav" relative to where the bank is mounted.
func (b *Bank) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	name, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/"), ".wav")
	if !ok {
		http.NotFound(w, r)
		return
	}
	data, ok := b.Clip(court.Cue(name))
	if !ok {
		http.NotFound(w, r)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "audio/wav")
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(data)
	}
}

// seekBuffer is an in-memory io.WriteSeeker; wav.Encode seeks back to
// patch the header sizes.
type seekBuffer struct {
	data []byte
	pos  int
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	if end := s.pos + len(p); end > len(s.data) {
		if end > cap(s.data) {
			grown := make([]byte, end, max(2*cap(s.data), end))
			copy(grown, s.data)
			s.data = grown
		} else {
			s.data = s.data[:end]
		}
	}
	n := copy(s.data[s.pos:], p)
	s.pos += n
	return n, nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(s.pos) + offset
	case io.SeekEnd:
		abs = int64(len(s.data)) + offset
	default:
		return 0, errors.New("seekBuffer: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("seekBuffer: negative position")
	}
	s.pos = int(abs)
	return abs, nil
}
