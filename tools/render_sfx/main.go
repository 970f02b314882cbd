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

// render_sfx writes every sound cue to <out>/<cue>.wav.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"hoopshot/sfx"
)

func main() {
	cfg := sfx.DefaultConfig()
	out := flag.String("out", filepath.Join("dist", "sfx"), "Output directory")
	flag.IntVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "Sample rate in Hz")
	flag.Float64Var(&cfg.Volume, "volume", cfg.Volume, "Master volume, 0 to 1")
	flag.Parse()

	bank := sfx.Render(zap.NewNop(), cfg)
	if err := os.MkdirAll(*out, 0o755); err != nil {
		panic(err)
	}
	for _, cue := range bank.Cues() {
		data, _ := bank.Clip(cue)
		name := filepath.Join(*out, string(cue)+".wav")
		if err := os.WriteFile(name, data, 0o644); err != nil {
			panic(err)
		}
		fmt.Printf("%s (%d bytes)\n", name, len(data))
	}
}
