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

package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"hoopshot/game"
	"hoopshot/sfx"
	"hoopshot/tuning"
)

var (
	isDebug    = flag.Bool("debug", false, "Enable debug log output")
	configPath = flag.String("config", "config.toml", "Path of the TOML config file")
)

const shutdownTimeout = 5 * time.Second

func main() {
	flag.Parse()

	var logger *zap.Logger
	if *isDebug {
		logger = unwrap(zap.NewDevelopment())
	} else {
		logger = unwrap(zap.NewProduction())
	}
	defer func(logger *zap.Logger) {
		// Sync returns ENOTTY when stderr is a terminal.
		_ = logger.Sync()
	}(logger)

	logger.Info("Server start")
	printBuildInfo(logger)
	defer logger.Info("Server exit")

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Error("Read .env fail", zap.Error(err))
		return
	}

	config, err := readConfig(*configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("Config file not found, using defaults", zap.String("path", *configPath))
	case err != nil:
		logger.Error("Read config fail", zap.Error(err))
		return
	}
	if err := applyEnv(&config, os.Getenv); err != nil {
		logger.Error("Read environment fail", zap.Error(err))
		return
	}
	if err := config.Validate(); err != nil {
		logger.Error("Invalid config", zap.Error(err))
		return
	}

	t, err := tuning.Load(config.TuningFile)
	if err != nil {
		logger.Error("Load tuning fail", zap.String("path", config.TuningFile), zap.Error(err))
		return
	}

	sounds := sfx.Render(logger.Named("sfx"), config.SFX)
	g := game.NewGame(logger, config, &t, sounds)

	srv := &http.Server{
		Addr:              config.ListenAddress(),
		Handler:           g.Handler(),
		ErrorLog:          zap.NewStdLog(logger.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	served := make(chan error, 1)
	go func() {
		logger.Info("Start listening", zap.String("address", srv.Addr))
		served <- srv.ListenAndServe()
	}()

	select {
	case err := <-served:
		logger.Error("Server listening error", zap.Error(err))
		return
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown error", zap.Error(err))
	}
	if err := g.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Session shutdown error", zap.Error(err))
	}
}

func printBuildInfo(logger *zap.Logger) {
	binaryInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	settings := make(map[string]string)
	for _, v := range binaryInfo.Settings {
		settings[v.Key] = v.Value
	}
	logger.Debug("Build info", zap.String("go", binaryInfo.GoVersion), zap.Any("settings", settings))
}

// readConfig decodes path over the defaults. A missing file returns the
// defaults together with an error matching fs.ErrNotExist. Unknown keys
// are an error.
func readConfig(path string) (game.Config, error) {
	c := game.DefaultConfig()
	meta, err := toml.DecodeFile(path, &c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return game.DefaultConfig(), err
		}
		return game.Config{}, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		var err errUnknownConfig
		for _, key := range undecoded {
			err = append(err, key.String())
		}
		return game.Config{}, err
	}
	return c, nil
}

// applyEnv lets PORT override the configured port.
func applyEnv(c *game.Config, getenv func(string) string) error {
	if port := getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return errors.Join(errors.New("invalid PORT"), err)
		}
		c.Port = p
	}
	return nil
}

type errUnknownConfig []string

func (e errUnknownConfig) Error() string {
	return "unknown config keys: [" + strings.Join(e, ", ") + "]"
}

func unwrap[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
