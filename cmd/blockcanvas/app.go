/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"blockcanvas/internal/config"
	"blockcanvas/internal/diagram"
	"blockcanvas/internal/gesture"
	"blockcanvas/internal/importer"
	applog "blockcanvas/internal/log"
	"blockcanvas/internal/undo"
)

// app carries what the root command resolved for its subcommands.
type app struct {
	cfg     config.AppConfig
	cfgPath string
	log     *slog.Logger
}

func (a *app) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return ctx, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return ctx, fmt.Errorf("load config: %w", err)
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if p := cmd.String("dirty-policy"); p != "" {
		if _, err := gesture.ParseDirtyPolicy(p); err != nil {
			return ctx, err
		}
		cfg.Canvas.DirtyPolicy = p
	}
	a.cfg, a.cfgPath = cfg, path

	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	a.log = applog.WithComponent("cli")
	a.log.Debug("config loaded", slog.String("path", path))
	return ctx, nil
}

// newEngine builds an empty board and its engine from the canvas and
// history sections.
func (a *app) newEngine() (*gesture.Engine, error) {
	c := a.cfg.Canvas
	policy, err := gesture.ParseDirtyPolicy(c.DirtyPolicy)
	if err != nil {
		return nil, err
	}
	tol := c.HandleTolerance
	if tol == 0 {
		tol = -1
	}
	b := diagram.NewBoard(diagram.Options{Width: c.Width, Height: c.Height, BlockSize: c.BlockSize})
	h := a.cfg.History
	return gesture.New(b, gesture.Options{
		Tolerance:   tol,
		DirtyPolicy: policy,
		History:     undo.Config{MaxBytes: h.MaxBytes, MaxDepth: h.MaxDepth, MinInterval: h.MinInterval()},
		Logger:      applog.WithComponent("gesture"),
	}), nil
}

// populate seeds the board with the demo or with stacks imported from
// files, laid out left to right.
func (a *app) populate(eng *gesture.Engine, imports []string) error {
	if len(imports) == 0 {
		diagram.SeedDemo(eng.Board())
		return nil
	}
	x := 20
	for _, path := range imports {
		res, err := importer.Load(path)
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			a.log.Warn("import", slog.String("file", path), slog.String("warning", w))
		}
		st, err := eng.Board().CreateStack(x, 20, res.Children)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		x = st.Primitive().AbsBounds().Right() + 20
		a.log.Info("stack imported", slog.String("file", path), slog.Int("children", len(res.Children)))
	}
	return nil
}

// watch reloads the config file while ctx lives. The log level always
// follows; apply receives the new config for host-specific settings.
func (a *app) watch(ctx context.Context, apply func(config.AppConfig)) {
	go func() {
		err := config.Watch(ctx, a.cfgPath, applog.WithComponent("config"), func(cfg config.AppConfig) {
			applog.SetLevel(cfg.Logging.Level)
			a.log.Info("config reloaded", slog.String("level", cfg.Logging.Level))
			if apply != nil {
				apply(cfg)
			}
		})
		if err != nil && ctx.Err() == nil {
			a.log.Warn("config watcher stopped", slog.Any("err", err))
		}
	}()
}
