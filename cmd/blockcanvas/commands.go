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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v3"

	"blockcanvas/internal/api"
	"blockcanvas/internal/config"
	"blockcanvas/internal/crash"
	"blockcanvas/internal/export"
	"blockcanvas/internal/gesture"
	"blockcanvas/internal/tui"
	"blockcanvas/internal/ui"
	"blockcanvas/internal/version"
)

func importFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:      "import",
		Aliases:   []string{"i"},
		Usage:     "Stack file to place on the board instead of the demo (yaml, xlsx, dxf); repeatable",
		TakesFile: true,
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Println(version.String())
			return nil
		},
	}
}

func uiCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "ui",
		Usage: "Launch the desktop editor (build with -tags fyne)",
		Flags: []cli.Flag{importFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			eng, err := a.newEngine()
			if err != nil {
				return err
			}
			if err := a.populate(eng, cmd.StringSlice("import")); err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			a.watch(ctx, nil)
			return ui.Run(ui.Options{
				Engine:   eng,
				Export:   a.batchOptions(),
				CrashDir: a.cfg.Crash.Dir,
			})
		},
	}
}

func tuiCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Edit the board in the terminal with the mouse",
		Flags: []cli.Flag{importFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			eng, err := a.newEngine()
			if err != nil {
				return err
			}
			defer crash.Recover(crash.Options{Dir: a.cfg.Crash.Dir, Dump: eng.Board().MarshalState})
			if err := a.populate(eng, cmd.StringSlice("import")); err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			a.watch(ctx, nil)
			return tui.Run(tui.New(eng, a.log))
		},
	}
}

func serveCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the pointer API and event stream over HTTP",
		Flags: []cli.Flag{
			importFlag(),
			&cli.StringFlag{Name: "addr", Usage: "Listen address (overrides server.addr)"},
			&cli.BoolFlag{Name: "empty", Usage: "Start with an empty board"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			eng, err := a.newEngine()
			if err != nil {
				return err
			}
			defer crash.Recover(crash.Options{Dir: a.cfg.Crash.Dir, Dump: eng.Board().MarshalState})
			if !cmd.Bool("empty") {
				if err := a.populate(eng, cmd.StringSlice("import")); err != nil {
					return err
				}
			}
			addr := a.cfg.Server.Addr
			if v := cmd.String("addr"); v != "" {
				addr = v
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			broker := api.NewBroker()
			session := api.NewSession(eng, broker)
			a.watch(ctx, func(cfg config.AppConfig) {
				p, err := gesture.ParseDirtyPolicy(cfg.Canvas.DirtyPolicy)
				if err != nil {
					return
				}
				_ = session.Do(func(e *gesture.Engine) error {
					e.SetPolicy(p)
					return nil
				})
			})
			return api.Serve(ctx, session, api.ServerOptions{
				Addr:          addr,
				Token:         a.cfg.Server.Token,
				FrameInterval: a.cfg.Canvas.FrameInterval(),
				Logger:        a.log,
			})
		},
	}
}

func (a *app) batchOptions() export.BatchOptions {
	e := a.cfg.Export
	return export.BatchOptions{
		Formats:  e.Formats,
		OutDir:   e.Dir,
		Scale:    e.Scale,
		FontSize: e.FontSize,
		Labels:   true,
	}
}

func exportCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Render the board to files, all formats in parallel",
		Flags: []cli.Flag{
			importFlag(),
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output directory (overrides export.dir)"},
			&cli.StringFlag{Name: "name", Value: "board", Usage: "Base file name"},
			&cli.StringSliceFlag{Name: "format", Aliases: []string{"f"}, Usage: "png, svg, pdf, dxf or json; repeatable"},
			&cli.StringFlag{Name: "preset", Usage: "web, print or cad; used when no format is given"},
			&cli.FloatFlag{Name: "scale", Usage: "Raster and page scale (overrides export.scale)"},
			&cli.BoolFlag{Name: "no-labels", Usage: "Omit block ids"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			eng, err := a.newEngine()
			if err != nil {
				return err
			}
			defer crash.Recover(crash.Options{Dir: a.cfg.Crash.Dir, Dump: eng.Board().MarshalState})
			if err := a.populate(eng, cmd.StringSlice("import")); err != nil {
				return err
			}

			opt := a.batchOptions()
			opt.Name = cmd.String("name")
			opt.Labels = !cmd.Bool("no-labels")
			if v := cmd.String("out"); v != "" {
				opt.OutDir = v
			}
			if v := cmd.Float("scale"); v > 0 {
				opt.Scale = v
			}
			if f := cmd.StringSlice("format"); len(f) > 0 {
				opt.Formats = f
			} else if p := cmd.String("preset"); p != "" {
				opt.Preset = export.PresetName(p)
				opt.Formats = nil
			}

			paths, err := export.BatchExport(ctx, eng.Snapshot(), opt)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			for _, p := range paths {
				abs, _ := filepath.Abs(p)
				fmt.Println(abs)
			}
			a.log.Info("export done", slog.Int("files", len(paths)), slog.String("dir", opt.OutDir))
			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check snapshot JSON files against the snapshot schema",
		ArgsUsage: "<file> [file...]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return errors.New("validate requires at least one file")
			}
			failed := 0
			for _, path := range cmd.Args().Slice() {
				data, err := os.ReadFile(path)
				if err == nil {
					err = export.ValidateSnapshot(data)
				}
				if err != nil {
					failed++
					fmt.Printf("%s: %v\n", path, err)
					continue
				}
				fmt.Printf("%s: ok\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, cmd.Args().Len())
			}
			return nil
		},
	}
}
