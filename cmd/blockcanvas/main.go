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
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"blockcanvas/internal/gesture"
	"blockcanvas/internal/version"
)

func newRootCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:    "blockcanvas",
		Usage:   "Interactive block diagram canvas: desktop, terminal and HTTP hosts plus exporters",
		Version: version.Version,
		Before:  a.setup,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      "config",
				Aliases:   []string{"c"},
				Usage:     "Path to config file (defaults to the user config path)",
				Sources:   cli.EnvVars("BC_CONFIG_FILE"),
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override logging.level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "dirty-policy",
				Usage: "Override canvas.dirty_policy (" + gesture.MoveEvent.String() + ", " + gesture.Displacement.String() + ")",
			},
		},
		Commands: []*cli.Command{
			versionCommand(),
			uiCommand(a),
			tuiCommand(a),
			serveCommand(a),
			exportCommand(a),
			validateCommand(),
		},
	}
}

func main() {
	cmd := newRootCommand(&app{})
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
