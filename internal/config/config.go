/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads the user configuration: a YAML file in the user scope,
// ${VAR} expansion inside it, BC_* environment overrides on top, and
// validation of the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Dirty policies accepted by canvas.dirty_policy.
const (
	PolicyMoveEvent    = "move-event"
	PolicyDisplacement = "displacement"
)

// Export formats accepted by export.formats.
var exportFormats = []any{"png", "svg", "pdf", "dxf", "json"}

type CanvasConfig struct {
	Width           int    `yaml:"width"`
	Height          int    `yaml:"height"`
	HandleTolerance int    `yaml:"handle_tolerance"`
	BlockSize       int    `yaml:"block_size"`
	DirtyPolicy     string `yaml:"dirty_policy"`
	FrameIntervalMs int    `yaml:"frame_interval_ms"`
}

func (c *CanvasConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Width, validation.Required, validation.Min(50)),
		validation.Field(&c.Height, validation.Required, validation.Min(50)),
		validation.Field(&c.HandleTolerance, validation.Min(0), validation.Max(20)),
		validation.Field(&c.BlockSize, validation.Required, validation.Min(5)),
		validation.Field(&c.DirtyPolicy, validation.Required, validation.In(PolicyMoveEvent, PolicyDisplacement)),
		validation.Field(&c.FrameIntervalMs, validation.Required, validation.Min(1), validation.Max(1000)),
	)
}

// FrameInterval is the redraw tick for hosts without their own render loop.
func (c CanvasConfig) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMs) * time.Millisecond
}

type HistoryConfig struct {
	MaxBytes      int `yaml:"max_bytes"`
	MaxDepth      int `yaml:"max_depth"`
	MinIntervalMs int `yaml:"min_interval_ms"`
}

func (c *HistoryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxBytes, validation.Min(0)),
		validation.Field(&c.MaxDepth, validation.Min(0)),
		validation.Field(&c.MinIntervalMs, validation.Min(0)),
	)
}

func (c HistoryConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalMs) * time.Millisecond
}

type ExportConfig struct {
	Dir      string   `yaml:"dir"`
	Formats  []string `yaml:"formats"`
	Scale    float64  `yaml:"scale"`
	FontSize float64  `yaml:"font_size"`
}

func (c *ExportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Formats, validation.Required, validation.Each(validation.In(exportFormats...))),
		validation.Field(&c.Scale, validation.Required, validation.Min(0.1), validation.Max(10.0)),
		validation.Field(&c.FontSize, validation.Min(0.0)),
	)
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// Token, when set, is required as a Bearer token by the pointer API.
	Token string `yaml:"token"`
}

func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required),
	)
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

func (c *LoggingConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "warning", "error")),
		validation.Field(&c.Format, validation.In("console", "json")),
	)
}

type CrashConfig struct {
	Dir string `yaml:"dir"`
}

// AppConfig is the user-editable configuration persisted to a YAML file in
// the user scope. Environment variables are read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	History       HistoryConfig `yaml:"history"`
	Export        ExportConfig  `yaml:"export"`
	Server        ServerConfig  `yaml:"server"`
	Logging       LoggingConfig `yaml:"logging"`
	Crash         CrashConfig   `yaml:"crash"`
}

// Validate checks every section and reports the first failing one.
func (c *AppConfig) Validate() error {
	sections := []struct {
		name string
		v    validation.Validatable
	}{
		{"canvas", &c.Canvas},
		{"history", &c.History},
		{"export", &c.Export},
		{"server", &c.Server},
		{"logging", &c.Logging},
	}
	for _, s := range sections {
		if err := s.v.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Canvas: CanvasConfig{
			Width:           1280,
			Height:          800,
			HandleTolerance: 2,
			BlockSize:       50,
			DirtyPolicy:     PolicyMoveEvent,
			FrameIntervalMs: 16,
		},
		History: HistoryConfig{MaxBytes: 16 * 1024 * 1024, MaxDepth: 200, MinIntervalMs: 250},
		Export:  ExportConfig{Dir: "export", Formats: []string{"png", "svg", "json"}, Scale: 1, FontSize: 11},
		Server:  ServerConfig{Addr: "127.0.0.1:8088"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Crash:   CrashConfig{Dir: ""},
	}
}

// Env var names used as overrides.
const (
	EnvCanvasWidth  = "BC_CANVAS_WIDTH"
	EnvCanvasHeight = "BC_CANVAS_HEIGHT"
	EnvDirtyPolicy  = "BC_DIRTY_POLICY"
	EnvExportDir    = "BC_EXPORT_DIR"
	EnvServerAddr   = "BC_SERVER_ADDR"
	EnvServerToken  = "BC_SERVER_TOKEN"
	EnvCrashDir     = "BC_CRASH_DIR"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "BC_LOG_LEVEL"
	EnvLogFormat = "BC_LOG_FORMAT"
	EnvLogSource = "BC_LOG_SOURCE"
	EnvLogFile   = "BC_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "BlockCanvas")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "BlockCanvas")
	default: // linux and others
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "blockcanvas")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "blockcanvas")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the config file at path (the user config path when empty),
// applies defaults for absent fields, merges environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (AppConfig, error) {
	cfg := Defaults()
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// decoding onto the defaults keeps every field the file leaves out
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
			return Defaults(), fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	normalize(&cfg)
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as YAML to path (the user config path when empty).
func Save(cfg AppConfig, path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func normalize(cfg *AppConfig) {
	cfg.Canvas.DirtyPolicy = strings.ToLower(strings.TrimSpace(cfg.Canvas.DirtyPolicy))
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Logging.File = strings.TrimSpace(cfg.Logging.File)
	for i, f := range cfg.Export.Formats {
		cfg.Export.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvCanvasWidth)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Canvas.Width = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCanvasHeight)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Canvas.Height = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvDirtyPolicy)); v != "" {
		cfg.Canvas.DirtyPolicy = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDir)); v != "" {
		cfg.Export.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvServerAddr)); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvServerToken)); v != "" {
		cfg.Server.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCrashDir)); v != "" {
		cfg.Crash.Dir = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envByKey = map[string]string{
	"canvas.width":        EnvCanvasWidth,
	"canvas.height":       EnvCanvasHeight,
	"canvas.dirty_policy": EnvDirtyPolicy,
	"export.dir":          EnvExportDir,
	"server.addr":         EnvServerAddr,
	"server.token":        EnvServerToken,
	"crash.dir":           EnvCrashDir,
	"logging.level":       EnvLogLevel,
	"logging.format":      EnvLogFormat,
	"logging.source":      EnvLogSource,
	"logging.file":        EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envByKey[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}
