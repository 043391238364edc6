/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Editor        EditorConfig  `yaml:"editor"`
	Upload        UploadConfig  `yaml:"upload"`
	Garment       GarmentConfig `yaml:"garment"`
	Logging       LoggingConfig `yaml:"logging"`
}

type EditorConfig struct {
	DefaultText string  `yaml:"default_text"`
	FontSize    float32 `yaml:"font_size"`
	// FontFile is an optional TTF used to measure labels instead of Go Regular.
	FontFile      string  `yaml:"font_file"`
	KeepRatio     bool    `yaml:"keep_ratio"`
	Snap          bool    `yaml:"snap"`
	SnapThreshold float32 `yaml:"snap_threshold"`
}

type UploadConfig struct {
	MaxBytes     int64 `yaml:"max_bytes"`
	MaxDimension int   `yaml:"max_dimension"`
	AutoOrient   bool  `yaml:"auto_orient"`
}

type GarmentConfig struct {
	Default   string `yaml:"default"`
	AssetsDir string `yaml:"assets_dir"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Editor:        EditorConfig{DefaultText: "Your Text", FontSize: 24, KeepRatio: false, Snap: false, SnapThreshold: 6},
		Upload:        UploadConfig{MaxBytes: 20 << 20, MaxDimension: 4096, AutoOrient: true},
		Garment:       GarmentConfig{Default: "white", AssetsDir: "public"},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath     = "MYT_CONFIG"
	EnvDefaultText    = "MYT_DEFAULT_TEXT"
	EnvFontFile       = "MYT_FONT_FILE"
	EnvKeepRatio      = "MYT_KEEP_RATIO"
	EnvSnap           = "MYT_SNAP"
	EnvUploadMaxBytes = "MYT_UPLOAD_MAX_BYTES"
	EnvGarment        = "MYT_GARMENT"
	EnvAssetsDir      = "MYT_ASSETS_DIR"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "MYT_LOG_LEVEL"
	EnvLogFormat = "MYT_LOG_FORMAT"
	EnvLogSource = "MYT_LOG_SOURCE"
	EnvLogFile   = "MYT_LOG_FILE"
)

// ConfigPath returns the per-user config file path, or MYT_CONFIG when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "MyTshirt")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "MyTshirt")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "mytshirt")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "mytshirt")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit file. A missing file is not an error;
// a malformed one is, and the defaults (plus env) are returned alongside it.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		fileCfg := Defaults()
		if uerr := yaml.Unmarshal(data, &fileCfg); uerr != nil {
			applyEnvOverrides(&cfg)
			return cfg, fmt.Errorf("parse %s: %w", path, uerr)
		}
		cfg = fileCfg
	case !errors.Is(err, os.ErrNotExist):
		applyEnvOverrides(&cfg)
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	normalize(&cfg)
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// normalize repairs values a hand-edited file may have left unusable.
func normalize(cfg *AppConfig) {
	d := Defaults()
	if cfg.ConfigVersion == 0 {
		cfg.ConfigVersion = d.ConfigVersion
	}
	if cfg.Editor.FontSize <= 0 {
		cfg.Editor.FontSize = d.Editor.FontSize
	}
	if cfg.Editor.SnapThreshold <= 0 {
		cfg.Editor.SnapThreshold = d.Editor.SnapThreshold
	}
	if cfg.Upload.MaxBytes < 0 {
		cfg.Upload.MaxBytes = 0
	}
	if cfg.Upload.MaxDimension < 0 {
		cfg.Upload.MaxDimension = 0
	}
	cfg.Garment.Default = strings.ToLower(strings.TrimSpace(cfg.Garment.Default))
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Logging.File = strings.TrimSpace(cfg.Logging.File)
}

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv(EnvDefaultText); v != "" {
		cfg.Editor.DefaultText = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontFile)); v != "" {
		cfg.Editor.FontFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvKeepRatio)); v != "" {
		cfg.Editor.KeepRatio = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvSnap)); v != "" {
		cfg.Editor.Snap = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvUploadMaxBytes)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			cfg.Upload.MaxBytes = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvGarment)); v != "" {
		cfg.Garment.Default = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvAssetsDir)); v != "" {
		cfg.Garment.AssetsDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, known := map[string]string{
		"editor.default_text": EnvDefaultText,
		"editor.font_file":    EnvFontFile,
		"editor.keep_ratio":   EnvKeepRatio,
		"editor.snap":         EnvSnap,
		"upload.max_bytes":    EnvUploadMaxBytes,
		"garment.default":     EnvGarment,
		"garment.assets_dir":  EnvAssetsDir,
		"logging.level":       EnvLogLevel,
		"logging.format":      EnvLogFormat,
		"logging.source":      EnvLogSource,
		"logging.file":        EnvLogFile,
	}[key]
	if !known || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}
