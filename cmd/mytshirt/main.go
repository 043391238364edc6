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
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"mytshirt/internal/config"
	"mytshirt/internal/crash"
	"mytshirt/internal/garment"
	applog "mytshirt/internal/log"
	"mytshirt/internal/script"
	"mytshirt/internal/ui"
	"mytshirt/internal/version"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "mytshirt: T-shirt designer")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  mytshirt version|-v|--version                Show version")
	fmt.Fprintln(w, "  mytshirt colors                              List garment colours")
	fmt.Fprintln(w, "  mytshirt replay <script.json> [-garment c]   Replay an event script and print the design as YAML")
	fmt.Fprintln(w, "  mytshirt ui                                  Launch the desktop designer (build with -tags fyne)")
}

func main() {
	// .env is optional; the real environment wins over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: .env:", err)
	}
	cfg, cfgErr := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config not loaded, using defaults", slog.Any("err", cfgErr))
	}
	defer crash.Recover("", nil)

	os.Exit(run(os.Args[1:], cfg, os.Stdout, os.Stderr))
}

func run(args []string, cfg config.AppConfig, stdout, stderr io.Writer) int {
	l := applog.WithComponent("cli")
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(stdout, version.String())
		return 0
	case "colors":
		for _, c := range garment.All() {
			fmt.Fprintf(stdout, "%-9s %s\n", c, garment.Resolve(string(c)).Path)
		}
		return 0
	case "replay":
		if err := replay(args[1:], cfg, stdout, stderr); err != nil {
			l.Error("replay failed", slog.Any("err", err))
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		return 0
	case "ui":
		if err := ui.Run(cfg); err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		return 0
	}
	usage(stderr)
	return 2
}

func replay(args []string, cfg config.AppConfig, stdout, stderr io.Writer) error {
	fset := flag.NewFlagSet("replay", flag.ContinueOnError)
	fset.SetOutput(stderr)
	garmentFlag := fset.String("garment", "", "garment colour, overrides the script")
	if err := fset.Parse(args); err != nil {
		return err
	}
	rest := fset.Args()
	if len(rest) == 0 {
		return errors.New("replay requires <script.json>")
	}
	path := rest[0]
	// flags may also follow the script path
	if err := fset.Parse(rest[1:]); err != nil {
		return err
	}

	s, err := script.Load(path)
	if err != nil {
		return err
	}
	sess, err := ui.NewSession(cfg, nil)
	if err != nil {
		return err
	}
	r := &script.Runner{Session: sess, Decoder: ui.NewDecoder(cfg), BaseDir: filepath.Dir(path)}
	if err := r.Run(context.Background(), s); err != nil {
		return err
	}
	if *garmentFlag != "" {
		sess.SetGarment(*garmentFlag)
	}
	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(sess.Snapshot()); err != nil {
		return err
	}
	return enc.Close()
}
