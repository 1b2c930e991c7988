// Package config loads client and server settings.
//
// Sources are applied in order default < YAML file < environment < flags,
// so an explicit flag always wins. A .env file, if present, is merged into
// the process environment before anything else is read.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix - префикс всех переменных окружения
const EnvPrefix = "COURSEMANAGER_"

// LookupFunc - источник переменных окружения (os.LookupEnv в проде)
type LookupFunc func(key string) (string, bool)

// LoadDotEnv merges path into the process environment. A missing file is
// not an error; variables already set are not overridden.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// readYAML декодирует файл в out; пустой путь - ничего не делаем
func readYAML(path string, out any) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// explicitFlags возвращает имена флагов, заданных в командной строке
func explicitFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

func envString(lookup LookupFunc, name string, dst *string) {
	if v, ok := lookup(EnvPrefix + name); ok && v != "" {
		*dst = v
	}
}

func envDuration(lookup LookupFunc, name string, dst *time.Duration) error {
	v, ok := lookup(EnvPrefix + name)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
	}
	*dst = d
	return nil
}

func envList(lookup LookupFunc, name string, dst *[]string) {
	v, ok := lookup(EnvPrefix + name)
	if !ok || v == "" {
		return
	}
	*dst = splitList(v)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// NewLogger builds a slog logger writing text or json to w.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
