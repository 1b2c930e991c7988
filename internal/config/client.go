package config

import (
	"flag"
	"fmt"
	"net/url"
	"time"
)

// Значения клиента по умолчанию
const (
	DefaultServerURL = "http://localhost:8080"
	DefaultClientDB  = "coursemanager-client.db"
	DefaultLogLevel  = "warn"
	DefaultTimeout   = 30 * time.Second

	// MemoryDB - хранить сессию только в памяти процесса
	MemoryDB = ":memory:"
)

// Client - настройки CLI клиента
type Client struct {
	Server          string        `yaml:"server"`
	DB              string        `yaml:"db"`
	StorePassphrase string        `yaml:"store_passphrase"`
	LogLevel        string        `yaml:"log_level"`
	LogFormat       string        `yaml:"log_format"`
	ConfigFile      string        `yaml:"-"`
	Timeout         time.Duration `yaml:"timeout"`
	ShowVersion     bool          `yaml:"-"`
}

// LoadClient parses args with a fresh FlagSet named name and merges the file,
// environment and flags. It returns the settings and the remaining arguments
// (command name and its arguments).
func LoadClient(name string, args []string, lookup LookupFunc) (*Client, []string, error) {
	cfg := &Client{
		Server:   DefaultServerURL,
		DB:       DefaultClientDB,
		LogLevel: DefaultLogLevel,
		Timeout:  DefaultTimeout,
	}

	var fromFlags Client
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&fromFlags.Server, "server", DefaultServerURL, "Server URL")
	fs.StringVar(&fromFlags.DB, "db", DefaultClientDB, "Path to local session database (:memory: to keep nothing on disk)")
	fs.StringVar(&fromFlags.ConfigFile, "config", "", "Path to YAML config file")
	fs.StringVar(&fromFlags.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&fromFlags.LogFormat, "log-format", "text", "Log format: text or json")
	fs.DurationVar(&fromFlags.Timeout, "timeout", DefaultTimeout, "HTTP request timeout")
	fs.BoolVar(&fromFlags.ShowVersion, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	set := explicitFlags(fs)

	// Путь к файлу: флаг важнее окружения
	cfg.ConfigFile = fromFlags.ConfigFile
	if !set["config"] {
		envString(lookup, "CONFIG", &cfg.ConfigFile)
	}
	if err := readYAML(cfg.ConfigFile, cfg); err != nil {
		return nil, nil, err
	}

	envString(lookup, "SERVER", &cfg.Server)
	envString(lookup, "DB", &cfg.DB)
	envString(lookup, "STORE_PASSPHRASE", &cfg.StorePassphrase)
	envString(lookup, "LOG_LEVEL", &cfg.LogLevel)
	envString(lookup, "LOG_FORMAT", &cfg.LogFormat)
	if err := envDuration(lookup, "TIMEOUT", &cfg.Timeout); err != nil {
		return nil, nil, err
	}

	if set["server"] {
		cfg.Server = fromFlags.Server
	}
	if set["db"] {
		cfg.DB = fromFlags.DB
	}
	if set["log-level"] {
		cfg.LogLevel = fromFlags.LogLevel
	}
	if set["log-format"] {
		cfg.LogFormat = fromFlags.LogFormat
	}
	if set["timeout"] {
		cfg.Timeout = fromFlags.Timeout
	}
	cfg.ShowVersion = fromFlags.ShowVersion

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

// Validate checks the merged settings.
func (c *Client) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server URL %q", c.Server)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported server URL scheme %q", u.Scheme)
	}
	if c.DB == "" {
		return fmt.Errorf("db path is empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
