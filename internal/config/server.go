package config

import (
	"flag"
	"fmt"
	"time"
)

// Значения сервера по умолчанию
const (
	DefaultServerAddr      = ":8080"
	DefaultServerDB        = "coursemanager.db"
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour

	// MinJWTSecretLen - HS256 требует ключ не короче размера хеша
	MinJWTSecretLen = 32
)

// Server - настройки reference backend
type Server struct {
	Addr            string        `yaml:"addr"`
	DB              string        `yaml:"db"`
	JWTSecret       string        `yaml:"jwt_secret"`
	AdminEmail      string        `yaml:"admin_email"`
	AdminPassword   string        `yaml:"admin_password"`
	LogLevel        string        `yaml:"log_level"`
	ConfigFile      string        `yaml:"-"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
	ShowVersion     bool          `yaml:"-"`
}

// LoadServer parses args and merges the file, environment and flags.
func LoadServer(name string, args []string, lookup LookupFunc) (*Server, error) {
	cfg := &Server{
		Addr:            DefaultServerAddr,
		DB:              DefaultServerDB,
		LogLevel:        "info",
		AccessTokenTTL:  DefaultAccessTokenTTL,
		RefreshTokenTTL: DefaultRefreshTokenTTL,
		CORSOrigins:     []string{"http://localhost:5173"},
	}

	var (
		fromFlags Server
		origins   string
	)
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&fromFlags.Addr, "addr", DefaultServerAddr, "Listen address")
	fs.StringVar(&fromFlags.DB, "db", DefaultServerDB, "Path to SQLite database")
	fs.StringVar(&fromFlags.ConfigFile, "config", "", "Path to YAML config file")
	fs.StringVar(&fromFlags.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.DurationVar(&fromFlags.AccessTokenTTL, "access-ttl", DefaultAccessTokenTTL, "Access token lifetime")
	fs.DurationVar(&fromFlags.RefreshTokenTTL, "refresh-ttl", DefaultRefreshTokenTTL, "Refresh token lifetime")
	fs.StringVar(&origins, "cors-origins", "", "Comma separated list of allowed CORS origins")
	fs.BoolVar(&fromFlags.ShowVersion, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	set := explicitFlags(fs)

	cfg.ConfigFile = fromFlags.ConfigFile
	if !set["config"] {
		envString(lookup, "CONFIG", &cfg.ConfigFile)
	}
	if err := readYAML(cfg.ConfigFile, cfg); err != nil {
		return nil, err
	}

	envString(lookup, "ADDR", &cfg.Addr)
	envString(lookup, "DB", &cfg.DB)
	envString(lookup, "JWT_SECRET", &cfg.JWTSecret)
	envString(lookup, "ADMIN_EMAIL", &cfg.AdminEmail)
	envString(lookup, "ADMIN_PASSWORD", &cfg.AdminPassword)
	envString(lookup, "LOG_LEVEL", &cfg.LogLevel)
	envList(lookup, "CORS_ORIGINS", &cfg.CORSOrigins)
	if err := envDuration(lookup, "ACCESS_TTL", &cfg.AccessTokenTTL); err != nil {
		return nil, err
	}
	if err := envDuration(lookup, "REFRESH_TTL", &cfg.RefreshTokenTTL); err != nil {
		return nil, err
	}

	if set["addr"] {
		cfg.Addr = fromFlags.Addr
	}
	if set["db"] {
		cfg.DB = fromFlags.DB
	}
	if set["log-level"] {
		cfg.LogLevel = fromFlags.LogLevel
	}
	if set["access-ttl"] {
		cfg.AccessTokenTTL = fromFlags.AccessTokenTTL
	}
	if set["refresh-ttl"] {
		cfg.RefreshTokenTTL = fromFlags.RefreshTokenTTL
	}
	if set["cors-origins"] {
		cfg.CORSOrigins = splitList(origins)
	}
	cfg.ShowVersion = fromFlags.ShowVersion

	if cfg.ShowVersion {
		return cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the merged settings.
func (c *Server) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is empty")
	}
	if c.DB == "" {
		return fmt.Errorf("db path is empty")
	}
	// секрет задаётся только через файл или окружение, не через argv
	if len(c.JWTSecret) < MinJWTSecretLen {
		return fmt.Errorf("jwt secret must be at least %d bytes (set %sJWT_SECRET)", MinJWTSecretLen, EnvPrefix)
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return fmt.Errorf("admin email and password must be set together")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
