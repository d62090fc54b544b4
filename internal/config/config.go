// Package config resolves server settings from a .env file, the
// environment and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvDB          = "OMARA_DB"
	EnvAddr        = "OMARA_ADDR"
	EnvLog         = "OMARA_LOG"
	EnvTokenTTL    = "OMARA_TOKEN_TTL"
	EnvCORSOrigins = "OMARA_CORS_ORIGINS"
	EnvRedisAddr   = "OMARA_REDIS_ADDR"
)

// Defaults.
const (
	DefaultDB       = "omara.sqlite3"
	DefaultAddr     = ":8080"
	DefaultTokenTTL = 7 * 24 * time.Hour
)

// Usage is printed for -h.
const Usage = `Usage: omara [flags]

Flags:
  -d, -db <path>          SQLite database path (default: omara.sqlite3, env OMARA_DB)
  -a, -addr <host:port>   listen address (default: :8080, env OMARA_ADDR)
  -l, -log <path>         log file path (default: none, env OMARA_LOG)
  -t, -token-ttl <dur>    session token lifetime (default: 168h, env OMARA_TOKEN_TTL)
  -c, -cors <origins>     comma-separated allowed CORS origins (env OMARA_CORS_ORIGINS)
  -r, -redis <host:port>  Redis address for the analytics cache (env OMARA_REDIS_ADDR)
  -h, -help               show this help and exit

Settings are also read from a .env file in the working directory.
`

// Config holds resolved server settings.
type Config struct {
	DBPath      string
	Addr        string
	LogPath     string
	TokenTTL    time.Duration
	CORSOrigins []string
	RedisAddr   string
}

// Load reads envFile (skipped when missing), overlays the process
// environment and parses args. It returns flag.ErrHelp for -h.
func Load(envFile string, args []string, usage io.Writer) (*Config, error) {
	fileEnv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", envFile, err)
		}
		if m != nil {
			fileEnv = m
		}
	}

	lookup := func(key, fallback string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		if v := fileEnv[key]; v != "" {
			return v
		}
		return fallback
	}

	ttl := DefaultTokenTTL
	if v := lookup(EnvTokenTTL, ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", EnvTokenTTL, err)
		}
		ttl = d
	}

	cfg := &Config{}
	var cors string

	set := flag.NewFlagSet("omara", flag.ContinueOnError)
	set.SetOutput(io.Discard)
	set.Usage = func() {
		if usage != nil {
			fmt.Fprint(usage, Usage)
		}
	}

	dbDefault := lookup(EnvDB, DefaultDB)
	set.StringVar(&cfg.DBPath, "db", dbDefault, "")
	set.StringVar(&cfg.DBPath, "d", dbDefault, "")

	addrDefault := lookup(EnvAddr, DefaultAddr)
	set.StringVar(&cfg.Addr, "addr", addrDefault, "")
	set.StringVar(&cfg.Addr, "a", addrDefault, "")

	logDefault := lookup(EnvLog, "")
	set.StringVar(&cfg.LogPath, "log", logDefault, "")
	set.StringVar(&cfg.LogPath, "l", logDefault, "")

	set.DurationVar(&cfg.TokenTTL, "token-ttl", ttl, "")
	set.DurationVar(&cfg.TokenTTL, "t", ttl, "")

	corsDefault := lookup(EnvCORSOrigins, "")
	set.StringVar(&cors, "cors", corsDefault, "")
	set.StringVar(&cors, "c", corsDefault, "")

	redisDefault := lookup(EnvRedisAddr, "")
	set.StringVar(&cfg.RedisAddr, "redis", redisDefault, "")
	set.StringVar(&cfg.RedisAddr, "r", redisDefault, "")

	if err := set.Parse(args); err != nil {
		return nil, err
	}
	if set.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", set.Arg(0))
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", cfg.TokenTTL)
	}

	cfg.CORSOrigins = splitList(cors)
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
