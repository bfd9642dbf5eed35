// Package config loads server configuration from the environment,
// mirroring the Rust reference server's configs.rs: an ENV variable
// selects between local and release configuration sources, and a local
// .env file (via godotenv) is consulted in local mode.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvLocal   = "local"
	EnvRelease = "release"
)

// ShardRange is an inclusive range of shard ids, parsed from a string
// like "0-15".
type ShardRange struct {
	From, To int
}

// Config is the server's runtime configuration.
type Config struct {
	Env         string
	Port        int
	ShardDir    string
	Shards      ShardRange
	OPRFKey     []byte
	Bucket      string // required in release mode only
}

// Load reads ENV to decide which configuration source to use, loading a
// local .env file first in local mode.
func Load() (*Config, error) {
	env := os.Getenv("ENV")
	if env == "" {
		env = EnvLocal
	}

	if env == EnvLocal {
		// Best-effort: a missing .env file is not an error, the process
		// environment may already carry everything needed.
		_ = godotenv.Load()
	}

	cfg, err := loadCommon(env)
	if err != nil {
		return nil, err
	}

	if env == EnvRelease {
		bucket := os.Getenv("BUCKET")
		if bucket == "" {
			return nil, fmt.Errorf("config: BUCKET is required in release mode")
		}
		cfg.Bucket = bucket
	}

	return cfg, nil
}

func loadCommon(env string) (*Config, error) {
	port, err := intEnv("PORT", 8080)
	if err != nil {
		return nil, err
	}

	shardDir := os.Getenv("SHARD_DIR")
	if shardDir == "" {
		shardDir = "./shards"
	}

	shardsRaw := os.Getenv("SHARDS_INTERVAL")
	if shardsRaw == "" {
		shardsRaw = "0-0"
	}
	shards, err := parseShardRange(shardsRaw)
	if err != nil {
		return nil, fmt.Errorf("config: SHARDS_INTERVAL: %w", err)
	}

	var key []byte
	if raw := os.Getenv("OPRF_KEY"); raw != "" {
		key, err = base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("config: OPRF_KEY must be base64: %w", err)
		}
	}

	return &Config{
		Env:      env,
		Port:     port,
		ShardDir: shardDir,
		Shards:   shards,
		OPRFKey:  key,
	}, nil
}

func intEnv(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", name, err)
	}
	return v, nil
}

// parseShardRange parses "a-b" into an inclusive ShardRange.
func parseShardRange(s string) (ShardRange, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return ShardRange{}, fmt.Errorf("expected \"from-to\", got %q", s)
	}
	from, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return ShardRange{}, err
	}
	to, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return ShardRange{}, err
	}
	if to < from {
		return ShardRange{}, fmt.Errorf("range %q has to < from", s)
	}
	return ShardRange{From: from, To: to}, nil
}

// IDs expands the range into individual shard ids.
func (r ShardRange) IDs() []int {
	out := make([]int, 0, r.To-r.From+1)
	for i := r.From; i <= r.To; i++ {
		out = append(out, i)
	}
	return out
}
