package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/snipfmt/secret"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SNIPFMT_"

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty), the environment and resolved secrets, then validates
// it.
func Load(ctx context.Context, path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	applyEnv(&cfg, os.LookupEnv)
	if err := resolveSecrets(ctx, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode merges a YAML document over cfg. An empty document changes
// nothing.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// envBindings maps each override variable to the field it sets.
func envBindings(cfg *Config) map[string]*string {
	return map[string]*string{
		"ADDR":              &cfg.Addr,
		"SNIPPET_DIR":       &cfg.Snippets.Dir,
		"CACHE_BACKEND":     &cfg.Cache.Backend,
		"REDIS_ADDR":        &cfg.Cache.Redis.Addr,
		"REDIS_PASSWORD":    &cfg.Cache.Redis.Password,
		"LOG_LEVEL":         &cfg.Log.Level,
		"LOG_FORMAT":        &cfg.Log.Format,
		"METRICS_EXPORTER":  &cfg.Metrics.Exporter,
		"TRACING_EXPORTER":  &cfg.Tracing.Exporter,
		"TRACING_ENDPOINT":  &cfg.Tracing.Endpoint,
		"METRICS_ENDPOINT":  &cfg.Metrics.Endpoint,
		"UPLOAD_JWT_SECRET": &cfg.Upload.JWTSecret,
	}
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	for name, field := range envBindings(cfg) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*field = strings.TrimSpace(v)
		}
	}
}

func resolveSecrets(ctx context.Context, cfg *Config) error {
	res, err := secret.NewDefaultRegistry().NewResolver(true, cfg.Secrets)
	if err != nil {
		return fmt.Errorf("config: secrets: %w", err)
	}
	defer res.Close()

	fields := map[string]*string{
		"cache.redis.addr":     &cfg.Cache.Redis.Addr,
		"cache.redis.password": &cfg.Cache.Redis.Password,
		"upload.jwt_secret":    &cfg.Upload.JWTSecret,
	}
	keys := make(map[string]*string, len(cfg.Upload.APIKeys))
	for name, key := range cfg.Upload.APIKeys {
		v := key
		keys[name] = &v
		fields["upload.api_keys."+name] = &v
	}

	if err := res.ResolveFields(ctx, fields); err != nil {
		return fmt.Errorf("config: secrets: %w", err)
	}
	for name, v := range keys {
		cfg.Upload.APIKeys[name] = *v
	}
	return nil
}
