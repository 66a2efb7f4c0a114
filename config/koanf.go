package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const ConfigPathEnvVar = "CONFIG_PATH"

var defaultConfigPaths = []string{"config.yaml", "config.yml"}

var envMappings = map[string]string{
	"port":        "server.port",
	"gin_mode":    "server.mode",
	"cors_origin": "server.cors_origin",

	"database_url":      "database.url",
	"db_max_open_conns": "database.max_open_conns",
	"db_max_idle_conns": "database.max_idle_conns",
	"db_auto_migrate":   "database.auto_migrate",

	"jwt_secret":    "auth.jwt_secret",
	"jwt_token_ttl": "auth.token_ttl",

	"storage_backend":    "storage.backend",
	"upload_dir":         "storage.upload_dir",
	"media_public_url":   "storage.public_url",
	"s3_endpoint":        "storage.s3.endpoint",
	"s3_region":          "storage.s3.region",
	"s3_access_key":      "storage.s3.access_key",
	"s3_secret_key":      "storage.s3.secret_key",
	"s3_bucket":          "storage.s3.bucket",
	"s3_use_ssl":         "storage.s3.use_ssl",
	"s3_public_url":      "storage.s3.public_url",
	"page_size":          "pagination.page_size",
	"max_page_size":      "pagination.max_page_size",
	"export_locale":      "export.locale",
	"export_font_path":   "export.font_path",
	"export_page_lines":  "export.lines_per_page",
	"export_title":       "export.title",
	"log_level":          "log.level",
	"log_format":         "log.format",
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in that order of precedence.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envTransform maps known environment variables onto koanf paths and drops
// everything else.
func envTransform(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range defaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
