// Package config loads the pipeline's process-level settings: defaults,
// then an optional YAML file, then environment variables, the way the
// richer example repos in this corpus layer koanf sources, generalised to
// this service's flat key set instead of a deeply nested multi-source
// configuration tree.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped, and the remainder lowercased, to build koanf keys:
// PARLIAMENT_DATABASE_URL -> database_url.
const envPrefix = "PARLIAMENT_"

// Settings is the process's one typed configuration object. It covers
// every recognised environment key: store connection, stage transport,
// LLM provider selection, speech recognition, forum identity, admin
// authentication, media storage, and scheduling.
type Settings struct {
	DatabaseURL string `koanf:"database_url"`

	BrokerURL string `koanf:"broker_url"`

	LLMAPIKey      string `koanf:"llm_api_key"`
	ActiveProvider string `koanf:"active_provider"`

	RecognizerModel       string `koanf:"recognizer_model"`
	RecognizerDevice      string `koanf:"recognizer_device"`
	RecognizerComputeType string `koanf:"recognizer_compute_type"`
	RecognizerEndpoint    string `koanf:"recognizer_endpoint"`

	ForumBaseURL  string `koanf:"forum_base_url"`
	ForumAPIKey   string `koanf:"forum_api_key"`
	SystemIdentity string `koanf:"system_identity"`

	PipelineAPIKey string `koanf:"pipeline_api_key"`

	MediaStorageRoot string `koanf:"media_storage_root"`

	PollIntervalMinutes int `koanf:"poll_interval_minutes"`
	MaxRetries          int `koanf:"max_retries"`

	LogLevel string `koanf:"log_level"`

	HTTPPort int `koanf:"http_port"`
}

func defaults() Settings {
	return Settings{
		ActiveProvider:        "gemini",
		RecognizerModel:       "large-v3",
		RecognizerDevice:      "cpu",
		RecognizerComputeType: "int8",
		MediaStorageRoot:      "/data/parliament-pipeline/media",
		PollIntervalMinutes:   30,
		MaxRetries:            3,
		LogLevel:              "info",
		HTTPPort:              8080,
	}
}

// Load layers defaults, an optional YAML file, and PARLIAMENT_-prefixed
// environment variables into one Settings value, in that increasing order
// of priority, then validates the keys this process cannot run without.
//
// configPath may be empty; a missing file at a non-empty path is not an
// error, since the file layer is always optional.
func Load(configPath string) (*Settings, error) {
	godotenv.Load()

	k := koanf.New(".")
	settings := defaults()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: reading environment: %w", err)
	}

	if err := k.Unmarshal("", &settings); err != nil {
		return nil, fmt.Errorf("config: unmarshaling settings: %w", err)
	}

	if err := validate(settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// envKey strips the PARLIAMENT_ prefix and lowercases the remainder, so
// PARLIAMENT_DATABASE_URL maps to the database_url koanf key. koanf only
// invokes this callback for variables already matching the prefix, but it
// passes the raw, still-prefixed name, not the trimmed remainder.
func envKey(raw string) string {
	trimmed := strings.TrimPrefix(raw, envPrefix)
	return strings.ToLower(trimmed)
}

// validate enforces the fatal-configuration keys a process cannot start
// without, per the store-DSN requirement every deployment mode needs.
func validate(s Settings) error {
	if s.DatabaseURL == "" {
		return fmt.Errorf("config: DATABASE_URL is required")
	}
	return nil
}

// PollInterval returns the configured poll cadence as a duration.
func (s Settings) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalMinutes) * time.Minute
}
