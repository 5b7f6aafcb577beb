// Package config loads the optional last-call.yaml file. A missing file or
// any zero value yields a playable offline game; credentials can also come
// from the environment so the file never has to hold secrets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FeedMode selects the message-source backend.
type FeedMode string

const (
	// FeedDemo runs without any external source; every patron is synthetic.
	FeedDemo FeedMode = "demo"

	// FeedHTTP polls a REST gateway (see cmd/feedsim).
	FeedHTTP FeedMode = "http"

	// FeedPubNub polls a PubNub channel.
	FeedPubNub FeedMode = "pubnub"
)

// Config is the full runtime configuration.
type Config struct {
	Feed  FeedConfig  `yaml:"feed"`
	Audio AudioConfig `yaml:"audio"`
}

// FeedConfig selects and parameterizes the message source.
type FeedConfig struct {
	Mode FeedMode `yaml:"mode"`

	HTTP struct {
		BaseURL string `yaml:"baseUrl"`
	} `yaml:"http"`

	PubNub struct {
		PublishKey   string `yaml:"publishKey"`
		SubscribeKey string `yaml:"subscribeKey"`
		UserID       string `yaml:"userId"`
		Channel      string `yaml:"channel"`
	} `yaml:"pubnub"`
}

// AudioConfig holds the sound settings.
type AudioConfig struct {
	Muted bool `yaml:"muted"`
}

// Default returns the offline demo configuration.
func Default() Config {
	cfg := Config{}
	cfg.Feed.Mode = FeedDemo
	cfg.Feed.HTTP.BaseURL = "http://localhost:8787"
	cfg.Feed.PubNub.Channel = "last-call"
	return cfg
}

// Load reads the config file at path, applies environment overrides, and
// validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fine, defaults apply
		case err != nil:
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	switch cfg.Feed.Mode {
	case FeedDemo, FeedHTTP, FeedPubNub:
	default:
		return cfg, fmt.Errorf("config: unknown feed mode %q", cfg.Feed.Mode)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LASTCALL_FEED_MODE"); v != "" {
		cfg.Feed.Mode = FeedMode(v)
	}
	if v := os.Getenv("LASTCALL_HTTP_BASE_URL"); v != "" {
		cfg.Feed.HTTP.BaseURL = v
	}
	if v := os.Getenv("LASTCALL_PUBNUB_PUBLISH_KEY"); v != "" {
		cfg.Feed.PubNub.PublishKey = v
	}
	if v := os.Getenv("LASTCALL_PUBNUB_SUBSCRIBE_KEY"); v != "" {
		cfg.Feed.PubNub.SubscribeKey = v
	}
	if v := os.Getenv("LASTCALL_PUBNUB_USER_ID"); v != "" {
		cfg.Feed.PubNub.UserID = v
	}
	if v := os.Getenv("LASTCALL_PUBNUB_CHANNEL"); v != "" {
		cfg.Feed.PubNub.Channel = v
	}
}
