package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if cfg.Feed.Mode != FeedDemo {
		t.Errorf("default mode = %q, want demo", cfg.Feed.Mode)
	}
	if cfg.Feed.HTTP.BaseURL == "" {
		t.Error("default http base url is empty")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last-call.yaml")
	raw := `
feed:
  mode: http
  http:
    baseUrl: http://gateway:9000
audio:
  muted: true
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Feed.Mode != FeedHTTP {
		t.Errorf("mode = %q, want http", cfg.Feed.Mode)
	}
	if cfg.Feed.HTTP.BaseURL != "http://gateway:9000" {
		t.Errorf("base url = %q", cfg.Feed.HTTP.BaseURL)
	}
	if !cfg.Audio.Muted {
		t.Error("muted not parsed")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("LASTCALL_FEED_MODE", "pubnub")
	t.Setenv("LASTCALL_PUBNUB_SUBSCRIBE_KEY", "sub-key")
	t.Setenv("LASTCALL_PUBNUB_CHANNEL", "back-room")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Feed.Mode != FeedPubNub {
		t.Errorf("mode = %q, want pubnub", cfg.Feed.Mode)
	}
	if cfg.Feed.PubNub.SubscribeKey != "sub-key" || cfg.Feed.PubNub.Channel != "back-room" {
		t.Errorf("pubnub config = %+v", cfg.Feed.PubNub)
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	t.Setenv("LASTCALL_FEED_MODE", "carrier-pigeon")
	if _, err := Load(""); err == nil {
		t.Error("unknown mode must be rejected")
	}
}
