package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{" warn ", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSetup_JSON(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	logger, err := Setup(Options{Level: "warn", Format: FormatJSON, Out: &buf})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	logger.Info().Msg("hidden")
	log.Warn().Str("kind", "upstream_request").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["message"] != "shown" || entry["kind"] != "upstream_request" || entry["level"] != "warn" {
		t.Errorf("unexpected entry %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Error("entry has no timestamp")
	}
}

func TestSetup_Console(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	if _, err := Setup(Options{Format: FormatConsole, NoColor: true, Out: &buf}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	log.Info().Msg("server listening")
	if !strings.Contains(buf.String(), "server listening") {
		t.Errorf("console output %q missing message", buf.String())
	}
	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("console output looks like JSON: %q", buf.String())
	}
}

func TestSetup_Invalid(t *testing.T) {
	tests := []Options{
		{Level: "loud"},
		{Format: "xml"},
	}

	for _, opts := range tests {
		if _, err := Setup(opts); err == nil {
			t.Errorf("Setup(%+v) error = nil, want error", opts)
		}
	}
}
