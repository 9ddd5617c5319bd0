package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		log := New(Options{Level: tt.level, Out: &bytes.Buffer{}})
		if log.GetLevel() != tt.expected {
			t.Errorf("level %q: got %v, want %v", tt.level, log.GetLevel(), tt.expected)
		}
	}
}

func TestNew_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Format: "json", Out: buf})
	log.Info().Str("document", "a.pdf").Msg("parsed")

	output := buf.String()
	if !strings.HasPrefix(output, "{") {
		t.Errorf("expected JSON output, got: %s", output)
	}
	if !strings.Contains(output, `"document":"a.pdf"`) {
		t.Errorf("expected document field, got: %s", output)
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Format: "console", Out: buf})
	log.Warn().Msg("extraction failed")

	output := buf.String()
	if strings.HasPrefix(output, "{") {
		t.Errorf("expected console output, got: %s", output)
	}
	if !strings.Contains(output, "extraction failed") {
		t.Errorf("expected message, got: %s", output)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Format: "json", Level: "warn", Out: buf})
	log.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got: %s", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("test")
	if buf.Len() == 0 {
		t.Error("Expected log output from retrieved logger")
	}
}

func TestFromContext_Default(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() != zerolog.Disabled {
		t.Errorf("Expected disabled logger, got %v", log.GetLevel())
	}
}
