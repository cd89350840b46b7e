package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestRun_RejectsBadOptions(t *testing.T) {
	good := options{level: 1, volume: 0.6, width: 1280, height: 720, logLevel: "info"}
	tests := []struct {
		name string
		edit func(*options)
	}{
		{"zero width", func(o *options) { o.width = 0 }},
		{"negative height", func(o *options) { o.height = -1 }},
		{"volume too loud", func(o *options) { o.volume = 1.5 }},
		{"unknown log level", func(o *options) { o.logLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := good
			tt.edit(&opts)
			if err := run(opts); !errors.Is(err, errUsage) {
				t.Fatalf("expected usage error, got %v", err)
			}
		})
	}
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")
	if out := buf.String(); strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Fatalf("unexpected log output: %q", out)
	}
}
