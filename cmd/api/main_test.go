package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/restdemo/userapi/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWarnProductionDefaults(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantWarn []string
	}{
		{
			name:     "production wildcard cors",
			cfg:      config.Config{AppEnv: config.EnvProduction, CORSAllowedOrigins: "*", LogLevel: "debug"},
			wantWarn: []string{"cors allows any origin", "debug logging enabled"},
		},
		{
			name: "production pinned origins",
			cfg:  config.Config{AppEnv: config.EnvProduction, CORSAllowedOrigins: "https://app.example.com", LogLevel: "info"},
		},
		{
			name: "development wildcard cors",
			cfg:  config.Config{AppEnv: config.EnvDevelopment, CORSAllowedOrigins: "*", LogLevel: "debug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			warnProductionDefaults(&tt.cfg, slog.New(slog.NewTextHandler(&buf, nil)))

			out := buf.String()
			if len(tt.wantWarn) == 0 && out != "" {
				t.Errorf("expected no warnings, got %q", out)
			}
			for _, want := range tt.wantWarn {
				if !strings.Contains(out, want) {
					t.Errorf("expected warning %q in %q", want, out)
				}
			}
		})
	}
}
