package config

import (
	"errors"
	"testing"

	"github.com/neuroforge/doc-forge/internal/config/rules"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		field   string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty docs dir",
			mutate:  func(c *Config) { c.Docs.Dir = "" },
			wantErr: true,
			field:   "dir",
		},
		{
			name:    "absolute docs dir",
			mutate:  func(c *Config) { c.Docs.Dir = "/etc/docs" },
			wantErr: true,
			field:   "dir",
		},
		{
			name:    "parent traversal in build dir",
			mutate:  func(c *Config) { c.Docs.BuildDir = "../build" },
			wantErr: true,
			field:   "build_dir",
		},
		{
			name:    "unsupported format",
			mutate:  func(c *Config) { c.Docs.Formats = []string{"pdf"} },
			wantErr: true,
			field:   "formats",
		},
		{
			name:   "format check is case insensitive",
			mutate: func(c *Config) { c.Docs.Formats = []string{"HTML"} },
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Serve.Port = 0 },
			wantErr: true,
			field:   "port",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Serve.Port = 70000 },
			wantErr: true,
			field:   "port",
		},
		{
			name:    "empty test pattern",
			mutate:  func(c *Config) { c.Test.Pattern = "" },
			wantErr: true,
			field:   "pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				var verr *rules.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected *rules.ValidationError, got %T", err)
				}
				if verr.Field != tt.field {
					t.Errorf("Field = %q, want %q", verr.Field, tt.field)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
