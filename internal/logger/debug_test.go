package logger

import (
	"io"
	"os"
	"testing"
)

func TestDebugWriter(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		category string
		enabled  bool
	}{
		{"unset env discards", "", "discovery", false},
		{"one enables all", "1", "discovery", true},
		{"true enables all", "true", "cmd:root", true},
		{"all enables all", "all", "fixer:autoapi", true},
		{"exact category match", "cmd:root", "cmd:root", true},
		{"package prefix match", "cmd", "cmd:root", true},
		{"list match", "discovery,toc", "toc", true},
		{"list with spaces", "discovery, toc", "toc", true},
		{"no match", "discovery", "manifest", false},
		{"prefix is not substring match", "cm", "cmd:root", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(DebugEnvVar, tt.envValue)

			w := debugWriter(tt.category)
			if tt.enabled && w != os.Stderr {
				t.Errorf("expected stderr writer for category %q with %s=%q", tt.category, DebugEnvVar, tt.envValue)
			}
			if !tt.enabled && w != io.Discard {
				t.Errorf("expected discard writer for category %q with %s=%q", tt.category, DebugEnvVar, tt.envValue)
			}
		})
	}
}

func TestNew_UsesCategoryPrefix(t *testing.T) {
	t.Setenv(DebugEnvVar, "")

	l := New("workspace")
	if l.Prefix() != "[workspace] " {
		t.Errorf("unexpected prefix: %q", l.Prefix())
	}
}
