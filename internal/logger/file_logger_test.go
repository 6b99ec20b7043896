package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitFileLogger_WritesToFile(t *testing.T) {
	dir := t.TempDir()

	if err := InitFileLogger(dir, "docforge.log"); err != nil {
		t.Fatalf("InitFileLogger failed: %v", err)
	}
	defer CloseGlobalLogger()

	LogInfo("build", "built %d pages", 3)
	LogError("build", "render failed: %s", "index.md")

	data, err := os.ReadFile(filepath.Join(dir, "docforge.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "[INFO] [build] built 3 pages") {
		t.Errorf("log missing info line, got:\n%s", content)
	}
	if !strings.Contains(content, "[ERROR] [build] render failed: index.md") {
		t.Errorf("log missing error line, got:\n%s", content)
	}
}

func TestInitFileLogger_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	if err := InitFileLogger(dir, "docforge.log"); err != nil {
		t.Fatalf("InitFileLogger failed: %v", err)
	}
	defer CloseGlobalLogger()

	if _, err := os.Stat(filepath.Join(dir, "docforge.log")); err != nil {
		t.Errorf("expected log file to exist: %v", err)
	}
}

func TestLogWithoutInit_DoesNotPanic(t *testing.T) {
	// Make sure no global logger is registered
	CloseGlobalLogger()

	LogInfo("discovery", "no logger registered")
	LogWarn("discovery", "still fine")
}

func TestCloseGlobalLogger_Idempotent(t *testing.T) {
	dir := t.TempDir()
	if err := InitFileLogger(dir, "docforge.log"); err != nil {
		t.Fatalf("InitFileLogger failed: %v", err)
	}

	if err := CloseGlobalLogger(); err != nil {
		t.Errorf("first close failed: %v", err)
	}
	if err := CloseGlobalLogger(); err != nil {
		t.Errorf("second close failed: %v", err)
	}
}
