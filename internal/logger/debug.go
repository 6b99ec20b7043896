// Package logger provides leveled, category-tagged logging for Doc Forge.
//
// Two mechanisms are offered: a global file logger written to the build
// directory (with stdout fallback) used for operational records, and cheap
// per-package debug loggers created with New that stay silent unless
// DOC_FORGE_DEBUG selects their category.
package logger

import (
	"io"
	"log"
	"os"
	"strings"
)

// DebugEnvVar selects which debug categories are emitted to stderr.
// Accepted values: "1", "true" or "all" for everything, or a comma-separated
// list of categories ("discovery", "cmd:root"). A bare package name matches
// every category in that package.
const DebugEnvVar = "DOC_FORGE_DEBUG"

// New returns a category-tagged debug logger. Output goes to stderr when the
// category is enabled via DOC_FORGE_DEBUG and is discarded otherwise, so
// callers can log unconditionally. The environment is consulted per write, so
// package-level loggers created before flag parsing still honor --debug.
func New(category string) *log.Logger {
	return log.New(categoryWriter{category: category}, "["+category+"] ", log.LstdFlags|log.Lmsgprefix)
}

// categoryWriter forwards to stderr only while the category is enabled.
type categoryWriter struct {
	category string
}

func (w categoryWriter) Write(p []byte) (int, error) {
	if debugWriter(w.category) == io.Discard {
		return len(p), nil
	}
	return os.Stderr.Write(p)
}

func debugWriter(category string) io.Writer {
	val := os.Getenv(DebugEnvVar)
	if val == "" {
		return io.Discard
	}
	if val == "1" || strings.EqualFold(val, "true") || strings.EqualFold(val, "all") {
		return os.Stderr
	}

	// "pkg" enables "pkg:anything"
	pkg := category
	if i := strings.IndexByte(category, ':'); i > 0 {
		pkg = category[:i]
	}
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part == category || part == pkg {
			return os.Stderr
		}
	}
	return io.Discard
}
