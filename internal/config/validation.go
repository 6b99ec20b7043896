package config

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/neuroforge/doc-forge/internal/config/rules"
	"github.com/neuroforge/doc-forge/internal/logger"
)

// ValidationError is an alias for rules.ValidationError.
type ValidationError = rules.ValidationError

var logValidation = logger.New("config:validation")

// SupportedFormats lists the output formats the builder understands.
var SupportedFormats = []string{"html"}

// Validate checks the configuration for structural problems. The first
// problem found is returned as a *rules.ValidationError.
func (c *Config) Validate() error {
	logValidation.Printf("Validating configuration: docs.dir=%s formats=%v", c.Docs.Dir, c.Docs.Formats)

	if c.Docs.Dir == "" {
		return rules.MissingField("dir", "docs.dir", "Set docs.dir to the documentation directory, e.g. \"docs\"")
	}
	if err := rules.AbsolutePath("dir", "docs.dir", c.Docs.Dir); err != nil {
		return err
	}
	if c.Docs.BuildDir == "" {
		return rules.MissingField("build_dir", "docs.build_dir", "Set docs.build_dir to the build output directory, e.g. \"_build\"")
	}
	if err := rules.AbsolutePath("build_dir", "docs.build_dir", c.Docs.BuildDir); err != nil {
		return err
	}

	for _, format := range c.Docs.Formats {
		if !isSupportedFormat(format) {
			logValidation.Printf("Rejecting unsupported format: %s", format)
			return rules.UnsupportedFormat(format, SupportedFormats)
		}
	}

	if err := rules.PortRange(c.Serve.Port, "serve.port"); err != nil {
		return err
	}

	if c.Test.Pattern == "" {
		return rules.MissingField("pattern", "test.pattern", "Set test.pattern to a glob such as \"**/*_test.go\"")
	}

	logValidation.Print("Configuration validated successfully")
	return nil
}

func isSupportedFormat(format string) bool {
	for _, f := range SupportedFormats {
		if strings.EqualFold(format, f) {
			return true
		}
	}
	return false
}

// checkUndecoded rejects keys present in the TOML file but absent from the
// schema. toml.MetaData tracks these as "undecoded" keys.
func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}

	keys := make([]string, len(undecoded))
	for i, key := range undecoded {
		keys[i] = key.String()
	}
	logValidation.Printf("Unknown configuration keys: %v", keys)
	return rules.UnknownKey(keys[0])
}
