//go:build tools
// +build tools

// Package tools pins tool dependencies in go.mod that no application code
// imports directly.
package tools

import (
	_ "github.com/stretchr/testify"
)
