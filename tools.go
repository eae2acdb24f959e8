//go:build tools
// +build tools

// Package tools tracks mockgen, invoked by go generate, as a module dependency.
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
