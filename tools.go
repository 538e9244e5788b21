//go:build tools

// Package pawmatch pins mockgen so `go generate ./...` resolves it from go.mod.
package pawmatch

import (
	_ "go.uber.org/mock/mockgen"
)
