// Package main is the single-binary entrypoint for CodeQuest.
// One binary: the progression CLI and the REST API server.
package main

import "github.com/codequest-game/codequest/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
