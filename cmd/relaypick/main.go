// Package main is the single-binary entrypoint for relaypick.
package main

import "github.com/relaymesh/relaypick/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
