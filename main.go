package main

import (
	"context"

	"github.com/mrlokans/kindlr/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cli.Main(context.Background(), Version+" ("+Commit+")")
}
