package main

import (
	"github.com/jheysaaz/snippy-backend-sub001/internal/cli"
)

// version is set by goreleaser via ldflags
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
