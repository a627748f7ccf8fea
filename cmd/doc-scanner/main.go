package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/doc-scanner/cmd/doc-scanner/cmd"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	version := fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	if err := cmd.Execute(version); err != nil {
		os.Exit(1)
	}
}
