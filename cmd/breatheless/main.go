package main

import (
	"github.com/neilberkman/breatheless/internal/interface/cli"
)

// Version information, set with -ldflags "-X main.Version=..."
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	cli.SetVersion(Version, Commit, Date)
	cli.Execute()
}
