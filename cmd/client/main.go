package main

import (
	"os"

	"github.com/iudanet/homekeeper/internal/client/cli"
	"github.com/iudanet/homekeeper/internal/client/iocli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	root := cli.NewRootCmd(iocli.NewStdio(), os.Stderr, cli.BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
	})
	os.Exit(cli.Execute(root, os.Stderr))
}
