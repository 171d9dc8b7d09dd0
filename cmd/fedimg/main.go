// Package main is the entry point for the fedimg CLI.
//
// fedimg uploads raw Fedora cloud images to AWS EC2: it imports the image
// as an EBS volume, snapshots it, registers an AMI, boot-tests the result
// and replicates the published image to every region in the catalog.
//
// For detailed usage information, run:
//
//	fedimg --help
package main

import (
	"fmt"
	"os"

	"github.com/yahzaa/fedimg/cmd/fedimg/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
