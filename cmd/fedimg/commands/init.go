package commands

import (
	"github.com/spf13/cobra"

	"github.com/yahzaa/fedimg/cmd/fedimg/handlers"
)

// Init returns the command for interactively creating a configuration file.
//
// Flags:
//
//	--output, -o: Path to output file (default "fedimg.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration file",
		Long: `Interactively create a fedimg configuration file.

This command asks for AWS credentials, the EC2 key pair used for
utility and test instances, and the virtualization type to register
images with. The region catalog is left for you to fill in afterwards.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "fedimg.yaml", "Output file path")

	return cmd
}
