package commands

import (
	"github.com/spf13/cobra"

	"github.com/yahzaa/fedimg/cmd/fedimg/handlers"
)

// Regions returns the command for listing the configured region catalog.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: fedimg.yaml)
func Regions() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the regions an upload would publish to",
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Regions(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: fedimg.yaml)")

	return cmd
}
