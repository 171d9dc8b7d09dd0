package commands

import (
	"github.com/spf13/cobra"

	"github.com/yahzaa/fedimg/cmd/fedimg/handlers"
)

// Upload returns the command for publishing a raw image as a public AMI.
//
// The command takes the URL of a compressed raw disk image, imports it into
// the origin EC2 region as an EBS volume, registers an AMI from the snapshot,
// boot-tests the image and then copies it to every other region listed in
// the catalog.
//
// Optional flags:
//
//	--config, -c:    Path to configuration YAML file (default: fedimg.yaml)
//	--virt-type:     Override the configured virtualization type (hvm or paravirtual)
//	--vol-type:      Override the configured EBS volume type
func Upload() *cobra.Command {
	var (
		configPath string
		virtType   string
		volType    string
	)

	cmd := &cobra.Command{
		Use:   "upload <image-url>",
		Short: "Upload a raw image and publish it as a public AMI",
		Long: `Upload a raw disk image to EC2 and publish it as a public AMI.

The image at the given URL is downloaded, imported into the origin region
as an EBS volume, snapshotted and registered as an AMI. The AMI is then
boot-tested on a fresh instance; if the test passes it is made public and
copied to every other region in the catalog.

Examples:
  # Publish a Fedora cloud image using fedimg.yaml in the current directory
  fedimg upload https://dl.fedoraproject.org/fedora-cloud-42-1.x86_64.raw.xz

  # Use a specific config file and paravirtual registration
  fedimg upload -c staging.yaml --virt-type paravirtual https://example.org/image.raw.xz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Upload(cmd.Context(), configPath, args[0], virtType, volType)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: fedimg.yaml)")
	cmd.Flags().StringVar(&virtType, "virt-type", "", "Override virtualization type (hvm or paravirtual)")
	cmd.Flags().StringVar(&volType, "vol-type", "", "Override EBS volume type for the root device")

	return cmd
}
