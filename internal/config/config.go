// Package config defines the immutable run configuration for fedimg.
//
// A Config is loaded once at startup and passed by reference into the
// pipeline and the platform clients; nothing in the codebase reads
// configuration ambiently.
package config

import "fmt"

// Config holds the application configuration.
type Config struct {
	AWS     AWSConfig     `yaml:"aws"`
	Notify  NotifyConfig  `yaml:"notify"`
	Metrics MetricsConfig `yaml:"metrics"`

	// WorkDir is where downloaded raw images are staged before import.
	WorkDir string `yaml:"work_dir"`

	// VirtType selects the virtualization type registered images use:
	// "hvm" or "paravirtual".
	VirtType string `yaml:"virt_type"`

	// VolType is the EBS volume type for the registered root device.
	VolType string `yaml:"vol_type"`

	// CleanUpOnFailure controls whether a failed run tears down the
	// utility node/volume and test node it created.
	CleanUpOnFailure bool `yaml:"clean_up_on_failure"`

	// DeleteImagesOnFailure additionally deletes any registered images on
	// failure. Only honored when CleanUpOnFailure is also set.
	DeleteImagesOnFailure bool `yaml:"delete_images_on_failure"`
}

// AWSConfig holds credentials, access material, and the region catalog.
type AWSConfig struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`

	// KeyName is the EC2 key pair name injected into deployed nodes;
	// PrivateKeyPath is the matching private key on disk.
	KeyName        string `yaml:"key_name"`
	PrivateKeyPath string `yaml:"private_key_path"`

	// UtilUser and TestUser are the login accounts for the utility node
	// and the boot-test node respectively.
	UtilUser string `yaml:"util_user"`
	TestUser string `yaml:"test_user"`

	// BucketPrefix is the prefix of the per-region import bucket; the
	// bucket used in region R is "{BucketPrefix}-{R}".
	BucketPrefix string `yaml:"bucket_prefix"`

	// TestVolumeSize is the root volume size in GiB for registered images.
	TestVolumeSize int `yaml:"test_volume_size"`

	// Catalog is the pipe-delimited region catalog text,
	// one "region|arch|ami|aki" entry per line.
	Catalog string `yaml:"catalog"`
}

// NotifyConfig configures the event-bus publisher. When WebhookURL is empty
// notifications are dropped.
type NotifyConfig struct {
	WebhookURL  string `yaml:"webhook_url"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// MetricsConfig configures the optional Pushgateway metrics push. When
// PushgatewayURL is empty no metrics are emitted.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	Job            string `yaml:"job"`
}

// Validate checks that the configuration is complete enough to run an upload.
func (c *Config) Validate() error {
	if c.AWS.AccessKey == "" || c.AWS.SecretKey == "" {
		return fmt.Errorf("aws access_key and secret_key are required")
	}
	if c.AWS.KeyName == "" {
		return fmt.Errorf("aws key_name is required")
	}
	if c.AWS.PrivateKeyPath == "" {
		return fmt.Errorf("aws private_key_path is required")
	}
	if c.AWS.Catalog == "" {
		return fmt.Errorf("aws catalog must list at least one region")
	}
	if c.VirtType != "hvm" && c.VirtType != "paravirtual" {
		return fmt.Errorf("virt_type must be hvm or paravirtual, got %q", c.VirtType)
	}
	if c.AWS.TestVolumeSize <= 0 {
		return fmt.Errorf("aws test_volume_size must be positive, got %d", c.AWS.TestVolumeSize)
	}
	return nil
}
