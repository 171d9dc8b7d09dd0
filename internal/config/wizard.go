package config

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"
)

// RunWizard interactively collects the values needed for a working config.
// Catalog text is left for the user to fill in afterwards; everything else
// gets a sensible default.
func RunWizard(ctx context.Context) (*Config, error) {
	cfg := &Config{
		VirtType:         "hvm",
		VolType:          "standard",
		CleanUpOnFailure: true,
	}
	applyDefaults(cfg)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("AWS access key id").
				Value(&cfg.AWS.AccessKey).
				Validate(required("access key")),
			huh.NewInput().
				Title("AWS secret access key").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.AWS.SecretKey).
				Validate(required("secret key")),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("EC2 key pair name").
				Description("Injected into utility and test instances").
				Value(&cfg.AWS.KeyName).
				Validate(required("key pair name")),
			huh.NewInput().
				Title("Private key path").
				Placeholder("~/.ssh/fedimg.pem").
				Value(&cfg.AWS.PrivateKeyPath).
				Validate(required("private key path")),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Virtualization type").
				Options(
					huh.NewOption("HVM", "hvm"),
					huh.NewOption("Paravirtual", "paravirtual"),
				).
				Value(&cfg.VirtType),
			huh.NewConfirm().
				Title("Clean up cloud resources when an upload fails?").
				Value(&cfg.CleanUpOnFailure),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard aborted: %w", err)
	}

	return cfg, nil
}

// WriteYAML writes the config to path as YAML.
func WriteYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
