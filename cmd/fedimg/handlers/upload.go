// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/yahzaa/fedimg/internal/catalog"
	"github.com/yahzaa/fedimg/internal/config"
	"github.com/yahzaa/fedimg/internal/pipeline"
)

// defaultConfigPath is used when no --config flag is given.
const defaultConfigPath = "fedimg.yaml"

// Runner interface for testing - matches pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.LoadFile

	// loadTimeouts loads poll intervals and attempt counts from the environment.
	loadTimeouts = config.LoadTimeouts

	// newArtifact derives the build artifact from the image URL.
	newArtifact = pipeline.NewBuildArtifact

	// newPipeline creates the publication pipeline.
	newPipeline = func(cfg *config.Config, timeouts *config.Timeouts, cat catalog.Catalog, artifact *pipeline.BuildArtifact) Runner {
		return pipeline.New(cfg, timeouts, cat, artifact)
	}
)

// Upload publishes the raw disk image at rawURL as a public AMI.
//
// The handler loads the configuration, derives the build artifact from the
// URL, and runs the publication pipeline: download, volume import, snapshot,
// AMI registration, boot test, make-public and cross-region replication.
// virtType and volType, when non-empty, override the configured values for
// this run.
func Upload(ctx context.Context, configPath, rawURL, virtType, volType string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if err := applyOverrides(cfg, virtType, volType); err != nil {
		return err
	}

	artifact, err := newArtifact(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse image URL: %w", err)
	}

	cat := catalog.Parse(cfg.AWS.Catalog)

	log.Printf("Publishing build %s (%s, %s)", artifact.BuildName, artifact.Arch, cfg.VirtType)

	p := newPipeline(cfg, loadTimeouts(), cat, artifact)
	if err := p.Run(ctx); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	printUploadSuccess(artifact)
	return nil
}

// loadConfig loads and validates the run configuration.
// If configPath is empty, it looks for fedimg.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'fedimg init' to create one", err)
	}

	return cfg, nil
}

// applyOverrides folds command-line overrides into the loaded config and
// re-validates the result.
func applyOverrides(cfg *config.Config, virtType, volType string) error {
	if virtType != "" {
		cfg.VirtType = virtType
	}
	if volType != "" {
		cfg.VolType = volType
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// printUploadSuccess outputs the completion message for the user.
func printUploadSuccess(artifact *pipeline.BuildArtifact) {
	fmt.Printf("\nUpload complete!\n")
	fmt.Printf("Build %s is published and public in all catalog regions.\n", artifact.BuildName)
}
