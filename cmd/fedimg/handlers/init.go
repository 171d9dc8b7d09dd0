package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/yahzaa/fedimg/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive configuration wizard.
	runWizard = config.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = config.WriteYAML
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	cfg, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath)
	return nil
}

// printInitSuccess outputs next steps for the user.
func printInitSuccess(outputPath string) {
	fmt.Printf("\nConfiguration saved to: %s\n", outputPath)
	fmt.Printf("\nAdd the region catalog under aws.catalog, one entry per line:\n")
	fmt.Printf("  region|arch|ami|aki\n")
	fmt.Printf("\nThen publish an image with:\n")
	fmt.Printf("  fedimg upload -c %s <image-url>\n", outputPath)
}
