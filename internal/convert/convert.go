// Package convert drives the provider's image conversion tooling: downloading
// the raw artifact, starting the volume import, and waiting for the
// conversion task to produce a volume.
//
// The conversion tools only speak through CLI text output, so the task and
// volume ids have to be fished out of it. All of that parsing lives here,
// behind typed results, so nothing else in the codebase touches the output
// format.
package convert

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/yahzaa/fedimg/internal/config"
	"github.com/yahzaa/fedimg/internal/platform/exec"
	"github.com/yahzaa/fedimg/internal/util/retry"
)

var (
	taskIDPattern   = regexp.MustCompile(`\s(import-vol-\w{8})`)
	volumeIDPattern = regexp.MustCompile(`\s(vol-\w{8,17})`)
)

// ParseTaskID extracts a conversion task id from CLI output.
func ParseTaskID(output string) (string, bool) {
	return firstMatch(taskIDPattern, output)
}

// ParseVolumeID extracts a volume id from CLI output.
func ParseVolumeID(output string) (string, bool) {
	return firstMatch(volumeIDPattern, output)
}

func firstMatch(re *regexp.Regexp, output string) (string, bool) {
	m := re.FindStringSubmatch(output)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ImportOptions describe one volume import.
type ImportOptions struct {
	ImagePath        string
	Format           string
	Region           string
	Bucket           string
	AvailabilityZone string
}

// Importer wraps the conversion CLI tools behind typed calls.
type Importer struct {
	runner   exec.Runner
	timeouts *config.Timeouts
}

// NewImporter creates an Importer using the given command runner.
func NewImporter(runner exec.Runner, timeouts *config.Timeouts) *Importer {
	return &Importer{runner: runner, timeouts: timeouts}
}

// Download fetches the raw image into dir. A download failure is fatal to
// the run; the fetch is cheap to re-invoke manually, so there is no retry.
func (im *Importer) Download(ctx context.Context, url, dir string) error {
	res, err := im.runner.Run(ctx, "wget", url, "-P", dir)
	if err != nil {
		return fmt.Errorf("failed to download image: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("image download exited with status %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return nil
}

// StartImport invokes the volume import tool and returns the conversion
// task id parsed from its output. Failure to start is fatal to the run.
func (im *Importer) StartImport(ctx context.Context, opts ImportOptions) (string, error) {
	res, err := im.runner.Run(ctx, "euca-import-volume",
		opts.ImagePath,
		"-f", opts.Format,
		"--region", opts.Region,
		"-b", opts.Bucket,
		"-z", opts.AvailabilityZone,
	)
	if err != nil {
		return "", fmt.Errorf("failed to start volume import: %w", err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("volume import exited with status %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	taskID, ok := ParseTaskID(res.Stdout)
	if !ok {
		return "", fmt.Errorf("no conversion task id in import output: %q", res.Stdout)
	}
	return taskID, nil
}

// WaitForVolume polls the conversion task until its output carries the
// completion marker, then returns the resulting volume id. An absent marker
// and a poll error are both "not yet"; only the attempt cap ends the wait.
func (im *Importer) WaitForVolume(ctx context.Context, taskID, region string) (string, error) {
	var volumeID string

	probe := func() (bool, error) {
		res, err := im.runner.Run(ctx, "euca-describe-conversion-tasks", taskID, "--region", region)
		if err != nil {
			return false, err
		}
		if !strings.Contains(res.Stdout, "completed") {
			return false, nil
		}

		id, ok := ParseVolumeID(res.Stdout)
		if !ok {
			return false, fmt.Errorf("conversion task %s completed but no volume id in output", taskID)
		}
		volumeID = id
		return true, nil
	}

	log.Printf("Waiting for conversion task %s in %s...", taskID, region)
	if err := retry.PollUntil(ctx, im.timeouts.ConversionPollInterval, im.timeouts.ConversionMaxAttempts, probe); err != nil {
		return "", fmt.Errorf("conversion task %s did not complete: %w", taskID, err)
	}

	return volumeID, nil
}
