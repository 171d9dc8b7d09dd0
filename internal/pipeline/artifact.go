package pipeline

import (
	"fmt"
	"strings"
)

// BuildArtifact describes the raw disk image a run publishes. All fields are
// derived from the artifact URL once and never change.
type BuildArtifact struct {
	URL         string
	FileName    string
	BuildName   string
	Arch        string
	Description string
}

// NewBuildArtifact derives the artifact descriptor from a raw image URL.
func NewBuildArtifact(rawURL string) (*BuildArtifact, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("artifact URL cannot be empty")
	}

	fileName := rawURL[strings.LastIndex(rawURL, "/")+1:]
	if fileName == "" {
		return nil, fmt.Errorf("artifact URL %q has no file name", rawURL)
	}

	buildName := strings.TrimSuffix(fileName, ".raw.xz")

	return &BuildArtifact{
		URL:         rawURL,
		FileName:    fileName,
		BuildName:   buildName,
		Arch:        fileArch(fileName),
		Description: fmt.Sprintf("Created from build %s", buildName),
	}, nil
}

// fileArch derives the image architecture from the artifact file name.
// Anything without an explicit x86_64 marker is treated as i386.
func fileArch(fileName string) string {
	if strings.Contains(fileName, "x86_64") {
		return "x86_64"
	}
	return "i386"
}
