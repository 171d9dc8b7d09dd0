package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yahzaa/fedimg/internal/catalog"
	"github.com/yahzaa/fedimg/internal/config"
	"github.com/yahzaa/fedimg/internal/pipeline"
)

const testCatalogText = "us-east-1|x86_64|ami-aabbccdd|\neu-west-1|x86_64|ami-11223344|\n"

// validConfig returns a config that passes Validate.
func validConfig() *config.Config {
	return &config.Config{
		AWS: config.AWSConfig{
			AccessKey:      "AKIAEXAMPLE",
			SecretKey:      "secret",
			KeyName:        "fedimg",
			PrivateKeyPath: "/tmp/fedimg.pem",
			BucketPrefix:   "fedora-test",
			UtilUser:       "root",
			TestUser:       "fedora",
			TestVolumeSize: 3,
			Catalog:        testCatalogText,
		},
		WorkDir:  "/tmp",
		VirtType: "hvm",
		VolType:  "standard",
	}
}

// fakeRunner implements Runner and records whether it ran.
type fakeRunner struct {
	err error
	ran bool
}

func (f *fakeRunner) Run(_ context.Context) error {
	f.ran = true
	return f.err
}

func TestUpload_Success(t *testing.T) {
	saveAndRestoreFactories(t)

	var loadedPath string
	loadConfigFile = func(path string) (*config.Config, error) {
		loadedPath = path
		return validConfig(), nil
	}

	runner := &fakeRunner{}
	var pipelineCfg *config.Config
	var pipelineArtifact *pipeline.BuildArtifact
	newPipeline = func(cfg *config.Config, _ *config.Timeouts, _ catalog.Catalog, artifact *pipeline.BuildArtifact) Runner {
		pipelineCfg = cfg
		pipelineArtifact = artifact
		return runner
	}

	err := Upload(context.Background(), "staging.yaml",
		"https://dl.example.org/fedora-cloud-42-1.x86_64.raw.xz", "", "")
	require.NoError(t, err)

	assert.True(t, runner.ran)
	assert.Equal(t, "staging.yaml", loadedPath)
	assert.Equal(t, "fedora-cloud-42-1.x86_64", pipelineArtifact.BuildName)
	assert.Equal(t, "x86_64", pipelineArtifact.Arch)
	assert.Equal(t, "hvm", pipelineCfg.VirtType)
}

func TestUpload_DefaultConfigPath(t *testing.T) {
	saveAndRestoreFactories(t)

	var loadedPath string
	loadConfigFile = func(path string) (*config.Config, error) {
		loadedPath = path
		return validConfig(), nil
	}
	newPipeline = func(_ *config.Config, _ *config.Timeouts, _ catalog.Catalog, _ *pipeline.BuildArtifact) Runner {
		return &fakeRunner{}
	}

	err := Upload(context.Background(), "", "https://dl.example.org/image.raw.xz", "", "")
	require.NoError(t, err)
	assert.Equal(t, "fedimg.yaml", loadedPath)
}

func TestUpload_ConfigLoadError(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) {
		return nil, errors.New("no such file")
	}

	err := Upload(context.Background(), "", "https://dl.example.org/image.raw.xz", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
	assert.Contains(t, err.Error(), "fedimg init")
}

func TestUpload_OverridesApplied(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) {
		return validConfig(), nil
	}

	var pipelineCfg *config.Config
	newPipeline = func(cfg *config.Config, _ *config.Timeouts, _ catalog.Catalog, _ *pipeline.BuildArtifact) Runner {
		pipelineCfg = cfg
		return &fakeRunner{}
	}

	err := Upload(context.Background(), "", "https://dl.example.org/image.raw.xz",
		"paravirtual", "gp2")
	require.NoError(t, err)
	assert.Equal(t, "paravirtual", pipelineCfg.VirtType)
	assert.Equal(t, "gp2", pipelineCfg.VolType)
}

func TestUpload_InvalidOverrideRejected(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) {
		return validConfig(), nil
	}

	err := Upload(context.Background(), "", "https://dl.example.org/image.raw.xz", "xen", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestUpload_BadImageURL(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) {
		return validConfig(), nil
	}

	err := Upload(context.Background(), "", "https://dl.example.org/", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse image URL")
}

func TestUpload_PipelineError(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) {
		return validConfig(), nil
	}
	newPipeline = func(_ *config.Config, _ *config.Timeouts, _ catalog.Catalog, _ *pipeline.BuildArtifact) Runner {
		return &fakeRunner{err: errors.New("boot test failed")}
	}

	err := Upload(context.Background(), "", "https://dl.example.org/image.raw.xz", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload failed")
	assert.Contains(t, err.Error(), "boot test failed")
}

// saveAndRestoreFactories snapshots the package factory variables and
// restores them when the test finishes.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origLoadConfigFile := loadConfigFile
	origLoadTimeouts := loadTimeouts
	origNewArtifact := newArtifact
	origNewPipeline := newPipeline
	origFileExists := fileExists
	origRunWizard := runWizard
	origWriteConfig := writeConfig

	t.Cleanup(func() {
		loadConfigFile = origLoadConfigFile
		loadTimeouts = origLoadTimeouts
		newArtifact = origNewArtifact
		newPipeline = origNewPipeline
		fileExists = origFileExists
		runWizard = origRunWizard
		writeConfig = origWriteConfig
	})
}
