package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yahzaa/fedimg/internal/config"
)

func TestInit_Success(t *testing.T) {
	saveAndRestoreFactories(t)

	fileExists = func(_ string) bool { return false }
	runWizard = func(_ context.Context) (*config.Config, error) {
		return validConfig(), nil
	}

	var writtenPath string
	var writtenCfg *config.Config
	writeConfig = func(cfg *config.Config, path string) error {
		writtenCfg = cfg
		writtenPath = path
		return nil
	}

	err := Init(context.Background(), "fedimg.yaml")
	require.NoError(t, err)
	assert.Equal(t, "fedimg.yaml", writtenPath)
	assert.Equal(t, "hvm", writtenCfg.VirtType)
}

func TestInit_WizardCanceled(t *testing.T) {
	saveAndRestoreFactories(t)

	fileExists = func(_ string) bool { return false }
	runWizard = func(_ context.Context) (*config.Config, error) {
		return nil, errors.New("user aborted")
	}

	err := Init(context.Background(), "fedimg.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wizard canceled")
}

func TestInit_WriteError(t *testing.T) {
	saveAndRestoreFactories(t)

	fileExists = func(_ string) bool { return true }
	runWizard = func(_ context.Context) (*config.Config, error) {
		return validConfig(), nil
	}
	writeConfig = func(_ *config.Config, _ string) error {
		return errors.New("read-only filesystem")
	}

	err := Init(context.Background(), "fedimg.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write config")
}
