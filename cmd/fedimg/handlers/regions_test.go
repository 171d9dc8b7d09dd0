package handlers

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yahzaa/fedimg/internal/catalog"
	"github.com/yahzaa/fedimg/internal/config"
)

func TestRenderCatalog_Table(t *testing.T) {
	cat := catalog.Parse(
		"us-east-1|x86_64|ami-aabbccdd|\n" +
			"us-east-1|i386|ami-55667788|aki-00000002\n" +
			"eu-west-1|i386|ami-11223344|\n")

	var buf bytes.Buffer
	require.NoError(t, renderCatalog(&buf, cat))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], "REGION")
	assert.Contains(t, out, "origin")
	assert.Contains(t, out, "copy target")
	assert.Contains(t, out, "aki-00000002")

	// Entries without a kernel image get a placeholder.
	assert.Contains(t, lines[1], "-")
}

func TestRenderCatalog_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := renderCatalog(&buf, catalog.Parse(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no regions")
}

func TestRegions_ConfigLoadError(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) {
		return nil, errors.New("no such file")
	}

	err := Regions("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
