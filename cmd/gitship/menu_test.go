package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMenu_Exit(t *testing.T) {
	err := runMenu(context.Background(), reader("4\n"), "unused.json")
	assert.NoError(t, err)
}

func TestRunMenu_InvalidChoiceThenExit(t *testing.T) {
	err := runMenu(context.Background(), reader("9\nx\n4\n"), "unused.json")
	assert.NoError(t, err)
}

func TestRunMenu_PackerWithMissingConfigReportsAndContinues(t *testing.T) {
	// choice 1 fails to load the config, the menu reports it and keeps going
	err := runMenu(context.Background(), reader("1\n4\n"), "does-not-exist.json")
	require.NoError(t, err)
}

func TestVersionCmd_PrintsVersion(t *testing.T) {
	cmd := newVersionCmd()
	out := &strings.Builder{}
	cmd.SetOut(out)
	require.NoError(t, cmd.Execute())
	assert.NotEmpty(t, out.String())
}
