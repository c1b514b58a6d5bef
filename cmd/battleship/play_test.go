package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playArgs(t *testing.T) []string {
	return []string{"--keys", t.TempDir(), "--seed", "7", "--log-level", "disabled"}
}

func TestPlayQuitForfeits(t *testing.T) {
	var out bytes.Buffer
	err := cmdPlay(playArgs(t), strings.NewReader("Z42\nquit\n"), &out)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "alice commits to 0x")
	assert.Contains(t, s, "bob commits to 0x")
	assert.Contains(t, s, "malformed coordinate")
	assert.Contains(t, s, "forfeited")
}

func TestPlayEOFForfeits(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cmdPlay(playArgs(t), strings.NewReader("A1\n"), &out))
	assert.Contains(t, out.String(), "A1: ")
	assert.Contains(t, out.String(), "wins")
}
