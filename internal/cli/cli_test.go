package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/notetaker/internal/version"
)

func TestVersionSkipsConfig(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd(&Dependencies{})
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version", "--config", filepath.Join(t.TempDir(), "missing.yaml")})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, version.Full()+"\n", out.String())
}

func TestMissingConfigFails(t *testing.T) {
	cmd := NewRootCmd(&Dependencies{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"doctor", "--config", filepath.Join(t.TempDir(), "missing.yaml")})

	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestSummarizeRequiresCredentials(t *testing.T) {
	t.Setenv("NOTETAKER_OPENAI_API_KEY", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: error\n"), 0o644))

	cmd := NewRootCmd(&Dependencies{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"summarize", "--config", path, "--env-file", filepath.Join(dir, "none.env"), "note.m4a"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai API key not set")
}

func TestSummarizeNeedsAFile(t *testing.T) {
	cmd := NewRootCmd(&Dependencies{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"summarize"})

	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestMissingInputDevice(t *testing.T) {
	t.Setenv("NOTETAKER_OPENAI_API_KEY", "sk-test")
	t.Setenv("NOTETAKER_RECORDER_INPUT_DEVICE", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: error\nrecorder:\n  input_format: dshow\n"), 0o644))
	envFile := filepath.Join(dir, "none.env")

	t.Run("doctor reports it", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewRootCmd(&Dependencies{})
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"doctor", "--config", path, "--env-file", envFile})

		require.NoError(t, cmd.ExecuteContext(context.Background()))
		assert.Contains(t, out.String(), "❌ Microphone: recorder.input_device is required")
	})

	t.Run("record refuses to start", func(t *testing.T) {
		cmd := NewRootCmd(&Dependencies{})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"record", "--config", path, "--env-file", envFile})

		err := cmd.ExecuteContext(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "recorder.input_device is required")
	})
}
