package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunUsage(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"only-one"},
		{"a", "b", "c"},
	} {
		var stdout, stderr bytes.Buffer
		code := run(args, &stdout, &stderr)
		require.Equal(t, exitUsage, code, "args %q", args)
		require.Contains(t, stdout.String(), "Usage: decode", "args %q", args)
	}

	var stdout, stderr bytes.Buffer
	require.Equal(t, exitUsage, run([]string{"-quality", "101", "a", "b"}, &stdout, &stderr))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")
	output := filepath.Join(dir, "out.png")
	require.NoError(t, os.WriteFile(input, []byte("1 3\n10 20 30\n"), 0o644))

	var stdout, stderr bytes.Buffer
	require.Equal(t, exitOK, run([]string{"-v", input, output}, &stdout, &stderr), stderr.String())
	require.Contains(t, stderr.String(), "Wrote image")

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 3, img.Bounds().Dx())
	require.Equal(t, 1, img.Bounds().Dy())
}

func TestRunShapeError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")
	output := filepath.Join(dir, "out.jpg")
	require.NoError(t, os.WriteFile(input, []byte("2 2\n1 2 3\n"), 0o644))

	var stdout, stderr bytes.Buffer
	require.Equal(t, exitError, run([]string{input, output}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "grid shape mismatch")
	require.NoFileExists(t, output)
}
