package main

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"go.yhsif.com/graytext"
)

const (
	sourceGrid = `4 5
0 0 0 0 0
0 0 9 8 0
0 0 7 6 0
0 0 0 0 0
`
	templateGrid = `2 2
9 8
7 6
`
	missingGrid = `2 2
255 255
255 255
`
)

func writeGrids(t *testing.T, grids ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(grids))
	for i, g := range grids {
		paths[i] = filepath.Join(dir, string(rune('a'+i))+".txt")
		require.NoError(t, os.WriteFile(paths[i], []byte(g), 0o644))
	}
	return paths
}

// gridText renders a 16 x 16 random template, and the same template
// transformed by f.
func gridText(t *testing.T, f func(g *graytext.Grid) *graytext.Grid) (source, template string) {
	t.Helper()
	g, err := graytext.NewGrid(16, 16)
	require.NoError(t, err)
	rand.New(rand.NewSource(1)).Read(g.Pix)
	var src, tmpl bytes.Buffer
	require.NoError(t, graytext.WriteGrid(&src, f(g)))
	require.NoError(t, graytext.WriteGrid(&tmpl, g))
	return src.String(), tmpl.String()
}

func TestRunUsage(t *testing.T) {
	for _, args := range [][]string{
		{"a"},
		{"-scale", "-rotate", "a", "b"},
	} {
		var stdout, stderr bytes.Buffer
		require.Equal(t, exitUsage, run(args, &stdout, &stderr), "args %q", args)
		require.Contains(t, stdout.String(), "Usage: match", "args %q", args)
	}
}

func TestRunFound(t *testing.T) {
	paths := writeGrids(t, sourceGrid, templateGrid)
	for _, method := range []string{"ssd", "ncc"} {
		t.Run(method, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run([]string{"-method", method, paths[0], paths[1]}, &stdout, &stderr)
			require.Equal(t, exitOK, code, stderr.String())
			require.Equal(t, "1 2\n", stdout.String())
		})
	}
}

func TestRunNotFound(t *testing.T) {
	paths := writeGrids(t, sourceGrid, missingGrid)
	var stdout, stderr bytes.Buffer
	require.Equal(t, exitError, run(paths, &stdout, &stderr))
	require.NotEmpty(t, stdout.String())
}

func TestRunErrors(t *testing.T) {
	paths := writeGrids(t, templateGrid, sourceGrid, "2 2\n1\n")
	for _, c := range []struct {
		label string
		args  []string
	}{
		{"too-large", []string{paths[0], paths[1]}},
		{"bad-grid", []string{paths[1], paths[2]}},
		{"missing-file", []string{paths[1], paths[1] + ".missing"}},
		{"bad-method", []string{"-method", "nope", paths[1], paths[0]}},
	} {
		t.Run(c.label, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			require.Equal(t, exitError, run(c.args, &stdout, &stderr))
			require.Empty(t, stdout.String())
			require.Contains(t, stderr.String(), "level=ERROR")
		})
	}
}

func TestRunScale(t *testing.T) {
	source, template := gridText(t, func(g *graytext.Grid) *graytext.Grid {
		up, err := graytext.NewGrid(g.Height*2, g.Width*2)
		require.NoError(t, err)
		for i := 0; i < up.Height; i++ {
			for j := 0; j < up.Width; j++ {
				up.Set(i, j, g.At(i/2, j/2))
			}
		}
		return up
	})
	paths := writeGrids(t, source, template)
	var stdout, stderr bytes.Buffer
	code := run([]string{"-scale", "-v", paths[0], paths[1]}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	require.Equal(t, "0 0\n", stdout.String())
	// Logged by the search itself through the context logger.
	require.Contains(t, stderr.String(), "Sweep step")
	require.Contains(t, stderr.String(), "Best placement")
	require.Contains(t, stderr.String(), "scale=2")
}

func TestRunRotate(t *testing.T) {
	source, template := gridText(t, func(g *graytext.Grid) *graytext.Grid {
		turned, err := graytext.NewGrid(g.Width, g.Height)
		require.NoError(t, err)
		for r := 0; r < turned.Height; r++ {
			for c := 0; c < turned.Width; c++ {
				turned.Set(r, c, g.At(g.Height-1-c, r))
			}
		}
		return turned
	})
	paths := writeGrids(t, source, template)
	var stdout, stderr bytes.Buffer
	code := run([]string{"-rotate", paths[0], paths[1]}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	require.Equal(t, "0 0\n", stdout.String())
	require.Empty(t, stderr.String())
}
