package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestImportThenTree(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "readme.txt"), "hello")
	writeFile(t, filepath.Join(src, "docs", "notes.txt"), "notes")
	writeFile(t, filepath.Join(src, "docs", "a.md"), "# a")
	writeFile(t, filepath.Join(src, ".git", "config"), "[core]")

	dsn := filepath.Join(t.TempDir(), "nexus.db")

	out, err := run(t, "--store-dsn", dsn, "import", "--owner", "alice", "--exclude", "**/.git", src)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 4 nodes for alice")

	out, err = run(t, "--store-dsn", dsn, "tree", "--owner", "alice", "--sort")
	require.NoError(t, err)
	assert.Equal(t, "docs/\n  a.md\n  notes.txt\nreadme.txt\n", out)

	out, err = run(t, "--store-dsn", dsn, "tree", "--owner", "bob")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestImportArchive(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "notes.zip")
	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("Semester/week1.md")
	require.NoError(t, err)
	_, err = w.Write([]byte("# week 1"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	dsn := filepath.Join(t.TempDir(), "nexus.db")

	out, err := run(t, "--store-dsn", dsn, "import", "--owner", "alice", archive)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 nodes for alice")

	out, err = run(t, "--store-dsn", dsn, "tree", "--owner", "alice")
	require.NoError(t, err)
	assert.Equal(t, "Semester/\n  week1.md\n", out)
}

func TestCommandErrors(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nexus.db")

	tests := []struct {
		name string
		args []string
	}{
		{name: "tree without owner", args: []string{"--store-dsn", dsn, "tree"}},
		{name: "import without dir", args: []string{"--store-dsn", dsn, "import", "--owner", "alice"}},
		{name: "import bad glob", args: []string{"--store-dsn", dsn, "import", "--owner", "alice", "--exclude", "[", t.TempDir()}},
		{name: "unknown driver", args: []string{"--store-driver", "mysql", "tree", "--owner", "alice"}},
		{name: "serve with bad translator", args: []string{"--store-dsn", dsn, "serve", "--translator", "oracle"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestPrintTree(t *testing.T) {
	nodes := []types.Node{
		{ID: "a", Name: "Projects", Kind: types.NodeFolder},
		{ID: "b", Name: "plan.md", Kind: types.NodeFile, ParentID: types.Ref("a")},
		{ID: "x", Name: "loop-x", Kind: types.NodeFolder, ParentID: types.Ref("y")},
		{ID: "y", Name: "loop-y", Kind: types.NodeFolder, ParentID: types.Ref("x")},
	}

	var out bytes.Buffer
	printTree(&out, vfs.ProjectDetailed(nodes))
	assert.Equal(t, "Projects/\n  plan.md\n(2 unreachable nodes omitted)\n", out.String())
}
