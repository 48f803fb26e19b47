package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReplicaList_SkipsBlankAndCommentLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "servers.conf")
	content := "# replica list\n\nlocalhost:9001\n  localhost:9002  \n# trailing comment\nlocalhost:9003\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	addrs, err := LoadReplicaList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:9001", "localhost:9002", "localhost:9003"}, addrs)
}

func TestLoadReplicaList_EmptyFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.conf")
	require.NoError(t, os.WriteFile(path, []byte("# only comments\n"), 0o644))

	_, err := LoadReplicaList(path)
	assert.Error(t, err)
}

func TestLoadReplicaList_MissingFileErrors(t *testing.T) {
	_, err := LoadReplicaList(filepath.Join(t.TempDir(), "missing.conf"))
	assert.Error(t, err)
}
