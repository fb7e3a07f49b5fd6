package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriteFileCreatesAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	require.NoError(t, atomicWriteFile(path, "hello"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, atomicWriteFile(path, "goodbye"))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "goodbye", string(data))
}
