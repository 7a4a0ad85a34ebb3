package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenReadAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.tdms")
	require.NoError(t, os.WriteFile(path, []byte("TDSm0123456789"), 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.EqualValues(t, 14, m.Size())

	buf := make([]byte, 4)
	n, err := m.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "TDSm", string(buf))

	n, err = m.ReadAt(buf, 12)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, n)

	_, err = m.ReadAt(buf, 100)
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.tdms")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	assert.Zero(t, m.Size())
	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.tdms"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
