package tdms

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-tdms/internal/dtype"
	"github.com/robert-malhotra/go-tdms/internal/leadin"
	"github.com/robert-malhotra/go-tdms/internal/tdmstest"
)

func twoSegments() *tdmstest.Builder {
	return tdmstest.New().
		Add(tdmstest.Segment{
			Flags: newList,
			Objects: []tdmstest.Object{
				{Path: "/", Props: []tdmstest.Prop{{Name: "name", Type: dtype.String, Value: "bench"}}},
				{Path: "/'g'"},
				{Path: "/'g'/'c'", Index: tdmstest.Explicit(dtype.DoubleFloat, 2)},
			},
			Raw: tdmstest.Values(le, []float64{0.5, 1.5}),
		}).
		Add(tdmstest.Segment{
			Flags:   metaRaw,
			Objects: []tdmstest.Object{{Path: "/'g'/'c'", Index: tdmstest.Explicit(dtype.DoubleFloat, 1)}},
			Raw:     tdmstest.Values(le, []float64{2.5}),
		})
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpenFromDisk(t *testing.T) {
	path := writeFile(t, "run.tdms", twoSegments().Bytes())

	for _, useMmap := range []bool{false, true} {
		f, err := Open(path, quiet(), WithMmap(useMmap))
		require.NoError(t, err, "mmap=%v", useMmap)

		name, ok := f.Properties().StringValue("name")
		assert.True(t, ok)
		assert.Equal(t, "bench", name)
		got, err := channel(t, f, "g", "c").ReadFloat64()
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, 1.5, 2.5}, got)

		require.NoError(t, f.Close())
		_, err = channel(t, f, "g", "c").ReadFloat64()
		assert.ErrorIs(t, err, ErrClosed)
	}
}

func TestOpenMissing(t *testing.T) {
	f, err := Open(filepath.Join(t.TempDir(), "nope.tdms"), quiet())
	assert.Nil(t, f)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenEmptyFileMapped(t *testing.T) {
	path := writeFile(t, "empty.tdms", nil)
	f, err := Open(path, quiet(), WithMmap(true))
	require.NoError(t, err)
	assert.Empty(t, f.Groups())
	assert.NoError(t, f.Close())
}

func TestIndexFile(t *testing.T) {
	b := twoSegments()
	data, index := b.Bytes(), b.IndexBytes()
	require.Less(t, len(index), len(data))

	f, err := OpenBytes(data, quiet(), WithIndex(bytes.NewReader(index)))
	require.NoError(t, err)
	require.Len(t, f.Segments(), 2)
	got, err := channel(t, f, "g", "c").ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1.5, 2.5}, got)

	dir := t.TempDir()
	dataPath := filepath.Join(dir, "run.tdms")
	indexPath := dataPath + "_index"
	require.NoError(t, os.WriteFile(dataPath, data, 0o644))
	require.NoError(t, os.WriteFile(indexPath, index, 0o644))

	f, err = Open(dataPath, quiet(), WithIndexFile(indexPath), WithMmap(true))
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.Segments(), 2)
	assert.EqualValues(t, 3, channel(t, f, "g", "c").Len())
}

func TestIndexFileMismatch(t *testing.T) {
	data := twoSegments().Bytes()
	stale := tdmstest.New().Add(tdmstest.Segment{
		Flags:   newList,
		Objects: []tdmstest.Object{{Path: "/'g'/'c'", Index: tdmstest.Explicit(dtype.DoubleFloat, 5)}},
		Raw:     make([]byte, 40),
	}).IndexBytes()

	f, err := OpenBytes(data, quiet(), WithIndex(bytes.NewReader(stale)))
	assert.Nil(t, f)
	var cse *CorruptSegmentError
	assert.ErrorAs(t, err, &cse)
}

func TestIndexFileMissing(t *testing.T) {
	path := writeFile(t, "run.tdms", twoSegments().Bytes())
	f, err := Open(path, quiet(), WithIndexFile(path+"_index"))
	assert.Nil(t, f)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenReader(t *testing.T) {
	data := twoSegments().Bytes()
	f, err := OpenReader(bytes.NewReader(data), int64(len(data)), quiet())
	require.NoError(t, err)
	assert.Len(t, f.Groups(), 1)
}

func TestScanFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, vals := range [][]int32{{1}, {2, 3}, {4, 5, 6}} {
		p := filepath.Join(dir, string(rune('a'+i))+".tdms")
		require.NoError(t, os.WriteFile(p, tdmstest.New().Add(simple(vals)).Bytes(), 0o644))
		paths = append(paths, p)
	}

	files, err := ScanFiles(context.Background(), paths, quiet())
	require.NoError(t, err)
	require.Len(t, files, 3)
	for i, f := range files {
		assert.EqualValues(t, i+1, channel(t, f, "g", "c").Len())
		assert.NoError(t, f.Close())
	}

	_, err = ScanFiles(context.Background(), append(paths, filepath.Join(dir, "missing.tdms")), quiet())
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ScanFiles(ctx, paths, quiet())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanFilesKeepsDamagedFiles(t *testing.T) {
	data := tdmstest.New().
		Add(simple([]int32{1, 2})).
		Add(tdmstest.Segment{Flags: leadin.FlagRawData, Raw: tdmstest.Values(le, []int32{3, 4})}).
		Bytes()
	path := writeFile(t, "cut.tdms", data[:len(data)-4])

	files, err := ScanFiles(context.Background(), []string{path}, quiet())
	require.NoError(t, err)
	require.Len(t, files, 1)
	defer files[0].Close()

	var tfe *TruncatedFileError
	assert.ErrorAs(t, files[0].Err(), &tfe)
	assert.EqualValues(t, 3, channel(t, files[0], "g", "c").Len())
}
