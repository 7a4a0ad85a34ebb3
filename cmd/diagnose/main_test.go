package main

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-tdms/internal/dtype"
	"github.com/robert-malhotra/go-tdms/internal/leadin"
	"github.com/robert-malhotra/go-tdms/internal/tdmstest"
)

func TestDump(t *testing.T) {
	data := tdmstest.New().
		Add(tdmstest.Segment{
			Flags: leadin.FlagMetaData | leadin.FlagNewObjList | leadin.FlagRawData,
			Objects: []tdmstest.Object{
				{Path: "/'g'", Props: []tdmstest.Prop{{Name: "unit", Type: dtype.String, Value: "V"}}},
				{Path: "/'g'/'c'", Index: tdmstest.Explicit(dtype.Int16, 2)},
			},
			Raw: tdmstest.Values(binary.LittleEndian, []int16{1, 2}),
		}).
		Add(tdmstest.Segment{Flags: leadin.FlagRawData, Raw: tdmstest.Values(binary.LittleEndian, []int16{3, 4})}).
		Bytes()

	var out bytes.Buffer
	require.NoError(t, dump(&out, bytes.NewReader(data), int64(len(data))))
	s := out.String()
	assert.Contains(t, s, "Segment 0 @ 0:")
	assert.Contains(t, s, `Object "/'g'/'c'"`)
	assert.Contains(t, s, "Index: Explicit I16 x 2")
	assert.Contains(t, s, `Property "unit" (String): V`)
	assert.Contains(t, s, "previous object list reused")
	assert.NotContains(t, s, "ERROR")
}
